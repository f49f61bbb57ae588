// Package assertion turns extracted values into pass/fail verdicts. All
// comparisons operate on the string representation of the actual value; an
// absent actual (unresolved path, missing column) is a distinct case that
// fails every type except the ones that check for absence.
package assertion

import (
	"fmt"
	"strconv"
	"strings"
)

// Spec describes one assertion attached to a step. PropertyPath locates a
// value in an API response; Column locates a value in a query result.
// Exactly one of the two is meaningful depending on the step kind.
type Spec struct {
	Type          string `yaml:"type" mapstructure:"type" json:"type"`
	PropertyPath  string `yaml:"propertyPath" mapstructure:"propertyPath" json:"propertyPath,omitempty"`
	Column        string `yaml:"column" mapstructure:"column" json:"column,omitempty"`
	ExpectedValue string `yaml:"expectedValue" mapstructure:"expectedValue" json:"expectedValue"`
}

// Locator returns whichever target locator the spec carries.
func (s Spec) Locator() string {
	if s.PropertyPath != "" {
		return s.PropertyPath
	}
	return s.Column
}

// Result is the immutable outcome of one assertion.
type Result struct {
	Type     string `json:"type"`
	Locator  string `json:"locator"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Success  bool   `json:"success"`
	Message  string `json:"message"`
}

// Evaluate applies the comparison named by typ to the actual value. The
// present flag reports whether extraction resolved a value at all; when it
// is false the actual text is ignored for comparison purposes. Evaluation
// never panics: every failure mode, including unknown types and non-numeric
// operands of numeric comparisons, becomes a failing Result.
func Evaluate(typ, locator, actual string, present bool, expected string) Result {
	res := Result{Type: typ, Locator: locator, Expected: expected}
	if present {
		res.Actual = actual
	} else {
		res.Actual = "<absent>"
	}

	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "equals":
		res.Success = present && actual == expected
	case "notequals":
		res.Success = present && actual != expected
	case "contains":
		res.Success = present && strings.Contains(actual, expected)
	case "notcontains":
		// Absence counts as not containing.
		res.Success = !present || !strings.Contains(actual, expected)
	case "startswith":
		res.Success = present && strings.HasPrefix(actual, expected)
	case "endswith":
		res.Success = present && strings.HasSuffix(actual, expected)
	case "greater", "greaterthan":
		return compareNumeric(res, actual, present, expected, func(a, e float64) bool { return a > e })
	case "less", "lessthan":
		return compareNumeric(res, actual, present, expected, func(a, e float64) bool { return a < e })
	case "notempty":
		res.Success = present && actual != ""
	case "empty":
		res.Success = !present || actual == ""
	default:
		res.Success = false
		res.Message = fmt.Sprintf("unknown assertion type %q", typ)
		return res
	}

	res.Message = verdictMessage(res, present)
	return res
}

func compareNumeric(res Result, actual string, present bool, expected string, cmp func(a, e float64) bool) Result {
	if !present {
		res.Success = false
		res.Message = fmt.Sprintf("no value found at %q", res.Locator)
		return res
	}
	a, aerr := strconv.ParseFloat(strings.TrimSpace(actual), 64)
	e, eerr := strconv.ParseFloat(strings.TrimSpace(expected), 64)
	if aerr != nil || eerr != nil {
		res.Success = false
		res.Message = fmt.Sprintf("cannot compare numerically: actual %q, expected %q", actual, expected)
		return res
	}
	res.Success = cmp(a, e)
	res.Message = verdictMessage(res, present)
	return res
}

func verdictMessage(res Result, present bool) string {
	if res.Success {
		return fmt.Sprintf("%s assertion passed for %q", res.Type, res.Locator)
	}
	if !present {
		return fmt.Sprintf("no value found at %q", res.Locator)
	}
	return fmt.Sprintf("%s assertion failed for %q: expected %q, actual %q", res.Type, res.Locator, res.Expected, res.Actual)
}

// Failed builds a failing Result for extraction-level errors so they surface
// in the step's assertion list instead of aborting the step.
func Failed(spec Spec, message string) Result {
	return Result{
		Type:     spec.Type,
		Locator:  spec.Locator(),
		Expected: spec.ExpectedValue,
		Actual:   "<absent>",
		Success:  false,
		Message:  message,
	}
}
