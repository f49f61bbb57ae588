// Package extract resolves locators against step outputs: gjson path
// expressions for JSON response documents, and column names for tabular
// query results. Every extracted value is coerced to its string
// representation before assertion evaluation.
package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/loykin/apicheck/internal/constants"
	"github.com/tidwall/gjson"
)

// Extraction failure conditions on tabular results. Both surface as failing
// assertions, never as step faults.
var (
	ErrColumnNotFound = fmt.Errorf("column not found in result set")
	ErrNoRows         = fmt.Errorf("query returned no rows")
)

// FromDocument resolves a path expression against a JSON document. An empty
// path denotes the whole document stringified. The second return value is
// false when the path resolves to no node.
func FromDocument(body []byte, path string) (string, bool) {
	p := strings.TrimSpace(path)
	if p == "" || p == "$" {
		return strings.TrimSpace(string(body)), true
	}
	// Accept JSONPath-style expressions by trimming the leading "$." root.
	p = strings.TrimPrefix(p, "$.")
	res := gjson.GetBytes(body, p)
	if !res.Exists() {
		return "", false
	}
	return AnyToString(res.Value()), true
}

// FromResult resolves a column name, case-insensitively, against a tabular
// result. The reserved rowCount column is synthetic and resolves before any
// column-existence check. Other columns are read from the first row only;
// multi-row results are deliberately not iterated.
func FromResult(columns []string, rows []map[string]interface{}, column string) (string, error) {
	name := strings.TrimSpace(column)
	if strings.EqualFold(name, constants.RowCountColumn) {
		return strconv.Itoa(len(rows)), nil
	}
	matched := ""
	for _, c := range columns {
		if strings.EqualFold(c, name) {
			matched = c
			break
		}
	}
	if matched == "" {
		return "", fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("%w: cannot read column %q", ErrNoRows, name)
	}
	return AnyToString(rows[0][matched]), nil
}

// AnyToString renders a decoded scalar as the text form assertions compare
// against. Integral floats avoid scientific notation, nil becomes the empty
// string, and composites fall back to their JSON encoding.
func AnyToString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case []byte:
		return string(val)
	case nil:
		return ""
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		b = bytes.TrimSpace(b)
		if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
			return string(b[1 : len(b)-1])
		}
		return string(b)
	}
}
