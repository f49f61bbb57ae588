// Package report renders a finished run for humans (console) and machines
// (JSON file). It never re-evaluates anything; it only formats the recorded
// results.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/loykin/apicheck/internal/runner"
)

var (
	passMark = color.New(color.FgGreen).Sprint("PASS")
	failMark = color.New(color.FgRed).Sprint("FAIL")
	dim      = color.New(color.FgHiBlack).SprintFunc()
)

// WriteConsole prints a per-step breakdown followed by the run totals.
func WriteConsole(w io.Writer, res *runner.RunResult) {
	_, _ = fmt.Fprintf(w, "\n%s (%d steps)\n", res.Name, res.Total)
	for _, step := range res.Steps {
		mark := passMark
		if !step.Success {
			mark = failMark
		}
		_, _ = fmt.Fprintf(w, "  %s %s %s\n", mark, step.Name, dim(step.Duration.Round(time.Millisecond).String()))
		if step.Error != "" {
			_, _ = fmt.Fprintf(w, "       %s\n", color.RedString(step.Error))
		}
		for _, a := range step.Assertions {
			if a.Success {
				continue
			}
			_, _ = fmt.Fprintf(w, "       %s\n", color.RedString(a.Message))
		}
	}

	summary := color.GreenString("%d passed", res.Passed)
	if res.Failed > 0 {
		summary += ", " + color.RedString("%d failed", res.Failed)
	}
	_, _ = fmt.Fprintf(w, "\n%s of %d steps in %s\n", summary, res.Total, res.Duration.Round(time.Millisecond).String())
}
