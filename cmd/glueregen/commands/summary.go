package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"git.home.luguber.info/inful/glueregen/internal/foundation/errors"
	"git.home.luguber.info/inful/glueregen/internal/pipeline"
)

// printSummary writes a per-step overview of res followed by any remediation
// hints and the next steps.
func printSummary(w io.Writer, res *pipeline.RunResult) {
	if res == nil {
		return
	}
	table := newTable(w, "STEP", "STATUS", "DETAIL")
	for _, s := range res.Steps {
		table.Append([]string{s.Name, stepLabel(s, res.DryRun), stepDetail(s)})
	}
	table.Render()

	for _, s := range res.Warnings() {
		if cmd := remediation(s.Err); cmd != "" {
			_, _ = fmt.Fprintf(w, "\nWarning: %s failed\nYou can manually run: %s\n", s.Name, cmd)
		}
	}

	_, _ = fmt.Fprintf(w, "\n%s in %s\n", res.Terminal(), res.Duration.Round(time.Millisecond))
	if res.State == pipeline.StateCompleted && !res.DryRun {
		_, _ = fmt.Fprint(w, "\nNext steps:\n"+
			"  1. Review the changes: git status\n"+
			"  2. Test the generated bindings\n"+
			"  3. Commit your changes if everything looks good\n")
	}
}

// newTable returns a borderless, left aligned table in the style of the
// other list commands.
func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("  ")
	return table
}

func stepLabel(s pipeline.StepResult, dryRun bool) string {
	if s.Status != pipeline.StatusSucceeded || s.Counts == nil {
		return string(s.Status)
	}
	switch {
	case s.Changed && dryRun:
		return "out-of-date"
	case s.Changed:
		return "updated"
	default:
		return "unchanged"
	}
}

func stepDetail(s pipeline.StepResult) string {
	if s.Counts != nil {
		return fmt.Sprintf("%d files", s.FilesIncluded)
	}
	if s.Err != nil {
		if ce, ok := errors.AsClassified(s.Err); ok {
			return ce.Message()
		}
		return strings.SplitN(s.Err.Error(), "\n", 2)[0]
	}
	return ""
}

func remediation(err error) string {
	ce, ok := errors.AsClassified(err)
	if !ok {
		return ""
	}
	cmd, _ := ce.Remediation()
	return cmd
}
