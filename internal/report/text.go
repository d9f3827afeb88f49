// Package report renders validator findings for people and for machines.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/ivlev/explainer/internal/validator"
)

// TextOptions controls the human-readable report.
type TextOptions struct {
	// Fancy selects rounded borders and colored severities.
	Fancy bool
	// Quiet hides scenes without findings.
	Quiet bool
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// WriteText writes one section per scene followed by a summary line.
func WriteText(w io.Writer, r *validator.Report, opts TextOptions) error {
	var b strings.Builder

	for _, sc := range r.Scenes {
		if opts.Quiet && len(sc.Violations) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s (%s)\n", sc.Scene, sceneShape(sc))
		if len(sc.Violations) == 0 {
			b.WriteString("  no issues\n\n")
			continue
		}
		b.WriteString(renderViolations(sc.Violations, opts.Fancy))
		b.WriteString("\n\n")
	}

	b.WriteString(Summary(r))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Summary is the one-line outcome of a validation run.
func Summary(r *validator.Report) string {
	if r.OK() {
		return fmt.Sprintf("All %d scenes passed layout validation.", len(r.Scenes))
	}
	return fmt.Sprintf("Found %d issues in %d scenes (%d errors, %d warnings).",
		r.Count(), failingScenes(r), r.Errors(), r.Warnings())
}

func renderViolations(vs []validator.Violation, fancy bool) string {
	tw := table.NewWriter()
	if fancy {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}
	tw.AppendHeader(table.Row{"Severity", "Step", "Kind", "Elements", "Detail"})

	for _, v := range vs {
		step := "-"
		if s := v.Where().Step; s > 0 {
			step = strconv.Itoa(s)
		}
		tw.AppendRow(table.Row{
			severityCell(v.Level(), fancy),
			step,
			string(v.Kind()),
			strings.Join(v.Subjects(), ", "),
			v.Detail(),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func severityCell(s validator.Severity, fancy bool) string {
	label := strings.ToUpper(s.String())
	if !fancy {
		return label
	}
	if s == validator.SeverityError {
		return text.FgRed.Sprint(label)
	}
	return text.FgYellow.Sprint(label)
}

func sceneShape(sc validator.SceneReport) string {
	if sc.Steps > 1 {
		return fmt.Sprintf("%d elements, %d steps", sc.Elements, sc.Steps)
	}
	return fmt.Sprintf("%d elements", sc.Elements)
}

func failingScenes(r *validator.Report) int {
	n := 0
	for _, sc := range r.Scenes {
		if len(sc.Violations) > 0 {
			n++
		}
	}
	return n
}
