package ui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"

	"rmmz-mcp/internal/project"
)

// MaxErrorWidth bounds the error text shown per file in a report.
const MaxErrorWidth = 100

// RenderReport formats an audit report: one line per data file, then a summary.
func RenderReport(report project.Report) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Project "+report.Root) + "\n")

	for _, f := range report.Files {
		name := NameStyle.Render(f.Name)
		if !f.OK() {
			msg := truncate.StringWithTail(f.Err.Error(), MaxErrorWidth, "...")
			fmt.Fprintf(&b, "%s %s %s\n", ErrorStyle.Render("FAIL"), name, msg)
			continue
		}
		fmt.Fprintf(&b, "%s %s %s\n", SuccessStyle.Render(" OK "), name, SubtitleStyle.Render(describe(f)))
	}

	failed := len(report.Failed())
	summary := fmt.Sprintf("%d files checked, %d failed", len(report.Files), failed)
	if failed > 0 {
		b.WriteString(HelpStyle.Render(ErrorStyle.Render(summary)) + "\n")
	} else {
		b.WriteString(HelpStyle.Render(summary) + "\n")
	}
	return b.String()
}

func describe(f project.FileReport) string {
	switch f.Shape {
	case project.ShapeCollection:
		return fmt.Sprintf("%d records in %d slots", f.Entries, f.Slots)
	case project.ShapeDocument:
		return fmt.Sprintf("document with %d keys", f.Entries)
	default:
		return ""
	}
}
