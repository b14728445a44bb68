// Package ui renders rmmz-mcp command output for a terminal: the tool catalog as
// markdown through glamour and project reports through lipgloss.
package ui

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/muesli/termenv"
)

// DefaultWordWrap is used when the terminal width is unknown.
const DefaultWordWrap = 80

// DetectGlamourStyle picks "dark" or "light" from the terminal background. The
// GLAMOUR_STYLE environment variable wins; detection that takes longer than
// timeout falls back to "dark".
func DetectGlamourStyle(timeout time.Duration) string {
	defaultStyle := "dark"

	style := os.Getenv("GLAMOUR_STYLE")
	if style != "" && style != "auto" {
		return style
	}

	ch := make(chan string, 1)
	go func() {
		out := termenv.NewOutput(os.Stdout)
		if out.HasDarkBackground() {
			ch <- "dark"
			return
		}
		ch <- "light"
	}()

	select {
	case s := <-ch:
		return s
	case <-time.After(timeout):
		return defaultStyle
	}
}

// RenderMarkdown renders md for the terminal with the given glamour style.
func RenderMarkdown(md, style string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWordWrap
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// CatalogMarkdown documents tools as markdown: one section per tool with a table
// of its arguments, required ones first.
func CatalogMarkdown(title string, tools []mcp.Tool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "%d tools.\n", len(tools))

	for _, tool := range tools {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", tool.Name, tool.Description)

		names := argumentOrder(tool.InputSchema)
		if len(names) == 0 {
			b.WriteString("\nNo arguments.\n")
			continue
		}

		required := make(map[string]bool, len(tool.InputSchema.Required))
		for _, r := range tool.InputSchema.Required {
			required[r] = true
		}

		b.WriteString("\n| Argument | Type | Required | Description |\n|---|---|---|---|\n")
		for _, name := range names {
			typ, desc := propertyInfo(tool.InputSchema.Properties[name])
			req := ""
			if required[name] {
				req = "yes"
			}
			fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n", name, typ, req, escapeCell(desc))
		}
	}
	return b.String()
}

func argumentOrder(schema mcp.ToolInputSchema) []string {
	seen := make(map[string]bool, len(schema.Properties))
	var names []string
	for _, name := range schema.Required {
		if _, ok := schema.Properties[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}

	var optional []string
	for name := range schema.Properties {
		if !seen[name] {
			optional = append(optional, name)
		}
	}
	sort.Strings(optional)
	return append(names, optional...)
}

func propertyInfo(prop any) (string, string) {
	m, ok := prop.(map[string]any)
	if !ok {
		return "", ""
	}
	typ, _ := m["type"].(string)
	desc, _ := m["description"].(string)
	return typ, desc
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
