// Package ui renders CLI output.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/satishbabariya/rootquery/internal/core/query/domain"
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

// Printer writes styled output.
type Printer struct {
	out   io.Writer
	err   io.Writer
	width int
}

// New creates a printer. A zero width uses the terminal width.
func New(out, errOut io.Writer, width int) *Printer {
	if width <= 0 {
		width = 80
		if w := pterm.GetTerminalWidth(); w > 0 {
			width = w
		}
	}
	return &Printer{out: out, err: errOut, width: width}
}

// Stdio creates a printer on stdout and stderr.
func Stdio() *Printer {
	return New(os.Stdout, os.Stderr, 0)
}

// Success prints a success message.
func (p *Printer) Success(format string, args ...interface{}) {
	fmt.Fprintln(p.out, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Error prints an error message to the error stream.
func (p *Printer) Error(format string, args ...interface{}) {
	fmt.Fprintln(p.err, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// Warning prints a warning message.
func (p *Printer) Warning(format string, args ...interface{}) {
	fmt.Fprintln(p.out, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// Info prints a plain informational line in cyan.
func (p *Printer) Info(format string, args ...interface{}) {
	info := color.New(color.FgCyan)
	info.Fprintf(p.out, "ℹ "+format+"\n", args...)
}

// Statement prints a compiled statement and its parameters in a box.
func (p *Printer) Statement(stmt domain.Statement) {
	lines := []string{TitleStyle.Render(string(stmt.Dialect)), "", stmt.SQL}
	if len(stmt.Params) > 0 {
		lines = append(lines, "")
		for i, v := range stmt.Params {
			lines = append(lines, SecondaryStyle.Render(fmt.Sprintf("%d: %v", i+1, v)))
		}
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 1).
		Width(p.width - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	fmt.Fprintln(p.out, box)
}

// Rows prints rows as a table.
func (p *Printer) Rows(rows []domain.Row) error {
	if len(rows) == 0 {
		p.Warning("no rows")
		return nil
	}
	data := pterm.TableData{rows[0].Columns}
	for _, r := range rows {
		cells := make([]string, len(r.Values))
		for i, v := range r.Values {
			cells[i] = formatValue(v)
		}
		data = append(data, cells)
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(p.out, table)
	fmt.Fprintln(p.out, SecondaryStyle.Render(fmt.Sprintf("%d row(s)", len(rows))))
	return nil
}

// Markdown renders Markdown content.
func (p *Printer) Markdown(content string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(p.width),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(content)
	if err != nil {
		return err
	}
	fmt.Fprint(p.out, out)
	return nil
}

// Section prints a section title with a rule under it.
func (p *Printer) Section(title string) {
	fmt.Fprintln(p.out, lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(SecondaryColor).
		Width(p.width).
		Render(title))
}

func formatValue(v domain.Value) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case string:
		return strings.ReplaceAll(v, "\n", "\\n")
	default:
		return fmt.Sprintf("%v", v)
	}
}
