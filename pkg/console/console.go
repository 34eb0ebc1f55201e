package console

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/githubnext/validata/pkg/report"
	"github.com/mattn/go-isatty"
)

// Position is a location in a document file
type Position struct {
	File   string
	Line   int
	Column int
}

// Diagnostic is one problem found in a document, with optional source context
type Diagnostic struct {
	Position Position
	Type     string // "error", "warning", "info"
	Message  string
	// Context holds source lines starting at ContextStart (1-based).
	Context      []string
	ContextStart int
	Hint         string
}

// Styles for different diagnostic types
var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555"))

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFB86C"))

	infoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BE9FD"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#50FA7B"))

	filePathStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#BD93F9"))

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	contextLineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F8F8F2"))

	highlightStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#FF5555")).
			Foreground(lipgloss.Color("#282A36"))

	hintStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#50FA7B"))

	verboseStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#6272A4"))
)

// isTTY checks if stdout is a terminal
func isTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

// applyStyle conditionally applies styling based on TTY status
func applyStyle(style lipgloss.Style, text string) string {
	if isTTY() {
		return style.Render(text)
	}
	return text
}

// ToRelativePath converts an absolute path to a relative path from the current working directory
func ToRelativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}

	wd, err := os.Getwd()
	if err != nil {
		return path
	}

	relPath, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}

	return relPath
}

// FormatDiagnostic renders a diagnostic in the IDE-parseable
// file:line:column: type: message form, followed by source context.
func FormatDiagnostic(d Diagnostic) string {
	var output strings.Builder

	var typeStyle lipgloss.Style
	var prefix string
	switch d.Type {
	case "warning":
		typeStyle = warningStyle
		prefix = "warning"
	case "info":
		typeStyle = infoStyle
		prefix = "info"
	default:
		typeStyle = errorStyle
		prefix = "error"
	}

	if d.Position.File != "" {
		location := ToRelativePath(d.Position.File) + ":"
		if d.Position.Line > 0 {
			location = fmt.Sprintf("%s:%d:%d:", ToRelativePath(d.Position.File), d.Position.Line, d.Position.Column)
		}
		output.WriteString(applyStyle(filePathStyle, location))
		output.WriteString(" ")
	}

	output.WriteString(applyStyle(typeStyle, prefix+":"))
	output.WriteString(" ")
	output.WriteString(d.Message)
	output.WriteString("\n")

	if len(d.Context) > 0 && d.Position.Line > 0 {
		output.WriteString(renderContext(d))
	}

	if d.Hint != "" {
		output.WriteString(applyStyle(hintStyle, "hint: "))
		output.WriteString(d.Hint)
		output.WriteString("\n")
	}

	return output.String()
}

// renderContext renders source lines with line numbers, highlighting the
// diagnostic's column
func renderContext(d Diagnostic) string {
	var output strings.Builder

	start := d.ContextStart
	if start < 1 {
		start = 1
	}
	lineNumWidth := len(fmt.Sprintf("%d", start+len(d.Context)-1))

	for i, line := range d.Context {
		lineNum := start + i

		output.WriteString(applyStyle(lineNumberStyle, fmt.Sprintf("%*d", lineNumWidth, lineNum)))
		output.WriteString(" | ")

		col := d.Position.Column
		if from, to, ok := columnSpan(line, col); lineNum == d.Position.Line && ok {
			output.WriteString(applyStyle(contextLineStyle, line[:from]))
			output.WriteString(applyStyle(highlightStyle, line[from:to]))
			output.WriteString(applyStyle(contextLineStyle, line[to:]))
		} else {
			output.WriteString(applyStyle(contextLineStyle, line))
		}
		output.WriteString("\n")

		if lineNum == d.Position.Line && col > 0 {
			output.WriteString(strings.Repeat(" ", lineNumWidth+3+col-1))
			output.WriteString(applyStyle(errorStyle, "^"))
			output.WriteString("\n")
		}
	}

	return output.String()
}

// columnSpan returns the byte range of the character at the 1-based column
// col, where columns count characters rather than bytes.
func columnSpan(line string, col int) (int, int, bool) {
	if col < 1 {
		return 0, 0, false
	}
	n := 1
	for i, r := range line {
		if n == col {
			return i, i + utf8.RuneLen(r), true
		}
		n++
	}
	return 0, 0, false
}

// SourceContext returns up to radius lines either side of line, plus the
// number of the first returned line.
func SourceContext(text string, line, radius int) ([]string, int) {
	if line < 1 {
		return nil, 0
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if line > len(lines) {
		line = len(lines)
	}
	start := max(line-radius, 1)
	end := min(line+radius, len(lines))
	return lines[start-1 : end], start
}

// FormatReport renders a validation report for one document. A passing
// report renders as a success message. With context set, located lines show
// the surrounding source text.
func FormatReport(file, text string, r report.Report, context bool) string {
	if r.OK() {
		return FormatSuccessMessage(ToRelativePath(file)+" is valid") + "\n"
	}

	var output strings.Builder
	for _, l := range r.Lines {
		d := Diagnostic{
			Position: Position{File: file, Line: l.Line, Column: l.Column},
			Type:     "error",
			Message:  l.Text,
		}
		if context && l.Line > 0 {
			d.Context, d.ContextStart = SourceContext(text, l.Line, 1)
		}
		if l.Class == report.Unexpected {
			d.Hint = "this is not a schema violation; check the schema and the document format"
		}
		output.WriteString(FormatDiagnostic(d))
	}
	return output.String()
}

// FormatSuccessMessage formats a success message with styling
func FormatSuccessMessage(message string) string {
	return applyStyle(successStyle, "✓ ") + message
}

// FormatInfoMessage formats an informational message
func FormatInfoMessage(message string) string {
	return applyStyle(infoStyle, "ℹ ") + message
}

// FormatWarningMessage formats a warning message
func FormatWarningMessage(message string) string {
	return applyStyle(warningStyle, "⚠ ") + message
}

// FormatErrorMessage formats a simple error message (for stderr output)
func FormatErrorMessage(message string) string {
	return applyStyle(errorStyle, "✗ ") + message
}

// FormatVerboseMessage formats verbose debugging output
func FormatVerboseMessage(message string) string {
	return applyStyle(verboseStyle, "🔍 ") + message
}

// Table rendering styles
var (
	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#BD93F9")).
				Background(lipgloss.Color("#44475A"))

	tableCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2"))

	tableBorderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6272A4"))

	tableSeparatorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#44475A"))
)

// TableConfig represents configuration for table rendering
type TableConfig struct {
	Headers   []string
	Rows      [][]string
	Title     string
	ShowTotal bool
	TotalRow  []string
}

// RenderTable renders a formatted table using lipgloss
func RenderTable(config TableConfig) string {
	if len(config.Headers) == 0 {
		return ""
	}

	var output strings.Builder

	if config.Title != "" {
		titleStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#50FA7B")).
			MarginBottom(1)
		output.WriteString(applyStyle(titleStyle, config.Title))
		output.WriteString("\n")
	}

	colWidths := make([]int, len(config.Headers))
	for i, header := range config.Headers {
		colWidths[i] = len(header)
	}

	allRows := config.Rows
	if config.ShowTotal && len(config.TotalRow) > 0 {
		allRows = append(allRows, config.TotalRow)
	}
	for _, row := range allRows {
		for i, cell := range row {
			if i < len(colWidths) && len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	output.WriteString(renderTableRow(config.Headers, colWidths, tableHeaderStyle))
	output.WriteString("\n")

	separatorChars := make([]string, len(config.Headers))
	for i, width := range colWidths {
		separatorChars[i] = strings.Repeat("-", width)
	}
	output.WriteString(renderTableRow(separatorChars, colWidths, tableSeparatorStyle))
	output.WriteString("\n")

	for _, row := range config.Rows {
		output.WriteString(renderTableRow(row, colWidths, tableCellStyle))
		output.WriteString("\n")
	}

	if config.ShowTotal && len(config.TotalRow) > 0 {
		output.WriteString(renderTableRow(separatorChars, colWidths, tableSeparatorStyle))
		output.WriteString("\n")
		output.WriteString(renderTableRow(config.TotalRow, colWidths, successStyle))
		output.WriteString("\n")
	}

	return output.String()
}

// renderTableRow renders a single table row with proper spacing
func renderTableRow(cells []string, colWidths []int, style lipgloss.Style) string {
	var row strings.Builder

	for i, cell := range cells {
		if i < len(colWidths) {
			paddedCell := fmt.Sprintf("%-*s", colWidths[i], cell)
			row.WriteString(applyStyle(style, paddedCell))

			if i < len(cells)-1 {
				row.WriteString(applyStyle(tableBorderStyle, " | "))
			}
		}
	}

	return row.String()
}
