package formats

import (
	"fmt"
	"strconv"
	"strings"

	"hooklint/internal/core/ports"
	"hooklint/internal/engine/lint"

	"github.com/charmbracelet/lipgloss"
)

var (
	pathStyle    = lipgloss.NewStyle().Underline(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
	summaryError = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")).Bold(true)
	summaryWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24")).Bold(true)
)

// Stylish prints problems grouped by file with a summary footer. A clean
// run prints nothing.
func Stylish(result ports.RunResult, opts Options) ([]byte, error) {
	paint := func(s lipgloss.Style, text string) string {
		if !opts.Color {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	total := 0
	for _, f := range result.Files {
		if len(f.Messages) == 0 {
			continue
		}
		total += len(f.Messages)

		lineWidth, colWidth, sevWidth, msgWidth := 0, 0, 0, 0
		for _, m := range f.Messages {
			lineWidth = max(lineWidth, len(strconv.Itoa(m.Line)))
			colWidth = max(colWidth, len(strconv.Itoa(m.Column)))
			sevWidth = max(sevWidth, len(severityLabel(m)))
			msgWidth = max(msgWidth, len(messageText(m)))
		}

		b.WriteString("\n")
		b.WriteString(paint(pathStyle, f.Path))
		b.WriteString("\n")
		for _, m := range f.Messages {
			loc := fmt.Sprintf("%*d:%-*d", lineWidth, m.Line, colWidth, m.Column)
			sev := fmt.Sprintf("%-*s", sevWidth, severityLabel(m))
			if m.Severity == lint.SeverityError {
				sev = paint(errorStyle, sev)
			} else {
				sev = paint(warningStyle, sev)
			}
			line := fmt.Sprintf("  %s  %s  %-*s  %s", paint(dimStyle, loc), sev, msgWidth, messageText(m), paint(dimStyle, m.RuleID))
			b.WriteString(strings.TrimRight(line, " "))
			b.WriteString("\n")
		}
	}

	if total == 0 {
		return nil, nil
	}

	style := summaryWarn
	if result.ErrorCount > 0 {
		style = summaryError
	}
	summary := fmt.Sprintf("✖ %d %s (%d %s, %d %s)",
		total, pluralize("problem", total),
		result.ErrorCount, pluralize("error", result.ErrorCount),
		result.WarningCount, pluralize("warning", result.WarningCount),
	)
	b.WriteString("\n")
	b.WriteString(paint(style, summary))
	b.WriteString("\n")

	if result.FixableErrorCount > 0 || result.FixableWarningCount > 0 {
		fixable := fmt.Sprintf("  %d %s and %d %s potentially fixable with the `-fix` option.",
			result.FixableErrorCount, pluralize("error", result.FixableErrorCount),
			result.FixableWarningCount, pluralize("warning", result.FixableWarningCount),
		)
		b.WriteString(paint(style, fixable))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return []byte(b.String()), nil
}

func severityLabel(m lint.Message) string {
	if m.Severity == lint.SeverityError {
		return "error"
	}
	return "warning"
}

func messageText(m lint.Message) string {
	return strings.TrimSuffix(m.Message, ".")
}
