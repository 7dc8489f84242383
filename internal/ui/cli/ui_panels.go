package cli

import (
	"fmt"
	"strings"

	"hooklint/internal/data/history"
)

func renderHelp(m model) string {
	keys := "Keys: tab panel | / filter | enter details | esc back | t trend overlay | j/k message cursor | o open source | q quit"
	if m.mode == panelProblems {
		keys = "Keys: tab panel | / filter | t trend overlay | o open source | q quit"
	}
	return statusStyle.Render(keys)
}

func renderFilePanel(m model) string {
	summary := m.fileList.View()
	details := renderFileSummary(m)
	if m.hasFileDetails {
		details = renderFileDetails(m)
	}
	return summary + "\n\n" + details
}

func renderFileSummary(m model) string {
	selected, ok := m.selectedFile()
	if !ok {
		return statusStyle.Render("No files with problems.")
	}
	return strings.Join([]string{
		"Selected File",
		fmt.Sprintf("  Path: %s", m.displayPath(selected.Path)),
		fmt.Sprintf("  Errors: %d (fatal %d)", selected.ErrorCount, selected.FatalErrorCount),
		fmt.Sprintf("  Warnings: %d", selected.WarningCount),
		fmt.Sprintf("  Fixable: %d", selected.FixableErrorCount+selected.FixableWarningCount),
		"  Press enter for message drill-down.",
	}, "\n")
}

func renderFileDetails(m model) string {
	f, ok := m.selectedFile()
	if !ok {
		return statusStyle.Render("No files with problems.")
	}
	lines := []string{
		fmt.Sprintf("File Detail: %s", m.displayPath(f.Path)),
		fmt.Sprintf("  Messages (%d):", len(f.Messages)),
	}
	for i, msg := range f.Messages {
		prefix := "   "
		if i == m.selectedMsg {
			prefix = " ->"
		}
		fixable := ""
		if msg.Fix != nil {
			fixable = " [fixable]"
		}
		lines = append(lines, fmt.Sprintf("%s %d:%d %s %s (%s)%s",
			prefix, msg.Line, msg.Column, severityLabel(msg), msg.Message, ruleLabel(msg), fixable))
	}
	lines = append(lines, "  Press esc to exit details, o to jump to highlighted message.")
	return strings.Join(lines, "\n")
}

func renderTrendOverlay(report *history.TrendReport) string {
	if report == nil || len(report.Points) == 0 {
		return statusStyle.Render("Trend overlay unavailable (enable -history to record runs).")
	}
	last := report.Points[len(report.Points)-1]
	lines := []string{
		"Trend Overlay",
		fmt.Sprintf("  Window: %s | Runs: %d", report.Window, report.RunCount),
		fmt.Sprintf("  Errors: %d (%+d, avg %.2f)", last.ErrorCount, last.DeltaErrors, last.AvgErrors),
		fmt.Sprintf("  Warnings: %d (%+d, avg %.2f)", last.WarningCount, last.DeltaWarns, last.AvgWarnings),
	}
	for _, rule := range report.TopRules {
		lines = append(lines, fmt.Sprintf("  %s: %d", rule.RuleID, rule.Count))
	}
	return strings.Join(lines, "\n")
}
