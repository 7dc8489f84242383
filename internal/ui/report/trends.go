package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"hooklint/internal/data/history"
)

func RenderTrendTSV(report history.TrendReport) ([]byte, error) {
	var buf strings.Builder

	buf.WriteString("Timestamp\tRun\tMode\tFiles\tErrors\tWarnings\tFixedFiles\tDeltaErrors\tDeltaWarnings\tAvgErrors\tAvgWarnings\tWindowHours\n")
	for _, point := range report.Points {
		buf.WriteString(fmt.Sprintf(
			"%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%.2f\t%.2f\t%.2f\n",
			point.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			point.RunID,
			point.Mode,
			point.FilesLinted,
			point.ErrorCount,
			point.WarningCount,
			point.FixedFiles,
			point.DeltaErrors,
			point.DeltaWarns,
			point.AvgErrors,
			point.AvgWarnings,
			point.WindowHours,
		))
	}

	if len(report.TopRules) > 0 {
		buf.WriteString("\nRule\tCount\n")
		for _, rule := range report.TopRules {
			buf.WriteString(fmt.Sprintf("%s\t%d\n", rule.RuleID, rule.Count))
		}
	}

	return []byte(buf.String()), nil
}

func RenderTrendJSON(report history.TrendReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
