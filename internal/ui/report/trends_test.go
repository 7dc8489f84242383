package report

import (
	"strings"
	"testing"
	"time"

	"hooklint/internal/data/history"
)

func TestRenderTrendTSV(t *testing.T) {
	report := history.TrendReport{
		ProjectKey: "web",
		Since:      time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC),
		Until:      time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC),
		Window:     "24h0m0s",
		RunCount:   1,
		Points: []history.TrendPoint{
			{
				RunID:        "abc123",
				Timestamp:    time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC),
				Mode:         "lint",
				FilesLinted:  15,
				ErrorCount:   2,
				WarningCount: 1,
				DeltaErrors:  -1,
				AvgErrors:    2.5,
				AvgWarnings:  1,
				WindowHours:  24,
			},
		},
		TopRules: []history.RuleTotal{{RuleID: "enforce-refs-end-with-ref", Count: 2}},
	}

	out, err := RenderTrendTSV(report)
	if err != nil {
		t.Fatalf("render tsv: %v", err)
	}

	body := string(out)
	if !strings.Contains(body, "Timestamp\tRun\tMode") {
		t.Fatalf("missing header in output: %s", body)
	}
	if !strings.Contains(body, "abc123\tlint\t15\t2\t1\t0\t-1\t0\t2.50\t1.00\t24.00") {
		t.Fatalf("missing row values in output: %s", body)
	}
	if !strings.Contains(body, "enforce-refs-end-with-ref\t2\n") {
		t.Fatalf("missing rule totals in output: %s", body)
	}
}

func TestRenderTrendJSON(t *testing.T) {
	report := history.TrendReport{
		ProjectKey: "web",
		RunCount:   2,
	}

	out, err := RenderTrendJSON(report)
	if err != nil {
		t.Fatalf("render json: %v", err)
	}
	if !strings.Contains(string(out), "\"run_count\": 2") {
		t.Fatalf("missing run_count in json: %s", string(out))
	}
}
