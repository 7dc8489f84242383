package history

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// BuildTrendReport turns runs (oldest first) into per-run deltas and
// moving averages over window.
func BuildTrendReport(projectKey string, runs []Run, window time.Duration) (TrendReport, error) {
	if len(runs) == 0 {
		return TrendReport{}, fmt.Errorf("no runs recorded for project %q", projectKey)
	}

	totals := make(map[string]int)
	points := make([]TrendPoint, 0, len(runs))
	for i, current := range runs {
		point := TrendPoint{
			RunID:        current.ID,
			Timestamp:    current.Timestamp,
			Mode:         current.Mode,
			FilesLinted:  current.FilesLinted,
			ErrorCount:   current.ErrorCount,
			WarningCount: current.WarningCount,
			FixedFiles:   current.FixedFiles,
		}
		if i > 0 {
			prev := runs[i-1]
			point.DeltaErrors = current.ErrorCount - prev.ErrorCount
			point.DeltaWarns = current.WarningCount - prev.WarningCount
		}

		avgErrors, avgWarnings := movingAverages(runs, i, window)
		point.AvgErrors = round2(avgErrors)
		point.AvgWarnings = round2(avgWarnings)
		point.WindowHours = round2(window.Hours())
		points = append(points, point)

		for rule, n := range current.RuleCounts {
			totals[rule] += n
		}
	}

	top := make([]RuleTotal, 0, len(totals))
	for rule, n := range totals {
		top = append(top, RuleTotal{RuleID: rule, Count: n})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].RuleID < top[j].RuleID
	})

	return TrendReport{
		ProjectKey: projectKey,
		Since:      runs[0].Timestamp,
		Until:      runs[len(runs)-1].Timestamp,
		Window:     window.String(),
		RunCount:   len(points),
		Points:     points,
		TopRules:   top,
	}, nil
}

func movingAverages(runs []Run, index int, window time.Duration) (float64, float64) {
	if window <= 0 {
		return float64(runs[index].ErrorCount), float64(runs[index].WarningCount)
	}

	cutoff := runs[index].Timestamp.Add(-window)
	var errorsTotal, warningsTotal, count int
	for i := index; i >= 0; i-- {
		if runs[i].Timestamp.Before(cutoff) {
			break
		}
		errorsTotal += runs[i].ErrorCount
		warningsTotal += runs[i].WarningCount
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return float64(errorsTotal) / float64(count), float64(warningsTotal) / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
