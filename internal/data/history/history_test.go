package history

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path, 0)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestStore_OpenInitializesSchemaAndSaveLoad(t *testing.T) {
	store, _ := openTestStore(t)

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	first := Run{
		ProjectKey:   "project-a",
		Timestamp:    base,
		FilesLinted:  5,
		ErrorCount:   3,
		WarningCount: 1,
		RuleCounts:   map[string]int{"enforce-refs-end-with-ref": 3},
	}
	second := Run{
		ProjectKey:        "project-a",
		Timestamp:         base.Add(2 * time.Hour),
		Mode:              "fix",
		Duration:          1500 * time.Millisecond,
		FilesLinted:       6,
		FilesWithProblems: 1,
		ErrorCount:        1,
		FixableCount:      1,
		FixedFiles:        2,
	}

	firstID, err := store.SaveRun(first)
	if err != nil {
		t.Fatalf("save first run: %v", err)
	}
	if firstID == "" {
		t.Fatal("expected generated run id")
	}
	if _, err := store.SaveRun(second); err != nil {
		t.Fatalf("save second run: %v", err)
	}

	got, err := store.LoadRuns("project-a", base.Add(1*time.Hour), 0)
	if err != nil {
		t.Fatalf("load runs: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 run after since filter, got %d", len(got))
	}
	if got[0].Mode != "fix" || got[0].FixedFiles != 2 || got[0].Duration != 1500*time.Millisecond {
		t.Fatalf("expected run fields to roundtrip, got %+v", got[0])
	}

	all, err := store.LoadRuns("project-a", time.Time{}, 0)
	if err != nil {
		t.Fatalf("load all runs: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(all))
	}
	if all[0].ID != firstID || all[0].Mode != "lint" {
		t.Fatalf("expected oldest run first with default mode, got %+v", all[0])
	}
	if all[0].RuleCounts["enforce-refs-end-with-ref"] != 3 {
		t.Fatalf("expected rule counts to roundtrip, got %+v", all[0].RuleCounts)
	}
}

func TestStore_SaveRunRejectsDuplicateID(t *testing.T) {
	store, _ := openTestStore(t)

	run := Run{ID: "fixed-id", ProjectKey: "p"}
	if _, err := store.SaveRun(run); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveRun(run); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestStore_LoadRunsLimitKeepsNewest(t *testing.T) {
	store, _ := openTestStore(t)

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if _, err := store.SaveRun(Run{ProjectKey: "p", Timestamp: base.Add(time.Duration(i) * time.Minute), ErrorCount: i}); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.LoadRuns("p", time.Time{}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ErrorCount != 3 || runs[1].ErrorCount != 4 {
		t.Fatalf("expected the two newest runs oldest first, got %+v", runs)
	}
}

func TestStore_PruneKeepsNewestAndCascades(t *testing.T) {
	store, _ := openTestStore(t)

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		run := Run{
			ProjectKey: "p",
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			RuleCounts: map[string]int{"r": i + 1},
		}
		if _, err := store.SaveRun(run); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.SaveRun(Run{ProjectKey: "other", Timestamp: base}); err != nil {
		t.Fatal(err)
	}

	deleted, err := store.Prune("p", 1)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 3 {
		t.Fatalf("expected 3 deleted runs, got %d", deleted)
	}

	var orphans int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM run_rule_counts WHERE run_id NOT IN (SELECT id FROM runs)`).Scan(&orphans); err != nil {
		t.Fatal(err)
	}
	if orphans != 0 {
		t.Fatalf("expected rule counts to cascade, found %d orphans", orphans)
	}

	other, err := store.LoadRuns("other", time.Time{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 1 {
		t.Fatalf("expected other project untouched, got %d runs", len(other))
	}

	if n, err := store.Prune("p", 0); err != nil || n != 0 {
		t.Fatalf("expected keep=0 to disable pruning, got %d, %v", n, err)
	}
}

func TestStore_OpenRejectsDirectoryPath(t *testing.T) {
	tmpDir := t.TempDir()
	_, err := Open(tmpDir, 0)
	if err == nil {
		t.Fatal("expected open error for directory path")
	}
	if !strings.Contains(err.Error(), "is a directory") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStore_OpenCorruptDBPath(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "history.db")
	if err := os.WriteFile(path, []byte("this is not sqlite"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path, 0)
	if err == nil {
		t.Fatal("expected sqlite open error")
	}
	lower := strings.ToLower(err.Error())
	if !strings.Contains(lower, "not a database") && !strings.Contains(lower, "schema") {
		t.Fatalf("expected schema/open error, got: %v", err)
	}
}

func TestEnsureSchema_DetectsNewerVersionDrift(t *testing.T) {
	store, path := openTestStore(t)

	_, err := store.db.Exec(`INSERT OR REPLACE INTO schema_migrations(version) VALUES (?)`, SchemaVersion+1)
	if err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open(driverName, "file:"+path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	err = EnsureSchema(db)
	if err == nil {
		t.Fatal("expected drift error")
	}
	if !strings.Contains(err.Error(), "newer than supported") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildTrendReport(t *testing.T) {
	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	runs := []Run{
		{ID: "a", Timestamp: base, ErrorCount: 4, WarningCount: 2, RuleCounts: map[string]int{"x": 1, "y": 3}},
		{ID: "b", Timestamp: base.Add(2 * time.Hour), ErrorCount: 2, WarningCount: 4, RuleCounts: map[string]int{"x": 2}},
		{ID: "c", Timestamp: base.Add(25 * time.Hour), ErrorCount: 5, WarningCount: 1},
	}

	report, err := BuildTrendReport("project-a", runs, 24*time.Hour)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.RunCount != 3 {
		t.Fatalf("expected run_count=3, got %d", report.RunCount)
	}
	if report.Points[1].DeltaErrors != -2 || report.Points[1].DeltaWarns != 2 {
		t.Fatalf("unexpected deltas: %+v", report.Points[1])
	}
	if report.Points[1].AvgErrors != 3 {
		t.Fatalf("expected avg_errors=3, got %v", report.Points[1].AvgErrors)
	}
	// The first run falls outside the 24h window of the last one.
	if report.Points[2].AvgErrors != 3.5 {
		t.Fatalf("expected avg_errors=3.5, got %v", report.Points[2].AvgErrors)
	}
	if len(report.TopRules) != 2 || report.TopRules[0].RuleID != "x" || report.TopRules[0].Count != 3 {
		t.Fatalf("unexpected top rules: %+v", report.TopRules)
	}
}

func TestBuildTrendReport_Empty(t *testing.T) {
	if _, err := BuildTrendReport("p", nil, time.Hour); err == nil {
		t.Fatal("expected error for empty run list")
	}
}

func TestIsCorruptError(t *testing.T) {
	if !IsCorruptError(errors.New("database disk image is malformed")) {
		t.Fatal("expected malformed sqlite message to be treated as corrupt")
	}
}

func TestStore_LoadRuns_ProjectIsolation(t *testing.T) {
	store, _ := openTestStore(t)

	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)
	if _, err := store.SaveRun(Run{ProjectKey: "project-a", Timestamp: base, FilesLinted: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveRun(Run{ProjectKey: "project-b", Timestamp: base, FilesLinted: 2}); err != nil {
		t.Fatal(err)
	}

	aRows, err := store.LoadRuns("project-a", time.Time{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(aRows) != 1 || aRows[0].FilesLinted != 1 {
		t.Fatalf("unexpected project-a rows: %+v", aRows)
	}

	bRows, err := store.LoadRuns("project-b", time.Time{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(bRows) != 1 || bRows[0].FilesLinted != 2 {
		t.Fatalf("unexpected project-b rows: %+v", bRows)
	}
}
