package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName         = "sqlite"
	maxAttempts        = 5
	defaultProjectKey  = "default"
	defaultBusyTimeout = 2 * time.Second

	// Fixed-width so timestamps order correctly as text.
	timestampLayout = "2006-01-02T15:04:05.000000000Z"
)

// Store persists run summaries in a single sqlite file.
type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string, busyTimeout time.Duration) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}
	if busyTimeout <= 0 {
		busyTimeout = defaultBusyTimeout
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)",
		cleanPath, busyTimeout.Milliseconds(),
	)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun stores run and its rule counts in one transaction. A missing ID
// or timestamp is filled in; the stored ID is returned.
func (s *Store) SaveRun(run Run) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run.ProjectKey = normalizeProjectKey(run.ProjectKey)
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}
	if run.Mode == "" {
		run.Mode = "lint"
	}

	err := s.withRetry("save run", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`
INSERT INTO runs (
  id, project_key, ts_utc, mode, duration_ms, files_linted, files_with_problems,
  error_count, warning_count, fixable_count, fixed_files
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			run.ProjectKey,
			run.Timestamp.UTC().Format(timestampLayout),
			run.Mode,
			run.Duration.Milliseconds(),
			run.FilesLinted,
			run.FilesWithProblems,
			run.ErrorCount,
			run.WarningCount,
			run.FixableCount,
			run.FixedFiles,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
		for rule, count := range run.RuleCounts {
			if _, err := tx.Exec(
				`INSERT INTO run_rule_counts (run_id, rule_id, count) VALUES (?, ?, ?)`,
				run.ID, rule, count,
			); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

// LoadRuns returns runs for projectKey at or after since, oldest first.
// A positive limit keeps only the most recent runs.
func (s *Store) LoadRuns(projectKey string, since time.Time, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT
  id, project_key, ts_utc, mode, duration_ms, files_linted, files_with_problems,
  error_count, warning_count, fixable_count, fixed_files
FROM runs
WHERE project_key = ?`
	args := []any{normalizeProjectKey(projectKey)}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(timestampLayout))
	}
	query += " ORDER BY ts_utc DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows *sql.Rows
	err := s.withRetry("load runs", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}

	runs := make([]Run, 0)
	byID := make(map[string]int)
	for rows.Next() {
		var (
			tsRaw      string
			durationMS int64
			run        Run
		)
		if err := rows.Scan(
			&run.ID,
			&run.ProjectKey,
			&tsRaw,
			&run.Mode,
			&durationMS,
			&run.FilesLinted,
			&run.FilesWithProblems,
			&run.ErrorCount,
			&run.WarningCount,
			&run.FixableCount,
			&run.FixedFiles,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("parse run timestamp %q: %w", tsRaw, err)
		}
		run.Timestamp = ts.UTC()
		run.Duration = time.Duration(durationMS) * time.Millisecond
		byID[run.ID] = len(runs)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	rows.Close()

	if err := s.loadRuleCounts(runs, byID); err != nil {
		return nil, err
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) loadRuleCounts(runs []Run, byID map[string]int) error {
	if len(runs) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(runs))
	args := make([]any, 0, len(runs))
	for _, run := range runs {
		placeholders = append(placeholders, "?")
		args = append(args, run.ID)
	}
	query := `SELECT run_id, rule_id, count FROM run_rule_counts WHERE run_id IN (` +
		strings.Join(placeholders, ",") + `)`

	var rows *sql.Rows
	err := s.withRetry("load rule counts", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			runID, ruleID string
			count         int
		)
		if err := rows.Scan(&runID, &ruleID, &count); err != nil {
			return fmt.Errorf("scan rule count row: %w", err)
		}
		idx, ok := byID[runID]
		if !ok {
			continue
		}
		if runs[idx].RuleCounts == nil {
			runs[idx].RuleCounts = make(map[string]int)
		}
		runs[idx].RuleCounts[ruleID] = count
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rule count rows: %w", err)
	}
	return nil
}

// Prune deletes all but the newest keep runs of projectKey. keep <= 0
// disables pruning.
func (s *Store) Prune(projectKey string, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	err := s.withRetry("prune runs", func() error {
		res, err := s.db.Exec(`
DELETE FROM runs
WHERE project_key = ?
  AND id NOT IN (
    SELECT id FROM runs WHERE project_key = ? ORDER BY ts_utc DESC, id DESC LIMIT ?
  )`,
			normalizeProjectKey(projectKey), normalizeProjectKey(projectKey), keep,
		)
		if err != nil {
			return err
		}
		deleted, err = res.RowsAffected()
		return err
	})
	return deleted, err
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func normalizeProjectKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return defaultProjectKey
	}
	return key
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}
