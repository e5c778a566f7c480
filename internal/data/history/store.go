package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts while watch mode re-indexes.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
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

// SaveRun records a run and returns it with its ID and timestamp filled in.
func (s *Store) SaveRun(run Run) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(run.SDKDir) == "" {
		return run, fmt.Errorf("run sdk_dir must not be empty")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}

	columns := []string{"run_id", "sdk_dir", "output", "ts_utc", "duration_ms", "file_count"}
	args := []any{
		run.ID,
		run.SDKDir,
		run.Output,
		run.Timestamp.UTC().Format(time.RFC3339Nano),
		run.Duration.Milliseconds(),
		run.FileCount,
	}
	for _, kc := range kindColumns {
		columns = append(columns, kc.column)
		args = append(args, run.Counts[kc.kind])
	}
	columns = append(columns, "digest")
	args = append(args, run.Digest)

	query := fmt.Sprintf(
		"INSERT INTO runs (%s) VALUES (%s)",
		strings.Join(columns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "),
	)
	err := s.withRetry("save run", func() error {
		_, err := s.db.Exec(query, args...)
		return err
	})
	return run, err
}

// LoadRuns returns the most recent runs for an SDK directory, newest first.
// A limit of zero or less returns every run.
func (s *Store) LoadRuns(sdkDir string, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	columns := []string{"run_id", "sdk_dir", "output", "ts_utc", "duration_ms", "file_count"}
	for _, kc := range kindColumns {
		columns = append(columns, kc.column)
	}
	columns = append(columns, "digest")

	query := fmt.Sprintf("SELECT %s FROM runs WHERE sdk_dir = ? ORDER BY ts_utc DESC, run_id ASC", strings.Join(columns, ", "))
	args := []any{sdkDir}
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
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var (
			run        Run
			tsRaw      string
			durationMS int64
		)
		counts := make([]int, len(kindColumns))
		dest := []any{&run.ID, &run.SDKDir, &run.Output, &tsRaw, &durationMS, &run.FileCount}
		for i := range counts {
			dest = append(dest, &counts[i])
		}
		dest = append(dest, &run.Digest)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse run timestamp %q: %w", tsRaw, err)
		}
		run.Timestamp = ts.UTC()
		run.Duration = time.Duration(durationMS) * time.Millisecond
		run.Counts = make(map[string]int, len(kindColumns))
		for i, kc := range kindColumns {
			run.Counts[kc.kind] = counts[i]
		}

		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return runs, nil
}

// LatestRun returns the newest run for an SDK directory. ok is false when
// none has been recorded.
func (s *Store) LatestRun(sdkDir string) (Run, bool, error) {
	runs, err := s.LoadRuns(sdkDir, 1)
	if err != nil || len(runs) == 0 {
		return Run{}, false, err
	}
	return runs[0], true, nil
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
