// Package journal records install and configure outcomes in a SQLite
// database so past runs can be listed with `devboot history`.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Kind is the action an entry belongs to.
type Kind string

const (
	KindPackageManager Kind = "package_manager"
	KindApp            Kind = "app"
	KindShell          Kind = "shell"
)

// Entry is one recorded outcome.
type Entry struct {
	ID        int64
	RunID     string
	Kind      Kind
	ItemID    string
	Name      string
	Success   bool
	Detail    string
	Duration  time.Duration
	CreatedAt time.Time
}

// Journal is the SQLite-backed outcome log. It is safe for concurrent use.
type Journal struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens (creating if needed) the journal at path and migrates it.
// ":memory:" opens a private in-memory journal.
func Open(path string) (*Journal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	// One connection: keeps an in-memory database alive and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting pragmas: %w", err)
	}

	j := &Journal{db: db, path: path}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return j, nil
}

// Path returns the database path.
func (j *Journal) Path() string {
	return j.path
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends e. A zero CreatedAt is set to now.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := j.db.ExecContext(ctx, `INSERT INTO outcomes
		(run_id, kind, item_id, name, success, detail, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID,
		string(e.Kind),
		e.ItemID,
		e.Name,
		boolToInt(e.Success),
		e.Detail,
		e.Duration.Milliseconds(),
		e.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording outcome: %w", err)
	}
	return nil
}

// Filter narrows Recent.
type Filter struct {
	Kind       Kind
	FailedOnly bool
}

// Recent returns up to limit entries, newest first. limit <= 0 means all.
func (j *Journal) Recent(ctx context.Context, limit int, f Filter) ([]Entry, error) {
	var b strings.Builder
	b.WriteString(`SELECT id, run_id, kind, item_id, name, success, detail, duration_ms, created_at FROM outcomes`)

	var where []string
	var args []any
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(f.Kind))
	}
	if f.FailedOnly {
		where = append(where, "success = 0")
	}
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY id DESC")
	if limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	rows, err := j.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind, created string
		var success int
		var durMS int64
		if err := rows.Scan(&e.ID, &e.RunID, &kind, &e.ItemID, &e.Name, &success, &e.Detail, &durMS, &created); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		e.Kind = Kind(kind)
		e.Success = success == 1
		e.Duration = time.Duration(durMS) * time.Millisecond
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.CreatedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear deletes every entry and returns how many were removed.
func (j *Journal) Clear(ctx context.Context) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	res, err := j.db.ExecContext(ctx, "DELETE FROM outcomes")
	if err != nil {
		return 0, fmt.Errorf("clearing outcomes: %w", err)
	}
	return res.RowsAffected()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
