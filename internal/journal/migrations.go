package journal

import "fmt"

func (j *Journal) migrate() error {
	if _, err := j.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	var version int
	if err := j.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version); err != nil {
		return fmt.Errorf("getting schema version: %w", err)
	}

	migrations := []func(*Journal) error{
		migrateV1,
	}

	for i := version; i < len(migrations); i++ {
		if err := migrations[i](j); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := j.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", i+1); err != nil {
			return fmt.Errorf("recording migration %d: %w", i+1, err)
		}
	}
	return nil
}

func migrateV1(j *Journal) error {
	statements := []string{
		`CREATE TABLE outcomes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			item_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			success INTEGER NOT NULL,
			detail TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_outcomes_run ON outcomes(run_id)`,
		`CREATE INDEX idx_outcomes_kind ON outcomes(kind)`,
	}
	for _, stmt := range statements {
		if _, err := j.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:30], err)
		}
	}
	return nil
}
