package migration

import (
	"context"
	"database/sql"
	"log/slog"
)

type Migration struct {
	Name string
	Up   func(ctx context.Context, db *sql.DB) error
}

// RunMigrations executes all schema migrations for the durable tier on
// startup. Each table holds one JSON document per entity, keyed by id, the
// same shape the browser-local object stores had.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	migrations := []Migration{
		{Name: "create_jobs", Up: createDocTable("jobs")},
		{Name: "create_candidates", Up: createDocTable("candidates")},
		{Name: "create_assessments", Up: createDocTable("assessments")},
	}

	for _, m := range migrations {
		if err := m.Up(ctx, db); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Debug("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed", "count", len(migrations))
	return nil
}

func createDocTable(name string) func(ctx context.Context, db *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+name+` (
	id TEXT PRIMARY KEY,
	doc TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`)
		return err
	}
}
