package infrastructure

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// OpenDB opens the durable tier, a file-backed sqlite database standing in
// for the browser's local database. Path resolution order: explicit argument,
// TALENTFLOW_DB_PATH, then ./data/talentflow.db.
func OpenDB(path string) (*sql.DB, error) {
	if path == "" {
		path = os.Getenv("TALENTFLOW_DB_PATH")
	}
	if path == "" {
		path = filepath.Join("data", "talentflow.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Single writer; the store serializes access anyway.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
