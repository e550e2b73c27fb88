// Package settings is the durable key-value store behind the printer
// session: last-known printer, paper width, drawer behavior. SQLite keeps
// it across app restarts without asking the POS backend for anything.
package settings

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

//go:embed schema.sql
var schema string

type Repository struct {
	db *sql.DB
}

func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("Couldn't open settings database:\n%w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("Couldn't initialise settings database:\n%w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Get returns "" without error for a missing key.
func (r *Repository) Get(key string) (string, error) {
	row := r.db.QueryRow(`SELECT value FROM setting WHERE key = ?`, key)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("Failed to read setting %q:\n%w", key, err)
	}
	return value, nil
}

func (r *Repository) Put(key, value string) error {
	_, err := r.db.Exec(`
    INSERT INTO setting (key, value) VALUES (?, ?)
    ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("Failed to write setting %q:\n%w", key, err)
	}
	return nil
}

func (r *Repository) Delete(key string) error {
	if _, err := r.db.Exec(`DELETE FROM setting WHERE key = ?`, key); err != nil {
		return fmt.Errorf("Failed to delete setting %q:\n%w", key, err)
	}
	return nil
}
