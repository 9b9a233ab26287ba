package analytics

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Buffer mirrors the pending counters to a local sqlite file so a
// crash between flushes loses no events.
type Buffer struct {
	db *sql.DB
}

func OpenBuffer(path string) (*Buffer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS analytics_buffer (
			event TEXT PRIMARY KEY,
			count INTEGER NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, err
	}
	return &Buffer{db: db}, nil
}

// Load returns the counters left behind by a previous run.
func (b *Buffer) Load() (map[string]int64, error) {
	rows, err := b.db.Query("SELECT event, count FROM analytics_buffer")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var event string
		var count int64
		if err := rows.Scan(&event, &count); err != nil {
			return nil, err
		}
		counts[event] = count
	}
	return counts, rows.Err()
}

// Upsert stores the absolute pending count for one event.
func (b *Buffer) Upsert(event string, count int64) error {
	_, err := b.db.Exec(`
		INSERT INTO analytics_buffer (event, count) VALUES (?, ?)
		ON CONFLICT(event) DO UPDATE SET count = excluded.count
	`, event, count)
	return err
}

// Replace rewrites the whole mirror. A nil map empties it.
func (b *Buffer) Replace(counts map[string]int64) error {
	tx, err := b.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM analytics_buffer"); err != nil {
		tx.Rollback()
		return err
	}
	for event, count := range counts {
		if _, err := tx.Exec("INSERT INTO analytics_buffer (event, count) VALUES (?, ?)", event, count); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (b *Buffer) Close() error {
	return b.db.Close()
}
