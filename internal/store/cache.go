// Package store provides a SQLite-backed cache for full-parse save details.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/savegames/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache memoises save details keyed by game, folder and save id.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Entry is a cached full-parse result and the file stats it was taken at.
type Entry struct {
	MtimeNs   int64
	SizeBytes int64
	Details   model.Details
}

// Matches reports whether s still has the size and date the entry was
// cached with.
func (e Entry) Matches(s model.Save) bool {
	return e.SizeBytes == s.Size && e.MtimeNs == s.Date.UnixNano()
}

// Lookup returns save id -> Entry for every cached save in folder.
func (c *Cache) Lookup(gameID, folder string) (map[string]Entry, error) {
	rows, err := c.db.Query(`SELECT save_id, mtime_ns, size_bytes, name, summary, image, extra
		FROM save_details WHERE game_id = ? AND folder = ?`, gameID, folder)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]Entry)
	for rows.Next() {
		var (
			id                         string
			e                          Entry
			name, summary, image, extr sql.NullString
		)
		if err := rows.Scan(&id, &e.MtimeNs, &e.SizeBytes, &name, &summary, &image, &extr); err != nil {
			return nil, err
		}
		e.Details = model.Details{Name: name.String, Summary: summary.String, Image: image.String}
		if extr.Valid && extr.String != "" {
			if err := json.Unmarshal([]byte(extr.String), &e.Details.Extra); err != nil {
				continue // unreadable row, treat as uncached
			}
		}
		result[id] = e
	}
	return result, rows.Err()
}

// PutAll stores the details of every successfully parsed save in one
// transaction. Saves with errors or without details are skipped.
func (c *Cache) PutAll(gameID, folder string, saves []model.Save) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, s := range saves {
		if s.Failed() || s.Details == nil {
			continue
		}
		var extra string
		if len(s.Details.Extra) > 0 {
			b, err := json.Marshal(s.Details.Extra)
			if err != nil {
				return fmt.Errorf("encoding extra for %s: %w", s.ID, err)
			}
			extra = string(b)
		}

		_, err = tx.Exec(`INSERT OR REPLACE INTO save_details
			(game_id, folder, save_id, mtime_ns, size_bytes, name, summary, image, extra, parsed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			gameID, folder, s.ID, s.Date.UnixNano(), s.Size,
			s.Details.Name, s.Details.Summary, s.Details.Image, extra, now,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Forget removes cached details for the given save ids.
func (c *Cache) Forget(gameID, folder string, ids []string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range ids {
		if _, err := tx.Exec("DELETE FROM save_details WHERE game_id = ? AND folder = ? AND save_id = ?",
			gameID, folder, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Count returns the number of cached saves.
func (c *Cache) Count() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM save_details").Scan(&count)
	return count, err
}
