// Package history persists one row per download attempt in an embedded
// SQLite database. Every operation opens its own short-lived connection so
// no handle is ever shared across goroutines; the store is a best-effort
// audit trail and its failures must never abort a running job.
package history

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vidfetch/vidfetch/internal/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS downloads (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    url           TEXT NOT NULL DEFAULT '',
    title         TEXT NOT NULL DEFAULT '',
    format        TEXT NOT NULL DEFAULT '',
    quality       TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL DEFAULT '',
    download_date TEXT NOT NULL DEFAULT '',
    file_size     INTEGER NOT NULL DEFAULT 0,
    duration      INTEGER NOT NULL DEFAULT 0,
    platform      TEXT NOT NULL DEFAULT '',
    file_path     TEXT NOT NULL DEFAULT ''
);
`

// DefaultQueryLimit caps history reads, matching the browsing dialog.
const DefaultQueryLimit = 1000

// Filter narrows a Query. Zero value returns the newest DefaultQueryLimit
// records.
type Filter struct {
	Title  string // substring match on title
	URL    string // substring match on url
	Status model.RecordStatus
	Limit  int
}

// Store reads and writes the downloads table at a fixed path.
type Store struct {
	path string
}

// NewStore returns a store for the database file at path. The file is
// created lazily on the first write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("opening history database at %s: %w", s.path, err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the downloads table if absent. It is idempotent and
// safe to call from concurrent short-lived connections.
func (s *Store) EnsureSchema() error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("creating history schema: %w", err)
	}
	return nil
}

// Insert writes one record on a fresh connection. Callers treat failures as
// non-fatal and log them.
func (s *Store) Insert(rec model.Record) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("creating history schema: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO downloads (url, title, format, quality, status, download_date, file_size, duration, platform, file_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.URL, rec.Title, rec.Format, rec.Quality, string(rec.Status),
		rec.DownloadDate, rec.FileSize, rec.DurationSec, rec.Platform, rec.FilePath,
	)
	if err != nil {
		return fmt.Errorf("inserting history record: %w", err)
	}
	return nil
}

// Query returns records matching the filter, newest first. A missing or
// empty store yields an empty result, not an error.
func (s *Store) Query(f Filter) ([]model.Record, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil, nil
	}

	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("creating history schema: %w", err)
	}

	query := `
		SELECT id, url, title, format, quality, status, download_date, file_size, duration, platform, file_path
		FROM downloads`
	var conds []string
	var args []any
	if f.Title != "" {
		conds = append(conds, "title LIKE ?")
		args = append(args, "%"+f.Title+"%")
	}
	if f.URL != "" {
		conds = append(conds, "url LIKE ?")
		args = append(args, "%"+f.URL+"%")
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	query += " ORDER BY download_date DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var records []model.Record
	for rows.Next() {
		var rec model.Record
		var status string
		if err := rows.Scan(&rec.ID, &rec.URL, &rec.Title, &rec.Format, &rec.Quality,
			&status, &rec.DownloadDate, &rec.FileSize, &rec.DurationSec, &rec.Platform, &rec.FilePath); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		rec.Status = model.RecordStatus(status)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Delete removes records by id.
func (s *Store) Delete(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	_, err = db.Exec("DELETE FROM downloads WHERE id IN ("+strings.Join(placeholders, ",")+")", args...)
	if err != nil {
		return fmt.Errorf("deleting history records: %w", err)
	}
	return nil
}

// ClearAll removes every record.
func (s *Store) ClearAll() error {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("creating history schema: %w", err)
	}
	if _, err := db.Exec("DELETE FROM downloads"); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// ExportCSV writes records as CSV with a header row.
func ExportCSV(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "url", "title", "format", "quality", "status", "download_date", "file_size", "duration", "platform", "file_path"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			strconv.FormatInt(rec.ID, 10),
			rec.URL,
			rec.Title,
			rec.Format,
			rec.Quality,
			string(rec.Status),
			rec.DownloadDate,
			strconv.FormatInt(rec.FileSize, 10),
			strconv.FormatInt(rec.DurationSec, 10),
			rec.Platform,
			rec.FilePath,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
