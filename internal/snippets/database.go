package snippets

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound indicates no snippet with the requested qualified name exists.
var ErrNotFound = errors.New("snippet not found")

// Record is one stored snippet location. The database stores locations only;
// source text is read from disk on retrieval so stored snippets never go
// stale between runs.
type Record struct {
	QualifiedName string
	FilePath      string
	Kind          string
	StartLine     int
	EndLine       int
	CharCount     int
}

// Stats summarizes the snippet database contents.
type Stats struct {
	Total  int
	ByKind map[string]int
	Files  int
}

const createSnippetsTable = `
CREATE TABLE IF NOT EXISTS snippets (
    qualified_name TEXT PRIMARY KEY,
    file_path      TEXT NOT NULL,
    kind           TEXT NOT NULL,
    start_line     INTEGER NOT NULL,
    end_line       INTEGER NOT NULL,
    char_count     INTEGER NOT NULL,
    updated_at     TEXT NOT NULL
)`

// Database stores snippet locations in SQLite and serves snippet text by
// reading the recorded line range back from disk through a small file cache.
type Database struct {
	db    *sql.DB
	files *fileCache

	// Serializes writers. Concurrent parse workers insert as they finish;
	// last write wins on qualified-name collisions.
	mu sync.Mutex
}

// Open opens (or creates) a snippet database at path. Use ":memory:" for an
// ephemeral per-run database.
func Open(path string, cacheCapacity int) (*Database, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snippet database: %w", err)
	}
	// A second pooled connection would see a separate ":memory:" database,
	// and sqlite allows only one writer regardless.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createSnippetsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create snippets table: %w", err)
	}

	files, err := newFileCache(cacheCapacity)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Database{db: db, files: files}, nil
}

// Close closes the underlying database and file cache.
func (d *Database) Close() error {
	d.files.close()
	return d.db.Close()
}

// Put inserts or replaces one snippet record.
func (d *Database) Put(rec *Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, err := sq.Insert("snippets").
		Columns("qualified_name", "file_path", "kind", "start_line", "end_line", "char_count", "updated_at").
		Values(
			rec.QualifiedName,
			rec.FilePath,
			rec.Kind,
			rec.StartLine,
			rec.EndLine,
			rec.CharCount,
			time.Now().UTC().Format(time.RFC3339),
		).
		Options("OR REPLACE").
		RunWith(d.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to store snippet %s: %w", rec.QualifiedName, err)
	}
	return nil
}

// Reset clears all stored snippets. Called at the start of a run so the
// database reflects exactly the current selection.
func (d *Database) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := sq.Delete("snippets").RunWith(d.db).Exec(); err != nil {
		return fmt.Errorf("failed to reset snippets: %w", err)
	}
	return nil
}

// Get returns the record for a qualified name together with its source text,
// read from the recorded file and line range.
func (d *Database) Get(qualifiedName string) (*Record, string, error) {
	rec, err := d.lookup(qualifiedName)
	if err != nil {
		return nil, "", err
	}

	text, err := d.files.readRange(rec.FilePath, rec.StartLine, rec.EndLine)
	if err != nil {
		return rec, "", fmt.Errorf("failed to read snippet source: %w", err)
	}
	return rec, text, nil
}

func (d *Database) lookup(qualifiedName string) (*Record, error) {
	rec := &Record{}
	err := sq.Select("qualified_name", "file_path", "kind", "start_line", "end_line", "char_count").
		From("snippets").
		Where(sq.Eq{"qualified_name": qualifiedName}).
		RunWith(d.db).
		QueryRow().
		Scan(&rec.QualifiedName, &rec.FilePath, &rec.Kind, &rec.StartLine, &rec.EndLine, &rec.CharCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, qualifiedName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up snippet: %w", err)
	}
	return rec, nil
}

// Search returns records whose qualified name contains the term, ordered by
// qualified name for stable output.
func (d *Database) Search(term string) ([]Record, error) {
	rows, err := sq.Select("qualified_name", "file_path", "kind", "start_line", "end_line", "char_count").
		From("snippets").
		Where(sq.Like{"qualified_name": "%" + term + "%"}).
		OrderBy("qualified_name").
		RunWith(d.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to search snippets: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.QualifiedName, &rec.FilePath, &rec.Kind, &rec.StartLine, &rec.EndLine, &rec.CharCount); err != nil {
			return nil, fmt.Errorf("failed to scan snippet row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Stats returns snippet counts, broken down by entity kind.
func (d *Database) Stats() (*Stats, error) {
	stats := &Stats{ByKind: make(map[string]int)}

	rows, err := sq.Select("kind", "COUNT(*)").
		From("snippets").
		GroupBy("kind").
		RunWith(d.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to read snippet stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		stats.ByKind[kind] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = sq.Select("COUNT(DISTINCT file_path)").
		From("snippets").
		RunWith(d.db).
		QueryRow().
		Scan(&stats.Files)
	if err != nil {
		return nil, fmt.Errorf("failed to count snippet files: %w", err)
	}

	return stats, nil
}
