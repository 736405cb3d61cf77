package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"morpher/internal/config"
	"morpher/internal/timelinefile"
)

var (
	// ErrNotFound reports a name with no saved timeline.
	ErrNotFound = errors.New("timeline not found")
	// ErrInvalidName rejects blank timeline names.
	ErrInvalidName = errors.New("timeline name must not be empty")
)

// Entry summarizes a saved timeline.
type Entry struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Duration      float64   `json:"duration"`
	KeyframeCount int       `json:"keyframe_count"`
	SelectedCount int       `json:"selected_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Store persists named timeline projects in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the library database under the configured data directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.LibraryPath())
}

// OpenPath initializes or connects to the database at path and applies migrations.
func OpenPath(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure library directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save stores project under name, replacing any earlier version with the
// same name. The entry keeps its ID and creation time across saves.
func (s *Store) Save(ctx context.Context, name string, project *timelinefile.Project) (*Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if project == nil {
		return nil, errors.New("project is nil")
	}
	doc := *project
	doc.Name = name
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	data, err := timelinefile.Encode(&doc, timelinefile.FormatJSON)
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.exec(ctx,
		`INSERT INTO timelines (
            id, name, document, duration, keyframe_count, selected_count, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET
            document = excluded.document,
            duration = excluded.duration,
            keyframe_count = excluded.keyframe_count,
            selected_count = excluded.selected_count,
            updated_at = excluded.updated_at`,
		uuid.NewString(),
		name,
		string(data),
		doc.Duration,
		len(doc.Keyframes),
		len(doc.Selected),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("save timeline: %w", err)
	}
	return s.Get(ctx, name)
}

// Get returns the entry for name.
func (s *Store) Get(ctx context.Context, name string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM timelines WHERE name = ?`, strings.TrimSpace(name))
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get timeline: %w", err)
	}
	return entry, nil
}

// Load decodes the project saved under name.
func (s *Store) Load(ctx context.Context, name string) (*timelinefile.Project, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM timelines WHERE name = ?`, strings.TrimSpace(name)).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load timeline: %w", err)
	}
	project, err := timelinefile.Decode([]byte(doc), timelinefile.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("decode timeline %s: %w", name, err)
	}
	return project, nil
}

// List returns every saved timeline ordered by name.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM timelines ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list timelines: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan timeline: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timelines: %w", err)
	}
	return entries, nil
}

// Delete removes the timeline saved under name and reports whether it existed.
func (s *Store) Delete(ctx context.Context, name string) (bool, error) {
	res, err := s.exec(ctx, `DELETE FROM timelines WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return false, fmt.Errorf("delete timeline: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}
