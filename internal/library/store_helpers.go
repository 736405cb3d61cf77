package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const entryColumns = "id, name, duration, keyframe_count, selected_count, created_at, updated_at"

// Writes that hit a locked database are retried with doubling backoff.
const (
	busyAttempts = 5
	busyBackoff  = 10 * time.Millisecond
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		e                Entry
		created, updated string
	)
	if err := row.Scan(&e.ID, &e.Name, &e.Duration, &e.KeyframeCount, &e.SelectedCount, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	if e.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, fmt.Errorf("updated_at: %w", err)
	}
	return &e, nil
}

// isBusy matches SQLITE_BUSY and SQLITE_LOCKED including extended codes.
func isBusy(err error) bool {
	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		switch coded.Code() & 0xff {
		case 5, 6:
			return true
		}
	}
	return err != nil && strings.Contains(err.Error(), "database is locked")
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	delay := busyBackoff
	for attempt := 1; ; attempt++ {
		res, err := s.db.ExecContext(ctx, query, args...)
		if err == nil || !isBusy(err) || attempt == busyAttempts {
			return res, err
		}
		select {
		case <-time.After(delay):
			delay *= 2
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
