package timelinefile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"morpher/internal/fileutil"
)

const lockRetryDelay = 50 * time.Millisecond

// LockPath returns the advisory lock file guarding path.
func LockPath(path string) string {
	return path + ".lock"
}

func withLock(ctx context.Context, path string, shared bool, fn func() error) error {
	lock := flock.New(LockPath(path))
	var (
		locked bool
		err    error
	)
	if shared {
		locked, err = lock.TryRLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = lock.TryLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("lock %s: not acquired", path)
	}
	defer func() {
		_ = lock.Unlock()
	}()
	return fn()
}

func readLocked(ctx context.Context, path string) ([]byte, error) {
	var data []byte
	err := withLock(ctx, path, true, func() error {
		var err error
		data, err = os.ReadFile(path)
		return err
	})
	return data, err
}

func writeLocked(ctx context.Context, path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure directory: %w", err)
	}
	return withLock(ctx, path, false, func() error {
		return fileutil.WriteFileAtomic(path, data, 0o644)
	})
}

// Read loads the project at path under a shared lock. The format follows
// the file extension.
func Read(ctx context.Context, path string) (*Project, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := readLocked(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	project, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return project, nil
}

// Write stores p at path under an exclusive lock. The file is replaced
// atomically.
func Write(ctx context.Context, path string, p *Project) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := Encode(p, format)
	if err != nil {
		return err
	}
	if err := writeLocked(ctx, path, data); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	return nil
}
