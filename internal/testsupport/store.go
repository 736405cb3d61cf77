package testsupport

import (
	"context"
	"testing"

	"morpher/internal/config"
	"morpher/internal/library"
	"morpher/internal/timelinefile"
)

// MustOpenLibrary opens a library.Store for tests and registers cleanup.
func MustOpenLibrary(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SaveProject stores project under name for tests.
func SaveProject(t testing.TB, store *library.Store, name string, project *timelinefile.Project) *library.Entry {
	t.Helper()

	entry, err := store.Save(context.Background(), name, project)
	if err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	return entry
}
