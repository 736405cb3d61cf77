package main

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"morpher/internal/config"
	"morpher/internal/library"
	"morpher/internal/session"
	"morpher/internal/timelinefile"
)

// libraryPrefix marks a project reference as a library entry name.
const libraryPrefix = "@"

func libraryName(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(ref, libraryPrefix) {
		return "", false
	}
	return strings.TrimPrefix(ref, libraryPrefix), true
}

// readProject loads a project from a file or, for @name, from the library.
func (c *commandContext) readProject(ctx context.Context, ref string) (*timelinefile.Project, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, errors.New("project file or @name is required")
	}
	if name, ok := libraryName(ref); ok {
		var project *timelinefile.Project
		err := c.withLibrary(func(store *library.Store) error {
			var err error
			project, err = store.Load(ctx, name)
			return err
		})
		return project, err
	}
	path, err := config.ExpandPath(ref)
	if err != nil {
		return nil, err
	}
	return timelinefile.Read(ctx, path)
}

// writeProject stores a project in a file or, for @name, in the library.
func (c *commandContext) writeProject(ctx context.Context, ref string, project *timelinefile.Project) error {
	if name, ok := libraryName(ref); ok {
		return c.withLibrary(func(store *library.Store) error {
			_, err := store.Save(ctx, name, project)
			return err
		})
	}
	path, err := config.ExpandPath(ref)
	if err != nil {
		return err
	}
	return timelinefile.Write(ctx, path, project)
}

// openProject builds a session with the referenced project loaded. The
// returned project is the document as read, before the first frame was
// applied to the live configuration.
func (c *commandContext) openProject(cmd *cobra.Command, ref string) (*session.Session, *timelinefile.Project, error) {
	project, err := c.readProject(cmd.Context(), ref)
	if err != nil {
		return nil, nil, err
	}
	s, err := c.newSession(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := s.LoadProject(project); err != nil {
		s.Close()
		return nil, nil, err
	}
	return s, project, nil
}
