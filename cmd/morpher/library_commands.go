package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"morpher/internal/config"
	"morpher/internal/library"
	"morpher/internal/timelinefile"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"lib"},
		Short:   "Manage saved timelines",
	}
	libraryCmd.AddCommand(newLibrarySaveCommand(ctx))
	libraryCmd.AddCommand(newLibraryLoadCommand(ctx))
	libraryCmd.AddCommand(newLibraryListCommand(ctx))
	libraryCmd.AddCommand(newLibraryDeleteCommand(ctx))
	return libraryCmd
}

func newLibrarySaveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "save <name> <project>",
		Short: "Store a project file under a name, replacing any entry with that name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[1])
			if err != nil {
				return err
			}
			project, err := timelinefile.Read(cmd.Context(), path)
			if err != nil {
				return err
			}
			return ctx.withLibrary(func(store *library.Store) error {
				entry, err := store.Save(cmd.Context(), args[0], project)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d keyframes)\n", entry.Name, entry.KeyframeCount)
				return nil
			})
		},
	}
}

func newLibraryLoadCommand(ctx *commandContext) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "load <name>",
		Short: "Write a saved timeline to a project file or stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var project *timelinefile.Project
			err := ctx.withLibrary(func(store *library.Store) error {
				var err error
				project, err = store.Load(cmd.Context(), args[0])
				return err
			})
			if err != nil {
				return err
			}
			if strings.TrimSpace(outPath) == "" {
				return writeJSON(cmd, project)
			}
			target, err := config.ExpandPath(outPath)
			if err != nil {
				return err
			}
			if err := timelinefile.Write(cmd.Context(), target, project); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s to %s\n", args[0], target)
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "Destination project file (.json, .yaml)")
	return cmd
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved timelines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(store *library.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if entries == nil {
					entries = []library.Entry{}
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						e.Name,
						formatNumber(e.Duration),
						strconv.Itoa(e.KeyframeCount),
						strconv.Itoa(e.SelectedCount),
						e.UpdatedAt.Local().Format(time.DateTime),
					})
				}
				return emit(cmd, ctx, entries,
					[]column{left("Name"), right("Duration"), right("Keyframes"), right("Selected"), left("Updated")}, rows)
			})
		},
	}
}

func newLibraryDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(store *library.Store) error {
				removed, err := store.Delete(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("delete %s: %w", args[0], library.ErrNotFound)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}
