package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"morpher/internal/config"
	"morpher/internal/fileutil"
	"morpher/internal/keyframe"
	"morpher/internal/timelinefile"
)

type keyframeView struct {
	ID        string  `json:"id"`
	Timestamp float64 `json:"timestamp"`
	Name      string  `json:"name"`
	Fields    int     `json:"fields"`
}

func newKeyframesCommand(ctx *commandContext) *cobra.Command {
	keyframesCmd := &cobra.Command{
		Use:     "keyframes",
		Aliases: []string{"kf"},
		Short:   "Inspect and edit the keyframes of a project",
	}
	keyframesCmd.AddCommand(newKeyframesListCommand(ctx))
	keyframesCmd.AddCommand(newKeyframesAddCommand(ctx))
	keyframesCmd.AddCommand(newKeyframesRemoveCommand(ctx))
	keyframesCmd.AddCommand(newKeyframesExportCommand(ctx))
	keyframesCmd.AddCommand(newKeyframesImportCommand(ctx))
	return keyframesCmd
}

func newKeyframesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project|@name>",
		Short: "List keyframes in timestamp order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := ctx.readProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			views := make([]keyframeView, 0, len(project.Keyframes))
			rows := make([][]string, 0, len(project.Keyframes))
			for i, k := range project.Keyframes {
				view := keyframeView{ID: k.ID, Timestamp: k.Timestamp, Name: k.Name, Fields: countLeaves(k.Snapshot)}
				views = append(views, view)
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					formatNumber(k.Timestamp),
					k.Name,
					k.ID,
					strconv.Itoa(view.Fields),
				})
			}
			return emit(cmd, ctx, views,
				[]column{right("#"), right("Time"), left("Name"), left("ID"), right("Fields")}, rows)
		},
	}
}

func newKeyframesAddCommand(ctx *commandContext) *cobra.Command {
	var (
		at       float64
		name     string
		fromPath string
	)
	cmd := &cobra.Command{
		Use:   "add <project|@name>",
		Short: "Capture a configuration file as a keyframe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, project, err := ctx.openProject(cmd, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			s.SetConfiguration(project.Base)
			if path := strings.TrimSpace(fromPath); path != "" {
				expanded, err := config.ExpandPath(path)
				if err != nil {
					return err
				}
				tree, err := timelinefile.ReadTree(cmd.Context(), expanded)
				if err != nil {
					return err
				}
				s.SetConfiguration(tree)
			}
			k, err := s.CaptureAt(at, name)
			if err != nil {
				return err
			}
			if err := ctx.writeProject(cmd.Context(), args[0], s.Project()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q at %ss (%s)\n", k.Name, formatNumber(k.Timestamp), k.ID)
			return nil
		},
	}
	cmd.Flags().Float64VarP(&at, "time", "t", 0, "Keyframe time in seconds")
	cmd.Flags().StringVar(&name, "name", "", "Keyframe name")
	cmd.Flags().StringVar(&fromPath, "from", "", "Configuration file to capture (default: the project base)")
	return cmd
}

func newKeyframesRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <project|@name> <id>",
		Short: "Remove a keyframe by ID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := ctx.readProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			store := keyframe.NewStore()
			if err := store.Replace(project.Keyframes); err != nil {
				return err
			}
			if !store.Remove(strings.TrimSpace(args[1])) {
				return fmt.Errorf("keyframe %s not found", args[1])
			}
			project.Keyframes = store.List()
			if err := ctx.writeProject(cmd.Context(), args[0], project); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed keyframe %s\n", args[1])
			return nil
		},
	}
}

func newKeyframesExportCommand(ctx *commandContext) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export <project|@name>",
		Short: "Write the keyframes as a JSON keyframe document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := ctx.readProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := keyframe.Export(project.Keyframes)
			if err != nil {
				return err
			}
			if strings.TrimSpace(outPath) == "" {
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			target, err := config.ExpandPath(outPath)
			if err != nil {
				return err
			}
			if err := fileutil.WriteFileAtomic(target, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("write keyframes: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d keyframes to %s\n", len(project.Keyframes), target)
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "Destination file (default: stdout)")
	return cmd
}

func newKeyframesImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <project|@name> <keyframes.json>",
		Short: "Replace the keyframes of a project with a keyframe document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, project, err := ctx.openProject(cmd, args[0])
			if err != nil {
				return err
			}
			defer s.Close()
			s.SetConfiguration(project.Base)

			source, err := config.ExpandPath(args[1])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(source)
			if err != nil {
				return fmt.Errorf("read keyframes: %w", err)
			}
			if err := s.ImportKeyframes(data); err != nil {
				return err
			}
			if err := ctx.writeProject(cmd.Context(), args[0], s.Project()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d keyframes into %s\n", len(s.Keyframes()), args[0])
			return nil
		},
	}
}

func countLeaves(v any) int {
	switch node := v.(type) {
	case map[string]any:
		n := 0
		for _, child := range node {
			n += countLeaves(child)
		}
		return n
	default:
		return 1
	}
}
