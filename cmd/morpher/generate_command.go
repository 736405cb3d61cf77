package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"morpher/internal/config"
	"morpher/internal/timelinefile"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var (
		selected []string
		count    int
		duration float64
		basePath string
		name     string
		loop     bool
	)

	cmd := &cobra.Command{
		Use:   "generate <project|@name>",
		Short: "Create a project with random keyframes",
		Long: "Create a project whose keyframes are drawn at random from the domains of the selected\n" +
			"parameters. Numeric parameters get a uniform value in range and categorical ones a\n" +
			"uniform pick; boolean and color parameters keep the base value.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			s, err := ctx.newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if path := strings.TrimSpace(basePath); path != "" {
				expanded, err := config.ExpandPath(path)
				if err != nil {
					return err
				}
				base, err := timelinefile.ReadTree(cmd.Context(), expanded)
				if err != nil {
					return err
				}
				s.SetConfiguration(base)
			}
			if len(selected) == 0 {
				s.SelectAll()
			} else if err := s.Select(selected...); err != nil {
				return err
			}
			if cmd.Flags().Changed("duration") {
				if err := s.SetDuration(duration); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("loop") {
				s.SetLoop(loop)
			}
			if !cmd.Flags().Changed("count") {
				count = cfg.Generator.Count
			}
			s.SetName(name)

			frames, err := s.Generate(count)
			if err != nil {
				return err
			}
			if err := ctx.writeProject(cmd.Context(), args[0], s.Project()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d keyframes over %s seconds into %s\n",
				len(frames), formatNumber(s.Status().Duration), args[0])
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&selected, "select", "s", nil, "Parameter paths to randomize (default: all)")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of keyframes (default from config)")
	cmd.Flags().Float64VarP(&duration, "duration", "d", 0, "Timeline duration in seconds (default from config)")
	cmd.Flags().StringVar(&basePath, "base", "", "Base configuration file (.json, .yaml)")
	cmd.Flags().StringVar(&name, "name", "", "Timeline name stored in the project")
	cmd.Flags().BoolVar(&loop, "loop", false, "Loop playback when the project is played")
	return cmd
}
