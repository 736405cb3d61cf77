package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"morpher/internal/config"
	"morpher/internal/morph"
	"morpher/internal/timelinefile"
)

func newSampleCommand(ctx *commandContext) *cobra.Command {
	var (
		at      float64
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "sample <project|@name>",
		Short: "Print the interpolated configuration at one time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := ctx.openProject(cmd, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			s.Seek(at)
			if len(s.Keyframes()) < 2 {
				return fmt.Errorf("sample %s: %w", args[0], morph.ErrInsufficientKeyframes)
			}
			cfg := s.Configuration()
			if path := strings.TrimSpace(outPath); path != "" {
				expanded, err := config.ExpandPath(path)
				if err != nil {
					return err
				}
				if err := timelinefile.WriteTree(cmd.Context(), expanded, cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote configuration at %ss to %s\n", formatNumber(s.Status().CurrentTime), expanded)
				return nil
			}
			return writeJSON(cmd, cfg)
		},
	}

	cmd.Flags().Float64VarP(&at, "time", "t", 0, "Time in seconds (clamped to the timeline)")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the configuration to a .json or .yaml file")
	return cmd
}
