package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"morpher/internal/config"
	"morpher/internal/logging"
	"morpher/internal/timelinefile"
)

func newFramesCommand(ctx *commandContext) *cobra.Command {
	var (
		fps     float64
		workers int
		outDir  string
		ext     string
	)

	cmd := &cobra.Command{
		Use:   "frames <project|@name>",
		Short: "Sample the timeline at a fixed frame rate",
		Long: "Sample the timeline at evenly spaced times from 0 to the duration. Without --out each\n" +
			"frame is printed as one JSON line; with --out every frame is written to its own file.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("fps") {
				fps = cfg.Frames.FPS
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Frames.Workers
			}

			s, _, err := ctx.openProject(cmd, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			frames, err := s.Frames(cmd.Context(), fps, workers)
			if err != nil {
				return err
			}

			dir := strings.TrimSpace(outDir)
			if dir == "" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				for _, frame := range frames {
					if err := enc.Encode(frame); err != nil {
						return err
					}
				}
				return nil
			}

			dir, err = config.ExpandPath(dir)
			if err != nil {
				return err
			}
			ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
			logger := logging.WithContext(
				logging.WithTimeline(cmd.Context(), s.Name()),
				logging.NewComponentLogger(ctx.loggerFor(cmd), "frames"),
			)
			sampler := logging.NewProgressSampler(10)
			for i, frame := range frames {
				path := filepath.Join(dir, fmt.Sprintf("frame-%05d.%s", frame.Index, ext))
				if err := timelinefile.WriteTree(cmd.Context(), path, frame.Config); err != nil {
					return err
				}
				if pct := logging.Percent(i+1, len(frames)); sampler.ShouldLog(pct, "write") {
					logger.Info("writing frames",
						logging.Int("written", i+1),
						logging.Int("total", len(frames)),
						logging.Float64("percent", pct),
					)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d frames to %s\n", len(frames), dir)
			return nil
		},
	}

	cmd.Flags().Float64Var(&fps, "fps", 0, "Frames per second (default from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent interpolations (default from config, 0 = all CPUs)")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory for one file per frame")
	cmd.Flags().StringVar(&ext, "ext", "json", "Frame file format with --out: json or yaml")
	return cmd
}
