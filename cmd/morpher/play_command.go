package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"morpher/internal/pathtree"
)

type playFrame struct {
	Time   float64        `json:"time"`
	Values map[string]any `json:"values"`
}

func newPlayCommand(ctx *commandContext) *cobra.Command {
	var (
		speed   float64
		loop    bool
		from    float64
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "play <project|@name>",
		Short: "Play the timeline in real time",
		Long: "Play the timeline and print the selected parameter values after every tick as JSON\n" +
			"lines. Playback stops at the end unless looping; interrupt to stop early.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := ctx.openProject(cmd, args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if cmd.Flags().Changed("speed") {
				if err := s.SetSpeed(speed); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("loop") {
				s.SetLoop(loop)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if timeout > 0 {
				var cancel context.CancelFunc
				runCtx, cancel = context.WithTimeout(runCtx, timeout)
				defer cancel()
			}

			selected := s.Selected()
			var (
				mu     sync.Mutex
				encErr error
			)
			enc := json.NewEncoder(cmd.OutOrStdout())
			s.OnApply(func(at float64, cfg pathtree.Tree) {
				values := make(map[string]any, len(selected))
				for _, path := range selected {
					if v, ok, _ := pathtree.Get(cfg, path); ok {
						values[path] = v
					}
				}
				mu.Lock()
				defer mu.Unlock()
				if encErr == nil {
					encErr = enc.Encode(playFrame{Time: at, Values: values})
				}
			})

			s.Seek(from)
			if err := s.Play(); err != nil {
				return err
			}
			waitErr := s.Wait(runCtx)
			s.Pause()

			mu.Lock()
			defer mu.Unlock()
			if encErr != nil {
				return encErr
			}
			if waitErr != nil && !errors.Is(waitErr, context.Canceled) && !errors.Is(waitErr, context.DeadlineExceeded) {
				return waitErr
			}
			status := s.Status()
			fmt.Fprintf(cmd.ErrOrStderr(), "Stopped at %ss of %ss\n", formatNumber(status.CurrentTime), formatNumber(status.Duration))
			return nil
		},
	}

	cmd.Flags().Float64Var(&speed, "speed", 1, "Playback speed multiplier")
	cmd.Flags().BoolVar(&loop, "loop", false, "Wrap to the start at the end")
	cmd.Flags().Float64Var(&from, "from", 0, "Start time in seconds")
	cmd.Flags().DurationVar(&timeout, "for", 0, "Stop after this wall-clock duration (0 = no limit)")
	return cmd
}
