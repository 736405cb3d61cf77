package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"morpher/internal/params"
)

type paramView struct {
	Path    string   `json:"path"`
	Label   string   `json:"label"`
	Kind    string   `json:"kind"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Options []string `json:"options,omitempty"`
}

func newParamsCommand(ctx *commandContext) *cobra.Command {
	var kindFilter string

	cmd := &cobra.Command{
		Use:   "params",
		Short: "List morphable parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			registry, err := cfg.Registry()
			if err != nil {
				return err
			}
			var want params.Kind
			if strings.TrimSpace(kindFilter) != "" {
				if want, err = params.ParseKind(kindFilter); err != nil {
					return err
				}
			}

			views := make([]paramView, 0, registry.Len())
			rows := make([][]string, 0, registry.Len())
			for _, d := range registry.Descriptors() {
				if want != "" && d.Kind != want {
					continue
				}
				view := paramView{Path: d.Path, Label: d.Label, Kind: string(d.Kind), Options: d.Options}
				if d.Range != nil {
					view.Min, view.Max = &d.Range.Min, &d.Range.Max
				}
				views = append(views, view)
				rows = append(rows, []string{d.Path, d.Label, string(d.Kind), describeDomain(d)})
			}
			return emit(cmd, ctx, views,
				[]column{left("Path"), left("Label"), left("Kind"), left("Domain")}, rows)
		},
	}
	cmd.Flags().StringVar(&kindFilter, "kind", "", "Only list parameters of this kind")
	return cmd
}

func describeDomain(d params.Descriptor) string {
	switch {
	case d.Range != nil:
		return fmt.Sprintf("%s to %s", formatNumber(d.Range.Min), formatNumber(d.Range.Max))
	case len(d.Options) > 0:
		return strings.Join(d.Options, ", ")
	default:
		return "-"
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
