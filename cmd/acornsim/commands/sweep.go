package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/acornui/acorn/internal/sim"
	"github.com/spf13/cobra"
)

func (c *CLI) newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Scroll a virtual list at several step sizes and compare recycling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			items, _ := cmd.Flags().GetInt("items")
			visible, _ := cmd.Flags().GetInt("visible")
			steps, _ := cmd.Flags().GetInt("steps")
			itemHeight, _ := cmd.Flags().GetFloat64("item-height")
			sizes, _ := cmd.Flags().GetFloat64Slice("step-sizes")

			results, err := c.app.Sweep(cmd.Context(), cfg, sim.ScrollOptions{
				Items:      items,
				Visible:    visible,
				Steps:      steps,
				ItemHeight: itemHeight,
			}, sizes)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "STEP\tFRAMES\tCONSTRUCTED\tREBINDS")
			for _, r := range results {
				_, _ = fmt.Fprintf(w, "%g\t%d\t%d\t%d\n", r.Step, r.Report.Frames, r.Report.Constructed, r.Report.Rebinds)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntP("items", "n", 1000, "Number of data items")
	cmd.Flags().IntP("visible", "v", 10, "Viewport height in rows")
	cmd.Flags().IntP("steps", "s", 100, "Number of scroll steps per run")
	cmd.Flags().Float64("item-height", 20, "Row height in pixels")
	cmd.Flags().Float64Slice("step-sizes", []float64{0.25, 0.5, 1, 2, 5}, "Rows scrolled per step, one run each")
	return cmd
}
