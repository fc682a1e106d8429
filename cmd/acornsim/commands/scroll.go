package commands

import (
	"fmt"

	"github.com/acornui/acorn/internal/sim"
	"github.com/spf13/cobra"
)

func (c *CLI) newScrollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scroll",
		Short: "Scroll a virtual list and report renderer recycling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			items, _ := cmd.Flags().GetInt("items")
			visible, _ := cmd.Flags().GetInt("visible")
			steps, _ := cmd.Flags().GetInt("steps")
			step, _ := cmd.Flags().GetFloat64("step")
			itemHeight, _ := cmd.Flags().GetFloat64("item-height")
			reverse, _ := cmd.Flags().GetBool("reverse")
			if cmd.Flags().Changed("max-items") {
				cfg.MaxItems, _ = cmd.Flags().GetInt("max-items")
			}

			report, err := c.app.Scroll(cmd.Context(), cfg, sim.ScrollOptions{
				Items:      items,
				Visible:    visible,
				Steps:      steps,
				Step:       step,
				ItemHeight: itemHeight,
				Reverse:    reverse,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "frames:      %d\n", report.Frames)
			_, _ = fmt.Fprintf(out, "constructed: %d\n", report.Constructed)
			_, _ = fmt.Fprintf(out, "rebinds:     %d\n", report.Rebinds)
			_, _ = fmt.Fprintf(out, "max active:  %d\n", report.MaxActive)
			_, _ = fmt.Fprintf(out, "window:      %d..%d\n", report.FirstIndex, report.LastIndex)
			return nil
		},
	}
	cmd.Flags().IntP("items", "n", 1000, "Number of data items")
	cmd.Flags().IntP("visible", "v", 10, "Viewport height in rows")
	cmd.Flags().IntP("steps", "s", 100, "Number of scroll steps")
	cmd.Flags().Float64("step", 0.5, "Rows scrolled per step")
	cmd.Flags().Float64("item-height", 20, "Row height in pixels")
	cmd.Flags().BoolP("reverse", "r", false, "Anchor rows at the bottom and scroll upward")
	cmd.Flags().Int("max-items", 0, "Override the configured renderer cap")
	return cmd
}
