package commands

import (
	"fmt"

	"github.com/acornui/acorn/internal/sim"
	"github.com/spf13/cobra"
)

func (c *CLI) newChurnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "churn",
		Short: "Cycle screens through the asset cache and report collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			screens, _ := cmd.Flags().GetInt("screens")
			keys, _ := cmd.Flags().GetInt("keys")
			overlap, _ := cmd.Flags().GetInt("overlap")
			frames, _ := cmd.Flags().GetInt("frames")
			drain, _ := cmd.Flags().GetInt("drain")

			report, err := c.app.Churn(cmd.Context(), cfg, sim.ChurnOptions{
				Screens:         screens,
				Keys:            keys,
				Overlap:         overlap,
				FramesPerScreen: frames,
				Drain:           drain,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "frames:    %d\n", report.Frames)
			_, _ = fmt.Fprintf(out, "created:   %d\n", report.Created)
			_, _ = fmt.Fprintf(out, "collected: %d\n", report.Collected)
			_, _ = fmt.Fprintf(out, "live:      %d (peak %d, dying %d)\n", report.Live, report.PeakLive, report.Dying)
			return nil
		},
	}
	cmd.Flags().Int("screens", 10, "Number of screens to cycle through")
	cmd.Flags().IntP("keys", "k", 20, "Assets acquired per screen")
	cmd.Flags().Int("overlap", 10, "Assets shared with the previous screen")
	cmd.Flags().IntP("frames", "f", 60, "Frames each screen stays up")
	cmd.Flags().Int("drain", 0, "Frames to run after the last screen")
	return cmd
}
