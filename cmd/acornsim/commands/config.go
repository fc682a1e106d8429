package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

func (c *CLI) newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return zerr.Wrap(err, "failed to encode configuration")
			}
			return enc.Close()
		},
	}
}
