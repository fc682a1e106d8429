// Package commands implements the CLI commands for acornsim.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/acornui/acorn"
	"github.com/acornui/acorn/internal/build"
	"github.com/acornui/acorn/internal/sim"
	"github.com/spf13/cobra"
)

// CLI represents the command line interface for acornsim.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application runs the simulations behind the commands.
type Application interface {
	Scroll(ctx context.Context, cfg acorn.Config, opts sim.ScrollOptions) (sim.ScrollReport, error)
	Churn(ctx context.Context, cfg acorn.Config, opts sim.ChurnOptions) (sim.ChurnReport, error)
	Sweep(ctx context.Context, cfg acorn.Config, opts sim.ScrollOptions, steps []float64) ([]sim.SweepResult, error)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "acornsim",
		Short:         "Headless simulations of acorn layout and caching",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode and debug logging")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newScrollCmd())
	rootCmd.AddCommand(c.newChurnCmd())
	rootCmd.AddCommand(c.newSweepCmd())
	rootCmd.AddCommand(c.newConfigCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// loadConfig resolves the effective configuration from --config and --debug.
func loadConfig(cmd *cobra.Command) (acorn.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg := acorn.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = acorn.LoadConfigFile(path); err != nil {
			return cfg, err
		}
	}
	if debug {
		cfg.Debug = true
		acorn.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})))
		sim.SetLogLevel(slog.LevelDebug)
	}
	return cfg, nil
}
