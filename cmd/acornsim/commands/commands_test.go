package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/acornui/acorn"
	"github.com/acornui/acorn/cmd/acornsim/commands"
	"github.com/acornui/acorn/internal/build"
	"github.com/acornui/acorn/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockApp struct {
	scrollFunc func(ctx context.Context, cfg acorn.Config, opts sim.ScrollOptions) (sim.ScrollReport, error)
	churnFunc  func(ctx context.Context, cfg acorn.Config, opts sim.ChurnOptions) (sim.ChurnReport, error)
	sweepFunc  func(ctx context.Context, cfg acorn.Config, opts sim.ScrollOptions, steps []float64) ([]sim.SweepResult, error)
}

func (m *mockApp) Scroll(ctx context.Context, cfg acorn.Config, opts sim.ScrollOptions) (sim.ScrollReport, error) {
	if m.scrollFunc != nil {
		return m.scrollFunc(ctx, cfg, opts)
	}
	return sim.ScrollReport{}, nil
}

func (m *mockApp) Churn(ctx context.Context, cfg acorn.Config, opts sim.ChurnOptions) (sim.ChurnReport, error) {
	if m.churnFunc != nil {
		return m.churnFunc(ctx, cfg, opts)
	}
	return sim.ChurnReport{}, nil
}

func (m *mockApp) Sweep(ctx context.Context, cfg acorn.Config, opts sim.ScrollOptions, steps []float64) ([]sim.SweepResult, error) {
	if m.sweepFunc != nil {
		return m.sweepFunc(ctx, cfg, opts, steps)
	}
	return nil, nil
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "acorn.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestCommands_Scroll(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured sim.ScrollOptions
		var capturedCfg acorn.Config
		mock := &mockApp{
			scrollFunc: func(_ context.Context, cfg acorn.Config, opts sim.ScrollOptions) (sim.ScrollReport, error) {
				captured = opts
				capturedCfg = cfg
				return sim.ScrollReport{Frames: 3, Constructed: 4, Rebinds: 9, MaxActive: 4, FirstIndex: 2, LastIndex: 5}, nil
			},
		}

		cli := commands.New(mock)
		buf := new(bytes.Buffer)
		cli.SetOutput(buf, buf)
		cli.SetArgs([]string{"scroll", "--items", "50", "-v", "4", "--steps", "2", "--step", "1", "--reverse", "--max-items", "7"})

		err := cli.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, sim.ScrollOptions{Items: 50, Visible: 4, Steps: 2, Step: 1, ItemHeight: 20, Reverse: true}, captured)
		assert.Equal(t, 7, capturedCfg.MaxItems)
		assert.Contains(t, buf.String(), "constructed: 4")
		assert.Contains(t, buf.String(), "window:      2..5")
	})

	t.Run("reads the config file", func(t *testing.T) {
		path := writeConfig(t, "width: 320\nmaxItems: 9\ncache:\n  gcFrames: 50\n")
		var capturedCfg acorn.Config
		mock := &mockApp{
			scrollFunc: func(_ context.Context, cfg acorn.Config, _ sim.ScrollOptions) (sim.ScrollReport, error) {
				capturedCfg = cfg
				return sim.ScrollReport{}, nil
			},
		}

		cli := commands.New(mock)
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
		cli.SetArgs([]string{"scroll", "--config", path})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, 320, capturedCfg.Width)
		assert.Equal(t, 9, capturedCfg.MaxItems)
		assert.Equal(t, 50, capturedCfg.Cache.GCFrames)
		assert.Equal(t, 10, capturedCfg.Cache.CheckInterval)
	})

	t.Run("returns error on simulation failure", func(t *testing.T) {
		mock := &mockApp{
			scrollFunc: func(_ context.Context, _ acorn.Config, _ sim.ScrollOptions) (sim.ScrollReport, error) {
				return sim.ScrollReport{}, errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"scroll"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("missing config file", func(t *testing.T) {
		mock := &mockApp{
			scrollFunc: func(_ context.Context, _ acorn.Config, _ sim.ScrollOptions) (sim.ScrollReport, error) {
				panic("should not be called")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"scroll", "--config", filepath.Join(t.TempDir(), "missing.yaml")})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read configuration")
	})
}

func TestCommands_Churn(t *testing.T) {
	var captured sim.ChurnOptions
	var capturedCfg acorn.Config
	mock := &mockApp{
		churnFunc: func(_ context.Context, cfg acorn.Config, opts sim.ChurnOptions) (sim.ChurnReport, error) {
			captured = opts
			capturedCfg = cfg
			return sim.ChurnReport{Frames: 10, Created: 6, Collected: 2, Live: 4, PeakLive: 6, Dying: 1}, nil
		},
	}

	cli := commands.New(mock)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, new(bytes.Buffer))
	cli.SetArgs([]string{"churn", "--screens", "3", "-k", "4", "--overlap", "2", "-f", "5", "--drain", "8", "--debug"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, sim.ChurnOptions{Screens: 3, Keys: 4, Overlap: 2, FramesPerScreen: 5, Drain: 8}, captured)
	assert.True(t, capturedCfg.Debug)
	assert.Contains(t, buf.String(), "created:   6")
	assert.Contains(t, buf.String(), "live:      4 (peak 6, dying 1)")
	assert.True(t, sim.NewLogger(io.Discard).Enabled(context.Background(), slog.LevelDebug),
		"--debug should raise the simulator log level")

	acorn.SetLogger(nil)
	sim.SetLogLevel(slog.LevelInfo)
}

func TestCommands_Sweep(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured sim.ScrollOptions
		var capturedSteps []float64
		mock := &mockApp{
			sweepFunc: func(_ context.Context, _ acorn.Config, opts sim.ScrollOptions, steps []float64) ([]sim.SweepResult, error) {
				captured = opts
				capturedSteps = steps
				return []sim.SweepResult{
					{Step: 0.5, Report: sim.ScrollReport{Frames: 3, Constructed: 5, Rebinds: 7}},
					{Step: 2, Report: sim.ScrollReport{Frames: 3, Constructed: 5, Rebinds: 12}},
				}, nil
			},
		}

		cli := commands.New(mock)
		buf := new(bytes.Buffer)
		cli.SetOutput(buf, buf)
		cli.SetArgs([]string{"sweep", "--items", "40", "-v", "5", "--steps", "2", "--step-sizes", "0.5,2"})

		require.NoError(t, cli.Execute(context.Background()))
		assert.Equal(t, 40, captured.Items)
		assert.Equal(t, 5, captured.Visible)
		assert.Equal(t, 2, captured.Steps)
		assert.Equal(t, []float64{0.5, 2}, capturedSteps)
		assert.Contains(t, buf.String(), "0.5")
		assert.Contains(t, buf.String(), "12")
	})

	t.Run("propagates errors", func(t *testing.T) {
		mock := &mockApp{
			sweepFunc: func(context.Context, acorn.Config, sim.ScrollOptions, []float64) ([]sim.SweepResult, error) {
				return nil, errors.New("sweep failed")
			},
		}
		cli := commands.New(mock)
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
		cli.SetArgs([]string{"sweep"})
		assert.EqualError(t, cli.Execute(context.Background()), "sweep failed")
	})
}

func TestCommands_Config(t *testing.T) {
	path := writeConfig(t, "title: demo\ncache:\n  gcFrames: 100\n")

	cli := commands.New(&mockApp{})
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"config", "-c", path})

	require.NoError(t, cli.Execute(context.Background()))
	out := buf.String()
	assert.Contains(t, out, "title: demo")
	assert.Contains(t, out, "gcFrames: 100")
	assert.Contains(t, out, "checkInterval: 20")
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{})

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), build.Version)
}
