package sim_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/acornui/acorn"
	"github.com/acornui/acorn/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulator_Scroll(t *testing.T) {
	opts := sim.ScrollOptions{Items: 100, Visible: 5, Steps: 10, Step: 1, ItemHeight: 10}

	t.Run("forward recycles one row per step", func(t *testing.T) {
		report, err := sim.New().Scroll(context.Background(), acorn.DefaultConfig(), opts)
		require.NoError(t, err)
		assert.Equal(t, 11, report.Frames)
		assert.Equal(t, 5, report.Constructed)
		assert.Equal(t, 15, report.Rebinds)
		assert.Equal(t, 5, report.MaxActive)
		assert.Equal(t, 10, report.FirstIndex)
		assert.Equal(t, 14, report.LastIndex)
	})

	t.Run("reverse anchors at the bottom", func(t *testing.T) {
		reversed := opts
		reversed.Reverse = true
		report, err := sim.New().Scroll(context.Background(), acorn.DefaultConfig(), reversed)
		require.NoError(t, err)
		assert.Equal(t, 5, report.Constructed)
		assert.Equal(t, 15, report.Rebinds)
		assert.Equal(t, 85, report.FirstIndex)
		assert.Equal(t, 89, report.LastIndex)
	})

	t.Run("rejects empty viewport", func(t *testing.T) {
		bad := opts
		bad.Visible = 0
		_, err := sim.New().Scroll(context.Background(), acorn.DefaultConfig(), bad)
		require.ErrorIs(t, err, acorn.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "visible=0")
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := sim.New().Scroll(ctx, acorn.DefaultConfig(), opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scroll interrupted")
	})
}

func TestSimulator_Churn(t *testing.T) {
	cfg := acorn.DefaultConfig()
	cfg.Cache = acorn.CacheOptions{GCFrames: 10, CheckInterval: 2}

	t.Run("shared assets survive screen changes", func(t *testing.T) {
		report, err := sim.New().Churn(context.Background(), cfg, sim.ChurnOptions{
			Screens:         3,
			Keys:            10,
			Overlap:         5,
			FramesPerScreen: 1,
			Drain:           30,
		})
		require.NoError(t, err)
		assert.Equal(t, 33, report.Frames)
		assert.Equal(t, 20, report.Created)
		assert.Equal(t, 20, report.PeakLive)
		assert.Equal(t, 20, report.Collected)
		assert.Equal(t, 0, report.Live)
		assert.Equal(t, 0, report.Dying)
	})

	t.Run("without drain nothing expires", func(t *testing.T) {
		report, err := sim.New().Churn(context.Background(), cfg, sim.ChurnOptions{
			Screens:         2,
			Keys:            4,
			Overlap:         4,
			FramesPerScreen: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, 4, report.Created)
		assert.Equal(t, 0, report.Collected)
		assert.Equal(t, 4, report.Live)
		assert.Equal(t, 4, report.Dying)
	})

	t.Run("rejects overlap larger than keys", func(t *testing.T) {
		_, err := sim.New().Churn(context.Background(), cfg, sim.ChurnOptions{Screens: 1, Keys: 2, Overlap: 3})
		require.ErrorIs(t, err, acorn.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "keys=2 overlap=3")
	})
}

func TestSimulator_Sweep(t *testing.T) {
	opts := sim.ScrollOptions{Items: 100, Visible: 5, Steps: 10, ItemHeight: 10}

	t.Run("runs each step and keeps order", func(t *testing.T) {
		results, err := sim.New().Sweep(context.Background(), acorn.DefaultConfig(), opts, []float64{2, 1, 0.5})
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, 2.0, results[0].Step)
		assert.Equal(t, 20, results[0].Report.FirstIndex)
		assert.Equal(t, 1.0, results[1].Step)
		assert.Equal(t, 10, results[1].Report.FirstIndex)
		assert.Equal(t, 14, results[1].Report.LastIndex)
		assert.Equal(t, 5, results[2].Report.FirstIndex)
		for _, r := range results {
			assert.Equal(t, 11, r.Report.Frames)
		}
	})

	t.Run("rejects an empty step list", func(t *testing.T) {
		_, err := sim.New().Sweep(context.Background(), acorn.DefaultConfig(), opts, nil)
		require.ErrorIs(t, err, acorn.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "steps=0")
	})

	t.Run("fails when any run fails", func(t *testing.T) {
		bad := opts
		bad.ItemHeight = 0
		_, err := sim.New().Sweep(context.Background(), acorn.DefaultConfig(), bad, []float64{1, 2})
		require.ErrorIs(t, err, acorn.ErrInvalidConfig)
		assert.Contains(t, err.Error(), "sweep step")
	})
}

func TestSimulator_DebugSummary(t *testing.T) {
	t.Cleanup(func() { sim.SetLogLevel(slog.LevelInfo) })
	opts := sim.ScrollOptions{Items: 10, Visible: 2, Steps: 1, Step: 1, ItemHeight: 10}

	var buf bytes.Buffer
	s := sim.NewWithLogger(sim.NewLogger(&buf))

	_, err := s.Scroll(context.Background(), acorn.DefaultConfig(), opts)
	require.NoError(t, err)
	assert.Empty(t, buf.String(), "summaries are debug-level")

	sim.SetLogLevel(slog.LevelDebug)
	_, err = s.Scroll(context.Background(), acorn.DefaultConfig(), opts)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "scroll finished")
	assert.Contains(t, buf.String(), "frames=2")
}
