// Package sim runs headless acorn workloads: virtual-list scrolling and asset
// cache churn. Each run drives a real Stage frame by frame and reports what
// the recycling and reference-counting layers did.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/acornui/acorn"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// ScrollOptions configures a scroll simulation.
type ScrollOptions struct {
	Items      int
	Visible    int
	Steps      int
	Step       float64
	ItemHeight float64
	Reverse    bool
}

// ScrollReport summarizes a scroll simulation.
type ScrollReport struct {
	Frames      int
	Constructed int
	Rebinds     int
	MaxActive   int
	FirstIndex  int
	LastIndex   int
}

// ChurnOptions configures a cache churn simulation. Screens are shown one
// after another; each acquires Keys assets, Overlap of which it shares with
// the previous screen.
type ChurnOptions struct {
	Screens         int
	Keys            int
	Overlap         int
	FramesPerScreen int
	// Drain runs extra frames after the last screen so dying entries expire.
	Drain int
}

// ChurnReport summarizes a cache churn simulation.
type ChurnReport struct {
	Frames    int
	Created   int
	Collected int
	// Live counts assets still cached when the run ended.
	Live     int
	PeakLive int
	Dying    int
}

// SweepResult pairs a scroll step size with the run it produced.
type SweepResult struct {
	Step   float64
	Report ScrollReport
}

// Simulator implements the CLI's application interface.
type Simulator struct {
	log *slog.Logger
}

// New returns a Simulator logging to slog.Default.
func New() *Simulator {
	return NewWithLogger(slog.Default())
}

// NewWithLogger returns a Simulator that writes run summaries to log.
func NewWithLogger(log *slog.Logger) *Simulator {
	return &Simulator{log: log}
}

// Scroll scrolls a virtual list over Items rows, Step rows per frame.
func (s *Simulator) Scroll(ctx context.Context, cfg acorn.Config, opts ScrollOptions) (ScrollReport, error) {
	if opts.Items < 0 || opts.Visible <= 0 || opts.ItemHeight <= 0 {
		return ScrollReport{}, acorn.InvalidConfig("items", opts.Items, "visible", opts.Visible, "itemHeight", opts.ItemHeight)
	}

	stage := acorn.NewStage(cfg)
	defer stage.Dispose()

	list := acorn.NewVirtualList[int]("list", opts.ItemHeight, func() *acorn.Node {
		return acorn.NewNode("row")
	})
	if cfg.MaxItems > 0 {
		list.MaxItems = cfg.MaxItems
	}
	data := make([]int, opts.Items)
	for i := range data {
		data[i] = i
	}
	list.SetData(data)
	list.SetSize(float64(max(cfg.Width, 1)), float64(opts.Visible)*opts.ItemHeight)
	stage.Root().AddChild(list.Node)

	var report ScrollReport
	for i := 0; i <= opts.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return report, zerr.Wrap(err, "scroll interrupted")
		}
		pos := float64(i) * opts.Step
		if opts.Reverse {
			list.SetBottomIndexPosition(float64(opts.Items-1) - pos)
		} else {
			list.SetIndexPosition(pos)
		}
		if err := stage.Update(); err != nil {
			return report, err
		}
		report.Frames++
		active := list.ActiveItems()
		report.MaxActive = max(report.MaxActive, len(active))
		if len(active) > 0 {
			report.FirstIndex = active[0].Index
			report.LastIndex = active[len(active)-1].Index
		}
	}
	report.Constructed = list.Constructed()
	report.Rebinds = list.Rebinds()
	s.log.Debug("scroll finished",
		"frames", report.Frames, "constructed", report.Constructed, "rebinds", report.Rebinds)
	return report, nil
}

// Sweep runs one scroll simulation per step size. Each run owns its own
// Stage, so runs proceed concurrently; results keep the order of steps.
func (s *Simulator) Sweep(ctx context.Context, cfg acorn.Config, opts ScrollOptions, steps []float64) ([]SweepResult, error) {
	if len(steps) == 0 {
		return nil, acorn.InvalidConfig("steps", 0)
	}
	results := make([]SweepResult, len(steps))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, step := range steps {
		g.Go(func() error {
			run := opts
			run.Step = step
			report, err := s.Scroll(groupCtx, cfg, run)
			if err != nil {
				return zerr.Wrap(err, fmt.Sprintf("sweep step %g failed", step))
			}
			results[i] = SweepResult{Step: step, Report: report}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

type churnAsset struct {
	report *ChurnReport
}

func (a *churnAsset) Dispose() {
	a.report.Live--
}

// Churn cycles screens that acquire overlapping asset sets through
// CachedGroups on the stage cache.
func (s *Simulator) Churn(ctx context.Context, cfg acorn.Config, opts ChurnOptions) (ChurnReport, error) {
	if opts.Keys <= 0 || opts.Overlap < 0 || opts.Overlap > opts.Keys {
		return ChurnReport{}, acorn.InvalidConfig("keys", opts.Keys, "overlap", opts.Overlap)
	}

	stage := acorn.NewStage(cfg)
	cache := stage.Cache()
	var report ChurnReport

	first := 0
	for screen := 0; screen < opts.Screens; screen++ {
		node := stage.Root().NewChild(fmt.Sprintf("screen-%d", screen))
		group := node.CachedGroup(cache)
		for k := first; k < first+opts.Keys; k++ {
			key := acorn.KeyOf(fmt.Sprintf("asset-%d", k))
			cache.GetOr(key, func() any {
				report.Created++
				report.Live++
				report.PeakLive = max(report.PeakLive, report.Live)
				return &churnAsset{report: &report}
			})
			if err := group.Add(key); err != nil {
				return report, zerr.Wrap(err, "failed to acquire asset")
			}
		}
		for f := 0; f < opts.FramesPerScreen; f++ {
			if err := s.frame(ctx, stage, &report); err != nil {
				return report, err
			}
		}
		node.Dispose()
		first += opts.Keys - opts.Overlap
	}
	for f := 0; f < opts.Drain; f++ {
		if err := s.frame(ctx, stage, &report); err != nil {
			return report, err
		}
	}

	report.Collected = cache.Collected()
	report.Dying = cache.Dying()
	live := report.Live
	stage.Dispose()
	report.Live = live
	s.log.Debug("churn finished",
		"frames", report.Frames, "created", report.Created, "collected", report.Collected)
	return report, nil
}

func (s *Simulator) frame(ctx context.Context, stage *acorn.Stage, report *ChurnReport) error {
	if err := ctx.Err(); err != nil {
		return zerr.Wrap(err, "churn interrupted")
	}
	if err := stage.Update(); err != nil {
		return err
	}
	report.Frames++
	return nil
}
