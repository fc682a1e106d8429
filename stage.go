package acorn

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// InvalidationEvent describes flags newly invalidated on an active node.
type InvalidationEvent struct {
	NodeID uint32
	Name   string
	Flags  Flags
	Frame  uint64
}

// InvalidationSink receives invalidation events from a Stage, for example to
// forward them into an ECS.
type InvalidationSink interface {
	NodeInvalidated(event InvalidationEvent)
}

// Stage is the top-level object that owns the root node and the shared asset
// cache, and drives both once per frame. It implements ebiten.Game.
type Stage struct {
	root  *Node
	cache *Cache[AssetKey, any]
	sink  InvalidationSink
	debug bool

	tweens     []*TweenGroup
	updateFunc func() error
	drawFunc   func(screen *ebiten.Image)

	frame         uint64
	width, height int
	stats         debugStats
}

// NewStage creates a stage with an active root node sized to the config.
func NewStage(cfg Config) *Stage {
	s := &Stage{
		cache: NewCache[AssetKey, any](cfg.Cache),
	}
	s.root = NewNode("root")
	s.root.activate(s)
	if cfg.Width > 0 && cfg.Height > 0 {
		s.width, s.height = cfg.Width, cfg.Height
		s.root.SetSize(float64(cfg.Width), float64(cfg.Height))
	}
	if cfg.Debug {
		s.SetDebugMode(true)
	}
	return s
}

// Root returns the stage's root node.
func (s *Stage) Root() *Node {
	return s.root
}

// Cache returns the stage's shared asset cache.
func (s *Stage) Cache() *Cache[AssetKey, any] {
	return s.cache
}

// Frame returns the number of completed Update calls.
func (s *Stage) Frame() uint64 {
	return s.frame
}

// SetUpdateFunc sets a callback run every frame before validation.
func (s *Stage) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// SetDrawFunc sets the callback that renders the frame.
func (s *Stage) SetDrawFunc(fn func(screen *ebiten.Image)) {
	s.drawFunc = fn
}

// SetInvalidationSink sets the optional receiver of invalidation events.
func (s *Stage) SetInvalidationSink(sink InvalidationSink) {
	s.sink = sink
}

// SetDebugMode enables or disables debug mode. When enabled, tree operations
// on disposed nodes panic, tree depth and child count warnings are logged,
// and per-frame stats are written as debug records.
func (s *Stage) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug.Store(enabled)
}

// AddTween registers a tween advanced every frame until it is done.
func (s *Stage) AddTween(g *TweenGroup) {
	s.tweens = append(s.tweens, g)
}

// Update advances tweens, runs the update callback, ticks the cache and
// validates the tree's layout and transforms. It implements ebiten.Game.
func (s *Stage) Update() error {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
		s.stats = debugStats{}
	}

	s.updateTweens(float32(1.0 / float64(ebiten.TPS())))
	if s.updateFunc != nil {
		if err := s.updateFunc(); err != nil {
			return err
		}
	}

	collected := s.cache.Collected()
	s.cache.Update()

	validated := s.root.Validate(FlagLayout)
	validated |= validateSubtree(s.root, FlagConcatenatedTransform)
	s.frame++

	if s.debug {
		s.stats.updateTime = time.Since(t0)
		s.stats.validated = validated
		s.stats.cacheEntries = s.cache.Len()
		s.stats.cacheDying = s.cache.Dying()
		s.stats.collected = s.cache.Collected() - collected
		s.debugLog(s.stats)
	}
	return nil
}

func (s *Stage) updateTweens(dt float32) {
	kept := s.tweens[:0]
	for _, g := range s.tweens {
		g.Update(dt)
		if !g.Done {
			kept = append(kept, g)
		}
	}
	clear(s.tweens[len(kept):])
	s.tweens = kept
}

// validateSubtree validates flags on n and every descendant, parents first.
func validateSubtree(n *Node, flags Flags) Flags {
	validated := n.Validate(flags)
	for _, child := range n.children {
		validated |= validateSubtree(child, flags)
	}
	return validated
}

// Draw hands the screen to the draw callback. It implements ebiten.Game.
func (s *Stage) Draw(screen *ebiten.Image) {
	if s.drawFunc != nil {
		s.drawFunc(screen)
	}
}

// Layout sizes the root node to the window. It implements ebiten.Game.
func (s *Stage) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != s.width || outsideHeight != s.height {
		s.width, s.height = outsideWidth, outsideHeight
		s.root.SetSize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// Dispose disposes the node tree and every cached asset.
func (s *Stage) Dispose() {
	s.root.Dispose()
	s.cache.Dispose()
	s.tweens = nil
}

func (s *Stage) nodeInvalidated(n *Node, flags Flags) {
	if s.debug {
		s.stats.invalidations++
	}
	if s.sink != nil {
		s.sink.NodeInvalidated(InvalidationEvent{
			NodeID: n.ID,
			Name:   n.Name,
			Flags:  flags,
			Frame:  s.frame,
		})
	}
}

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
	TPS       int
}

// Run opens a window and drives the stage until the window closes or an
// update returns an error.
func Run(s *Stage, cfg RunConfig) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	return ebiten.RunGame(s)
}
