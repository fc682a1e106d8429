package acorn

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"
)

var (
	defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	pkgLogger     atomic.Pointer[slog.Logger]
)

// SetLogger replaces the logger used for warnings and debug records. Passing
// nil restores the default stderr logger, which only prints warnings.
func SetLogger(l *slog.Logger) {
	pkgLogger.Store(l)
}

func logger() *slog.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return defaultLogger
}

// globalDebug mirrors the most recently set Stage debug flag so that node
// and cache operations (which lack a Stage pointer) can check it cheaply.
var globalDebug atomic.Bool

// debugStats holds per-frame counters. Only populated when Stage.debug is true.
type debugStats struct {
	updateTime    time.Duration
	invalidations int
	validated     Flags
	cacheEntries  int
	cacheDying    int
	collected     int
}

// debugLog writes the frame's stats as one debug record.
func (s *Stage) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	logger().Debug("frame",
		"frame", s.frame,
		"update", stats.updateTime,
		"invalidations", stats.invalidations,
		"validated", stats.validated.String(),
		"cacheEntries", stats.cacheEntries,
		"cacheDying", stats.cacheDying,
		"collected", stats.collected,
	)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode. Invalidate and Validate
// stay silent no-ops on disposed nodes in every mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("acorn debug: %s on disposed node %q", op, n.Name))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		logger().Warn("tree depth exceeds threshold",
			"node", n.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

// debugCheckChildCount warns if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		logger().Warn("child count exceeds threshold",
			"node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}
