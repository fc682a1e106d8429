package sim

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/grindlemire/graft"
)

const (
	// LoggerNodeID is the Graft node providing the simulator's logger.
	LoggerNodeID graft.ID = "sim.logger"
	// NodeID is the Graft node providing the Simulator.
	NodeID graft.ID = "sim.simulator"
)

// logLevel gates loggers built by NewLogger. It can change after the Graft
// graph has resolved, since the CLI parses --debug later.
var logLevel slog.LevelVar

// SetLogLevel changes the level of every logger built by NewLogger.
func SetLogLevel(l slog.Level) {
	logLevel.Set(l)
}

// NewLogger returns a text logger on w whose level follows SetLogLevel.
func NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: &logLevel}))
}

func init() {
	graft.Register(graft.Node[*slog.Logger]{
		ID:        LoggerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*slog.Logger, error) {
			return NewLogger(os.Stderr), nil
		},
	})

	graft.Register(graft.Node[*Simulator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{LoggerNodeID},
		Run: func(ctx context.Context) (*Simulator, error) {
			log, err := graft.Dep[*slog.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewWithLogger(log), nil
		},
	})
}
