package sim_test

import (
	"context"
	"testing"

	"github.com/acornui/acorn"
	"github.com/acornui/acorn/internal/sim"
	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
)

func TestGraftDependencies(t *testing.T) {
	graft.AssertDepsValid(t, ".")
}

func TestSimulatorWiring(t *testing.T) {
	s, _, err := graft.ExecuteFor[*sim.Simulator](context.Background())
	require.NoError(t, err)
	require.NotNil(t, s)

	report, err := s.Scroll(context.Background(), acorn.DefaultConfig(),
		sim.ScrollOptions{Items: 10, Visible: 2, Steps: 1, Step: 1, ItemHeight: 10})
	require.NoError(t, err)
	require.Equal(t, 2, report.Frames)
}
