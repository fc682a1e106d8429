package ecs

import (
	"github.com/acornui/acorn"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InvalidationEventType is the Donburi event type for acorn invalidation
// events. Events are queued until ProcessEvents runs.
var InvalidationEventType = events.NewEventType[acorn.InvalidationEvent]()

type donburiSink struct {
	world donburi.World
	mask  acorn.Flags
}

// NewDonburiSink creates an InvalidationSink backed by a Donburi world. Every
// invalidation is published.
func NewDonburiSink(world donburi.World) acorn.InvalidationSink {
	return &donburiSink{world: world, mask: acorn.FlagsAll}
}

// NewFilteredDonburiSink is like NewDonburiSink but only publishes events
// whose flags intersect mask. The published event carries only the masked
// bits.
func NewFilteredDonburiSink(world donburi.World, mask acorn.Flags) acorn.InvalidationSink {
	return &donburiSink{world: world, mask: mask}
}

func (s *donburiSink) NodeInvalidated(event acorn.InvalidationEvent) {
	event.Flags &= s.mask
	if event.Flags == 0 {
		return
	}
	InvalidationEventType.Publish(s.world, event)
}
