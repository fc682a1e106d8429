package ecs

import (
	"testing"

	"github.com/acornui/acorn"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	if sink == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_NodeInvalidated(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []acorn.InvalidationEvent
	InvalidationEventType.Subscribe(world, func(w donburi.World, e acorn.InvalidationEvent) {
		received = append(received, e)
	})

	sink.NodeInvalidated(acorn.InvalidationEvent{NodeID: 42, Name: "panel", Flags: acorn.FlagLayout, Frame: 3})
	sink.NodeInvalidated(acorn.InvalidationEvent{NodeID: 7, Flags: acorn.FlagTransform | acorn.FlagConcatenatedTransform})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("expected no events before ProcessEvents, got %d", len(received))
	}
	InvalidationEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.NodeID != 42 || e0.Name != "panel" || e0.Flags != acorn.FlagLayout || e0.Frame != 3 {
		t.Errorf("event 0: %+v", e0)
	}
	if received[1].Flags != acorn.FlagTransform|acorn.FlagConcatenatedTransform {
		t.Errorf("event 1 flags = %v", received[1].Flags)
	}
}

func TestFilteredDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewFilteredDonburiSink(world, acorn.FlagLayout|acorn.FlagSizeConstraints)

	var received []acorn.InvalidationEvent
	InvalidationEventType.Subscribe(world, func(w donburi.World, e acorn.InvalidationEvent) {
		received = append(received, e)
	})

	sink.NodeInvalidated(acorn.InvalidationEvent{NodeID: 1, Flags: acorn.FlagTransform})
	sink.NodeInvalidated(acorn.InvalidationEvent{NodeID: 2, Flags: acorn.FlagTransform | acorn.FlagLayout})
	InvalidationEventType.ProcessEvents(world)

	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	if received[0].NodeID != 2 || received[0].Flags != acorn.FlagLayout {
		t.Errorf("event: %+v", received[0])
	}
}

func TestDonburiSink_StageIntegration(t *testing.T) {
	world := donburi.NewWorld()
	stage := acorn.NewStage(acorn.DefaultConfig())
	stage.SetInvalidationSink(NewDonburiSink(world))

	var received []acorn.InvalidationEvent
	InvalidationEventType.Subscribe(world, func(w donburi.World, e acorn.InvalidationEvent) {
		received = append(received, e)
	})

	child := acorn.NewNode("child")
	stage.Root().AddChild(child)
	if err := stage.Update(); err != nil {
		t.Fatal(err)
	}
	events.ProcessAllEvents(world)
	received = nil

	child.SetPosition(10, 20)
	events.ProcessAllEvents(world)

	found := false
	for _, e := range received {
		if e.Name == "child" && e.NodeID == child.ID && e.Flags.Has(acorn.FlagTransform) {
			found = true
		}
	}
	if !found {
		t.Errorf("no transform invalidation from child in %+v", received)
	}
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	InvalidationEventType.Subscribe(world, func(w donburi.World, e acorn.InvalidationEvent) {
		count1++
	})
	InvalidationEventType.Subscribe(world, func(w donburi.World, e acorn.InvalidationEvent) {
		count2++
	})

	sink.NodeInvalidated(acorn.InvalidationEvent{Flags: acorn.FlagStyles})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
