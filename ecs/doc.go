// Package ecs provides ECS adapters for acorn's invalidation events.
//
// The primary adapter is [NewDonburiSink], which forwards every flag set a
// node newly invalidates into a [Donburi] world as a typed event. Subscribe
// to [InvalidationEventType] in your ECS systems to react to layout or
// transform changes without polling the scene tree.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	stage.SetInvalidationSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
