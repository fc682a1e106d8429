// Package acorn is the invalidation and caching core of a retained-mode UI
// toolkit for [Ebitengine].
//
// Every [Node] owns a [ValidationGraph]: a small dependency graph over bit
// flags. Mutating a property invalidates a flag; reading a derived value
// (size, layout, global transform) validates it, recomputing only what is
// stale. Invalidations cascade to children and bubble to parents according
// to each node's routing masks.
//
// # Quick start
//
// The simplest way to get started is [Run], which opens a window and drives
// the stage for you:
//
//	stage := acorn.NewStage(acorn.DefaultConfig())
//	// ... add nodes ...
//	acorn.Run(stage, acorn.RunConfig{
//		Title: "My App", Width: 640, Height: 480,
//	})
//
// [Stage] implements [ebiten.Game], so it can also be embedded in your own
// game loop by calling [Stage.Update], [Stage.Draw] and [Stage.Layout].
//
// # Nodes and layout
//
// Containers measure and arrange their children with a [LayoutAlgorithm]:
//
//	column := acorn.NewContainer("column", acorn.VerticalLayout{Gap: 4})
//	stage.Root().AddChild(column)
//
//	row := column.NewChild("row")
//	row.SetSize(120, 20)
//
// Resizing row invalidates the column's size constraints; the column lays
// itself out again on the next read or the next stage update.
//
// # Caching
//
// [Cache] holds reference-counted values. Unreferenced entries enter a death
// pool and are disposed after [CacheOptions.GCFrames] updates unless they are
// referenced again. [CachedGroup] batches references so a screen can release
// everything it used with one Dispose. [IndexedCache] and [VirtualList]
// recycle renderers across scroll positions so that items keep their index
// whenever possible.
//
// Tweens are built on [gween]; invalidation events can be forwarded to a
// [Donburi] world with the acorn/ecs adapter.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package acorn
