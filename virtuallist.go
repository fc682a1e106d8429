package acorn

import "math"

// DefaultMaxItems caps how many renderers a VirtualList lays out per pass.
const DefaultMaxItems = 15

// ListItem is a recycled renderer in a VirtualList. Index and Data are
// reassigned only when the recycled item lands on a different row.
type ListItem[E comparable] struct {
	Node  *Node
	Index int
	Data  E

	// OnChange runs after Index or Data is reassigned.
	OnChange func(item *ListItem[E])
}

// Clear implements Clearable.
func (it *ListItem[E]) Clear() {
	var zero E
	it.Index = -1
	it.Data = zero
}

// Dispose implements Disposable.
func (it *ListItem[E]) Dispose() {
	it.Node.Dispose()
}

// VirtualList lays out renderers only for the rows visible in its viewport.
// Renderers are recycled through an IndexedCache so scrolling by a few rows
// only rebinds the rows that scrolled into view.
//
// The list must be given an explicit size with SetSize; every row is
// ItemHeight tall with Gap between rows.
type VirtualList[E comparable] struct {
	*Node

	ItemHeight float64
	Gap        float64
	MaxItems   int

	data     []E
	pool     *Pool[*ListItem[E]]
	cache    *IndexedCache[*ListItem[E]]
	active   []*ListItem[E]
	position float64
	reversed bool
	rebinds  int
}

// NewVirtualList creates a list whose row renderers are built by factory.
func NewVirtualList[E comparable](name string, itemHeight float64, factory func() *Node) *VirtualList[E] {
	l := &VirtualList[E]{
		Node:       NewNode(name),
		ItemHeight: itemHeight,
		MaxItems:   DefaultMaxItems,
	}
	l.pool = NewPool(func() *ListItem[E] {
		n := factory()
		n.owner = l.Node
		n.includeInLayout = false
		return &ListItem[E]{Node: n, Index: -1}
	})
	l.cache = NewIndexedCache(l.pool)
	l.Node.layout = virtualListLayout[E]{l}
	return l
}

// SetData replaces the backing data.
func (l *VirtualList[E]) SetData(data []E) {
	l.data = data
	l.Invalidate(FlagLayout)
}

// Data returns the backing data.
func (l *VirtualList[E]) Data() []E {
	return l.data
}

// SetIndexPosition scrolls so that the row at position (fractional rows
// allowed) is at the top of the viewport.
func (l *VirtualList[E]) SetIndexPosition(position float64) {
	if !l.reversed && l.position == position {
		return
	}
	l.reversed = false
	l.position = position
	l.Invalidate(FlagLayout)
}

// SetBottomIndexPosition scrolls so that the row at position is at the bottom
// of the viewport, laying rows out in reverse.
func (l *VirtualList[E]) SetBottomIndexPosition(position float64) {
	if l.reversed && l.position == position {
		return
	}
	l.reversed = true
	l.position = position
	l.Invalidate(FlagLayout)
}

// ActiveItems returns the laid-out items in ascending index order. The slice
// MUST NOT be mutated by the caller.
func (l *VirtualList[E]) ActiveItems() []*ListItem[E] {
	l.Validate(FlagLayout)
	return l.active
}

// Rebinds returns how many times an item's Index or Data was reassigned.
func (l *VirtualList[E]) Rebinds() int {
	return l.rebinds
}

// Constructed returns how many renderers have been built.
func (l *VirtualList[E]) Constructed() int {
	return l.pool.Constructed()
}

// Dispose disposes the list, its renderers, and its pooled renderers.
func (l *VirtualList[E]) Dispose() {
	l.Node.Dispose()
	l.pool.DisposeAndClear()
}

// virtualListLayout adapts the list to LayoutAlgorithm so virtualization runs
// inside the FlagLayout producer.
type virtualListLayout[E comparable] struct {
	l *VirtualList[E]
}

func (v virtualListLayout[E]) Measure(_ *Node, _ []*Node) Vec2 {
	return Vec2{}
}

func (v virtualListLayout[E]) Arrange(_ *Node, _ []*Node, size Vec2) {
	v.l.arrange(size)
}

func (l *VirtualList[E]) arrange(size Vec2) {
	l.active = l.active[:0]
	n := len(l.data)
	if n > 0 && l.ItemHeight > 0 {
		// Lay out from the anchor row in scan direction, then resume from the
		// row next to the anchor in the opposite direction to fill the rest.
		stride := l.ItemHeight + l.Gap
		pos := math.Max(0, math.Min(l.position, float64(n-1)))
		if l.reversed {
			last := int(math.Ceil(pos))
			top := size.Y - l.ItemHeight + (float64(last)-pos)*stride
			l.layoutRows(last, -1, top, size)
			l.layoutRows(last+1, 1, top+stride, size)
		} else {
			first := int(math.Floor(pos))
			top := -(pos - float64(first)) * stride
			l.layoutRows(first, 1, top, size)
			l.layoutRows(first-1, -1, top-stride, size)
		}
	}

	l.cache.ForEachUnused(func(_ int, it *ListItem[E]) {
		if it.Node.Parent == l.Node {
			l.Node.RemoveChild(it.Node)
		}
	})
	l.cache.Flip()
	sortItemsByIndex(l.active)
}

// layoutRows places rows starting at index, stepping by dir, with the first
// row's top edge at y. It stops at the data bounds, the viewport edge or
// MaxItems.
func (l *VirtualList[E]) layoutRows(index, dir int, y float64, size Vec2) {
	stride := l.ItemHeight + l.Gap
	maxItems := l.MaxItems
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	reversed := dir < 0
	for index >= 0 && index < len(l.data) && len(l.active) < maxItems {
		if reversed && y+l.ItemHeight <= 0 {
			break
		}
		if !reversed && y >= size.Y {
			break
		}
		it := l.cache.Obtain(index, reversed)
		l.bind(it, index)
		if it.Node.Parent != l.Node {
			l.Node.AddChild(it.Node)
		}
		it.Node.SetPosition(0, y)
		it.Node.SetSize(size.X, l.ItemHeight)
		l.active = append(l.active, it)
		index += dir
		y += float64(dir) * stride
	}
}

func (l *VirtualList[E]) bind(it *ListItem[E], index int) {
	changed := false
	if it.Index != index {
		it.Index = index
		changed = true
	}
	if d := l.data[index]; it.Data != d {
		it.Data = d
		changed = true
	}
	if changed {
		l.rebinds++
		if it.OnChange != nil {
			it.OnChange(it)
		}
	}
}

func sortItemsByIndex[E comparable](items []*ListItem[E]) {
	// Insertion sort: items arrive as at most two monotonic runs.
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].Index < items[j-1].Index; j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}
