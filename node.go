package acorn

import "sync/atomic"

// nodeIDCounter hands out node IDs. Zero is never issued.
var nodeIDCounter atomic.Uint32

func nextNodeID() uint32 {
	return nodeIDCounter.Add(1)
}

// Default flag routing for new nodes.
const (
	defaultCascadingFlags = FlagStyles |
		FlagHierarchyDescending |
		FlagConcatenatedTransform |
		FlagInteractivityMode

	defaultBubblingFlags = FlagHierarchyAscending

	defaultLayoutInvalidatingFlags = FlagHierarchyAscending |
		FlagSizeConstraints |
		FlagLayout |
		FlagLayoutEnabled
)

// Node is the fundamental scene graph element. Every node owns a
// ValidationGraph holding its derived state (measured size, layout, local and
// global transforms). Mutations invalidate flags; readers validate before use.
//
// Invalidated flags that intersect CascadingFlags are forwarded to every
// child, flags that intersect BubblingFlags are forwarded to the parent, and a
// child whose flags intersect the parent's LayoutInvalidatingFlags invalidates
// the parent's size constraints.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy. Parent does not own the node; children are owned by their
	// parent's slice. owner is set for children created with NewChild and
	// makes their disposal follow the owner's.
	Parent   *Node
	children []*Node
	owner    *Node

	// Transform (local)
	X, Y         float64
	ScaleX       float64
	ScaleY       float64
	Rotation     float64
	SkewX, SkewY float64
	PivotX       float64
	PivotY       float64

	// Sizing
	explicitW, explicitH       float64
	hasExplicitW, hasExplicitH bool
	includeInLayout            bool
	layout                     LayoutAlgorithm

	// Derived (valid only while the matching flag is valid)
	measured        Vec2
	size            Vec2
	localTransform  [6]float64
	globalTransform [6]float64

	// Validation
	graph                   *ValidationGraph
	cascadingFlags          Flags
	bubblingFlags           Flags
	layoutInvalidatingFlags Flags

	// Lifecycle
	stage    *Stage
	group    *CachedGroup[AssetKey, any]
	disposed bool

	// Metadata
	UserData any

	// Hooks (nil by default)
	OnInvalidated func(n *Node, flags Flags)
	OnStyles      func(n *Node)
	OnActivated   func(n *Node)
	OnDeactivated func(n *Node)
}

// NewNode creates a detached node with the default validation producers
// registered.
func NewNode(name string) *Node {
	n := &Node{
		ID:                      nextNodeID(),
		Name:                    name,
		ScaleX:                  1,
		ScaleY:                  1,
		includeInLayout:         true,
		localTransform:          identityTransform,
		globalTransform:         identityTransform,
		graph:                   NewValidationGraph(),
		cascadingFlags:          defaultCascadingFlags,
		bubblingFlags:           defaultBubblingFlags,
		layoutInvalidatingFlags: defaultLayoutInvalidatingFlags,
	}
	registerDefaultValidation(n)
	return n
}

// NewContainer creates a detached node that arranges its children with the
// given layout algorithm.
func NewContainer(name string, layout LayoutAlgorithm) *Node {
	n := NewNode(name)
	n.layout = layout
	return n
}

// NewChild creates a node owned by n and appends it to n's children. Owned
// children are disposed together with n; other children are only detached.
func (n *Node) NewChild(name string) *Node {
	child := NewNode(name)
	child.owner = n
	n.AddChild(child)
	return child
}

// --- Validation ---

// Invalidate marks flags invalid on this node and routes the newly
// invalidated bits to children, parent and hooks. It returns the bits that
// were newly invalidated. Invalidating a disposed node is a no-op.
func (n *Node) Invalidate(flags Flags) Flags {
	if n.disposed {
		return 0
	}
	newlyInvalid := n.graph.Invalidate(flags)
	if newlyInvalid == 0 {
		return 0
	}
	n.onInvalidated(newlyInvalid)
	return newlyInvalid
}

func (n *Node) onInvalidated(flags Flags) {
	if cascade := flags & n.cascadingFlags; cascade != 0 {
		for _, child := range n.children {
			child.Invalidate(cascade)
		}
	}
	if p := n.Parent; p != nil {
		if bubble := flags & n.bubblingFlags; bubble != 0 {
			p.Invalidate(bubble)
		}
		if flags&p.layoutInvalidatingFlags != 0 && (n.includeInLayout || flags&FlagLayoutEnabled != 0) {
			p.Invalidate(FlagSizeConstraints)
		}
	}
	if n.OnInvalidated != nil {
		n.OnInvalidated(n, flags)
	}
	if n.stage != nil {
		n.stage.nodeInvalidated(n, flags)
	}
}

// Validate recomputes the given flags (and their dependencies) if they are
// invalid and returns the bits that were validated. Validating a disposed
// node is a no-op.
func (n *Node) Validate(flags Flags) Flags {
	if n.disposed {
		return 0
	}
	return n.graph.Validate(flags)
}

// IsValid reports whether every bit in flags is currently valid.
func (n *Node) IsValid(flags Flags) bool {
	return n.graph.IsValid(flags)
}

// InvalidFlags returns the node's current invalid mask.
func (n *Node) InvalidFlags() Flags {
	return n.graph.InvalidFlags()
}

// AddValidation registers a custom producer on this node, typically for one
// of the reserved flag bits. See ValidationGraph.AddNode.
func (n *Node) AddValidation(flag, dependencies, dependents Flags, onValidate func()) int {
	return n.graph.AddNode(flag, dependencies, dependents, onValidate)
}

// CascadingFlags returns the flags forwarded to children when invalidated.
func (n *Node) CascadingFlags() Flags { return n.cascadingFlags }

// SetCascadingFlags sets the flags forwarded to children when invalidated.
func (n *Node) SetCascadingFlags(flags Flags) { n.cascadingFlags = flags }

// BubblingFlags returns the flags forwarded to the parent when invalidated.
func (n *Node) BubblingFlags() Flags { return n.bubblingFlags }

// SetBubblingFlags sets the flags forwarded to the parent when invalidated.
func (n *Node) SetBubblingFlags(flags Flags) { n.bubblingFlags = flags }

// LayoutInvalidatingFlags returns the child flags that invalidate this node's
// size constraints.
func (n *Node) LayoutInvalidatingFlags() Flags { return n.layoutInvalidatingFlags }

// SetLayoutInvalidatingFlags sets the child flags that invalidate this node's
// size constraints.
func (n *Node) SetLayoutInvalidatingFlags(flags Flags) { n.layoutInvalidatingFlags = flags }

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	n.prepareChild(child, "AddChild")
	n.insertChild(child, len(n.children))
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	n.prepareChild(child, "AddChildAt")
	if index < 0 || index > len(n.children) {
		panic("acorn: child index out of range")
	}
	n.insertChild(child, index)
}

// prepareChild validates child and detaches it from its current parent.
func (n *Node) prepareChild(child *Node, op string) {
	if child == nil {
		panic("acorn: cannot add nil child")
	}
	if globalDebug.Load() {
		debugCheckDisposed(n, op+" (parent)")
		debugCheckDisposed(child, op+" (child)")
	}
	if isAncestor(child, n) {
		panic("acorn: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
}

func (n *Node) insertChild(child *Node, index int) {
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	n.childAdded(child)
	if globalDebug.Load() {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

func (n *Node) childAdded(child *Node) {
	if n.stage != nil {
		child.activate(n.stage)
	}
	child.Invalidate(n.cascadingFlags | FlagHierarchyDescending | FlagConcatenatedTransform)
	n.hierarchyChanged(child)
}

func (n *Node) childRemoved(child *Node) {
	child.Invalidate(FlagHierarchyDescending | FlagConcatenatedTransform)
	if child.stage != nil {
		child.deactivate()
	}
	n.hierarchyChanged(child)
}

func (n *Node) hierarchyChanged(child *Node) {
	flags := FlagHierarchyAscending
	if child.includeInLayout {
		flags |= FlagSizeConstraints
	}
	n.Invalidate(flags)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if globalDebug.Load() {
		debugCheckDisposed(n, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != n {
		panic("acorn: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	n.childRemoved(child)
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	if globalDebug.Load() {
		debugCheckDisposed(n, "RemoveChildAt")
	}
	if index < 0 || index >= len(n.children) {
		panic("acorn: child index out of range")
	}
	child := n.children[index]
	copy(n.children[index:], n.children[index+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.Parent = nil
	n.childRemoved(child)
	return child
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed, including owned ones; use DisposeChildren to
// clear the node the way disposal does.
func (n *Node) RemoveChildren() {
	removed := n.children
	n.children = nil
	for _, child := range removed {
		child.Parent = nil
		n.childRemoved(child)
	}
}

// DisposeChildren clears all children. Children created with NewChild are
// disposed, releasing their cache groups; borrowed children are only detached.
func (n *Node) DisposeChildren() {
	removed := n.children
	n.children = nil
	for _, child := range removed {
		child.Parent = nil
		n.childRemoved(child)
		if child.owner == n {
			child.dispose()
		}
	}
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// SetChildIndex moves child to a new index among its siblings.
func (n *Node) SetChildIndex(child *Node, index int) {
	if child.Parent != n {
		panic("acorn: child's parent is not this node")
	}
	nc := len(n.children)
	if index < 0 || index >= nc {
		panic("acorn: child index out of range")
	}
	oldIndex := -1
	for i, c := range n.children {
		if c == child {
			oldIndex = i
			break
		}
	}
	if oldIndex == index {
		return
	}
	// Shift elements to fill the gap and open the target slot.
	if oldIndex < index {
		copy(n.children[oldIndex:], n.children[oldIndex+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:oldIndex])
	}
	n.children[index] = child
	n.hierarchyChanged(child)
}

// --- Lifecycle ---

// IsActive reports whether the node is attached beneath a Stage root.
func (n *Node) IsActive() bool {
	return n.stage != nil
}

// Stage returns the stage the node is attached to, or nil.
func (n *Node) Stage() *Stage {
	return n.stage
}

func (n *Node) activate(s *Stage) {
	n.stage = s
	if n.OnActivated != nil {
		n.OnActivated(n)
	}
	for _, child := range n.children {
		child.activate(s)
	}
}

func (n *Node) deactivate() {
	for _, child := range n.children {
		child.deactivate()
	}
	if n.OnDeactivated != nil {
		n.OnDeactivated(n)
	}
	n.stage = nil
}

// CachedGroup returns the node's cache group, creating it on first use. Keys
// added to the group are released when the node is disposed.
func (n *Node) CachedGroup(c *Cache[AssetKey, any]) *CachedGroup[AssetKey, any] {
	if n.group == nil {
		n.group = NewCachedGroup(c)
	}
	return n.group
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// disposes the children it owns, detaches the rest, and releases its cache
// references. Calling Dispose again is a no-op.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	if n.stage != nil {
		n.deactivate()
	}
	children := n.children
	n.children = nil
	for _, child := range children {
		child.Parent = nil
		if child.owner == n {
			child.dispose()
		} else {
			child.Invalidate(FlagHierarchyDescending | FlagConcatenatedTransform)
		}
	}
	n.disposed = true
	n.ID = 0
	if n.group != nil {
		n.group.Dispose()
		n.group = nil
	}
	n.Parent = nil
	n.owner = nil
	n.layout = nil
	n.UserData = nil
	n.OnInvalidated = nil
	n.OnStyles = nil
	n.OnActivated = nil
	n.OnDeactivated = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
