package acorn

import "math"

// LayoutAlgorithm measures and arranges a node's children.
//
// Measure runs during the FlagSizeConstraints producer. Children passed to it
// already have valid size constraints, so PreferredSize is cheap.
//
// Arrange runs during the FlagLayout producer with the node's final size. It
// typically positions children with SetPosition and may size them with SetSize.
type LayoutAlgorithm interface {
	Measure(n *Node, children []*Node) Vec2
	Arrange(n *Node, children []*Node, size Vec2)
}

// registerDefaultValidation adds the producers every node carries. The
// registration order is the validation order.
func registerDefaultValidation(n *Node) {
	g := n.graph
	g.AddNode(FlagStyles, 0, 0, n.validateStyles)
	g.AddNode(FlagHierarchyAscending, 0, 0, nil)
	g.AddNode(FlagHierarchyDescending, 0, 0, nil)
	g.AddNode(FlagLayoutEnabled, 0, 0, nil)
	g.AddNode(FlagInteractivityMode, 0, 0, nil)
	g.AddNode(FlagSizeConstraints, FlagStyles, 0, n.validateSizeConstraints)
	g.AddNode(FlagLayout, FlagSizeConstraints, 0, n.validateLayout)
	g.AddNode(FlagTransform, 0, 0, n.validateTransform)
	g.AddNode(FlagConcatenatedTransform, FlagTransform, 0, n.validateConcatenatedTransform)
}

func (n *Node) validateStyles() {
	if n.OnStyles != nil {
		n.OnStyles(n)
	}
}

// validateSizeConstraints pulls every laid-out child's size constraints valid
// first, then measures.
func (n *Node) validateSizeConstraints() {
	children := n.layoutChildren()
	for _, child := range children {
		child.Validate(FlagSizeConstraints)
	}
	var m Vec2
	if n.layout != nil {
		m = n.layout.Measure(n, children)
	}
	if n.hasExplicitW {
		m.X = n.explicitW
	}
	if n.hasExplicitH {
		m.Y = n.explicitH
	}
	n.measured = m
}

// validateLayout settles the node's size, arranges children, then forces any
// child state that could affect this layout valid.
func (n *Node) validateLayout() {
	n.size = n.measured
	if n.layout != nil {
		n.layout.Arrange(n, n.layoutChildren(), n.size)
	}
	for _, child := range n.children {
		child.Validate(n.layoutInvalidatingFlags)
	}
}

// layoutChildren returns the children included in layout. The returned slice
// is freshly allocated when any child is excluded.
func (n *Node) layoutChildren() []*Node {
	for i, child := range n.children {
		if !child.includeInLayout {
			out := make([]*Node, i, len(n.children))
			copy(out, n.children[:i])
			for _, c := range n.children[i+1:] {
				if c.includeInLayout {
					out = append(out, c)
				}
			}
			return out
		}
	}
	return n.children
}

// --- Sizing API ---

// SetSize sets an explicit width and height. NaN clears a dimension.
func (n *Node) SetSize(w, h float64) {
	hasW, hasH := !math.IsNaN(w), !math.IsNaN(h)
	if hasW == n.hasExplicitW && hasH == n.hasExplicitH &&
		(!hasW || w == n.explicitW) && (!hasH || h == n.explicitH) {
		return
	}
	n.explicitW, n.hasExplicitW = w, hasW
	n.explicitH, n.hasExplicitH = h, hasH
	n.Invalidate(FlagSizeConstraints)
}

// ClearSize removes any explicit size so the node is measured by its layout.
func (n *Node) ClearSize() {
	n.SetSize(math.NaN(), math.NaN())
}

// ExplicitSize returns the explicit width and height, NaN where unset.
func (n *Node) ExplicitSize() (w, h float64) {
	w, h = math.NaN(), math.NaN()
	if n.hasExplicitW {
		w = n.explicitW
	}
	if n.hasExplicitH {
		h = n.explicitH
	}
	return w, h
}

// SetLayout replaces the layout algorithm.
func (n *Node) SetLayout(layout LayoutAlgorithm) {
	n.layout = layout
	n.Invalidate(FlagSizeConstraints)
}

// IncludeInLayout reports whether the parent's layout considers this node.
func (n *Node) IncludeInLayout() bool {
	return n.includeInLayout
}

// SetIncludeInLayout toggles participation in the parent's layout.
func (n *Node) SetIncludeInLayout(include bool) {
	if n.includeInLayout == include {
		return
	}
	n.includeInLayout = include
	n.Invalidate(FlagLayoutEnabled)
}

// PreferredSize returns the validated measured size.
func (n *Node) PreferredSize() Vec2 {
	n.Validate(FlagSizeConstraints)
	return n.measured
}

// Width returns the validated layout width.
func (n *Node) Width() float64 {
	n.Validate(FlagLayout)
	return n.size.X
}

// Height returns the validated layout height.
func (n *Node) Height() float64 {
	n.Validate(FlagLayout)
	return n.size.Y
}

// Bounds returns the validated local-space bounds.
func (n *Node) Bounds() Rect {
	n.Validate(FlagLayout)
	return Rect{Width: n.size.X, Height: n.size.Y}
}

// --- Layout algorithms ---

// VerticalLayout stacks children top to bottom separated by Gap.
type VerticalLayout struct {
	Gap float64
}

// Measure implements LayoutAlgorithm.
func (l VerticalLayout) Measure(_ *Node, children []*Node) Vec2 {
	var m Vec2
	for i, child := range children {
		ps := child.PreferredSize()
		m.X = math.Max(m.X, ps.X)
		m.Y += ps.Y
		if i > 0 {
			m.Y += l.Gap
		}
	}
	return m
}

// Arrange implements LayoutAlgorithm.
func (l VerticalLayout) Arrange(_ *Node, children []*Node, _ Vec2) {
	y := 0.0
	for _, child := range children {
		child.SetPosition(0, y)
		y += child.PreferredSize().Y + l.Gap
	}
}

// HorizontalLayout places children left to right separated by Gap.
type HorizontalLayout struct {
	Gap float64
}

// Measure implements LayoutAlgorithm.
func (l HorizontalLayout) Measure(_ *Node, children []*Node) Vec2 {
	var m Vec2
	for i, child := range children {
		ps := child.PreferredSize()
		m.X += ps.X
		m.Y = math.Max(m.Y, ps.Y)
		if i > 0 {
			m.X += l.Gap
		}
	}
	return m
}

// Arrange implements LayoutAlgorithm.
func (l HorizontalLayout) Arrange(_ *Node, children []*Node, _ Vec2) {
	x := 0.0
	for _, child := range children {
		child.SetPosition(x, 0)
		x += child.PreferredSize().X + l.Gap
	}
}
