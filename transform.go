package acorn

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeLocalTransform builds the local matrix [a, b, c, d, tx, ty] by
// applying, in order: the pivot offset, scale, skew, rotation and finally the
// X/Y translation.
func computeLocalTransform(n *Node) [6]float64 {
	m := [6]float64{n.ScaleX, 0, 0, n.ScaleY, -n.PivotX * n.ScaleX, -n.PivotY * n.ScaleY}
	if n.SkewX != 0 || n.SkewY != 0 {
		m = multiplyAffine([6]float64{1, math.Tan(n.SkewY), math.Tan(n.SkewX), 1, 0, 0}, m)
	}
	if n.Rotation != 0 {
		sin, cos := math.Sincos(n.Rotation)
		m = multiplyAffine([6]float64{cos, sin, -sin, cos, 0, 0}, m)
	}
	m[4] += n.X
	m[5] += n.Y
	return m
}

// multiplyAffine returns parent * child, with matrices laid out as
//
//	| m[0]  m[2]  m[4] |
//	| m[1]  m[3]  m[5] |
func multiplyAffine(p, c [6]float64) [6]float64 {
	var out [6]float64
	out[0], out[1] = p[0]*c[0]+p[2]*c[1], p[1]*c[0]+p[3]*c[1]
	out[2], out[3] = p[0]*c[2]+p[2]*c[3], p[1]*c[2]+p[3]*c[3]
	out[4], out[5] = transformPoint(p, c[4], c[5])
	return out
}

// invertAffine inverts m. A singular matrix inverts to the identity.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[1]*m[2]
	if math.Abs(det) < 1e-12 {
		return identityTransform
	}
	inv := [6]float64{m[3] / det, -m[1] / det, -m[2] / det, m[0] / det, 0, 0}
	tx, ty := transformPoint(inv, m[4], m[5])
	inv[4], inv[5] = -tx, -ty
	return inv
}

func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// validateTransform is the FlagTransform producer.
func (n *Node) validateTransform() {
	n.localTransform = computeLocalTransform(n)
}

// validateConcatenatedTransform is the FlagConcatenatedTransform producer. The
// parent's global transform lives in another graph, so it is validated here
// before being read.
func (n *Node) validateConcatenatedTransform() {
	if p := n.Parent; p != nil {
		p.Validate(FlagConcatenatedTransform)
		n.globalTransform = multiplyAffine(p.globalTransform, n.localTransform)
		return
	}
	n.globalTransform = n.localTransform
}

// SetPosition moves the node within its parent's space.
func (n *Node) SetPosition(x, y float64) {
	if n.X != x || n.Y != y {
		n.X, n.Y = x, y
		n.Invalidate(FlagTransform)
	}
}

func (n *Node) SetScale(sx, sy float64) {
	if n.ScaleX != sx || n.ScaleY != sy {
		n.ScaleX, n.ScaleY = sx, sy
		n.Invalidate(FlagTransform)
	}
}

// SetRotation sets the rotation in radians.
func (n *Node) SetRotation(r float64) {
	if n.Rotation != r {
		n.Rotation = r
		n.Invalidate(FlagTransform)
	}
}

// SetSkew sets the skew angles in radians.
func (n *Node) SetSkew(sx, sy float64) {
	if n.SkewX != sx || n.SkewY != sy {
		n.SkewX, n.SkewY = sx, sy
		n.Invalidate(FlagTransform)
	}
}

// SetPivot sets the local point that scale, skew and rotation are applied
// around.
func (n *Node) SetPivot(px, py float64) {
	if n.PivotX != px || n.PivotY != py {
		n.PivotX, n.PivotY = px, py
		n.Invalidate(FlagTransform)
	}
}

// MarkDirty invalidates the transform after the exported transform fields
// were assigned directly.
func (n *Node) MarkDirty() {
	n.Invalidate(FlagTransform)
}

// LocalTransform returns the validated local matrix [a, b, c, d, tx, ty].
func (n *Node) LocalTransform() [6]float64 {
	n.Validate(FlagTransform)
	return n.localTransform
}

// GlobalTransform returns the validated matrix from this node's space to
// stage space.
func (n *Node) GlobalTransform() [6]float64 {
	n.Validate(FlagConcatenatedTransform)
	return n.globalTransform
}

// GlobalToLocal maps a point from stage space into this node's space.
func (n *Node) GlobalToLocal(gx, gy float64) (lx, ly float64) {
	return transformPoint(invertAffine(n.GlobalTransform()), gx, gy)
}

// LocalToGlobal maps a point from this node's space into stage space.
func (n *Node) LocalToGlobal(lx, ly float64) (gx, gy float64) {
	return transformPoint(n.GlobalTransform(), lx, ly)
}
