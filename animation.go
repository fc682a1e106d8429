package acorn

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 values on a Node simultaneously. Create one via
// the convenience constructors (TweenPosition, TweenScale, TweenRotation,
// TweenSize) and either call Update(dt) each frame or register it with
// Stage.AddTween. Values are written through the node's setters, so the
// matching flags are invalidated. If the target node is disposed, the group
// stops immediately.
type TweenGroup struct {
	tweens [4]*gween.Tween
	values [4]float64
	count  int
	apply  func(n *Node, v [4]float64)
	target *Node
	Done   bool
}

func newTweenGroup(node *Node, duration float32, fn ease.TweenFunc, apply func(*Node, [4]float64), from, to []float64) *TweenGroup {
	g := &TweenGroup{count: len(from), target: node, apply: apply}
	for i := range from {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
		g.values[i] = from[i]
	}
	return g
}

// Update advances all tweens by dt seconds and applies the values to the
// target. If the target node has been disposed, Done is set to true and no
// writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target == nil || g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.values[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(g.target, g.values)
}

// TweenPosition animates the node's position to (toX, toY).
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn,
		func(n *Node, v [4]float64) { n.SetPosition(v[0], v[1]) },
		[]float64{node.X, node.Y}, []float64{toX, toY})
}

// TweenScale animates the node's scale to (toSX, toSY).
func TweenScale(node *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn,
		func(n *Node, v [4]float64) { n.SetScale(v[0], v[1]) },
		[]float64{node.ScaleX, node.ScaleY}, []float64{toSX, toSY})
}

// TweenRotation animates the node's rotation (radians).
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn,
		func(n *Node, v [4]float64) { n.SetRotation(v[0]) },
		[]float64{node.Rotation}, []float64{to})
}

// TweenSize animates the node's explicit size from its current laid-out size,
// invalidating size constraints every step.
func TweenSize(node *Node, toW, toH float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn,
		func(n *Node, v [4]float64) { n.SetSize(v[0], v[1]) },
		[]float64{node.Width(), node.Height()}, []float64{toW, toH})
}
