package view

import "math"

// Transform places a node relative to its parent: scale, then rotate
// (radians), then translate. Composition is exact for uniform scales.
type Transform struct {
	X, Y           float64
	ScaleX, ScaleY float64
	Rotation       float64
}

func Identity() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// Apply maps a point from local space into the parent's space.
func (t Transform) Apply(x, y float64) (float64, float64) {
	x, y = x*t.ScaleX, y*t.ScaleY
	sin, cos := math.Sincos(t.Rotation)
	return t.X + x*cos - y*sin, t.Y + x*sin + y*cos
}

// Compose returns the transform equivalent to applying child and then t.
func (t Transform) Compose(child Transform) Transform {
	x, y := t.Apply(child.X, child.Y)
	return Transform{
		X:        x,
		Y:        y,
		ScaleX:   t.ScaleX * child.ScaleX,
		ScaleY:   t.ScaleY * child.ScaleY,
		Rotation: t.Rotation + child.Rotation,
	}
}

func (n *Node) Transform() Transform {
	return n.transform
}

func (n *Node) SetTransform(t Transform) {
	n.transform = t
}

// WorldTransform composes the transforms from the root down to n.
func (n *Node) WorldTransform() Transform {
	if n.parent == nil {
		return n.transform
	}
	return n.parent.WorldTransform().Compose(n.transform)
}
