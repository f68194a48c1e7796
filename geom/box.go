package geom

import "math"

// Quadrant indexes the four children of a midpoint split.
type Quadrant int

const (
	TopLeft Quadrant = iota
	TopRight
	BottomLeft
	BottomRight
)

// Box is a closed-open axis-aligned rectangle: a point is inside when
// Min.X <= p.X < Max.X and Min.Y <= p.Y < Max.Y.
type Box struct {
	Min Vec
	Max Vec
}

// EmptyBox returns the identity for Union: an inverted box that no point
// is inside.
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{
		Min: Vec{inf, inf},
		Max: Vec{-inf, -inf},
	}
}

// NewBox returns the box spanning min to max.
func NewBox(min, max Vec) Box {
	return Box{Min: min, Max: max}
}

// IsEmpty reports whether the box contains no points. A box collapsed in
// either dimension is empty under closed-open semantics.
func (b Box) IsEmpty() bool {
	return b.Min.X >= b.Max.X || b.Min.Y >= b.Max.Y
}

// Contains reports whether p is inside the closed-open box.
func (b Box) Contains(p Vec) bool {
	return b.Min.X <= p.X && p.X < b.Max.X &&
		b.Min.Y <= p.Y && p.Y < b.Max.Y
}

// Width returns the horizontal extent.
func (b Box) Width() float64 {
	return b.Max.X - b.Min.X
}

// Height returns the vertical extent.
func (b Box) Height() float64 {
	return b.Max.Y - b.Min.Y
}

// Union returns the smallest box covering both b and other.
func (b Box) Union(other Box) Box {
	return Box{
		Min: Vec{math.Min(b.Min.X, other.Min.X), math.Min(b.Min.Y, other.Min.Y)},
		Max: Vec{math.Max(b.Max.X, other.Max.X), math.Max(b.Max.Y, other.Max.Y)},
	}
}

// UnionPoint grows the box to cover p.
func (b Box) UnionPoint(p Vec) Box {
	return b.Union(Box{Min: p, Max: p})
}

// Intersect returns the overlap of b and other; the result may be empty.
func (b Box) Intersect(other Box) Box {
	return Box{
		Min: Vec{math.Max(b.Min.X, other.Min.X), math.Max(b.Min.Y, other.Min.Y)},
		Max: Vec{math.Min(b.Max.X, other.Max.X), math.Min(b.Max.Y, other.Max.Y)},
	}
}

// ContainsBox reports whether other lies entirely within b.
func (b Box) ContainsBox(other Box) bool {
	return b.Union(other) == b
}

// Mid returns the midpoint of the box.
func (b Box) Mid() Vec {
	return Middle(b.Min, b.Max)
}

// GetQuadrant returns one quarter of the box split at the midpoint.
func (b Box) GetQuadrant(q Quadrant) Box {
	mid := b.Mid()
	switch q {
	case TopLeft:
		return Box{Min: b.Min, Max: mid}
	case TopRight:
		return Box{Min: Vec{mid.X, b.Min.Y}, Max: Vec{b.Max.X, mid.Y}}
	case BottomLeft:
		return Box{Min: Vec{b.Min.X, mid.Y}, Max: Vec{mid.X, b.Max.Y}}
	default:
		return Box{Min: mid, Max: b.Max}
	}
}

// Quadrants returns all four quadrants in TL, TR, BL, BR order.
func (b Box) Quadrants() [4]Box {
	return [4]Box{
		b.GetQuadrant(TopLeft),
		b.GetQuadrant(TopRight),
		b.GetQuadrant(BottomLeft),
		b.GetQuadrant(BottomRight),
	}
}

// BoundingBox folds a point list into its bounding box.
func BoundingBox(points []Vec) Box {
	out := EmptyBox()
	for _, p := range points {
		out = out.UnionPoint(p)
	}
	return out
}
