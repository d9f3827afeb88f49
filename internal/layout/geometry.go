package layout

import "fmt"

// Point is a position in scene-frame units.
type Point struct {
	X float64
	Y float64
}

// Size is a width/height pair in scene-frame units.
type Size struct {
	W float64
	H float64
}

// Box is an axis-aligned bounding box.
type Box struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// BoxFromCenter builds the bounding box of an element centered at c.
func BoxFromCenter(c Point, s Size) Box {
	return Box{
		MinX: c.X - s.W/2,
		MinY: c.Y - s.H/2,
		MaxX: c.X + s.W/2,
		MaxY: c.Y + s.H/2,
	}
}

func (b Box) Width() float64  { return b.MaxX - b.MinX }
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Area is zero for degenerate boxes.
func (b Box) Area() float64 {
	w, h := b.Width(), b.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Intersect returns the intersection of two boxes. ok is false when the
// intersection has zero or negative width or height.
func (b Box) Intersect(o Box) (Box, bool) {
	r := Box{
		MinX: max(b.MinX, o.MinX),
		MinY: max(b.MinY, o.MinY),
		MaxX: min(b.MaxX, o.MaxX),
		MaxY: min(b.MaxY, o.MaxY),
	}
	if r.MaxX <= r.MinX || r.MaxY <= r.MinY {
		return Box{}, false
	}
	return r, true
}

// Contains reports whether o lies fully inside b.
func (b Box) Contains(o Box) bool {
	return o.MinX >= b.MinX && o.MaxX <= b.MaxX && o.MinY >= b.MinY && o.MaxY <= b.MaxY
}

func (b Box) String() string {
	return fmt.Sprintf("[%.2f,%.2f]x[%.2f,%.2f]", b.MinX, b.MaxX, b.MinY, b.MaxY)
}
