// Package layout holds the scene layout model: elements placed in a scene,
// the visible frame they must fit in, and the YAML file that carries both.
package layout

// Default manim frame: 14.222 x 8 units centered at the origin.
const (
	DefaultFrameWidth  = 8.0 * 16 / 9
	DefaultFrameHeight = 8.0
)

// Element is a single placed object of a scene.
type Element struct {
	ID     string
	Kind   string // "text", "shape", "group", "arrow" or empty
	Parent string // ID of the enclosing group, if any
	Center Point
	Size   Size
}

// Box returns the element's axis-aligned bounding box.
func (e Element) Box() Box {
	return BoxFromCenter(e.Center, e.Size)
}

// Scene is an immutable snapshot of the elements on screen.
type Scene struct {
	ID       string
	Elements []Element
}

// Timeline is a scene captured after every animation step.
type Timeline struct {
	ID    string
	Steps [][]Element
}

// Final returns the last captured step as a Scene.
func (t Timeline) Final() Scene {
	if len(t.Steps) == 0 {
		return Scene{ID: t.ID}
	}
	return Scene{ID: t.ID, Elements: t.Steps[len(t.Steps)-1]}
}

// Frame is the visible canvas rectangle.
type Frame struct {
	Box
}

// NewFrame returns a frame of the given size centered at the origin.
func NewFrame(width, height float64) Frame {
	return Frame{Box: BoxFromCenter(Point{}, Size{W: width, H: height})}
}

// DefaultFrame is the standard manim canvas.
func DefaultFrame() Frame {
	return NewFrame(DefaultFrameWidth, DefaultFrameHeight)
}

// Valid reports whether the frame has a positive area.
func (f Frame) Valid() bool {
	return f.Width() > 0 && f.Height() > 0
}

// Ancestors returns the chain of parent IDs of id, nearest first.
// Cycles in the parent links are cut at the first repeat.
func Ancestors(elements []Element, id string) []string {
	parents := make(map[string]string, len(elements))
	for _, e := range elements {
		parents[e.ID] = e.Parent
	}

	var chain []string
	seen := map[string]bool{id: true}
	for p := parents[id]; p != "" && !seen[p]; p = parents[p] {
		seen[p] = true
		chain = append(chain, p)
	}
	return chain
}
