package validator

import (
	"fmt"

	"github.com/ivlev/explainer/internal/layout"
)

const (
	CheckOverlap = "overlap"
	CheckBounds  = "bounds"
)

// Snapshot is the input handed to every check: one scene at one step.
type Snapshot struct {
	Location
	Elements []layout.Element
	Frame    layout.Frame
}

// Check inspects a snapshot and reports what it finds.
type Check interface {
	Name() string
	Run(s Snapshot) []Violation
}

// NewCheck creates a check by name, configured from opts.
func NewCheck(name string, opts Options) (Check, error) {
	switch name {
	case CheckOverlap:
		return &OverlapCheck{
			Threshold:     opts.OverlapThreshold,
			Inclusive:     opts.Inclusive,
			ErrorRatio:    opts.ErrorRatio,
			SkipAncestors: opts.SkipAncestors,
		}, nil
	case CheckBounds:
		return &BoundsCheck{Tolerance: opts.EdgeTolerance}, nil
	default:
		return nil, &ConfigError{Reason: fmt.Sprintf("unknown check: %s", name)}
	}
}

// OverlapRatio is the intersection area of a and b divided by the area of
// the smaller box. Disjoint or touching boxes give 0.
func OverlapRatio(a, b layout.Box) float64 {
	inter, ok := a.Intersect(b)
	if !ok {
		return 0
	}
	smaller := min(a.Area(), b.Area())
	if smaller <= 0 {
		return 0
	}
	return inter.Area() / smaller
}

// OverlapCheck compares every unordered pair of elements in a snapshot.
type OverlapCheck struct {
	Threshold     float64
	Inclusive     bool
	ErrorRatio    float64
	SkipAncestors bool
}

func (c *OverlapCheck) Name() string { return CheckOverlap }

func (c *OverlapCheck) Run(s Snapshot) []Violation {
	boxes := make([]layout.Box, len(s.Elements))
	for i, e := range s.Elements {
		boxes[i] = e.Box()
	}

	var related map[[2]string]bool
	if c.SkipAncestors {
		related = ancestorPairs(s.Elements)
	}

	var out []Violation
	for i := 0; i < len(s.Elements); i++ {
		for j := i + 1; j < len(s.Elements); j++ {
			a, b := s.Elements[i].ID, s.Elements[j].ID
			if related[[2]string{a, b}] || related[[2]string{b, a}] {
				continue
			}
			ratio := OverlapRatio(boxes[i], boxes[j])
			if !c.exceeds(ratio) {
				continue
			}
			sev := SeverityWarning
			if ratio > c.ErrorRatio+ratioEpsilon {
				sev = SeverityError
			}
			out = append(out, &Overlap{Location: s.Location, A: a, B: b, Ratio: ratio, Severity: sev})
		}
	}
	return out
}

// ratioEpsilon absorbs rounding in the intersection arithmetic, so a ratio
// computed as 0.30000000000000004 still counts as exactly 0.30.
const ratioEpsilon = 1e-9

func (c *OverlapCheck) exceeds(ratio float64) bool {
	if c.Inclusive {
		return ratio >= c.Threshold-ratioEpsilon
	}
	return ratio > c.Threshold+ratioEpsilon
}

// ancestorPairs maps (ancestor, descendant) pairs present in the snapshot.
func ancestorPairs(elements []layout.Element) map[[2]string]bool {
	pairs := make(map[[2]string]bool)
	for _, e := range elements {
		if e.Parent == "" {
			continue
		}
		for _, anc := range layout.Ancestors(elements, e.ID) {
			pairs[[2]string{anc, e.ID}] = true
		}
	}
	return pairs
}

// BoundsCheck tests every element box for containment in the frame.
type BoundsCheck struct {
	Tolerance float64
}

func (c *BoundsCheck) Name() string { return CheckBounds }

func (c *BoundsCheck) Run(s Snapshot) []Violation {
	var out []Violation
	for _, e := range s.Elements {
		box := e.Box()
		excess := EdgeExcesses(box, s.Frame, c.Tolerance)
		if len(excess) == 0 {
			continue
		}
		out = append(out, &OutOfBounds{
			Location: s.Location,
			Element:  e.ID,
			Box:      box,
			Excess:   excess,
			Severity: SeverityError,
		})
	}
	return out
}

// EdgeExcesses lists the frame edges that box crosses by more than tol,
// with the distance past each edge.
func EdgeExcesses(box layout.Box, frame layout.Frame, tol float64) []EdgeExcess {
	var out []EdgeExcess
	if d := frame.MinX - box.MinX; d > tol {
		out = append(out, EdgeExcess{Edge: EdgeLeft, Distance: d})
	}
	if d := box.MaxX - frame.MaxX; d > tol {
		out = append(out, EdgeExcess{Edge: EdgeRight, Distance: d})
	}
	if d := frame.MinY - box.MinY; d > tol {
		out = append(out, EdgeExcess{Edge: EdgeBottom, Distance: d})
	}
	if d := box.MaxY - frame.MaxY; d > tol {
		out = append(out, EdgeExcess{Edge: EdgeTop, Distance: d})
	}
	return out
}
