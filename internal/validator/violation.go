package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ivlev/explainer/internal/layout"
)

// Severity grades a violation.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Kind discriminates the violation variants.
type Kind string

const (
	KindOverlap     Kind = "overlap"
	KindOutOfBounds Kind = "out_of_bounds"
)

// Location identifies where a violation was seen. Step is the 1-based
// animation step for timelines and 0 for single snapshots.
type Location struct {
	Scene string
	Step  int
}

// Violation is either an *Overlap or an *OutOfBounds.
type Violation interface {
	Kind() Kind
	Where() Location
	Level() Severity
	Subjects() []string
	Detail() string

	key() violationKey
}

// violationKey identifies a violation across the steps of a timeline.
type violationKey struct {
	kind Kind
	a, b string
}

// Overlap flags two elements whose boxes share more than the threshold
// fraction of the smaller box.
type Overlap struct {
	Location
	A, B     string
	Ratio    float64
	Severity Severity
}

func (o *Overlap) Kind() Kind         { return KindOverlap }
func (o *Overlap) Where() Location    { return o.Location }
func (o *Overlap) Level() Severity    { return o.Severity }
func (o *Overlap) Subjects() []string { return []string{o.A, o.B} }
func (o *Overlap) Detail() string     { return fmt.Sprintf("%.0f%% of smaller box", o.Ratio*100) }
func (o *Overlap) String() string {
	return fmt.Sprintf("Overlap(%s, %s, %.2f)", o.A, o.B, o.Ratio)
}

func (o *Overlap) key() violationKey {
	a, b := o.A, o.B
	if b < a {
		a, b = b, a
	}
	return violationKey{kind: KindOverlap, a: a, b: b}
}

// Edge names a side of the frame.
type Edge string

const (
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
	EdgeBottom Edge = "bottom"
	EdgeTop    Edge = "top"
)

// EdgeExcess is how far a box reaches past one frame edge.
type EdgeExcess struct {
	Edge     Edge
	Distance float64
}

// OutOfBounds flags an element whose box is not contained in the frame.
type OutOfBounds struct {
	Location
	Element  string
	Box      layout.Box
	Excess   []EdgeExcess
	Severity Severity
}

func (o *OutOfBounds) Kind() Kind         { return KindOutOfBounds }
func (o *OutOfBounds) Where() Location    { return o.Location }
func (o *OutOfBounds) Level() Severity    { return o.Severity }
func (o *OutOfBounds) Subjects() []string { return []string{o.Element} }

func (o *OutOfBounds) Detail() string {
	parts := make([]string, len(o.Excess))
	for i, e := range o.Excess {
		parts[i] = fmt.Sprintf("%s +%.2f", e.Edge, e.Distance)
	}
	return strings.Join(parts, ", ")
}

func (o *OutOfBounds) String() string {
	return fmt.Sprintf("OutOfBounds(%s, %s)", o.Element, o.Detail())
}

func (o *OutOfBounds) key() violationKey {
	edges := make([]string, len(o.Excess))
	for i, e := range o.Excess {
		edges[i] = string(e.Edge)
	}
	sort.Strings(edges)
	return violationKey{kind: KindOutOfBounds, a: o.Element, b: strings.Join(edges, ",")}
}
