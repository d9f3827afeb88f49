// Package validator detects layout defects in animation scenes: elements
// overlapping each other and elements reaching past the visible frame.
//
// Validation is a pure function of its inputs. Scenes are independent, so a
// Validator checks them in parallel; findings come back as typed violations,
// never as errors. Errors are reserved for malformed input.
package validator

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/explainer/internal/layout"
)

// Validator runs the configured checks over scenes.
type Validator struct {
	opts   Options
	checks []Check
}

// New builds a Validator, rejecting invalid options.
func New(opts Options) (*Validator, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	v := &Validator{opts: opts}
	for _, name := range opts.Checks {
		c, err := NewCheck(name, opts)
		if err != nil {
			return nil, err
		}
		v.checks = append(v.checks, c)
	}
	return v, nil
}

// Validate checks single-snapshot scenes against frame.
func (v *Validator) Validate(scenes []layout.Scene, frame layout.Frame) (*Report, error) {
	timelines := make([]layout.Timeline, len(scenes))
	for i, s := range scenes {
		timelines[i] = layout.Timeline{ID: s.ID, Steps: [][]layout.Element{s.Elements}}
	}
	return v.run(timelines, frame, false)
}

// ValidateTimelines checks every step of every timeline. A violation that
// persists across steps is reported once, at the first step it appears.
func (v *Validator) ValidateTimelines(timelines []layout.Timeline, frame layout.Frame) (*Report, error) {
	return v.run(timelines, frame, true)
}

func (v *Validator) run(timelines []layout.Timeline, frame layout.Frame, numbered bool) (*Report, error) {
	if !frame.Valid() {
		return nil, ErrMissingFrame
	}
	if err := checkSceneIDs(timelines); err != nil {
		return nil, err
	}
	for _, t := range timelines {
		for _, step := range t.Steps {
			if err := checkElements(t.ID, step); err != nil {
				return nil, err
			}
		}
	}

	results := make([]SceneReport, len(timelines))
	var g errgroup.Group
	if v.opts.Workers > 0 {
		g.SetLimit(v.opts.Workers)
	}
	for i, t := range timelines {
		g.Go(func() error {
			results[i] = v.validateTimeline(t, frame, numbered)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Report{Scenes: results}, nil
}

func (v *Validator) validateTimeline(t layout.Timeline, frame layout.Frame, numbered bool) SceneReport {
	rep := SceneReport{Scene: t.ID, Steps: len(t.Steps)}
	if n := len(t.Steps); n > 0 {
		rep.Elements = len(t.Steps[n-1])
	}

	seen := make(map[violationKey]bool)
	for i, elements := range t.Steps {
		loc := Location{Scene: t.ID}
		if numbered {
			loc.Step = i + 1
		}
		snap := Snapshot{Location: loc, Elements: elements, Frame: frame}
		for _, c := range v.checks {
			for _, viol := range c.Run(snap) {
				k := viol.key()
				if seen[k] {
					continue
				}
				seen[k] = true
				rep.Violations = append(rep.Violations, viol)
			}
		}
	}
	return rep
}

func checkSceneIDs(timelines []layout.Timeline) error {
	seen := make(map[string]bool, len(timelines))
	for _, t := range timelines {
		if t.ID == "" {
			return &ConfigError{Reason: "scene without id"}
		}
		if seen[t.ID] {
			return &ConfigError{Scene: t.ID, Reason: "duplicate scene id"}
		}
		seen[t.ID] = true
	}
	return nil
}

func checkElements(scene string, elements []layout.Element) error {
	seen := make(map[string]bool, len(elements))
	for i, e := range elements {
		if e.ID == "" {
			return &ConfigError{Scene: scene, Reason: fmt.Sprintf("element #%d has no id", i)}
		}
		if seen[e.ID] {
			return &ConfigError{Scene: scene, Element: e.ID, Reason: "duplicate element id"}
		}
		seen[e.ID] = true
		if !(e.Size.W > 0) || !(e.Size.H > 0) || math.IsInf(e.Size.W, 0) || math.IsInf(e.Size.H, 0) {
			return &ConfigError{
				Scene:   scene,
				Element: e.ID,
				Reason:  fmt.Sprintf("non-positive size %gx%g", e.Size.W, e.Size.H),
			}
		}
		if !finite(e.Center.X) || !finite(e.Center.Y) {
			return &ConfigError{
				Scene:   scene,
				Element: e.ID,
				Reason:  fmt.Sprintf("non-finite center (%g, %g)", e.Center.X, e.Center.Y),
			}
		}
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Validate checks scenes with DefaultOptions.
func Validate(scenes []layout.Scene, frame layout.Frame) (*Report, error) {
	v, err := New(DefaultOptions())
	if err != nil {
		return nil, err
	}
	return v.Validate(scenes, frame)
}
