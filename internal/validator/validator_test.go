package validator

import (
	"errors"
	"math"
	"testing"

	"github.com/ivlev/explainer/internal/layout"
)

func el(id string, x, y, w, h float64) layout.Element {
	return layout.Element{ID: id, Center: layout.Point{X: x, Y: y}, Size: layout.Size{W: w, H: h}}
}

// 14 x 8 frame: [-7,7] x [-4,4].
var testFrame = layout.NewFrame(14, 8)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestOutOfBoundsExample(t *testing.T) {
	scenes := []layout.Scene{{
		ID: "s",
		Elements: []layout.Element{
			el("A", 0, 0, 2, 2),
			el("B", 6.5, 0, 2, 2),
		},
	}}

	report, err := Validate(scenes, testFrame)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if report.Count() != 1 {
		t.Fatalf("Expected 1 violation, got %d: %v", report.Count(), report.All())
	}

	oob, ok := report.All()[0].(*OutOfBounds)
	if !ok {
		t.Fatalf("Expected *OutOfBounds, got %T", report.All()[0])
	}
	if oob.Element != "B" {
		t.Errorf("Expected element B, got %s", oob.Element)
	}
	if len(oob.Excess) != 1 || oob.Excess[0].Edge != EdgeRight || !near(oob.Excess[0].Distance, 0.5) {
		t.Errorf("Expected right +0.5, got %v", oob.Excess)
	}
	if oob.Level() != SeverityError {
		t.Errorf("Out-of-bounds should be an error, got %s", oob.Level())
	}
}

func TestOverlapContainmentExample(t *testing.T) {
	scenes := []layout.Scene{{
		ID: "s",
		Elements: []layout.Element{
			el("C", 0, 0, 4, 4),
			el("D", 1, 1, 2, 2),
		},
	}}

	report, err := Validate(scenes, testFrame)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if report.Count() != 1 {
		t.Fatalf("Expected 1 violation, got %d", report.Count())
	}

	ov, ok := report.All()[0].(*Overlap)
	if !ok {
		t.Fatalf("Expected *Overlap, got %T", report.All()[0])
	}
	if ov.A != "C" || ov.B != "D" || !near(ov.Ratio, 1.0) {
		t.Errorf("Expected Overlap(C,D,1.0), got %s", ov)
	}
	if ov.Level() != SeverityError {
		t.Errorf("Full containment should be an error, got %s", ov.Level())
	}
}

func TestOverlapRatio(t *testing.T) {
	tests := []struct {
		name string
		a, b layout.Element
		want float64
	}{
		{"disjoint", el("a", -3, 0, 2, 2), el("b", 3, 0, 2, 2), 0},
		{"touching edges", el("a", 0, 0, 2, 2), el("b", 2, 0, 2, 2), 0},
		{"identical", el("a", 0, 0, 2, 2), el("b", 0, 0, 2, 2), 1},
		{"half", el("a", 0, 0, 2, 2), el("b", 1, 0, 2, 2), 0.5},
		{"small label inside large shape", el("a", 0, 0, 10, 6), el("b", 0, 0, 1, 0.5), 1},
		{"small label half out of shape", el("a", 0, 0, 4, 4), el("b", 2, 0, 1, 1), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OverlapRatio(tt.a.Box(), tt.b.Box())
			if !near(got, tt.want) {
				t.Errorf("OverlapRatio = %v, want %v", got, tt.want)
			}
			if back := OverlapRatio(tt.b.Box(), tt.a.Box()); !near(back, got) {
				t.Errorf("OverlapRatio is not symmetric: %v vs %v", got, back)
			}
		})
	}
}

func TestNoOverlapForDisjointBoxes(t *testing.T) {
	var elements []layout.Element
	for i := 0; i < 5; i++ {
		elements = append(elements, el(string(rune('a'+i)), -6+float64(i)*2.5, 0, 2, 2))
	}

	report, err := Validate([]layout.Scene{{ID: "row", Elements: elements}}, testFrame)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !report.OK() {
		t.Errorf("Expected no violations, got %v", report.All())
	}
}

func TestThresholdBoundary(t *testing.T) {
	// Two unit squares sharing a 0.3 wide strip. The computed ratio is
	// 0.30000000000000004, which must still read as exactly 30%.
	a := el("a", 0, 0, 1, 1)
	b := el("b", 0.7, 0, 1, 1)

	tests := []struct {
		name      string
		inclusive bool
		want      int
	}{
		{"strict", false, 0},
		{"inclusive", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Inclusive = tt.inclusive
			v, err := New(opts)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			report, err := v.Validate([]layout.Scene{{ID: "s", Elements: []layout.Element{a, b}}}, testFrame)
			if err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
			if report.Count() != tt.want {
				t.Errorf("Expected %d violations, got %d", tt.want, report.Count())
			}
		})
	}
}

func TestFrameEdges(t *testing.T) {
	tests := []struct {
		name string
		e    layout.Element
		edge Edge
	}{
		{"exact frame", el("f", 0, 0, 14, 8), ""},
		{"left", el("f", -1, 0, 14, 8), EdgeLeft},
		{"right", el("f", 1, 0, 14, 8), EdgeRight},
		{"bottom", el("f", 0, -1, 14, 8), EdgeBottom},
		{"top", el("f", 0, 1, 14, 8), EdgeTop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			excess := EdgeExcesses(tt.e.Box(), testFrame, 0)
			if tt.edge == "" {
				if len(excess) != 0 {
					t.Errorf("Expected no excess, got %v", excess)
				}
				return
			}
			if len(excess) != 1 || excess[0].Edge != tt.edge || !near(excess[0].Distance, 1) {
				t.Errorf("Expected %s +1, got %v", tt.edge, excess)
			}
		})
	}
}

func TestEdgeTolerance(t *testing.T) {
	e := el("e", 6.52, 0, 1, 1) // right edge at 7.02
	if got := EdgeExcesses(e.Box(), testFrame, 0.05); len(got) != 0 {
		t.Errorf("Expected tolerance to absorb 0.02, got %v", got)
	}
	if got := EdgeExcesses(e.Box(), testFrame, 0); len(got) != 1 {
		t.Errorf("Expected right excess without tolerance, got %v", got)
	}
}

func TestEmptyScene(t *testing.T) {
	report, err := Validate([]layout.Scene{{ID: "empty"}}, testFrame)
	if err != nil {
		t.Fatalf("Empty scene should not fail: %v", err)
	}
	if !report.OK() {
		t.Errorf("Expected no violations, got %d", report.Count())
	}
	if len(report.Scenes) != 1 || report.Scenes[0].Scene != "empty" {
		t.Errorf("Expected a report entry for the empty scene, got %+v", report.Scenes)
	}
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		scenes []layout.Scene
		frame  layout.Frame
		target error
	}{
		{"zero width", []layout.Scene{{ID: "s", Elements: []layout.Element{el("x", 0, 0, 0, 1)}}}, testFrame, nil},
		{"negative height", []layout.Scene{{ID: "s", Elements: []layout.Element{el("x", 0, 0, 1, -2)}}}, testFrame, nil},
		{"duplicate element", []layout.Scene{{ID: "s", Elements: []layout.Element{el("x", 0, 0, 1, 1), el("x", 2, 0, 1, 1)}}}, testFrame, nil},
		{"infinite center x", []layout.Scene{{ID: "s", Elements: []layout.Element{el("x", math.Inf(1), 0, 1, 1)}}}, testFrame, nil},
		{"infinite center y", []layout.Scene{{ID: "s", Elements: []layout.Element{el("x", 0, math.Inf(-1), 1, 1)}}}, testFrame, nil},
		{"nan center", []layout.Scene{{ID: "s", Elements: []layout.Element{el("x", math.NaN(), 0, 1, 1)}}}, testFrame, nil},
		{"duplicate scene", []layout.Scene{{ID: "s"}, {ID: "s"}}, testFrame, nil},
		{"missing frame", []layout.Scene{{ID: "s"}}, layout.Frame{}, ErrMissingFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.scenes, tt.frame)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if tt.target != nil {
				if !errors.Is(err, tt.target) {
					t.Errorf("Expected %v, got %v", tt.target, err)
				}
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("Expected *ConfigError, got %T: %v", err, err)
			}
		})
	}
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero threshold", func(o *Options) { o.OverlapThreshold = 0 }},
		{"threshold above one", func(o *Options) { o.OverlapThreshold = 1.5 }},
		{"negative tolerance", func(o *Options) { o.EdgeTolerance = -1 }},
		{"no checks", func(o *Options) { o.Checks = nil }},
		{"unknown check", func(o *Options) { o.Checks = []string{"contrast"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			if _, err := New(opts); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestSeveritySplit(t *testing.T) {
	scenes := []layout.Scene{{
		ID: "s",
		Elements: []layout.Element{
			el("a", -4, 0, 2, 2),
			el("b", -3, 0, 2, 2), // 50% with a
			el("c", 3, 0, 2, 2),
			el("d", 3.2, 0, 2, 2), // 90% with c
		},
	}}

	report, err := Validate(scenes, testFrame)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if report.Warnings() != 1 || report.Errors() != 1 {
		t.Errorf("Expected 1 warning and 1 error, got %d and %d", report.Warnings(), report.Errors())
	}
}

func TestSkipAncestors(t *testing.T) {
	elements := []layout.Element{
		{ID: "group", Kind: "group", Center: layout.Point{}, Size: layout.Size{W: 6, H: 2}},
		{ID: "box", Parent: "group", Center: layout.Point{X: -2}, Size: layout.Size{W: 2, H: 2}},
		{ID: "label", Parent: "box", Center: layout.Point{X: -2}, Size: layout.Size{W: 1, H: 0.5}},
	}

	for _, skip := range []bool{true, false} {
		opts := DefaultOptions()
		opts.SkipAncestors = skip
		v, err := New(opts)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		report, err := v.Validate([]layout.Scene{{ID: "s", Elements: elements}}, testFrame)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		want := 0
		if !skip {
			want = 3
		}
		if report.Count() != want {
			t.Errorf("SkipAncestors=%v: expected %d violations, got %d", skip, want, report.Count())
		}
	}
}

func TestReportKeepsInputOrder(t *testing.T) {
	var scenes []layout.Scene
	ids := []string{"Scene1", "Scene2", "Scene3", "Scene4", "Scene5", "Scene6", "Scene7"}
	for _, id := range ids {
		scenes = append(scenes, layout.Scene{ID: id, Elements: []layout.Element{el("x", 0, 0, 1, 1)}})
	}

	opts := DefaultOptions()
	opts.Workers = 3
	v, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	report, err := v.Validate(scenes, testFrame)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	for i, s := range report.Scenes {
		if s.Scene != ids[i] {
			t.Errorf("Scene %d: expected %s, got %s", i, ids[i], s.Scene)
		}
	}
}

func TestValidateTimelinesDeduplicates(t *testing.T) {
	timeline := layout.Timeline{
		ID: "Scene4",
		Steps: [][]layout.Element{
			{el("title", 0, 3, 4, 1)},
			{el("title", 0, 3, 4, 1), el("note", 0, 3.2, 3, 1)},
			{el("title", 0, 3, 4, 1), el("note", 0, 3.2, 3, 1), el("legend", 7, -3, 2, 1)},
			{el("title", 0, 3, 4, 1), el("note", 0, 3.2, 3, 1), el("legend", 7, -3, 2, 1)},
		},
	}

	v, err := New(DefaultOptions())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	report, err := v.ValidateTimelines([]layout.Timeline{timeline}, testFrame)
	if err != nil {
		t.Fatalf("ValidateTimelines failed: %v", err)
	}

	sr, ok := report.Scene("Scene4")
	if !ok {
		t.Fatal("Scene4 missing from report")
	}
	if sr.Steps != 4 || sr.Elements != 3 {
		t.Errorf("Expected 4 steps and 3 elements, got %d and %d", sr.Steps, sr.Elements)
	}
	if len(sr.Violations) != 2 {
		t.Fatalf("Expected 2 distinct violations, got %d: %v", len(sr.Violations), sr.Violations)
	}
	if step := sr.Violations[0].Where().Step; step != 2 {
		t.Errorf("Overlap should be reported at step 2, got %d", step)
	}
	if step := sr.Violations[1].Where().Step; step != 3 {
		t.Errorf("Out-of-bounds should be reported at step 3, got %d", step)
	}
}

func TestDeduplicationKeepsDistinctPairs(t *testing.T) {
	// Joined as strings both pairs would read "a|b|c".
	timeline := layout.Timeline{
		ID: "s",
		Steps: [][]layout.Element{
			{el("a|b", 0, 0, 1, 1), el("c", 0, 0, 1, 1)},
			{el("a", 0, 0, 1, 1), el("b|c", 0, 0, 1, 1)},
		},
	}

	v, err := New(DefaultOptions())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	report, err := v.ValidateTimelines([]layout.Timeline{timeline}, testFrame)
	if err != nil {
		t.Fatalf("ValidateTimelines failed: %v", err)
	}
	if report.Count() != 2 {
		t.Fatalf("Expected 2 overlaps, got %d: %v", report.Count(), report.All())
	}
	if step := report.All()[1].Where().Step; step != 2 {
		t.Errorf("Second overlap should be reported at step 2, got %d", step)
	}
}
