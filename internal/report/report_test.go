package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ivlev/explainer/internal/layout"
	"github.com/ivlev/explainer/internal/validator"
)

func sampleReport() *validator.Report {
	return &validator.Report{Scenes: []validator.SceneReport{
		{Scene: "Scene1_Title", Steps: 1, Elements: 4},
		{
			Scene:    "Scene4_LLM",
			Steps:    3,
			Elements: 9,
			Violations: []validator.Violation{
				&validator.Overlap{
					Location: validator.Location{Scene: "Scene4_LLM", Step: 2},
					A:        "llm_box", B: "token_row", Ratio: 0.45,
					Severity: validator.SeverityWarning,
				},
				&validator.OutOfBounds{
					Location: validator.Location{Scene: "Scene4_LLM", Step: 3},
					Element:  "caption",
					Box:      layout.Box{MinX: 4, MinY: -1, MaxX: 7.61, MaxY: 1},
					Excess:   []validator.EdgeExcess{{Edge: validator.EdgeRight, Distance: 0.5}},
					Severity: validator.SeverityError,
				},
			},
		},
	}}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleReport(), TextOptions{}); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Scene1_Title (4 elements)",
		"no issues",
		"Scene4_LLM (9 elements, 3 steps)",
		"WARNING",
		"llm_box, token_row",
		"45% of smaller box",
		"ERROR",
		"right +0.50",
		"Found 2 issues in 1 scenes (1 errors, 1 warnings).",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("Plain output should not contain color codes")
	}
}

func TestWriteTextQuiet(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleReport(), TextOptions{Quiet: true}); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	if strings.Contains(buf.String(), "Scene1_Title") {
		t.Error("Quiet mode should hide clean scenes")
	}
}

func TestSummaryOK(t *testing.T) {
	r := &validator.Report{Scenes: []validator.SceneReport{{Scene: "a"}, {Scene: "b"}}}
	if got := Summary(r); got != "All 2 scenes passed layout validation." {
		t.Errorf("Unexpected summary: %q", got)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var got JSONReport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if got.OK || got.Errors != 1 || got.Warnings != 1 {
		t.Errorf("Unexpected totals: %+v", got)
	}
	if len(got.Scenes) != 2 || len(got.Scenes[0].Violations) != 0 {
		t.Fatalf("Unexpected scenes: %+v", got.Scenes)
	}

	vs := got.Scenes[1].Violations
	if vs[0].Kind != validator.KindOverlap || vs[0].A != "llm_box" || vs[0].Ratio != 0.45 || vs[0].Step != 2 {
		t.Errorf("Unexpected overlap entry: %+v", vs[0])
	}
	if vs[1].Kind != validator.KindOutOfBounds || vs[1].Element != "caption" || vs[1].Severity != "error" {
		t.Errorf("Unexpected out-of-bounds entry: %+v", vs[1])
	}
	if len(vs[1].Excess) != 1 || vs[1].Excess[0].Edge != validator.EdgeRight {
		t.Errorf("Unexpected excess: %+v", vs[1].Excess)
	}
}

func TestJSONEmptyViolationsIsArray(t *testing.T) {
	var buf bytes.Buffer
	r := &validator.Report{Scenes: []validator.SceneReport{{Scene: "a"}}}
	if err := WriteJSON(&buf, r); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"violations": []`) {
		t.Errorf("Expected empty array, got %s", buf.String())
	}
}
