package report

import (
	"encoding/json"
	"io"

	"github.com/ivlev/explainer/internal/validator"
)

// JSONReport is the machine-readable form of a validator.Report.
type JSONReport struct {
	OK       bool        `json:"ok"`
	Errors   int         `json:"errors"`
	Warnings int         `json:"warnings"`
	Scenes   []JSONScene `json:"scenes"`
}

type JSONScene struct {
	Scene      string          `json:"scene"`
	Steps      int             `json:"steps"`
	Elements   int             `json:"elements"`
	Violations []JSONViolation `json:"violations"`
}

// JSONViolation flattens both violation variants; Kind tells them apart.
type JSONViolation struct {
	Kind     validator.Kind `json:"kind"`
	Severity string         `json:"severity"`
	Step     int            `json:"step,omitempty"`

	// overlap
	A     string  `json:"a,omitempty"`
	B     string  `json:"b,omitempty"`
	Ratio float64 `json:"ratio,omitempty"`

	// out_of_bounds
	Element string       `json:"element,omitempty"`
	Box     *[4]float64  `json:"box,omitempty"`
	Excess  []JSONExcess `json:"excess,omitempty"`
}

type JSONExcess struct {
	Edge     validator.Edge `json:"edge"`
	Distance float64        `json:"distance"`
}

// ToJSON converts r into its JSON shape.
func ToJSON(r *validator.Report) JSONReport {
	out := JSONReport{
		OK:       r.OK(),
		Errors:   r.Errors(),
		Warnings: r.Warnings(),
		Scenes:   make([]JSONScene, 0, len(r.Scenes)),
	}
	for _, sc := range r.Scenes {
		js := JSONScene{
			Scene:      sc.Scene,
			Steps:      sc.Steps,
			Elements:   sc.Elements,
			Violations: make([]JSONViolation, 0, len(sc.Violations)),
		}
		for _, v := range sc.Violations {
			js.Violations = append(js.Violations, toJSONViolation(v))
		}
		out.Scenes = append(out.Scenes, js)
	}
	return out
}

func toJSONViolation(v validator.Violation) JSONViolation {
	jv := JSONViolation{
		Kind:     v.Kind(),
		Severity: v.Level().String(),
		Step:     v.Where().Step,
	}
	switch v := v.(type) {
	case *validator.Overlap:
		jv.A, jv.B, jv.Ratio = v.A, v.B, v.Ratio
	case *validator.OutOfBounds:
		jv.Element = v.Element
		jv.Box = &[4]float64{v.Box.MinX, v.Box.MinY, v.Box.MaxX, v.Box.MaxY}
		for _, e := range v.Excess {
			jv.Excess = append(jv.Excess, JSONExcess{Edge: e.Edge, Distance: e.Distance})
		}
	}
	return jv
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *validator.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToJSON(r))
}
