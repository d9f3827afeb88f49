package layout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk layout document exported from the scene scripts.
type File struct {
	Version string       `yaml:"version"`
	Frame   *FrameSpec   `yaml:"frame,omitempty"`
	Scenes  []SceneEntry `yaml:"scenes"`
}

// FrameSpec describes the visible canvas size.
type FrameSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// SceneEntry is a scene either as a single snapshot (Elements) or as a
// sequence of snapshots (Steps).
type SceneEntry struct {
	ID       string         `yaml:"id"`
	Elements []ElementEntry `yaml:"elements,omitempty"`
	Steps    []StepEntry    `yaml:"steps,omitempty"`
}

// StepEntry is the state of a scene after one animation step.
type StepEntry struct {
	Elements []ElementEntry `yaml:"elements"`
}

// ElementEntry is the serialized form of Element.
type ElementEntry struct {
	ID     string `yaml:"id"`
	Kind   string `yaml:"kind,omitempty"`
	Parent string `yaml:"parent,omitempty"`
	Center Vec2   `yaml:"center"`
	Size   Vec2   `yaml:"size"`
}

// Vec2 is written as a two-element flow sequence: [x, y].
type Vec2 [2]float64

func (v *Vec2) UnmarshalYAML(node *yaml.Node) error {
	var xs []float64
	if err := node.Decode(&xs); err != nil {
		return fmt.Errorf("line %d: expected [x, y]: %w", node.Line, err)
	}
	if len(xs) != 2 {
		return fmt.Errorf("line %d: expected 2 values, got %d", node.Line, len(xs))
	}
	v[0], v[1] = xs[0], xs[1]
	return nil
}

func (v Vec2) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, x := range v {
		var item yaml.Node
		if err := item.Encode(x); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &item)
	}
	return n, nil
}

// ReadLayout reads a layout document from a YAML file.
func ReadLayout(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLayout(data)
}

// ParseLayout decodes a layout document.
func ParseLayout(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return &f, nil
}

// WriteLayout writes a layout document to a YAML file.
func WriteLayout(f *File, path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// FrameOr returns the frame declared in the file, or fallback when absent.
func (f *File) FrameOr(fallback Frame) Frame {
	if f.Frame == nil {
		return fallback
	}
	return NewFrame(f.Frame.Width, f.Frame.Height)
}

// Timelines converts every scene entry to a Timeline, keeping file order.
func (f *File) Timelines() []Timeline {
	out := make([]Timeline, 0, len(f.Scenes))
	for _, s := range f.Scenes {
		t := Timeline{ID: s.ID}
		if len(s.Elements) > 0 {
			t.Steps = append(t.Steps, toElements(s.Elements))
		}
		for _, st := range s.Steps {
			t.Steps = append(t.Steps, toElements(st.Elements))
		}
		out = append(out, t)
	}
	return out
}

// FinalScenes returns the final snapshot of every scene.
func (f *File) FinalScenes() []Scene {
	ts := f.Timelines()
	out := make([]Scene, len(ts))
	for i, t := range ts {
		out[i] = t.Final()
	}
	return out
}

// Filter keeps only the scenes whose ID is listed. An empty list keeps all.
func (f *File) Filter(ids ...string) *File {
	if len(ids) == 0 {
		return f
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := *f
	out.Scenes = nil
	for _, s := range f.Scenes {
		if want[s.ID] {
			out.Scenes = append(out.Scenes, s)
		}
	}
	return &out
}

// FromScenes builds a single-snapshot layout document.
func FromScenes(frame Frame, scenes []Scene) *File {
	f := &File{
		Version: "1.0",
		Frame:   &FrameSpec{Width: frame.Width(), Height: frame.Height()},
	}
	for _, s := range scenes {
		entry := SceneEntry{ID: s.ID}
		for _, e := range s.Elements {
			entry.Elements = append(entry.Elements, ElementEntry{
				ID:     e.ID,
				Kind:   e.Kind,
				Parent: e.Parent,
				Center: Vec2{e.Center.X, e.Center.Y},
				Size:   Vec2{e.Size.W, e.Size.H},
			})
		}
		f.Scenes = append(f.Scenes, entry)
	}
	return f
}

func toElements(entries []ElementEntry) []Element {
	out := make([]Element, len(entries))
	for i, e := range entries {
		out[i] = Element{
			ID:     e.ID,
			Kind:   e.Kind,
			Parent: e.Parent,
			Center: Point{X: e.Center[0], Y: e.Center[1]},
			Size:   Size{W: e.Size[0], H: e.Size[1]},
		}
	}
	return out
}
