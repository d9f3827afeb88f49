package narration

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Script is the narration text for every scene plus the voice settings.
type Script struct {
	Voice  string      `yaml:"voice,omitempty"`
	Rate   string      `yaml:"rate,omitempty"`
	Volume string      `yaml:"volume,omitempty"`
	Scenes []SceneText `yaml:"scenes"`
}

// SceneText is the narration for one scene.
type SceneText struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
}

// ReadScript reads a narration script from a YAML file.
func ReadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}
	return &s, nil
}

// Validate rejects scripts with missing IDs, duplicate IDs or empty text.
func (s *Script) Validate() error {
	if len(s.Scenes) == 0 {
		return ErrEmptyScript
	}
	seen := make(map[string]bool, len(s.Scenes))
	for i, sc := range s.Scenes {
		if strings.TrimSpace(sc.ID) == "" {
			return fmt.Errorf("scene #%d: missing id", i)
		}
		if seen[sc.ID] {
			return fmt.Errorf("scene %q: duplicate id", sc.ID)
		}
		seen[sc.ID] = true
		if strings.TrimSpace(sc.Text) == "" {
			return fmt.Errorf("scene %q: %w", sc.ID, ErrEmptyText)
		}
	}
	return nil
}

// Filter keeps only the listed scenes. An empty list keeps all.
func (s *Script) Filter(ids ...string) *Script {
	if len(ids) == 0 {
		return s
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := *s
	out.Scenes = nil
	for _, sc := range s.Scenes {
		if want[sc.ID] {
			out.Scenes = append(out.Scenes, sc)
		}
	}
	return &out
}
