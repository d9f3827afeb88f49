// Package config loads the project configuration from explainer.toml.
//
// Values start from Default, are overlaid by the TOML file when one exists,
// and are finally overridden by CLI flags in cmd/explainer.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "explainer.toml"

// Config is the full project configuration.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Frame      Frame      `toml:"frame"`
	Validation Validation `toml:"validation"`
	Narration  Narration  `toml:"narration"`
	Media      Media      `toml:"media"`
	Logging    Logging    `toml:"logging"`
	Workers    int        `toml:"workers"`
	ShowStats  bool       `toml:"show_stats"`

	BuildVersion string `toml:"-"`
	// Source is the file the configuration was read from, empty for defaults.
	Source string `toml:"-"`
}

// Paths locates project inputs and outputs.
type Paths struct {
	Layout    string `toml:"layout"`
	Script    string `toml:"script"`
	VideoDir  string `toml:"video_dir"`
	AudioDir  string `toml:"audio_dir"`
	OutputDir string `toml:"output_dir"`
	Output    string `toml:"output"`
}

// Frame is the visible canvas size in scene units.
type Frame struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Validation tunes the layout checks.
type Validation struct {
	OverlapThreshold float64  `toml:"overlap_threshold"`
	Inclusive        bool     `toml:"inclusive"`
	ErrorRatio       float64  `toml:"error_ratio"`
	EdgeTolerance    float64  `toml:"edge_tolerance"`
	SkipAncestors    bool     `toml:"skip_ancestors"`
	Checks           []string `toml:"checks"`
	PreviewWidth     int      `toml:"preview_width"`
}

// Narration selects the speech engine and its voice.
type Narration struct {
	Engine     string `toml:"engine"`
	Voice      string `toml:"voice"`
	Rate       string `toml:"rate"`
	Volume     string `toml:"volume"`
	EdgeBinary string `toml:"edge_binary"`
	PiperModel string `toml:"piper_model"`
	Parallel   int    `toml:"parallel"`
	Force      bool   `toml:"force"`
}

// Media configures the ffmpeg-based muxer.
type Media struct {
	FFmpeg       string `toml:"ffmpeg"`
	FFprobe      string `toml:"ffprobe"`
	VideoEncoder string `toml:"video_encoder"`
	Quality      int    `toml:"quality"`
	AudioBitrate string `toml:"audio_bitrate"`
}

// Logging controls log verbosity.
type Logging struct {
	Level string `toml:"level"`
}

// Load reads path, or FileName in the working directory when path is empty.
// A missing default file is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = FileName
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		cfg.Source = path
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
