package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Info is the subset of ffprobe output the muxer needs.
type Info struct {
	Duration float64
	HasVideo bool
	HasAudio bool
	Width    int
	Height   int
}

type probeResult struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		Duration  string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Prober inspects media files with ffprobe.
type Prober struct {
	Binary string
	Run    Runner
}

// NewProber returns a Prober using binary, or "ffprobe" when empty.
func NewProber(binary string) *Prober {
	if strings.TrimSpace(binary) == "" {
		binary = "ffprobe"
	}
	return &Prober{Binary: binary, Run: ExecRunner}
}

// Probe returns duration and stream information for path.
func (p *Prober) Probe(ctx context.Context, path string) (Info, error) {
	if strings.TrimSpace(path) == "" {
		return Info{}, errors.New("ffprobe: empty path")
	}

	out, err := p.Run(ctx, p.Binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe %s: %w: %s", path, err, strings.TrimSpace(string(out)))
	}
	return parseProbe(out)
}

// Duration returns the container duration of path in seconds.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	info, err := p.Probe(ctx, path)
	if err != nil {
		return 0, err
	}
	return info.Duration, nil
}

func parseProbe(data []byte) (Info, error) {
	var res probeResult
	if err := json.Unmarshal(data, &res); err != nil {
		return Info{}, fmt.Errorf("ffprobe parse: %w", err)
	}

	var info Info
	for _, s := range res.Streams {
		switch s.CodecType {
		case "video":
			info.HasVideo = true
			info.Width, info.Height = s.Width, s.Height
		case "audio":
			info.HasAudio = true
		}
	}

	dur := strings.TrimSpace(res.Format.Duration)
	if dur == "" {
		for _, s := range res.Streams {
			if s.Duration != "" {
				dur = s.Duration
				break
			}
		}
	}
	if dur != "" {
		d, err := strconv.ParseFloat(dur, 64)
		if err != nil {
			return Info{}, fmt.Errorf("ffprobe duration %q: %w", dur, err)
		}
		info.Duration = d
	}
	return info, nil
}
