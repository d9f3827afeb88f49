// Package media wraps ffprobe and ffmpeg: probing durations, attaching a
// narration track to each scene video and concatenating the scenes.
package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivlev/explainer/internal/system"
)

// Narration longer than the video by more than this is padded by freezing
// the last frame.
const padSlack = 0.05

// SceneParams describes how one scene is muxed.
type SceneParams struct {
	Scene         string
	Video         string
	Audio         string
	Output        string
	VideoDuration float64
	AudioDuration float64
}

// Muxer combines scene videos with narration via ffmpeg.
type Muxer struct {
	FFmpeg       string
	Encoder      string
	Quality      int
	AudioBitrate string
	Run          Runner
}

// Every segment is encoded to the same audio layout so the concat demuxer
// can join them without re-encoding.
const (
	audioSampleRate = "48000"
	audioChannels   = "2"
	silence         = "anullsrc=channel_layout=stereo:sample_rate=" + audioSampleRate
)

// NewMuxer returns a Muxer running ffmpeg through run (ExecRunner when nil).
// An empty encoder is detected from the ffmpeg build; a zero quality
// follows the encoder.
func NewMuxer(ctx context.Context, run Runner, ffmpeg, encoder string, quality int, audioBitrate string) *Muxer {
	if run == nil {
		run = ExecRunner
	}
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	if audioBitrate == "" {
		audioBitrate = "192k"
	}
	m := &Muxer{FFmpeg: ffmpeg, Encoder: encoder, Quality: quality, AudioBitrate: audioBitrate, Run: run}
	if m.Encoder == "" {
		m.Encoder = DetectEncoder(ctx, m.Run, ffmpeg)
	}
	if m.Quality == 0 {
		m.Quality = DefaultQuality(m.Encoder)
	}
	return m
}

// NeedsPadding reports whether the narration outlasts the video.
func (p SceneParams) NeedsPadding() bool {
	return p.Audio != "" && p.AudioDuration > p.VideoDuration+padSlack
}

// CodecArgs are the output codec settings shared by every scene segment.
func (m *Muxer) CodecArgs() []string {
	args := []string{"-c:v", m.Encoder, "-pix_fmt", "yuv420p"}
	args = append(args, QualityArgs(m.Encoder, m.Quality)...)
	return append(args,
		"-c:a", "aac", "-b:a", m.AudioBitrate,
		"-ar", audioSampleRate, "-ac", audioChannels,
	)
}

// SceneArgs builds the ffmpeg arguments for one scene. The video is always
// re-encoded with CodecArgs so segments from the renderer and padded ones
// end up with identical streams.
func (m *Muxer) SceneArgs(p SceneParams) []string {
	args := []string{"-y", "-i", p.Video}

	switch {
	case p.Audio == "":
		// No narration: a silent track keeps the stream layout uniform.
		args = append(args,
			"-f", "lavfi", "-i", silence,
			"-map", "0:v", "-map", "1:a", "-shortest",
		)
	case p.NeedsPadding():
		pad := p.AudioDuration - p.VideoDuration
		args = append(args, "-i", p.Audio,
			"-filter_complex", fmt.Sprintf("[0:v]tpad=stop_mode=clone:stop_duration=%.3f[v]", pad),
			"-map", "[v]", "-map", "1:a",
		)
	default:
		// Short narration: pad the audio with silence up to the video length.
		args = append(args, "-i", p.Audio,
			"-map", "0:v", "-map", "1:a",
			"-af", "apad", "-shortest",
		)
	}

	args = append(args, m.CodecArgs()...)
	return append(args, p.Output)
}

// MuxScene writes p.Output.
func (m *Muxer) MuxScene(ctx context.Context, p SceneParams) error {
	if p.Video == "" || p.Output == "" {
		return errors.New("mux: video and output paths are required")
	}
	if out, err := m.Run(ctx, m.FFmpeg, m.SceneArgs(p)...); err != nil {
		return fmt.Errorf("ffmpeg mux %s: %v, output: %s", p.Scene, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Concatenate joins segments into finalPath with the concat demuxer by
// stream copy. The segments must come from MuxScene on the same Muxer so
// they share codec settings.
func (m *Muxer) Concatenate(ctx context.Context, segments []string, finalPath, tmpDir string) error {
	if len(segments) == 0 {
		return errors.New("concat: no segments")
	}

	listPath := filepath.Join(tmpDir, "inputs.txt")
	f, err := os.Create(listPath)
	if err != nil {
		return err
	}
	for _, p := range segments {
		absPath, err := filepath.Abs(p)
		if err != nil {
			f.Close()
			return err
		}
		fmt.Fprintf(f, "file '%s'\n", strings.ReplaceAll(absPath, "'", `'\''`))
	}
	if err := f.Close(); err != nil {
		return err
	}

	out, err := m.Run(ctx, m.FFmpeg, "-y", "-f", "concat", "-safe", "0", "-i", listPath, "-c", "copy", finalPath)
	if err != nil {
		return fmt.Errorf("ffmpeg concat error: %v, output: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// FindSceneVideo returns the newest <scene>.mp4 rendered under dir.
func FindSceneVideo(dir, scene string) (string, error) {
	return system.FindLatestNamed(dir, scene+".mp4")
}
