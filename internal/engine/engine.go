// Package engine wires the project stages together: layout validation,
// narration, muxing and the final concatenation.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/explainer/internal/config"
	"github.com/ivlev/explainer/internal/layout"
	"github.com/ivlev/explainer/internal/media"
	"github.com/ivlev/explainer/internal/narration"
	"github.com/ivlev/explainer/internal/preview"
	"github.com/ivlev/explainer/internal/system"
	"github.com/ivlev/explainer/internal/validator"
)

// DefaultOutputName is the final video file name inside the output directory.
const DefaultOutputName = "explainer.mp4"

// ErrLayoutViolations aborts a build whose layout has error-severity findings.
var ErrLayoutViolations = errors.New("layout has error-severity violations")

// Project runs the pipeline for one configuration.
type Project struct {
	Config *config.Config
	Logger *log.Logger
	// Out receives the performance report.
	Out io.Writer

	// Speech is the narration engine. Nil means build one from Config.
	Speech narration.Engine
	// Run executes ffmpeg and ffprobe. Nil means os/exec.
	Run media.Runner
	// Scenes restricts every stage to these scene IDs.
	Scenes []string
	// Voice and Rate, when set, win over the narration script's settings.
	Voice string
	Rate  string
}

// NewProject returns a Project for cfg.
func NewProject(cfg *config.Config, logger *log.Logger) *Project {
	return &Project{Config: cfg, Logger: logger, Out: os.Stdout}
}

// BuildOptions controls Build.
type BuildOptions struct {
	// AllowViolations continues past error-severity layout findings.
	AllowViolations bool
	// SkipNarration reuses existing audio instead of synthesizing.
	SkipNarration bool
}

// ValidatorOptions maps the validation config onto validator options.
func (p *Project) ValidatorOptions() validator.Options {
	v := p.Config.Validation
	return validator.Options{
		OverlapThreshold: v.OverlapThreshold,
		Inclusive:        v.Inclusive,
		ErrorRatio:       v.ErrorRatio,
		EdgeTolerance:    v.EdgeTolerance,
		SkipAncestors:    v.SkipAncestors,
		Checks:           v.Checks,
		Workers:          p.Config.Workers,
	}
}

// LoadLayout reads the configured layout, restricted to p.Scenes.
func (p *Project) LoadLayout() (*layout.File, layout.Frame, error) {
	path, err := resolveInput(p.Config.Paths.Layout, ".yaml", ".yml")
	if err != nil {
		return nil, layout.Frame{}, err
	}
	f, err := layout.ReadLayout(path)
	if err != nil {
		return nil, layout.Frame{}, err
	}
	f = f.Filter(p.Scenes...)
	if len(f.Scenes) == 0 {
		return nil, layout.Frame{}, fmt.Errorf("no scenes selected from %s", path)
	}
	return f, f.FrameOr(p.Config.FrameRect()), nil
}

// Validate checks every step of every selected scene.
func (p *Project) Validate() (*validator.Report, error) {
	f, frame, err := p.LoadLayout()
	if err != nil {
		return nil, err
	}
	v, err := validator.New(p.ValidatorOptions())
	if err != nil {
		return nil, err
	}

	p.Logger.Info("[*] Validating layout", "scenes", len(f.Scenes), "frame", frame.Box)
	rep, err := v.ValidateTimelines(f.Timelines(), frame)
	if err != nil {
		return nil, err
	}
	if rep.OK() {
		p.Logger.Info("[*] Layout clean")
	} else {
		p.Logger.Warn("[!] Layout issues found", "errors", rep.Errors(), "warnings", rep.Warnings())
	}
	return rep, nil
}

// Preview renders every step of every selected scene into dir.
func (p *Project) Preview(dir string) ([]string, error) {
	if _, err := p.Validate(); err != nil {
		return nil, err
	}
	v, err := validator.New(p.ValidatorOptions())
	if err != nil {
		return nil, err
	}
	f, frame, err := p.LoadLayout()
	if err != nil {
		return nil, err
	}
	r, err := preview.NewRenderer(frame, p.Config.Validation.PreviewWidth)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, t := range f.Timelines() {
		written, err := r.WriteTimeline(dir, t, v)
		paths = append(paths, written...)
		if err != nil {
			return paths, err
		}
		p.Logger.Info("[>] Preview ready", "scene", t.ID, "images", len(written))
	}
	return paths, nil
}

// LoadScript reads the configured narration script, restricted to p.Scenes.
func (p *Project) LoadScript() (*narration.Script, error) {
	path, err := resolveInput(p.Config.Paths.Script, ".yaml", ".yml")
	if err != nil {
		return nil, err
	}
	s, err := narration.ReadScript(path)
	if err != nil {
		return nil, err
	}
	s = s.Filter(p.Scenes...)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Narrate synthesizes the audio for every selected scene.
func (p *Project) Narrate(ctx context.Context) ([]narration.Track, error) {
	script, err := p.LoadScript()
	if err != nil {
		return nil, err
	}
	speech, err := p.speech()
	if err != nil {
		return nil, err
	}

	n := p.Config.Narration
	g := &narration.Generator{
		Engine:   speech,
		Dir:      p.Config.Paths.AudioDir,
		Parallel: n.Parallel,
		Force:    n.Force,
		Prober:   p.prober(),
		Logger:   p.Logger,
		Voice:    p.Voice,
		Rate:     p.Rate,

		DefaultVoice:  n.Voice,
		DefaultRate:   n.Rate,
		DefaultVolume: n.Volume,
	}
	p.Logger.Info("[*] Generating narration", "scenes", len(script.Scenes), "engine", speech.Name())
	tracks, err := g.Generate(ctx, script)
	if err != nil {
		return nil, err
	}
	p.Logger.Info("[*] Narration ready", "total", fmt.Sprintf("%.1fs", totalDuration(tracks)))
	return tracks, nil
}

// ExistingTracks locates audio already generated for every selected scene.
func (p *Project) ExistingTracks(ctx context.Context) ([]narration.Track, error) {
	script, err := p.LoadScript()
	if err != nil {
		return nil, err
	}
	prober := p.prober()
	exts := audioExtensions(p.Config.Narration.Engine)

	tracks := make([]narration.Track, 0, len(script.Scenes))
	for _, sc := range script.Scenes {
		path, err := findAudio(p.Config.Paths.AudioDir, sc.ID, exts)
		if err != nil {
			return nil, err
		}
		d, err := prober.Duration(ctx, path)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, narration.Track{Scene: sc.ID, Path: path, Duration: d, Cached: true})
	}
	return tracks, nil
}

// Mux attaches each track to its scene video and concatenates the results
// into the output file, which it returns.
func (p *Project) Mux(ctx context.Context, tracks []narration.Track) (string, error) {
	if len(tracks) == 0 {
		return "", errors.New("mux: no narration tracks")
	}

	tempDir, err := os.MkdirTemp("", "explainer_")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tempDir)

	m := p.muxer(ctx)
	prober := p.prober()
	p.Logger.Info("[*] Muxing scenes", "scenes", len(tracks), "encoder", m.Encoder)

	segments := make([]string, len(tracks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, p.Config.Workers))
	for i, tr := range tracks {
		g.Go(func() error {
			video, err := media.FindSceneVideo(p.Config.Paths.VideoDir, tr.Scene)
			if err != nil {
				return err
			}
			vd, err := prober.Duration(gctx, video)
			if err != nil {
				return err
			}
			params := media.SceneParams{
				Scene:         tr.Scene,
				Video:         video,
				Audio:         tr.Path,
				Output:        filepath.Join(tempDir, fmt.Sprintf("%02d_%s.mp4", i+1, tr.Scene)),
				VideoDuration: vd,
				AudioDuration: tr.Duration,
			}
			if params.NeedsPadding() {
				p.Logger.Info("[>] Freezing last frame", "scene", tr.Scene,
					"video", fmt.Sprintf("%.1fs", vd), "audio", fmt.Sprintf("%.1fs", tr.Duration))
			}
			if err := m.MuxScene(gctx, params); err != nil {
				return err
			}
			segments[i] = params.Output
			p.Logger.Info("[>] Ready", "scene", tr.Scene, "done", fmt.Sprintf("%d/%d", i+1, len(tracks)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	out := p.OutputPath()
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return "", err
	}
	p.Logger.Info("[*] Concatenating final video", "output", out)
	if err := m.Concatenate(ctx, segments, out, tempDir); err != nil {
		return "", err
	}
	return out, nil
}

// Build runs validate, narrate, mux and concat, printing the performance
// report when ShowStats is set.
func (p *Project) Build(ctx context.Context, opts BuildOptions) error {
	stats := system.NewStats(p.Config.BuildVersion)

	var rep *validator.Report
	err := stats.Track("Validation", func() (err error) {
		rep, err = p.Validate()
		return err
	})
	if err != nil {
		return err
	}
	stats.Scenes = len(rep.Scenes)
	if n := rep.Errors(); n > 0 {
		if !opts.AllowViolations {
			return fmt.Errorf("%w: %d found", ErrLayoutViolations, n)
		}
		p.Logger.Warn("[!] Continuing despite layout errors", "errors", n)
	}

	var tracks []narration.Track
	err = stats.Track("Narration", func() (err error) {
		if opts.SkipNarration {
			tracks, err = p.ExistingTracks(ctx)
		} else {
			tracks, err = p.Narrate(ctx)
		}
		return err
	})
	if err != nil {
		return err
	}

	var out string
	err = stats.Track("Muxing", func() (err error) {
		out, err = p.Mux(ctx, tracks)
		return err
	})
	if err != nil {
		return err
	}
	stats.OutputPath = out
	p.Logger.Info("[*] Done", "output", out)

	if p.Config.ShowStats {
		stats.Write(p.Out)
		if err := stats.AppendLog(filepath.Join(p.Config.Paths.OutputDir, "benchmark.log")); err != nil {
			p.Logger.Warn("[!] Could not write benchmark.log", "err", err)
		}
	}
	return nil
}

// OutputPath is the final video location.
func (p *Project) OutputPath() string {
	if p.Config.Paths.Output != "" {
		return p.Config.Paths.Output
	}
	return filepath.Join(p.Config.Paths.OutputDir, DefaultOutputName)
}

func (p *Project) runner() media.Runner {
	if p.Run != nil {
		return p.Run
	}
	return media.ExecRunner
}

func (p *Project) prober() *media.Prober {
	pr := media.NewProber(p.Config.Media.FFprobe)
	pr.Run = p.runner()
	return pr
}

func (p *Project) muxer(ctx context.Context) *media.Muxer {
	mc := p.Config.Media
	return media.NewMuxer(ctx, p.runner(), mc.FFmpeg, mc.VideoEncoder, mc.Quality, mc.AudioBitrate)
}

func (p *Project) speech() (narration.Engine, error) {
	if p.Speech != nil {
		return p.Speech, nil
	}
	e, err := NewSpeechEngine(p.Config.Narration)
	if err != nil {
		return nil, err
	}
	p.Speech = e
	return e, nil
}

// resolveInput returns path, or the newest file with one of exts when path
// is a directory.
func resolveInput(path string, exts ...string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return path, nil
	}
	return system.FindLatest(path, exts...)
}

func findAudio(dir, scene string, exts []string) (string, error) {
	for _, ext := range exts {
		path := filepath.Join(dir, scene+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no narration for scene %s in %s (%s)", scene, dir, strings.Join(exts, ", "))
}

func totalDuration(tracks []narration.Track) float64 {
	sum := 0.0
	for _, t := range tracks {
		sum += t.Duration
	}
	return sum
}
