package narration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// DurationProber measures an audio file. media.Prober satisfies it.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Track is the narration audio produced for one scene.
type Track struct {
	Scene    string
	Path     string
	Duration float64 // seconds, 0 when unknown
	Cached   bool
}

// Generator writes one audio file per scene of a script.
type Generator struct {
	Engine   Engine
	Dir      string
	Parallel int
	Force    bool
	Prober   DurationProber
	Logger   *log.Logger

	// Voice settings that win over the script's own.
	Voice  string
	Rate   string
	Volume string

	// Voice settings used when neither the generator nor the script sets one.
	DefaultVoice  string
	DefaultRate   string
	DefaultVolume string
}

// Path returns the audio file location for a scene.
func (g *Generator) Path(scene string) string {
	return filepath.Join(g.Dir, scene+g.Engine.Extension())
}

// Generate synthesizes every scene of script, reusing existing files unless
// Force is set. Tracks come back in script order.
func (g *Generator) Generate(ctx context.Context, script *Script) ([]Track, error) {
	if err := script.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(g.Dir, 0755); err != nil {
		return nil, err
	}

	tracks := make([]Track, len(script.Scenes))
	g2, ctx := errgroup.WithContext(ctx)
	if g.Parallel > 0 {
		g2.SetLimit(g.Parallel)
	}

	for i, sc := range script.Scenes {
		g2.Go(func() error {
			tr, err := g.generateOne(ctx, script, sc)
			if err != nil {
				return fmt.Errorf("scene %s: %w", sc.ID, err)
			}
			tracks[i] = tr
			return nil
		})
	}
	if err := g2.Wait(); err != nil {
		return nil, err
	}
	return tracks, nil
}

func (g *Generator) generateOne(ctx context.Context, script *Script, sc SceneText) (Track, error) {
	path := g.Path(sc.ID)
	tr := Track{Scene: sc.ID, Path: path}

	if _, err := os.Stat(path); err == nil && !g.Force {
		tr.Cached = true
		g.logger().Info("[*] narration exists, skipping", "scene", sc.ID, "path", path)
	} else {
		req := Request{
			Text:   sc.Text,
			Voice:  firstNonEmpty(g.Voice, script.Voice, g.DefaultVoice),
			Rate:   firstNonEmpty(g.Rate, script.Rate, g.DefaultRate),
			Volume: firstNonEmpty(g.Volume, script.Volume, g.DefaultVolume),
		}
		g.logger().Info("[>] generating narration", "scene", sc.ID, "engine", g.Engine.Name(), "chars", len([]rune(sc.Text)))
		// Only complete files are renamed into place.
		tmp := path + ".part" + g.Engine.Extension()
		if err := g.Engine.Synthesize(ctx, req, tmp); err != nil {
			os.Remove(tmp)
			return Track{}, err
		}
		if err := os.Rename(tmp, path); err != nil {
			return Track{}, err
		}
	}

	if g.Prober != nil {
		d, err := g.Prober.Duration(ctx, path)
		if err != nil {
			g.logger().Warn("[!] could not measure narration", "scene", sc.ID, "err", err)
		} else {
			tr.Duration = d
		}
	}
	return tr, nil
}

func (g *Generator) logger() *log.Logger {
	if g.Logger == nil {
		return log.Default()
	}
	return g.Logger
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
