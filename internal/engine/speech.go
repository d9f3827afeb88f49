package engine

import (
	"fmt"

	"github.com/ivlev/explainer/internal/config"
	"github.com/ivlev/explainer/internal/narration"
)

// NewSpeechEngine registers the engines that are usable on this machine and
// returns the one named by cfg.Engine.
func NewSpeechEngine(cfg config.Narration) (narration.Engine, error) {
	reg := narration.NewRegistry()

	var errs []error
	if e, err := narration.NewEdgeEngine(cfg.EdgeBinary); err == nil {
		reg.Register(e)
	} else {
		errs = append(errs, err)
	}
	if cfg.PiperModel != "" {
		if e, err := narration.NewPiperEngine("", cfg.PiperModel); err == nil {
			reg.Register(e)
		} else {
			errs = append(errs, err)
		}
	}

	if err := reg.SetDefault(cfg.Engine); err != nil {
		return nil, fmt.Errorf("speech engine %q unavailable (have %v): %v", cfg.Engine, reg.List(), errs)
	}
	return reg.Default()
}

// audioExtensions lists the narration file extensions to look for, the
// configured engine's own first.
func audioExtensions(engine string) []string {
	if engine == "piper" {
		return []string{".wav", ".mp3"}
	}
	return []string{".mp3", ".wav"}
}
