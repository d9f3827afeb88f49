// Package narration turns per-scene narration text into audio files by
// driving an external speech engine.
package narration

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	// ErrEngineNotFound is returned when an engine is not registered.
	ErrEngineNotFound = errors.New("speech engine not found")
	// ErrEngineExists is returned when registering a duplicate engine.
	ErrEngineExists = errors.New("speech engine already registered")
	// ErrBinaryNotFound is returned when the engine executable is missing.
	ErrBinaryNotFound = errors.New("speech engine binary not found")
	// ErrEmptyText is returned for a scene without narration text.
	ErrEmptyText = errors.New("empty narration text")
	// ErrEmptyScript is returned for a script without scenes.
	ErrEmptyScript = errors.New("narration script has no scenes")
)

// Request holds the parameters for one synthesis.
type Request struct {
	Text   string
	Voice  string
	Rate   string // relative speed, e.g. "-5%"
	Volume string // relative volume, e.g. "+0%"
}

// Engine synthesizes speech into an audio file.
type Engine interface {
	// Synthesize writes the audio for req to outPath.
	Synthesize(ctx context.Context, req Request, outPath string) error
	// Name returns the engine identifier.
	Name() string
	// Extension is the file extension of the audio it produces.
	Extension() string
}

// Registry manages available engines.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]Engine
	def     string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]Engine)}
}

// Register adds an engine. The first engine becomes the default.
func (r *Registry) Register(engine Engine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := engine.Name()
	if _, exists := r.engines[name]; exists {
		return ErrEngineExists
	}
	r.engines[name] = engine
	if r.def == "" {
		r.def = name
	}
	return nil
}

// Get retrieves an engine by name.
func (r *Registry) Get(name string) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engine, ok := r.engines[name]
	if !ok {
		return nil, ErrEngineNotFound
	}
	return engine, nil
}

// Default returns the default engine.
func (r *Registry) Default() (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.def == "" {
		return nil, ErrEngineNotFound
	}
	return r.engines[r.def], nil
}

// SetDefault sets the default engine by name.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.engines[name]; !ok {
		return ErrEngineNotFound
	}
	r.def = name
	return nil
}

// List returns the registered engine names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
