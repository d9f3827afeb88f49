package narration

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// EdgeEngine drives the edge-tts command line tool.
type EdgeEngine struct {
	binary string
	run    func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewEdgeEngine checks that binary (default "edge-tts") is on PATH.
func NewEdgeEngine(binary string) (*EdgeEngine, error) {
	if binary == "" {
		binary = "edge-tts"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBinaryNotFound, binary)
	}
	return &EdgeEngine{binary: binary, run: combinedOutput}, nil
}

func (e *EdgeEngine) Name() string      { return "edge" }
func (e *EdgeEngine) Extension() string { return ".mp3" }

// Synthesize runs edge-tts once for req.
func (e *EdgeEngine) Synthesize(ctx context.Context, req Request, outPath string) error {
	if strings.TrimSpace(req.Text) == "" {
		return ErrEmptyText
	}
	if req.Voice == "" {
		return errors.New("edge-tts: voice is required")
	}

	out, err := e.run(ctx, e.binary, edgeArgs(req, outPath)...)
	if err != nil {
		return fmt.Errorf("edge-tts: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Signed values go in --flag=value form so a leading "-" is not read as a flag.
func edgeArgs(req Request, outPath string) []string {
	args := []string{"--voice", req.Voice}
	if req.Rate != "" {
		args = append(args, "--rate="+req.Rate)
	}
	if req.Volume != "" {
		args = append(args, "--volume="+req.Volume)
	}
	return append(args, "--text", req.Text, "--write-media", outPath)
}

func combinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
