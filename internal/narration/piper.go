package narration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNoModel is returned when the piper engine has no voice model.
var ErrNoModel = errors.New("no piper model specified")

// PiperEngine drives a local piper binary, feeding the text on stdin.
type PiperEngine struct {
	binary string
	model  string
}

// NewPiperEngine checks that binary (default "piper") is on PATH.
func NewPiperEngine(binary, model string) (*PiperEngine, error) {
	if binary == "" {
		binary = "piper"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBinaryNotFound, binary)
	}
	if model == "" {
		return nil, ErrNoModel
	}
	return &PiperEngine{binary: binary, model: model}, nil
}

func (p *PiperEngine) Name() string      { return "piper" }
func (p *PiperEngine) Extension() string { return ".wav" }

// Synthesize runs piper once for req. Voice selects a speaker id of
// multi-speaker models; Rate maps onto piper's length scale.
func (p *PiperEngine) Synthesize(ctx context.Context, req Request, outPath string) error {
	if strings.TrimSpace(req.Text) == "" {
		return ErrEmptyText
	}

	cmd := exec.CommandContext(ctx, p.binary, piperArgs(p.model, req, outPath)...)
	cmd.Stdin = strings.NewReader(req.Text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("piper: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func piperArgs(model string, req Request, outPath string) []string {
	args := []string{"--model", model, "--output_file", outPath}
	if _, err := strconv.Atoi(req.Voice); err == nil {
		args = append(args, "--speaker", req.Voice)
	}
	if scale, ok := lengthScale(req.Rate); ok {
		args = append(args, "--length_scale", strconv.FormatFloat(scale, 'f', 3, 64))
	}
	return args
}

// lengthScale converts a relative rate like "-5%" into piper's length
// scale, where larger values mean slower speech.
func lengthScale(rate string) (float64, bool) {
	rate = strings.TrimSuffix(strings.TrimSpace(rate), "%")
	if rate == "" {
		return 0, false
	}
	pct, err := strconv.ParseFloat(rate, 64)
	if err != nil || pct <= -100 {
		return 0, false
	}
	scale := 1 / (1 + pct/100)
	return math.Round(scale*1000) / 1000, true
}
