package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFrame(); err != nil {
		return err
	}
	if err := c.validateValidation(); err != nil {
		return err
	}
	if err := c.validateNarration(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	return nil
}

func (c *Config) validateFrame() error {
	if c.Frame.Width <= 0 || c.Frame.Height <= 0 {
		return fmt.Errorf("frame size %gx%g must be positive", c.Frame.Width, c.Frame.Height)
	}
	return nil
}

func (c *Config) validateValidation() error {
	v := c.Validation
	if v.OverlapThreshold <= 0 || v.OverlapThreshold > 1 {
		return errors.New("validation.overlap_threshold must be in (0, 1]")
	}
	if v.ErrorRatio <= 0 || v.ErrorRatio > 1 {
		return errors.New("validation.error_ratio must be in (0, 1]")
	}
	if v.EdgeTolerance < 0 {
		return errors.New("validation.edge_tolerance must not be negative")
	}
	if v.PreviewWidth < 16 {
		return errors.New("validation.preview_width must be at least 16 pixels")
	}
	return nil
}

func (c *Config) validateNarration() error {
	switch c.Narration.Engine {
	case "edge":
	case "piper":
		if c.Narration.PiperModel == "" {
			return errors.New("narration.piper_model must be set when narration.engine is piper")
		}
	default:
		return fmt.Errorf("narration.engine %q is not supported (edge, piper)", c.Narration.Engine)
	}
	if c.Narration.Parallel < 1 {
		return errors.New("narration.parallel must be at least 1")
	}
	return nil
}

func (c *Config) normalize() error {
	c.Narration.Engine = strings.ToLower(strings.TrimSpace(c.Narration.Engine))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	for i, name := range c.Validation.Checks {
		c.Validation.Checks[i] = strings.ToLower(strings.TrimSpace(name))
	}

	paths := []*string{
		&c.Paths.Layout, &c.Paths.Script, &c.Paths.VideoDir,
		&c.Paths.AudioDir, &c.Paths.OutputDir, &c.Paths.Output,
		&c.Narration.PiperModel,
	}
	for _, p := range paths {
		expanded, err := expandHome(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

func expandHome(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
