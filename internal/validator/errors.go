package validator

import (
	"errors"
	"fmt"
)

// ErrMissingFrame is returned when the frame bounds are absent or have no area.
var ErrMissingFrame = errors.New("frame bounds missing or degenerate")

// ConfigError reports malformed input. It is never produced for layout
// findings, which are returned as violations instead.
type ConfigError struct {
	Scene   string
	Element string
	Reason  string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Scene == "" && e.Element == "":
		return "invalid configuration: " + e.Reason
	case e.Element == "":
		return fmt.Sprintf("scene %q: %s", e.Scene, e.Reason)
	default:
		return fmt.Sprintf("scene %q, element %q: %s", e.Scene, e.Element, e.Reason)
	}
}
