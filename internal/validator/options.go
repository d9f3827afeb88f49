package validator

import (
	"fmt"
	"runtime"
)

const (
	DefaultOverlapThreshold = 0.30
	DefaultErrorRatio       = 0.60
)

// Options configures a Validator. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	// OverlapThreshold is the fraction of the smaller box that two boxes may
	// share before an Overlap is reported.
	OverlapThreshold float64
	// Inclusive flags ratios equal to the threshold as well. The default is
	// strictly greater than.
	Inclusive bool
	// ErrorRatio separates warning overlaps from error overlaps.
	ErrorRatio float64
	// EdgeTolerance is the slack allowed past each frame edge.
	EdgeTolerance float64
	// SkipAncestors ignores pairs where one element is a group containing the other.
	SkipAncestors bool
	// Checks lists the checks to run by registry name.
	Checks []string
	// Workers bounds how many scenes are validated at once.
	Workers int
}

// DefaultOptions returns the standard configuration.
func DefaultOptions() Options {
	return Options{
		OverlapThreshold: DefaultOverlapThreshold,
		ErrorRatio:       DefaultErrorRatio,
		SkipAncestors:    true,
		Checks:           []string{CheckOverlap, CheckBounds},
		Workers:          runtime.NumCPU(),
	}
}

func (o Options) validate() error {
	if !(o.OverlapThreshold > 0 && o.OverlapThreshold <= 1) {
		return &ConfigError{Reason: fmt.Sprintf("overlap threshold %v outside (0, 1]", o.OverlapThreshold)}
	}
	if !(o.ErrorRatio > 0 && o.ErrorRatio <= 1) {
		return &ConfigError{Reason: fmt.Sprintf("error ratio %v outside (0, 1]", o.ErrorRatio)}
	}
	if o.EdgeTolerance < 0 {
		return &ConfigError{Reason: fmt.Sprintf("negative edge tolerance %v", o.EdgeTolerance)}
	}
	if len(o.Checks) == 0 {
		return &ConfigError{Reason: "no checks enabled"}
	}
	return nil
}
