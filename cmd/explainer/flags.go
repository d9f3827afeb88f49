package main

import (
	"github.com/spf13/cobra"

	"github.com/ivlev/explainer/internal/config"
	"github.com/ivlev/explainer/internal/engine"
)

func addValidationFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("threshold", 0, "Overlap ratio above which a pair is flagged")
	cmd.Flags().Bool("inclusive", false, "Also flag ratios equal to the threshold")
	cmd.Flags().Float64("error-ratio", 0, "Overlap ratio above which a finding is an error")
	cmd.Flags().Float64("tolerance", 0, "Distance an element may reach past the frame")
	cmd.Flags().StringSlice("checks", nil, "Checks to run: overlap, bounds")
}

// applyValidationFlags copies the flags the user set onto v.
func applyValidationFlags(cmd *cobra.Command, v *config.Validation) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("threshold") {
		if v.OverlapThreshold, err = flags.GetFloat64("threshold"); err != nil {
			return err
		}
	}
	if flags.Changed("inclusive") {
		if v.Inclusive, err = flags.GetBool("inclusive"); err != nil {
			return err
		}
	}
	if flags.Changed("error-ratio") {
		if v.ErrorRatio, err = flags.GetFloat64("error-ratio"); err != nil {
			return err
		}
	}
	if flags.Changed("tolerance") {
		if v.EdgeTolerance, err = flags.GetFloat64("tolerance"); err != nil {
			return err
		}
	}
	if flags.Changed("checks") {
		if v.Checks, err = flags.GetStringSlice("checks"); err != nil {
			return err
		}
	}
	return nil
}

func addNarrationFlags(cmd *cobra.Command) {
	cmd.Flags().String("engine", "", "Speech engine: edge, piper")
	cmd.Flags().String("voice", "", "Voice name (edge) or speaker id (piper)")
	cmd.Flags().String("rate", "", "Relative speaking rate, e.g. -5%")
	cmd.Flags().Bool("force", false, "Regenerate narration that already exists")
}

func applyNarrationFlags(cmd *cobra.Command, n *config.Narration) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("engine") {
		if n.Engine, err = flags.GetString("engine"); err != nil {
			return err
		}
	}
	if flags.Changed("force") {
		if n.Force, err = flags.GetBool("force"); err != nil {
			return err
		}
	}
	return nil
}

// applyVoiceFlags sets the voice settings given on the command line on p.
// Unlike config values they win over the narration script's own.
func applyVoiceFlags(cmd *cobra.Command, p *engine.Project) error {
	flags := cmd.Flags()
	var err error
	for name, dst := range map[string]*string{"voice": &p.Voice, "rate": &p.Rate} {
		if flags.Changed(name) {
			if *dst, err = flags.GetString(name); err != nil {
				return err
			}
		}
	}
	return nil
}

func addMediaFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Final video path")
	cmd.Flags().String("encoder", "", "Video encoder used when padding scenes (default: detected)")
	cmd.Flags().Int("quality", 0, "Encoder quality (0 picks a default for the encoder)")
}

func applyMediaFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("output") {
		if cfg.Paths.Output, err = flags.GetString("output"); err != nil {
			return err
		}
	}
	if flags.Changed("encoder") {
		if cfg.Media.VideoEncoder, err = flags.GetString("encoder"); err != nil {
			return err
		}
	}
	if flags.Changed("quality") {
		if cfg.Media.Quality, err = flags.GetInt("quality"); err != nil {
			return err
		}
	}
	return nil
}
