package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/explainer/internal/engine"
	"github.com/ivlev/explainer/internal/system"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var scenes []string
	var opts engine.BuildOptions
	var stats bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Validate, narrate, mux and join all scenes into the final video",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyValidationFlags(cmd, &cfg.Validation); err != nil {
				return err
			}
			if err := applyNarrationFlags(cmd, &cfg.Narration); err != nil {
				return err
			}
			if err := applyMediaFlags(cmd, cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("stats") {
				cfg.ShowStats = stats
			}

			p, err := ctx.project(cmd, scenes)
			if err != nil {
				return err
			}
			if err := applyVoiceFlags(cmd, p); err != nil {
				return err
			}
			system.InitResourceLimits(ctx.logger)

			if err := p.Build(cmd.Context(), opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[+++] Done: %s\n", p.OutputPath())
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&scenes, "scene", "s", nil, "Only build these scenes (repeatable)")
	cmd.Flags().BoolVar(&opts.AllowViolations, "allow-violations", false, "Continue when the layout has error-severity issues")
	cmd.Flags().BoolVar(&opts.SkipNarration, "skip-narration", false, "Reuse existing narration instead of generating it")
	cmd.Flags().BoolVar(&stats, "stats", false, "Print a performance report")
	addValidationFlags(cmd)
	addNarrationFlags(cmd)
	addMediaFlags(cmd)
	return cmd
}
