package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/explainer/internal/report"
	"github.com/ivlev/explainer/internal/validator"
)

var errViolations = errors.New("layout validation failed")

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var scenes []string
	var jsonOut, finalOnly, quiet bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check scene layouts for overlapping and out-of-frame elements",
		Long: "Check every element of every scene against the frame bounds and against\n" +
			"each other. Exits with a non-zero status when any issue is found.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyValidationFlags(cmd, &cfg.Validation); err != nil {
				return err
			}
			p, err := ctx.project(cmd, scenes)
			if err != nil {
				return err
			}

			var rep *validator.Report
			if finalOnly {
				f, frame, err := p.LoadLayout()
				if err != nil {
					return err
				}
				v, err := validator.New(p.ValidatorOptions())
				if err != nil {
					return err
				}
				rep, err = v.Validate(f.FinalScenes(), frame)
				if err != nil {
					return err
				}
			} else {
				rep, err = p.Validate()
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				err = report.WriteJSON(out, rep)
			} else {
				err = report.WriteText(out, rep, report.TextOptions{
					Fancy: report.IsTerminal(out),
					Quiet: quiet,
				})
			}
			if err != nil {
				return err
			}
			if !rep.OK() {
				return fmt.Errorf("%w: %d issues", errViolations, rep.Count())
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&scenes, "scene", "s", nil, "Only validate these scenes (repeatable)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Write the report as JSON")
	cmd.Flags().BoolVar(&finalOnly, "final", false, "Only check the final snapshot of each scene")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide scenes without issues")
	addValidationFlags(cmd)
	return cmd
}
