package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ivlev/explainer/internal/system"
)

func newMuxCommand(ctx *commandContext) *cobra.Command {
	var scenes []string

	cmd := &cobra.Command{
		Use:   "mux",
		Short: "Attach existing narration to the rendered scenes and join them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyMediaFlags(cmd, cfg); err != nil {
				return err
			}
			p, err := ctx.project(cmd, scenes)
			if err != nil {
				return err
			}
			system.InitResourceLimits(ctx.logger)

			tracks, err := p.ExistingTracks(cmd.Context())
			if err != nil {
				return err
			}
			out, err := p.Mux(cmd.Context(), tracks)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[+++] Done: %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&scenes, "scene", "s", nil, "Only include these scenes (repeatable)")
	addMediaFlags(cmd)
	return cmd
}
