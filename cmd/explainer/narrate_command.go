package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNarrateCommand(ctx *commandContext) *cobra.Command {
	var scenes []string

	cmd := &cobra.Command{
		Use:   "narrate",
		Short: "Generate the narration audio for every scene",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyNarrationFlags(cmd, &cfg.Narration); err != nil {
				return err
			}
			p, err := ctx.project(cmd, scenes)
			if err != nil {
				return err
			}
			if err := applyVoiceFlags(cmd, p); err != nil {
				return err
			}

			tracks, err := p.Narrate(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTracks(tracks))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&scenes, "scene", "s", nil, "Only narrate these scenes (repeatable)")
	addNarrationFlags(cmd)
	return cmd
}
