package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var scenes []string
	var outDir string
	var width int

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render each scene step to PNG with flagged elements highlighted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyValidationFlags(cmd, &cfg.Validation); err != nil {
				return err
			}
			if width > 0 {
				cfg.Validation.PreviewWidth = width
			}
			if outDir == "" {
				outDir = filepath.Join(cfg.Paths.OutputDir, "preview")
			}

			p, err := ctx.project(cmd, scenes)
			if err != nil {
				return err
			}
			paths, err := p.Preview(outDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d images to %s\n", len(paths), outDir)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&scenes, "scene", "s", nil, "Only render these scenes (repeatable)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default <output_dir>/preview)")
	cmd.Flags().IntVar(&width, "width", 0, "Image width in pixels")
	addValidationFlags(cmd)
	return cmd
}
