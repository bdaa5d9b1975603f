package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/setanarut/bandpal"
	"github.com/setanarut/bandpal/container"
	"github.com/setanarut/bandpal/utils"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert an image into a banded palette container",
	RunE:  runConvert,
}

func init() {
	addConversionFlags(convertCmd)
	convertCmd.Flags().StringP("output", "o", "", "Output container file")
	convertCmd.Flags().Bool("raw", false, "Write the container without zstd compression")
	convertCmd.Flags().String("preview", "", "Also write a rendered preview image")
	convertCmd.Flags().String("swatches", "", "Also write one palette swatch per band into this directory")
	convertCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	raw, _ := cmd.Flags().GetBool("raw")
	previewPath, _ := cmd.Flags().GetString("preview")
	swatchDir, _ := cmd.Flags().GetString("swatches")
	width, _ := cmd.Flags().GetInt("width")

	opt := conversionOptions(cmd, logger)
	if err := opt.Validate(); err != nil {
		return err
	}

	img, err := utils.ReadImage(inputPath)
	if err != nil {
		return err
	}
	img = utils.ResizeToWidth(img, width)

	out, err := bandpal.ConvertImage(img, opt)
	if err != nil {
		return fmt.Errorf("conversion: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := container.Encode(f, out, !raw); err != nil {
		f.Close()
		os.Remove(outputPath)
		return fmt.Errorf("writing container: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing container: %w", err)
	}

	if previewPath != "" {
		if err := utils.SaveImage(container.Render(out), previewPath); err != nil {
			return fmt.Errorf("writing preview: %w", err)
		}
	}
	if swatchDir != "" {
		palettes := make([][]uint32, len(out.Palettes))
		for i, p := range out.Palettes {
			palettes[i] = p.Colors
		}
		if err := utils.SavePalettes(palettes, 16, swatchDir); err != nil {
			return fmt.Errorf("writing swatches: %w", err)
		}
	}

	logger.Info("converted",
		"input", inputPath,
		"output", outputPath,
		"width", out.Width,
		"height", out.Height,
		"budget", opt.ColorBudget,
		"compressed", !raw)
	return nil
}
