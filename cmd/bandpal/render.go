package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/setanarut/bandpal/container"
	"github.com/setanarut/bandpal/utils"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a container back into a regular image",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringP("input", "i", "", "Input container file")
	renderCmd.Flags().StringP("output", "o", "", "Output image (format from extension)")
	renderCmd.MarkFlagRequired("input")
	renderCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	defer f.Close()

	out, err := container.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", inputPath, err)
	}
	if err := utils.SaveImage(container.Render(out), outputPath); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	logger.Info("rendered", "input", inputPath, "output", outputPath, "width", out.Width, "height", out.Height)
	return nil
}
