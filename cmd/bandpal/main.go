package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/setanarut/bandpal"
)

var rootCmd = &cobra.Command{
	Use:           "bandpal",
	Short:         "Convert images to four scanline-selected 64 color palettes",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every pipeline stage")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// progressLogger turns pipeline events into debug records.
func progressLogger(logger *slog.Logger) bandpal.ProgressFunc {
	return func(e bandpal.Event) {
		attrs := []any{"stage", e.Stage.String()}
		if e.Band >= 0 {
			attrs = append(attrs, "band", e.Band, "colors", e.Colors)
		}
		attrs = append(attrs, "rows", e.Rows)
		if e.Stage == bandpal.StageBands || e.Stage == bandpal.StagePalette {
			attrs = append(attrs, "iterations", e.Iterations, "converged", e.Converged)
		}
		logger.Debug("stage done", attrs...)
	}
}

// addConversionFlags registers the options shared by convert and inspect.
func addConversionFlags(cmd *cobra.Command) {
	def := bandpal.DefaultOptions()
	cmd.Flags().StringP("input", "i", "", "Input image (png, jpeg, gif, bmp, tiff, webp)")
	cmd.Flags().Int("budget", def.ColorBudget, "Free colors per band (0-64); the rest are default palette colors")
	cmd.Flags().Float64("epsilon", def.Epsilon, "Squared Lab distance under which colors are identical")
	cmd.Flags().Int("iterations", def.MaxIterations, "Iteration cap for row and color clustering")
	cmd.Flags().Uint64("seed", def.Seed, "Seed for palette initialization")
	cmd.Flags().Int("width", 0, "Resize to this width before converting (nearest neighbour)")
	cmd.MarkFlagRequired("input")
}

func conversionOptions(cmd *cobra.Command, logger *slog.Logger) bandpal.Options {
	opt := bandpal.DefaultOptions()
	opt.ColorBudget, _ = cmd.Flags().GetInt("budget")
	opt.Epsilon, _ = cmd.Flags().GetFloat64("epsilon")
	opt.MaxIterations, _ = cmd.Flags().GetInt("iterations")
	opt.Seed, _ = cmd.Flags().GetUint64("seed")
	opt.Progress = progressLogger(logger)
	return opt
}
