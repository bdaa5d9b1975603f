package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/setanarut/bandpal"
	"github.com/setanarut/bandpal/utils"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show how an image splits into bands and which colors dominate each",
	RunE:  runInspect,
}

func init() {
	addConversionFlags(inspectCmd)
	inspectCmd.Flags().String("method", utils.PaletteMethodDominantColor.String(), "Preview palette method (dominantcolor, kmeans)")
	inspectCmd.Flags().Int("colors", 6, "Preview colors per band")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	inputPath, _ := cmd.Flags().GetString("input")
	width, _ := cmd.Flags().GetInt("width")
	methodName, _ := cmd.Flags().GetString("method")
	nColors, _ := cmd.Flags().GetInt("colors")

	method, err := utils.ParsePaletteMethod(methodName)
	if err != nil {
		return err
	}
	opt := conversionOptions(cmd, logger)

	img, err := utils.ReadImage(inputPath)
	if err != nil {
		return err
	}
	img = utils.ResizeToWidth(img, width)

	cv := bandpal.NewConverter(bandpal.RasterFromImage(img))
	if err := cv.Build(opt); err != nil {
		return fmt.Errorf("conversion: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%dx%d, %d pinned + %d free colors per band\n",
		cv.Rgb.W, cv.Rgb.H, opt.Pinned(), opt.ColorBudget)
	fmt.Fprintf(w, "row clustering: %d iterations, converged=%v\n",
		cv.Rows.Iterations, cv.Rows.Converged)
	for b := range bandpal.NumBands {
		rows := cv.Rows.Bands.Members(b)
		bp := cv.BandPalettes[b]
		fmt.Fprintf(w, "band %d: %d rows, %d unique colors, %d iterations, converged=%v\n",
			b, len(rows), bp.Colors, bp.Iterations, bp.Converged)
		if len(rows) == 0 {
			continue
		}
		preview := utils.ExtractPalette(utils.BandImage(cv.Rgb, rows), nColors, method)
		utils.SortPaletteByBrightness(preview)
		fmt.Fprintf(w, "  %s: %s\n", method, strings.Join(utils.HexColors(preview), " "))
	}
	return nil
}
