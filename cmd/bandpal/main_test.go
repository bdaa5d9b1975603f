package main

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/setanarut/bandpal/container"
	"github.com/setanarut/bandpal/utils"
)

func writeStripes(t *testing.T, path string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 12, 8))
	stripes := []color.RGBA{
		{255, 0, 0, 255}, {0, 160, 0, 255}, {0, 0, 255, 255}, {240, 240, 240, 255},
	}
	for y := range 8 {
		for x := range 12 {
			img.SetRGBA(x, y, stripes[y/2])
		}
	}
	if err := utils.SaveImage(img, path); err != nil {
		t.Fatal(err)
	}
}

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("bandpal %s: %v", strings.Join(args, " "), err)
	}
	return stdout.String()
}

func TestConvertAndRender(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "stripes.png")
	bin := filepath.Join(dir, "stripes.bpal")
	back := filepath.Join(dir, "back.png")
	writeStripes(t, src)

	execute(t, "convert", "-i", src, "-o", bin, "--budget", "4",
		"--swatches", dir, "--preview", filepath.Join(dir, "preview.png"))

	f, err := os.Open(bin)
	if err != nil {
		t.Fatal(err)
	}
	out, err := container.Decode(f)
	f.Close()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Width != 12 || out.Height != 8 {
		t.Errorf("container size %dx%d", out.Width, out.Height)
	}
	for _, name := range []string{"preview.png", "palette_00.png", "palette_03.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	execute(t, "render", "-i", bin, "-o", back)
	img, err := utils.ReadImage(back)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 12 || img.Bounds().Dy() != 8 {
		t.Errorf("rendered size %v", img.Bounds())
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "stripes.png")
	writeStripes(t, src)

	report := execute(t, "inspect", "-i", src, "--budget", "4", "--colors", "2")
	if !strings.Contains(report, "12x8") {
		t.Errorf("report lacks image size:\n%s", report)
	}
	for _, band := range []string{"band 0:", "band 1:", "band 2:", "band 3:"} {
		if !strings.Contains(report, band) {
			t.Errorf("report lacks %q:\n%s", band, report)
		}
	}
}
