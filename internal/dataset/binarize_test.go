package dataset

import (
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/yolo-prep/internal/config"
	"github.com/ironsheep/yolo-prep/internal/imaging"
)

func TestBinarizeDir(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "binary")
	writePNG(t, in, "light.png", 40, 30, color.Gray{Y: 230})
	writePNG(t, in, "dark.png", 40, 30, color.Gray{Y: 40})
	writeFile(t, in, "broken.jpg", "not really a jpeg")
	writeFile(t, in, "notes.txt", "ignored")

	cfg := config.DefaultBinarize()
	cfg.InputDir = in
	cfg.OutputDir = out
	cfg.Size = 16

	stats, err := BinarizeDir(context.Background(), cfg, quietLogger())
	if err != nil {
		t.Fatalf("BinarizeDir failed: %v", err)
	}
	if stats.Found != 3 || stats.Written != 2 || stats.Skipped != 1 {
		t.Errorf("stats: got %+v, want found 3, written 2, skipped 1", stats)
	}

	tests := []struct {
		name string
		want uint8
	}{
		{"light.png", 255},
		{"dark.png", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := imaging.Decode(filepath.Join(out, tt.name))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			b := img.Bounds()
			if b.Dx() != 16 || b.Dy() != 16 {
				t.Errorf("size: got %dx%d, want 16x16", b.Dx(), b.Dy())
			}
			got := color.GrayModel.Convert(img.At(8, 8)).(color.Gray).Y
			if got != tt.want {
				t.Errorf("pixel: got %d, want %d", got, tt.want)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(out, "broken.jpg")); !os.IsNotExist(err) {
		t.Error("unreadable input should not produce an output file")
	}
}

func TestBinarizeDir_Inverse(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writePNG(t, in, "light.png", 8, 8, color.Gray{Y: 230})

	cfg := config.DefaultBinarize()
	cfg.InputDir = in
	cfg.OutputDir = out
	cfg.Method = string(imaging.ThreshBinaryInv)
	cfg.Size = 0

	if _, err := BinarizeDir(context.Background(), cfg, quietLogger()); err != nil {
		t.Fatalf("BinarizeDir failed: %v", err)
	}
	img, err := imaging.Decode(filepath.Join(out, "light.png"))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Errorf("size 0 should keep the source size, got %dx%d", b.Dx(), b.Dy())
	}
	if got := color.GrayModel.Convert(img.At(0, 0)).(color.Gray).Y; got != 0 {
		t.Errorf("pixel: got %d, want 0", got)
	}
}

func TestBinarizeDir_Errors(t *testing.T) {
	empty := t.TempDir()
	writeFile(t, empty, "readme.md", "x")

	tests := []struct {
		name    string
		mutate  func(*config.Binarize)
		wantErr error
	}{
		{"no images", func(c *config.Binarize) { c.InputDir = empty }, ErrNoImages},
		{"missing input", func(c *config.Binarize) { c.InputDir = filepath.Join(empty, "missing") }, nil},
		{"bad method", func(c *config.Binarize) { c.InputDir = empty; c.Method = "otsu" }, config.ErrInvalid},
		{"bad threshold", func(c *config.Binarize) { c.InputDir = empty; c.Threshold = 300 }, config.ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultBinarize()
			cfg.OutputDir = t.TempDir()
			tt.mutate(&cfg)

			_, err := BinarizeDir(context.Background(), cfg, quietLogger())
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}
