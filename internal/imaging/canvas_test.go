package imaging

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestNewCanvas(t *testing.T) {
	bg := RGBColor{R: 230, G: 230, B: 230}
	canvas := NewCanvas(64, 32, bg)

	if canvas.Bounds().Dx() != 64 || canvas.Bounds().Dy() != 32 {
		t.Fatalf("dimensions: got %v, want 64x32", canvas.Bounds())
	}
	for _, p := range []image.Point{{0, 0}, {63, 31}, {10, 20}} {
		if got := canvas.NRGBAAt(p.X, p.Y); got != bg.NRGBA() {
			t.Errorf("pixel %v: got %+v, want %+v", p, got, bg.NRGBA())
		}
	}
}

func TestPaste(t *testing.T) {
	canvas := NewCanvas(100, 100, RGBColor{255, 255, 255})
	red := createInMemoryImage(20, 10, color.RGBA{255, 0, 0, 255})

	out := Paste(canvas, red, image.Pt(30, 40))

	tests := []struct {
		name string
		x, y int
		want color.NRGBA
	}{
		{"inside top-left", 30, 40, color.NRGBA{255, 0, 0, 255}},
		{"inside bottom-right", 49, 49, color.NRGBA{255, 0, 0, 255}},
		{"left of paste", 29, 40, color.NRGBA{255, 255, 255, 255}},
		{"below paste", 30, 50, color.NRGBA{255, 255, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := out.NRGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}

	// Source canvas must stay untouched.
	if got := canvas.NRGBAAt(30, 40); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Error("Paste modified its destination argument")
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	img := createPatternImage(40, 30)

	tests := []struct {
		name   string
		format string
	}{
		{"sample.jpg", "jpeg"},
		{"sample.png", "png"},
		{"sample.bmp", "bmp"},
		{"sample.TIF", "tiff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := Save(img, path, 95); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			dims, err := GetDimensions(path)
			if err != nil {
				t.Fatalf("GetDimensions failed: %v", err)
			}
			if dims.Width != 40 || dims.Height != 30 {
				t.Errorf("dimensions: got %dx%d, want 40x30", dims.Width, dims.Height)
			}
			if dims.Format != tt.format {
				t.Errorf("format: got %s, want %s", dims.Format, tt.format)
			}
		})
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != len(tests) {
		t.Errorf("expected no leftover temp files, got %d entries", len(entries))
	}
}

func TestSave_MissingDir(t *testing.T) {
	img := createInMemoryImage(4, 4, color.White)
	if err := Save(img, filepath.Join(t.TempDir(), "missing", "x.jpg"), 90); err == nil {
		t.Error("Save should fail when the directory does not exist")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.jpg", FormatJPEG},
		{"a.JPEG", FormatJPEG},
		{"a.png", FormatPNG},
		{"a.bmp", FormatBMP},
		{"a.tif", FormatTIFF},
		{"a.tiff", FormatTIFF},
		{"noext", FormatJPEG},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}
