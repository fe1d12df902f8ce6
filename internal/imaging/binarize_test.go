package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestParseThresholdMethod(t *testing.T) {
	for _, m := range ThresholdMethods {
		got, err := ParseThresholdMethod(string(m))
		if err != nil {
			t.Errorf("ParseThresholdMethod(%q) failed: %v", m, err)
		}
		if got != m {
			t.Errorf("got %q, want %q", got, m)
		}
	}

	if got, err := ParseThresholdMethod("  BINARY_INV "); err != nil || got != ThreshBinaryInv {
		t.Errorf("case-insensitive parse: got %q, %v", got, err)
	}
	if _, err := ParseThresholdMethod("otsu"); err == nil {
		t.Error("unknown method should fail")
	}
}

func TestThresholdMethod_Apply(t *testing.T) {
	const thresh = 200

	tests := []struct {
		method ThresholdMethod
		v      uint8
		want   uint8
	}{
		{ThreshBinary, 250, 255},
		{ThreshBinary, 200, 0},
		{ThreshBinary, 10, 0},
		{ThreshBinaryInv, 250, 0},
		{ThreshBinaryInv, 200, 255},
		{ThreshTrunc, 250, 200},
		{ThreshTrunc, 120, 120},
		{ThreshToZero, 250, 250},
		{ThreshToZero, 120, 0},
		{ThreshToZeroInv, 250, 0},
		{ThreshToZeroInv, 120, 120},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			if got := tt.method.Apply(tt.v, thresh); got != tt.want {
				t.Errorf("%s.Apply(%d) = %d, want %d", tt.method, tt.v, got, tt.want)
			}
		})
	}
}

// halfImage is white on the left half and dark gray on the right half.
func halfImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.Set(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				img.Set(x, y, color.RGBA{60, 60, 60, 255})
			}
		}
	}
	return img
}

func TestBinarize(t *testing.T) {
	img := halfImage(512, 512)

	tests := []struct {
		method      ThresholdMethod
		left, right uint8
	}{
		{ThreshBinary, 255, 0},
		{ThreshBinaryInv, 0, 255},
		{ThreshTrunc, 200, 60},
		{ThreshToZero, 255, 0},
		{ThreshToZeroInv, 0, 60},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			out, err := Binarize(img, BinarizeOptions{Threshold: 200, Method: tt.method, Size: 256})
			if err != nil {
				t.Fatalf("Binarize failed: %v", err)
			}
			if out.Bounds().Dx() != 256 || out.Bounds().Dy() != 256 {
				t.Fatalf("dimensions: got %v, want 256x256", out.Bounds())
			}
			if got := out.GrayAt(20, 128).Y; got != tt.left {
				t.Errorf("left: got %d, want %d", got, tt.left)
			}
			if got := out.GrayAt(230, 128).Y; got != tt.right {
				t.Errorf("right: got %d, want %d", got, tt.right)
			}
		})
	}
}

func TestBinarize_KeepSize(t *testing.T) {
	out, err := Binarize(halfImage(40, 30), BinarizeOptions{Threshold: 127})
	if err != nil {
		t.Fatalf("Binarize failed: %v", err)
	}
	if out.Bounds().Dx() != 40 || out.Bounds().Dy() != 30 {
		t.Errorf("dimensions: got %v, want 40x30", out.Bounds())
	}
	if out.GrayAt(5, 5).Y != 255 || out.GrayAt(35, 5).Y != 0 {
		t.Error("default method should be binary")
	}
}

func TestBinarize_InvalidOptions(t *testing.T) {
	img := halfImage(10, 10)
	if _, err := Binarize(img, BinarizeOptions{Method: "adaptive"}); err == nil {
		t.Error("unknown method should fail")
	}
	if _, err := Binarize(img, BinarizeOptions{Size: -1}); err == nil {
		t.Error("negative size should fail")
	}
}
