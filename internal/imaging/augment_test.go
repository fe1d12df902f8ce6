package imaging

import (
	"bytes"
	"image"
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/disintegration/imaging"
)

func allStagesConfig() AugmentConfig {
	cfg := DefaultAugmentConfig()
	cfg.RotateProb = 1
	cfg.BrightnessContrastProb = 1
	cfg.BlurProb = 1
	cfg.GammaProb = 1
	cfg.EqualizeProb = 1
	cfg.ToneCurveProb = 1
	cfg.NoiseProb = 1
	return cfg
}

func TestDefaultAugmentConfig_Valid(t *testing.T) {
	if err := DefaultAugmentConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestAugmentConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*AugmentConfig)
	}{
		{"negative prob", func(c *AugmentConfig) { c.BlurProb = -0.1 }},
		{"prob above one", func(c *AugmentConfig) { c.NoiseProb = 1.5 }},
		{"inverted blur range", func(c *AugmentConfig) { c.BlurSigmaMin, c.BlurSigmaMax = 2, 1 }},
		{"zero gamma", func(c *AugmentConfig) { c.GammaMin = 0 }},
		{"negative rotate limit", func(c *AugmentConfig) { c.RotateLimit = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultAugmentConfig()
			tt.modify(&cfg)
			if _, err := NewAugmenter(cfg); err == nil {
				t.Error("NewAugmenter should reject invalid config")
			}
		})
	}
}

func TestAugmenter_Disabled(t *testing.T) {
	cfg := allStagesConfig()
	cfg.Enabled = false
	aug, err := NewAugmenter(cfg)
	if err != nil {
		t.Fatalf("NewAugmenter failed: %v", err)
	}

	img := createPatternImage(20, 20)
	if out := aug.Apply(img, rand.New(rand.NewPCG(1, 2))); out != image.Image(img) {
		t.Error("disabled augmenter should return its input")
	}

	var nilAug *Augmenter
	if out := nilAug.Apply(img, nil); out != image.Image(img) {
		t.Error("nil augmenter should return its input")
	}
}

func TestAugmenter_PreservesSize(t *testing.T) {
	aug, err := NewAugmenter(allStagesConfig())
	if err != nil {
		t.Fatalf("NewAugmenter failed: %v", err)
	}

	sizes := []image.Point{{64, 64}, {90, 30}, {17, 41}}
	for _, s := range sizes {
		img := createPatternImage(s.X, s.Y)
		out := aug.Apply(img, rand.New(rand.NewPCG(7, 7)))
		if out.Bounds().Dx() != s.X || out.Bounds().Dy() != s.Y {
			t.Errorf("size %v: got %v", s, out.Bounds())
		}
	}
}

func TestAugmenter_Deterministic(t *testing.T) {
	aug, err := NewAugmenter(allStagesConfig())
	if err != nil {
		t.Fatalf("NewAugmenter failed: %v", err)
	}
	img := createPatternImage(48, 32)

	a := imaging.Clone(aug.Apply(img, rand.New(rand.NewPCG(99, 1))))
	b := imaging.Clone(aug.Apply(img, rand.New(rand.NewPCG(99, 1))))
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("same seed should give identical pixels")
	}

	c := imaging.Clone(aug.Apply(img, rand.New(rand.NewPCG(100, 1))))
	if bytes.Equal(a.Pix, c.Pix) {
		t.Error("different seeds should give different pixels")
	}
}

func TestAugmenter_DoesNotModifyInput(t *testing.T) {
	aug, err := NewAugmenter(allStagesConfig())
	if err != nil {
		t.Fatalf("NewAugmenter failed: %v", err)
	}
	img := createPatternImage(32, 32)
	before := append([]uint8(nil), img.Pix...)

	aug.Apply(img, rand.New(rand.NewPCG(5, 5)))

	if !bytes.Equal(before, img.Pix) {
		t.Error("Apply modified its input")
	}
}

func TestEqualize(t *testing.T) {
	// Low-contrast gradient between 100 and 140.
	img := image.NewNRGBA(image.Rect(0, 0, 41, 1))
	for x := 0; x <= 40; x++ {
		v := uint8(100 + x)
		img.SetNRGBA(x, 0, color.NRGBA{v, v, v, 255})
	}

	out := Equalize(img)

	if got := out.NRGBAAt(0, 0).R; got != 0 {
		t.Errorf("darkest pixel: got %d, want 0", got)
	}
	if got := out.NRGBAAt(40, 0).R; got != 255 {
		t.Errorf("brightest pixel: got %d, want 255", got)
	}
	if out.NRGBAAt(0, 0).A != 255 {
		t.Error("alpha should be preserved")
	}
}

func TestEqualize_Uniform(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{90, 90, 90, 255})
	out := Equalize(img)
	if got := out.NRGBAAt(5, 5).R; got != 90 {
		t.Errorf("uniform image should be unchanged, got %d", got)
	}
}

func TestAddSensorNoise_ChangesPixels(t *testing.T) {
	img := createInMemoryImage(16, 16, color.RGBA{128, 128, 128, 255})
	out := addSensorNoise(img, 10, rand.New(rand.NewPCG(3, 3)))

	changed := 0
	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i] != 128 {
			changed++
		}
		if out.Pix[i+3] != 255 {
			t.Fatal("noise should not touch alpha")
		}
	}
	if changed == 0 {
		t.Error("noise left every pixel unchanged")
	}
}
