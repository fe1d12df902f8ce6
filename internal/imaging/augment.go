package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/anthonynsimon/bild/histogram"
	"github.com/disintegration/imaging"
)

// AugmentConfig describes the augmentation pipeline applied to every
// source image before it is placed on a canvas.
//
// Each stage runs independently with its own probability, in this order:
// rotate, brightness/contrast, blur, gamma, equalize, tone curve, noise.
type AugmentConfig struct {
	// Enabled turns the whole pipeline on or off.
	Enabled bool `toml:"enabled" json:"enabled"`

	// RotateProb is the chance to rotate by a uniform angle in
	// [-RotateLimit, RotateLimit] degrees. Corners exposed by the rotation
	// are filled with white and the output keeps the input size.
	RotateProb  float64 `toml:"rotate_prob" json:"rotate_prob"`
	RotateLimit float64 `toml:"rotate_limit" json:"rotate_limit"`

	// BrightnessContrastProb is the chance to shift brightness and contrast
	// by uniform percentages in [-Limit, Limit].
	BrightnessContrastProb float64 `toml:"brightness_contrast_prob" json:"brightness_contrast_prob"`
	BrightnessLimit        float64 `toml:"brightness_limit" json:"brightness_limit"`
	ContrastLimit          float64 `toml:"contrast_limit" json:"contrast_limit"`

	// BlurProb is the chance to apply a gaussian blur with a sigma drawn
	// from [BlurSigmaMin, BlurSigmaMax].
	BlurProb     float64 `toml:"blur_prob" json:"blur_prob"`
	BlurSigmaMin float64 `toml:"blur_sigma_min" json:"blur_sigma_min"`
	BlurSigmaMax float64 `toml:"blur_sigma_max" json:"blur_sigma_max"`

	// GammaProb is the chance to apply a gamma drawn from [GammaMin, GammaMax].
	GammaProb float64 `toml:"gamma_prob" json:"gamma_prob"`
	GammaMin  float64 `toml:"gamma_min" json:"gamma_min"`
	GammaMax  float64 `toml:"gamma_max" json:"gamma_max"`

	// EqualizeProb is the chance to equalize each channel's histogram.
	EqualizeProb float64 `toml:"equalize_prob" json:"equalize_prob"`

	// ToneCurveProb is the chance to apply a sigmoid tone curve with a
	// factor drawn from [-ToneCurveLimit, ToneCurveLimit].
	ToneCurveProb  float64 `toml:"tone_curve_prob" json:"tone_curve_prob"`
	ToneCurveLimit float64 `toml:"tone_curve_limit" json:"tone_curve_limit"`

	// NoiseProb is the chance to add sensor-like noise: a shared luminance
	// component with standard deviation NoiseSigma plus a weaker per-channel
	// color component.
	NoiseProb  float64 `toml:"noise_prob" json:"noise_prob"`
	NoiseSigma float64 `toml:"noise_sigma" json:"noise_sigma"`
}

// DefaultAugmentConfig returns the pipeline used for synthetic datasets.
func DefaultAugmentConfig() AugmentConfig {
	return AugmentConfig{
		Enabled:                true,
		RotateProb:             0.5,
		RotateLimit:            30,
		BrightnessContrastProb: 0.5,
		BrightnessLimit:        20,
		ContrastLimit:          20,
		BlurProb:               0.3,
		BlurSigmaMin:           0.5,
		BlurSigmaMax:           1.5,
		GammaProb:              0.3,
		GammaMin:               0.8,
		GammaMax:               1.2,
		EqualizeProb:           0.2,
		ToneCurveProb:          0.2,
		ToneCurveLimit:         4,
		NoiseProb:              0.2,
		NoiseSigma:             8,
	}
}

// Validate checks probabilities and ranges.
func (c AugmentConfig) Validate() error {
	probs := map[string]float64{
		"rotate_prob":              c.RotateProb,
		"brightness_contrast_prob": c.BrightnessContrastProb,
		"blur_prob":                c.BlurProb,
		"gamma_prob":               c.GammaProb,
		"equalize_prob":            c.EqualizeProb,
		"tone_curve_prob":          c.ToneCurveProb,
		"noise_prob":               c.NoiseProb,
	}
	for name, p := range probs {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", name, p)
		}
	}
	if c.BlurSigmaMin < 0 || c.BlurSigmaMax < c.BlurSigmaMin {
		return fmt.Errorf("invalid blur sigma range [%v,%v]", c.BlurSigmaMin, c.BlurSigmaMax)
	}
	if c.GammaMin <= 0 || c.GammaMax < c.GammaMin {
		return fmt.Errorf("invalid gamma range [%v,%v]", c.GammaMin, c.GammaMax)
	}
	if c.RotateLimit < 0 || c.BrightnessLimit < 0 || c.ContrastLimit < 0 || c.ToneCurveLimit < 0 || c.NoiseSigma < 0 {
		return fmt.Errorf("augmentation limits must be non-negative")
	}
	return nil
}

// Augmenter applies an AugmentConfig to images.
type Augmenter struct {
	cfg AugmentConfig
}

// NewAugmenter validates cfg and returns an Augmenter.
func NewAugmenter(cfg AugmentConfig) (*Augmenter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid augmentation config: %w", err)
	}
	return &Augmenter{cfg: cfg}, nil
}

// Apply runs the pipeline on img and returns a new image of the same size.
// The input is never modified. With the pipeline disabled, img is returned
// as is.
func (a *Augmenter) Apply(img image.Image, rng *rand.Rand) image.Image {
	if a == nil || !a.cfg.Enabled {
		return img
	}
	c := a.cfg
	out := img

	if hit(rng, c.RotateProb) {
		angle := uniform(rng, -c.RotateLimit, c.RotateLimit)
		out = rotateKeepSize(out, angle)
	}
	if hit(rng, c.BrightnessContrastProb) {
		out = imaging.AdjustBrightness(out, uniform(rng, -c.BrightnessLimit, c.BrightnessLimit))
		out = imaging.AdjustContrast(out, uniform(rng, -c.ContrastLimit, c.ContrastLimit))
	}
	if hit(rng, c.BlurProb) {
		out = imaging.Blur(out, uniform(rng, c.BlurSigmaMin, c.BlurSigmaMax))
	}
	if hit(rng, c.GammaProb) {
		out = imaging.AdjustGamma(out, uniform(rng, c.GammaMin, c.GammaMax))
	}
	if hit(rng, c.EqualizeProb) {
		out = Equalize(out)
	}
	if hit(rng, c.ToneCurveProb) {
		out = imaging.AdjustSigmoid(out, 0.5, uniform(rng, -c.ToneCurveLimit, c.ToneCurveLimit))
	}
	if hit(rng, c.NoiseProb) {
		out = addSensorNoise(out, c.NoiseSigma, rng)
	}
	return out
}

func hit(rng *rand.Rand, p float64) bool {
	return p > 0 && rng.Float64() < p
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// rotateKeepSize rotates counter-clockwise around the center and crops the
// expanded result back to the original dimensions.
func rotateKeepSize(img image.Image, angle float64) image.Image {
	b := img.Bounds()
	rotated := imaging.Rotate(img, angle, color.White)
	return imaging.CropCenter(rotated, b.Dx(), b.Dy())
}

// Equalize stretches each color channel so its cumulative histogram becomes
// roughly linear. Alpha is left untouched.
func Equalize(img image.Image) *image.NRGBA {
	hist := histogram.NewRGBAHistogram(img)
	lutR := equalizeLUT(hist.R.Bins)
	lutG := equalizeLUT(hist.G.Bins)
	lutB := equalizeLUT(hist.B.Bins)

	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: lutR[c.R], G: lutG[c.G], B: lutB[c.B], A: c.A}
	})
}

// equalizeLUT builds the classic CDF-based lookup table for one channel.
// A channel holding a single value maps to itself.
func equalizeLUT(bins []int) [256]uint8 {
	var lut [256]uint8
	var cdf [256]int
	total := 0
	for i := 0; i < 256 && i < len(bins); i++ {
		total += bins[i]
		cdf[i] = total
	}

	cdfMin := 0
	for _, v := range cdf {
		if v > 0 {
			cdfMin = v
			break
		}
	}

	denom := total - cdfMin
	for i := range lut {
		if denom <= 0 {
			lut[i] = uint8(i)
			continue
		}
		v := float64(cdf[i]-cdfMin) / float64(denom) * 255
		lut[i] = uint8(math.Round(math.Max(0, math.Min(255, v))))
	}
	return lut
}

// addSensorNoise perturbs every pixel with gaussian noise drawn from rng.
// Pixels are visited in row-major order so the result depends only on the
// seed.
func addSensorNoise(img image.Image, sigma float64, rng *rand.Rand) *image.NRGBA {
	out := imaging.Clone(img)
	if sigma <= 0 {
		return out
	}
	chroma := sigma / 3

	b := out.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+b.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			lum := rng.NormFloat64() * sigma
			for ch := 0; ch < 3; ch++ {
				v := float64(row[x+ch]) + lum + rng.NormFloat64()*chroma
				row[x+ch] = clampUint8(v)
			}
		}
	}
	return out
}

func clampUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
