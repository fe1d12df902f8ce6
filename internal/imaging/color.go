package imaging

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// NRGBA returns the color as an opaque color.NRGBA.
func (c RGBColor) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Hex returns the color in "#rrggbb" form.
func (c RGBColor) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseColor parses a palette entry.
//
// Two forms are accepted:
//   - Hex: "#RRGGBB" or "#RGB" (case-insensitive); the "#" may be omitted
//     unless every digit is decimal
//   - Triple: "R,G,B" with decimal components in 0-255, e.g. "230,230,230"
func ParseColor(s string) (RGBColor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RGBColor{}, fmt.Errorf("empty color string")
	}

	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return RGBColor{}, fmt.Errorf("invalid color %q: want R,G,B", s)
		}
		var rgb [3]uint8
		for i, p := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
			if err != nil {
				return RGBColor{}, fmt.Errorf("invalid color %q: %w", s, err)
			}
			rgb[i] = uint8(v)
		}
		return RGBColor{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
	}

	if !strings.HasPrefix(s, "#") {
		if isDecimal(s) {
			return RGBColor{}, fmt.Errorf("invalid color %q: bare digits are ambiguous, use #RRGGBB or R,G,B", s)
		}
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGBColor{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGBColor{R: r, G: g, B: b}, nil
}

func isDecimal(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Palette is a non-empty list of candidate background colors.
type Palette []RGBColor

// ParsePalette parses every entry with ParseColor.
func ParsePalette(entries []string) (Palette, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("palette is empty")
	}
	p := make(Palette, 0, len(entries))
	for i, e := range entries {
		c, err := ParseColor(e)
		if err != nil {
			return nil, fmt.Errorf("palette entry %d: %w", i, err)
		}
		p = append(p, c)
	}
	return p, nil
}

// Pick returns a uniformly chosen color.
func (p Palette) Pick(rng *rand.Rand) RGBColor {
	return p[rng.IntN(len(p))]
}

// ClassColor returns a stable, well separated outline color for a class id.
//
// Hues advance by the golden angle in HCL space so neighbouring ids stay
// distinguishable.
func ClassColor(classID int) color.NRGBA {
	hue := math.Mod(float64(classID)*137.508, 360)
	c := colorful.Hcl(hue, 0.75, 0.65).Clamped()
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
