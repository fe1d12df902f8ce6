package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/ironsheep/yolo-prep/internal/geometry"
)

// Annotation is one labeled box to draw.
type Annotation struct {
	ClassID int
	Box     geometry.Box
}

// OverlayOptions controls DrawAnnotations.
type OverlayOptions struct {
	// Thickness is the outline width in pixels. Values below 1 mean 1.
	Thickness int

	// ShowLabels draws the class id above each box.
	ShowLabels bool
}

// DrawAnnotations draws each box outline in its class color onto a copy of
// img. Boxes are clipped to the image bounds.
func DrawAnnotations(img image.Image, annotations []Annotation, opts OverlayOptions) *image.NRGBA {
	bounds := img.Bounds()
	result := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	thickness := opts.Thickness
	if thickness < 1 {
		thickness = 1
	}

	for _, a := range annotations {
		c := ClassColor(a.ClassID)
		drawOutline(result, a.Box.Rect(), thickness, c)

		if opts.ShowLabels {
			labelY := a.Box.Y - labelHeight - 1
			if labelY < 0 {
				labelY = a.Box.Y + thickness + 1
			}
			drawLabel(result, a.Box.X+1, labelY, strconv.Itoa(a.ClassID), color.NRGBA{255, 255, 255, 255}, c)
		}
	}

	return result
}

// drawOutline draws a rectangle border of the given thickness inside r.
func drawOutline(img *image.NRGBA, r image.Rectangle, thickness int, c color.NRGBA) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness), // top
		image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y), // bottom
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y), // left
		image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y), // right
	}
	for _, e := range edges {
		draw.Draw(img, e.Intersect(r), src, image.Point{}, draw.Src)
	}
}

const (
	charWidth   = 4
	labelHeight = 7
)

// Simple 3x5 pixel font for digits.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
}

// drawLabel draws text on a filled background rectangle at (x, y).
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	bounds := img.Bounds()
	labelWidth := len(text) * charWidth

	for dy := -1; dy < labelHeight-1; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			px, py := x+dx, y+dy
			if image.Pt(px, py).In(bounds) {
				img.SetNRGBA(px, py, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				px, py := cx+col, y+row
				if image.Pt(px, py).In(bounds) {
					img.SetNRGBA(px, py, fg)
				}
			}
		}
		cx += charWidth
	}
}
