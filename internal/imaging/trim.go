package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// ContentBounds returns the smallest rectangle holding every pixel whose
// luminance differs from the top-left pixel by more than tolerance. Fully
// transparent pixels always count as background. An image with no content
// yields an empty rectangle.
func ContentBounds(img image.Image, tolerance uint8) image.Rectangle {
	b := img.Bounds()
	if b.Empty() {
		return image.Rectangle{}
	}
	bg := grayValue(img, b.Min.X, b.Min.Y)

	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a == 0 {
				continue
			}
			if absDiff(grayValue(img, x, y), bg) <= tolerance {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// TrimMargins crops img to its ContentBounds. Images without content are
// returned unchanged.
func TrimMargins(img image.Image, tolerance uint8) image.Image {
	r := ContentBounds(img, tolerance)
	if r.Empty() || r == img.Bounds() {
		return img
	}
	return imaging.Crop(img, r)
}

// grayValue converts a pixel to grayscale using ITU-R BT.601 luminance weights.
func grayValue(img image.Image, x, y int) uint8 {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(float64(r>>8)*0.299 + float64(g>>8)*0.587 + float64(b>>8)*0.114)
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
