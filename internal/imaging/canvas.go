package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// NewCanvas creates a width×height canvas filled with bg.
func NewCanvas(width, height int, bg RGBColor) *image.NRGBA {
	return imaging.New(width, height, bg.NRGBA())
}

// Paste draws src onto dst with its top-left corner at pos and returns the
// composited image. Pixels of src that fall outside dst are clipped.
func Paste(dst image.Image, src image.Image, pos image.Point) *image.NRGBA {
	return imaging.Paste(dst, src, pos)
}

// Format selects the encoder used by Save.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// FormatFromPath infers the output format from a file extension,
// defaulting to JPEG.
func FormatFromPath(path string) Format {
	switch {
	case HasExtension(path, []string{".png"}):
		return FormatPNG
	case HasExtension(path, []string{".bmp"}):
		return FormatBMP
	case HasExtension(path, []string{".tif", ".tiff"}):
		return FormatTIFF
	}
	return FormatJPEG
}

// Save encodes img to path. quality applies to JPEG only (1-100).
//
// The file is written to a temporary name in the same directory and renamed
// into place, so a crash never leaves a truncated image behind.
func Save(img image.Image, path string, quality int) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	tmpName := tmp.Name()

	var encErr error
	switch FormatFromPath(path) {
	case FormatPNG:
		encErr = imaging.Encode(tmp, img, imaging.PNG)
	case FormatBMP:
		encErr = imaging.Encode(tmp, img, imaging.BMP)
	case FormatTIFF:
		encErr = imaging.Encode(tmp, img, imaging.TIFF)
	default:
		encErr = imaging.Encode(tmp, img, imaging.JPEG, imaging.JPEGQuality(quality))
	}
	closeErr := tmp.Close()

	if encErr != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), encErr)
	}
	if closeErr != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), closeErr)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", filepath.Base(path), err)
	}
	return nil
}
