package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ironsheep/yolo-prep/internal/imaging"
)

// LabelPathFor maps an image path in a YOLO layout to its label file: the
// last "images" directory component becomes "labels" and the extension
// becomes ".txt". Without an "images" component the label is expected next
// to the image.
func LabelPathFor(imagePath string) string {
	dir, name := filepath.Split(imagePath)
	label := stem(name) + ".txt"

	parts := strings.Split(filepath.ToSlash(filepath.Clean(dir)), "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] == "images" {
			parts[i] = "labels"
			return filepath.Join(filepath.FromSlash(strings.Join(parts, "/")), label)
		}
	}
	return filepath.Join(dir, label)
}

// Preview draws the boxes from labelPath over imagePath and saves the result
// to outPath. It returns the number of boxes drawn.
func Preview(imagePath, labelPath, outPath string, opts imaging.OverlayOptions) (int, error) {
	img, err := imaging.Decode(imagePath)
	if err != nil {
		return 0, err
	}
	records, err := ReadAnnotations(labelPath)
	if err != nil {
		return 0, err
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	anns := make([]imaging.Annotation, len(records))
	for i, r := range records {
		anns[i] = imaging.Annotation{ClassID: r.ClassID, Box: r.Box(w, h)}
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := ensureDir(dir); err != nil {
			return 0, err
		}
	}
	if err := imaging.Save(imaging.DrawAnnotations(img, anns, opts), outPath, 95); err != nil {
		return 0, fmt.Errorf("failed to save preview: %w", err)
	}
	return len(anns), nil
}
