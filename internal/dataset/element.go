package dataset

import (
	"image"
	"math/rand/v2"
	"sync"

	"github.com/ironsheep/yolo-prep/internal/imaging"
)

// sourceLoader returns the image a catalog entry renders from: the cached
// decode, cropped to its content when trimming is enabled. Trimmed results
// are memoized per path.
type sourceLoader struct {
	cache     *imaging.ImageCache
	trim      bool
	tolerance uint8
	trimmed   sync.Map // path -> image.Image
}

func (l *sourceLoader) load(path string) (image.Image, error) {
	if l.trim {
		if img, ok := l.trimmed.Load(path); ok {
			return img.(image.Image), nil
		}
	}
	img, err := l.cache.Load(path)
	if err != nil {
		return nil, err
	}
	if !l.trim {
		return img, nil
	}
	img = imaging.TrimMargins(img, l.tolerance)
	l.trimmed.Store(path, img)
	return img, nil
}

// catalogElement adapts a catalog entry to layout.Element. Every Render
// reads the shared source and runs a fresh augmentation.
type catalogElement struct {
	entry     Entry
	classID   int
	sources   *sourceLoader
	augmenter *imaging.Augmenter
}

func (e *catalogElement) ClassID() int { return e.classID }

func (e *catalogElement) Render(rng *rand.Rand) (image.Image, error) {
	img, err := e.sources.load(e.entry.Path)
	if err != nil {
		return nil, err
	}
	return e.augmenter.Apply(img, rng), nil
}
