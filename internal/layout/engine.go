package layout

import (
	"image"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/yolo-prep/internal/geometry"
)

// Element is a source image that can be composited onto a canvas.
type Element interface {
	// ClassID is the label id written into the element's Record.
	ClassID() int

	// Render produces the pixels for one placement attempt at the element's
	// natural size. Implementations may augment the source using rng. An
	// error fails the current attempt only.
	Render(rng *rand.Rand) (image.Image, error)
}

// Config controls scale sampling and overlap rejection.
type Config struct {
	// ScaleMin and ScaleMax bound the uniform scale factor applied to an
	// element's natural size.
	ScaleMin float64
	ScaleMax float64

	// MaxIoU is the largest IoU a new box may have against any accepted box.
	MaxIoU float64

	// MaxAttempts caps the tries per element before it is dropped.
	MaxAttempts int

	// Logger receives drop and render-failure notices. Nil uses log.Default().
	Logger *log.Logger
}

// Outcome is what happened to one element.
type Outcome int

const (
	// Dropped means every attempt failed.
	Dropped Outcome = iota
	// Placed means the element was accepted onto the canvas.
	Placed
)

func (o Outcome) String() string {
	if o == Placed {
		return "placed"
	}
	return "dropped"
}

// Placement is an accepted element: its box on the canvas, its annotation,
// and its pixels already resized to the box.
type Placement struct {
	Box    geometry.Box
	Record Record
	Image  image.Image
}

// Result is the output of PlaceElements.
type Result struct {
	// Placements holds accepted elements in acceptance order.
	Placements []Placement

	// Outcomes has one entry per input element, in input order.
	Outcomes []Outcome
}

// Boxes returns the accepted boxes in acceptance order.
func (r *Result) Boxes() []geometry.Box {
	boxes := make([]geometry.Box, len(r.Placements))
	for i, p := range r.Placements {
		boxes[i] = p.Box
	}
	return boxes
}

// Records returns the annotation records in acceptance order.
func (r *Result) Records() []Record {
	records := make([]Record, len(r.Placements))
	for i, p := range r.Placements {
		records[i] = p.Record
	}
	return records
}

// Dropped returns how many elements could not be placed.
func (r *Result) Dropped() int {
	n := 0
	for _, o := range r.Outcomes {
		if o == Dropped {
			n++
		}
	}
	return n
}

// PlaceElements places each element independently onto a canvas of the
// given size.
//
// For every attempt the engine renders the element, draws a scale factor in
// [ScaleMin, ScaleMax], rejects the attempt if the scaled size does not fit
// the canvas, draws a top-left position that keeps the box inside the canvas
// and finally checks the box against all boxes accepted so far with
// geometry.IsValidPosition. The first valid attempt wins. After MaxAttempts
// failures the element is dropped and an info notice is logged.
//
// A Result with no placements is valid; callers decide what to do with an
// empty sample.
func PlaceElements(canvas image.Point, elements []Element, cfg Config, rng *rand.Rand) *Result {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	res := &Result{
		Placements: make([]Placement, 0, len(elements)),
		Outcomes:   make([]Outcome, len(elements)),
	}
	accepted := make([]geometry.Box, 0, len(elements))

	for i, el := range elements {
		p, ok := placeOne(canvas, el, accepted, cfg, rng, logger)
		if !ok {
			res.Outcomes[i] = Dropped
			logger.Info("element dropped", "index", i, "class", el.ClassID(), "attempts", cfg.MaxAttempts)
			continue
		}
		res.Outcomes[i] = Placed
		res.Placements = append(res.Placements, p)
		accepted = append(accepted, p.Box)
	}

	return res
}

// placeOne runs the bounded retry loop for a single element.
func placeOne(canvas image.Point, el Element, accepted []geometry.Box, cfg Config, rng *rand.Rand, logger *log.Logger) (Placement, bool) {
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		img, err := el.Render(rng)
		if err != nil {
			logger.Warn("render failed", "class", el.ClassID(), "attempt", attempt, "err", err)
			continue
		}

		scale := cfg.ScaleMin + rng.Float64()*(cfg.ScaleMax-cfg.ScaleMin)
		src := img.Bounds()
		w := int(float64(src.Dx()) * scale)
		h := int(float64(src.Dy()) * scale)

		maxX := canvas.X - w
		maxY := canvas.Y - h
		if w <= 0 || h <= 0 || maxX < 0 || maxY < 0 {
			continue
		}

		box := geometry.Box{
			X: rng.IntN(maxX + 1),
			Y: rng.IntN(maxY + 1),
			W: w,
			H: h,
		}
		if !geometry.IsValidPosition(box, accepted, cfg.MaxIoU) {
			continue
		}

		if w != src.Dx() || h != src.Dy() {
			img = imaging.Resize(img, w, h, imaging.Lanczos)
		}
		return Placement{
			Box:    box,
			Record: NewRecord(el.ClassID(), box, canvas.X, canvas.Y),
			Image:  img,
		}, true
	}
	return Placement{}, false
}
