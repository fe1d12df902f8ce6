package dataset

import (
	"context"
	"fmt"
	"image"
	"math/rand/v2"
	"path/filepath"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/yolo-prep/internal/config"
	"github.com/ironsheep/yolo-prep/internal/imaging"
	"github.com/ironsheep/yolo-prep/internal/layout"
)

// Sample is one generated canvas and its annotations.
type Sample struct {
	Index   int
	Canvas  *image.NRGBA
	Records []layout.Record
	Dropped int
}

// Empty reports whether no element was placed.
func (s *Sample) Empty() bool { return len(s.Records) == 0 }

// GenerateStats summarizes a generation run.
type GenerateStats struct {
	Requested int `json:"requested"` // samples asked for
	Written   int `json:"written"`   // samples persisted
	Empty     int `json:"empty"`     // samples skipped because nothing was placed
	Failed    int `json:"failed"`    // samples that could not be written
	Placed    int `json:"placed"`    // elements placed across written samples
	Dropped   int `json:"dropped"`   // elements dropped across all samples
}

// Generator builds synthetic samples from a catalog.
type Generator struct {
	cfg       config.Generate
	catalog   *Catalog
	palette   imaging.Palette
	augmenter *imaging.Augmenter
	sources   *sourceLoader
	logger    *log.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLogger sets the logger used for progress and per-sample problems.
func WithLogger(logger *log.Logger) GeneratorOption {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithImageCache shares a decoded-source cache between generators.
func WithImageCache(cache *imaging.ImageCache) GeneratorOption {
	return func(g *Generator) {
		if cache != nil {
			g.sources.cache = cache
		}
	}
}

// NewGenerator validates cfg and prepares a generator.
func NewGenerator(cfg config.Generate, catalog *Catalog, opts ...GeneratorOption) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if catalog == nil || len(catalog.Entries) == 0 {
		return nil, ErrEmptyCatalog
	}
	palette, err := imaging.ParsePalette(cfg.BackgroundColors)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	augmenter, err := imaging.NewAugmenter(cfg.Augment)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}

	sources := &sourceLoader{
		cache:     imaging.NewImageCache(),
		trim:      cfg.TrimSources,
		tolerance: uint8(cfg.TrimTolerance),
	}
	g := &Generator{
		cfg:       cfg,
		catalog:   catalog,
		palette:   palette,
		augmenter: augmenter,
		sources:   sources,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Run generates cfg.NumSamples samples and writes the non-empty ones.
//
// Output directories and the class map are created first; failing there
// aborts the run. After that, errors are isolated per sample. Cancelling
// ctx stops scheduling new samples; Run then waits for in-flight samples
// and returns ctx.Err().
func (g *Generator) Run(ctx context.Context) (*GenerateStats, error) {
	imagesDir := filepath.Join(g.cfg.OutputPath, "images")
	labelsDir := filepath.Join(g.cfg.OutputPath, "labels")
	if err := ensureDirs(g.cfg.OutputPath, imagesDir, labelsDir); err != nil {
		return nil, err
	}
	if err := g.catalog.Labels.WriteFile(filepath.Join(g.cfg.OutputPath, g.cfg.ClassMapFile)); err != nil {
		return nil, err
	}
	g.logger.Info("catalog loaded", "sources", len(g.catalog.Entries), "classes", g.catalog.Labels.Len())

	var written, empty, failed, placed, dropped atomic.Int64

	var eg errgroup.Group
	eg.SetLimit(g.cfg.Workers)

	for i := 0; i < g.cfg.NumSamples; i++ {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			s := g.BuildSample(i)
			dropped.Add(int64(s.Dropped))
			if s.Empty() {
				empty.Add(1)
				g.logger.Info("no element placed, sample skipped", "sample", i)
				return nil
			}
			if err := g.writeSample(s, imagesDir, labelsDir); err != nil {
				failed.Add(1)
				g.logger.Error("failed to write sample", "sample", i, "err", err)
				return nil
			}
			written.Add(1)
			placed.Add(int64(len(s.Records)))
			g.logger.Debug("sample written", "sample", i, "objects", len(s.Records))
			return nil
		})
	}
	_ = eg.Wait()

	stats := &GenerateStats{
		Requested: g.cfg.NumSamples,
		Written:   int(written.Load()),
		Empty:     int(empty.Load()),
		Failed:    int(failed.Load()),
		Placed:    int(placed.Load()),
		Dropped:   int(dropped.Load()),
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

// BuildSample constructs sample i in memory. The sample's random source is
// derived from the configured seed and i alone, so the result does not
// depend on which worker builds it or in what order.
func (g *Generator) BuildSample(i int) *Sample {
	rng := rand.New(rand.NewPCG(g.cfg.Seed, uint64(i)))

	bg := g.palette.Pick(rng)
	canvas := imaging.NewCanvas(g.cfg.CanvasWidth, g.cfg.CanvasHeight, bg)

	n := g.cfg.MinObjects + rng.IntN(g.cfg.MaxObjects-g.cfg.MinObjects+1)
	elements := make([]layout.Element, n)
	for j := range elements {
		entry := g.catalog.Entries[rng.IntN(len(g.catalog.Entries))]
		id, _ := g.catalog.Labels.ID(entry.Label)
		elements[j] = &catalogElement{
			entry:     entry,
			classID:   id,
			sources:   g.sources,
			augmenter: g.augmenter,
		}
	}

	res := layout.PlaceElements(
		image.Pt(g.cfg.CanvasWidth, g.cfg.CanvasHeight),
		elements,
		layout.Config{
			ScaleMin:    g.cfg.ScaleMin,
			ScaleMax:    g.cfg.ScaleMax,
			MaxIoU:      g.cfg.MaxIoU,
			MaxAttempts: g.cfg.MaxAttempts,
			Logger:      g.logger.With("sample", i),
		},
		rng,
	)

	for _, p := range res.Placements {
		canvas = imaging.Paste(canvas, p.Image, image.Pt(p.Box.X, p.Box.Y))
	}

	return &Sample{
		Index:   i,
		Canvas:  canvas,
		Records: res.Records(),
		Dropped: res.Dropped(),
	}
}

// SampleName returns the basename shared by a sample's image and label file.
func (g *Generator) SampleName(i int) string {
	return fmt.Sprintf("%s_%d", g.cfg.FilePrefix, i)
}

func (g *Generator) writeSample(s *Sample, imagesDir, labelsDir string) error {
	name := g.SampleName(s.Index)
	if err := imaging.Save(s.Canvas, filepath.Join(imagesDir, name+".jpg"), g.cfg.JPEGQuality); err != nil {
		return err
	}
	return WriteAnnotations(filepath.Join(labelsDir, name+".txt"), s.Records)
}
