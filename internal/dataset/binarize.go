package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/ironsheep/yolo-prep/internal/config"
	"github.com/ironsheep/yolo-prep/internal/imaging"
)

// BinarizeExtensions are the file types picked up by BinarizeDir.
var BinarizeExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tiff", ".tif"}

// BinarizeStats summarizes a BinarizeDir run.
type BinarizeStats struct {
	Found   int `json:"found"`
	Written int `json:"written"`
	Skipped int `json:"skipped"`
}

// BinarizeDir thresholds every image in cfg.InputDir and writes the result
// under the same filename in cfg.OutputDir. Files that cannot be decoded or
// written are logged and skipped. An input directory without images returns
// ErrNoImages.
func BinarizeDir(ctx context.Context, cfg config.Binarize, logger *log.Logger) (*BinarizeStats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	method, err := imaging.ParseThresholdMethod(cfg.Method)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	opts := imaging.BinarizeOptions{
		Threshold: uint8(cfg.Threshold),
		Method:    method,
		Size:      cfg.Size,
	}

	if err := requireDir(cfg.InputDir, "input"); err != nil {
		return nil, err
	}
	names, err := listImages(cfg.InputDir, BinarizeExtensions)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		logger.Warn("no images to binarize", "dir", cfg.InputDir)
		return nil, fmt.Errorf("%w in %s", ErrNoImages, cfg.InputDir)
	}
	if err := ensureDir(cfg.OutputDir); err != nil {
		return nil, err
	}

	stats := &BinarizeStats{Found: len(names)}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		src := filepath.Join(cfg.InputDir, name)
		img, err := imaging.Decode(src)
		if err != nil {
			stats.Skipped++
			logger.Warn("unreadable image, skipped", "file", name, "err", err)
			continue
		}
		out, err := imaging.Binarize(img, opts)
		if err != nil {
			return stats, err
		}
		if err := imaging.Save(out, filepath.Join(cfg.OutputDir, name), 100); err != nil {
			stats.Skipped++
			logger.Error("failed to write image", "file", name, "err", err)
			continue
		}
		stats.Written++
		logger.Debug("binarized", "file", name)
	}
	return stats, nil
}

// listImages returns the sorted names of regular files in dir with one of exts.
func listImages(dir string, exts []string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var names []string
	for _, f := range files {
		if f.IsDir() || !imaging.HasExtension(f.Name(), exts) {
			continue
		}
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names, nil
}
