package dataset

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ironsheep/yolo-prep/internal/config"
)

// PairImageExtensions lists accepted image types in lookup priority: when
// several images share a basename, the earliest extension wins.
var PairImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tiff"}

// Pair is an image and its label file.
type Pair struct {
	Image string
	Label string
}

// Name is the shared basename without extension.
func (p Pair) Name() string { return stem(filepath.Base(p.Label)) }

// FindPairs matches images in imageDir with ".txt" labels in labelDir by
// basename. Labels with no image are logged and ignored; images with no
// label are ignored silently. The result is sorted by basename.
func FindPairs(imageDir, labelDir string, logger *log.Logger) ([]Pair, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := requireDir(imageDir, "image"); err != nil {
		return nil, err
	}
	if err := requireDir(labelDir, "label"); err != nil {
		return nil, err
	}

	imageNames, err := listImages(imageDir, PairImageExtensions)
	if err != nil {
		return nil, err
	}
	images := make(map[string]string, len(imageNames))
	for _, name := range imageNames {
		base := stem(name)
		if prev, ok := images[base]; ok && extRank(prev) <= extRank(name) {
			continue
		}
		images[base] = name
	}

	labelNames, err := listImages(labelDir, []string{".txt"})
	if err != nil {
		return nil, err
	}
	var pairs []Pair
	for _, name := range labelNames {
		base := stem(name)
		img, ok := images[base]
		if !ok {
			logger.Warn("label has no matching image", "label", name, "dir", imageDir)
			continue
		}
		pairs = append(pairs, Pair{
			Image: filepath.Join(imageDir, img),
			Label: filepath.Join(labelDir, name),
		})
	}
	slices.SortFunc(pairs, func(a, b Pair) int { return strings.Compare(a.Name(), b.Name()) })
	return pairs, nil
}

func extRank(name string) int {
	ext := strings.ToLower(filepath.Ext(name))
	if i := slices.Index(PairImageExtensions, ext); i >= 0 {
		return i
	}
	return len(PairImageExtensions)
}

// SplitPairs shuffles a copy of pairs with rng and cuts it at
// int(len(pairs)*ratio). The input slice is left untouched.
func SplitPairs(pairs []Pair, ratio float64, rng *rand.Rand) (train, val []Pair) {
	shuffled := slices.Clone(pairs)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	cut := int(float64(len(shuffled)) * ratio)
	return shuffled[:cut], shuffled[cut:]
}

// SplitStats summarizes a split run.
type SplitStats struct {
	Pairs    int    `json:"pairs"`
	Train    int    `json:"train"`
	Val      int    `json:"val"`
	DataYAML string `json:"data_yaml,omitempty"` // empty when no class map was given
}

// Splitter copies a paired corpus into a YOLOv5 train/val layout.
type Splitter struct {
	cfg    config.Split
	logger *log.Logger
}

// NewSplitter validates cfg. A nil logger uses log.Default().
func NewSplitter(cfg config.Split, logger *log.Logger) (*Splitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Splitter{cfg: cfg, logger: logger}, nil
}

// Run finds pairs, splits them with a generator seeded from cfg.Seed, copies
// both subsets, and writes train.txt and val.txt. When cfg.ClassesFile is
// set, data.yaml is written too.
func (s *Splitter) Run(ctx context.Context) (*SplitStats, error) {
	out := s.cfg.OutputDir
	dirs := []string{
		filepath.Join(out, "images", "train"),
		filepath.Join(out, "images", "val"),
		filepath.Join(out, "labels", "train"),
		filepath.Join(out, "labels", "val"),
	}

	pairs, err := FindPairs(s.cfg.ImageDir, s.cfg.LabelDir, s.logger)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w between %s and %s", ErrNoPairs, s.cfg.ImageDir, s.cfg.LabelDir)
	}
	s.logger.Info("pairs found", "count", len(pairs))

	var labels *LabelMap
	if s.cfg.ClassesFile != "" {
		labels, err = ReadLabelMap(s.cfg.ClassesFile)
		if err != nil {
			return nil, err
		}
	}

	if err := ensureDirs(dirs...); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(s.cfg.Seed, 0))
	train, val := SplitPairs(pairs, s.cfg.TrainRatio, rng)
	s.logger.Info("splitting", "train", len(train), "val", len(val))

	for _, set := range []struct {
		name  string
		pairs []Pair
	}{{"train", train}, {"val", val}} {
		paths, err := s.copySet(ctx, set.name, set.pairs)
		if err != nil {
			return nil, err
		}
		if err := writeLines(filepath.Join(out, set.name+".txt"), paths); err != nil {
			return nil, err
		}
	}

	stats := &SplitStats{Pairs: len(pairs), Train: len(train), Val: len(val)}
	if labels != nil {
		stats.DataYAML = filepath.Join(out, "data.yaml")
		if err := WriteDataYAML(stats.DataYAML, NewDataYAML(out, labels)); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

// copySet copies pairs into images/<set> and labels/<set> and returns the
// image paths relative to the output directory, slash-separated.
func (s *Splitter) copySet(ctx context.Context, set string, pairs []Pair) ([]string, error) {
	imgDir := filepath.Join(s.cfg.OutputDir, "images", set)
	lblDir := filepath.Join(s.cfg.OutputDir, "labels", set)

	rel := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		imgName := filepath.Base(p.Image)
		if err := copyFile(p.Image, filepath.Join(imgDir, imgName)); err != nil {
			return nil, err
		}
		if err := copyFile(p.Label, filepath.Join(lblDir, filepath.Base(p.Label))); err != nil {
			return nil, err
		}
		rel = append(rel, path.Join("images", set, imgName))
	}
	s.logger.Debug("copied", "set", set, "pairs", len(pairs))
	return rel, nil
}

// copyFile copies src to dst, replacing dst. Copying a file onto itself is
// a no-op.
func copyFile(src, dst string) error {
	if same, err := sameFile(src, dst); err != nil {
		return err
	} else if same {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", filepath.Base(src), err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}

func sameFile(a, b string) (bool, error) {
	ai, err := os.Stat(a)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", a, err)
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false, nil
	}
	return os.SameFile(ai, bi), nil
}

// writeLines writes each line followed by a newline.
func writeLines(path string, lines []string) error {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
