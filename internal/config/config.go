// Package config defines the settings for every dataset preparation job.
//
// Settings are resolved in three layers: Default() values, then an optional
// TOML file loaded with Load, then command-line flags applied by the CLI.
// Every section has a Validate method; the CLI validates just before a job
// starts so flag overrides are checked too.
//
// Example file:
//
//	[generate]
//	dataset_path = "./sources"
//	output_path = "./outputs"
//	num_samples = 500
//	background_colors = ["#ffffff", "230,230,230"]
//
//	[generate.augment]
//	enabled = false
//
//	[split]
//	train_ratio = 0.9
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ironsheep/yolo-prep/internal/imaging"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config groups the per-job sections.
type Config struct {
	Generate Generate `toml:"generate" json:"generate"`
	Binarize Binarize `toml:"binarize" json:"binarize"`
	Split    Split    `toml:"split" json:"split"`
}

// Generate configures synthetic dataset generation.
type Generate struct {
	DatasetPath string `toml:"dataset_path" json:"dataset_path"`
	OutputPath  string `toml:"output_path" json:"output_path"`

	CanvasWidth  int `toml:"canvas_width" json:"canvas_width"`
	CanvasHeight int `toml:"canvas_height" json:"canvas_height"`

	NumSamples int `toml:"num_samples" json:"num_samples"`
	MinObjects int `toml:"min_objects" json:"min_objects"`
	MaxObjects int `toml:"max_objects" json:"max_objects"`

	ScaleMin float64 `toml:"scale_min" json:"scale_min"`
	ScaleMax float64 `toml:"scale_max" json:"scale_max"`

	// BackgroundColors holds palette entries in any form accepted by
	// imaging.ParseColor.
	BackgroundColors []string `toml:"background_colors" json:"background_colors"`

	// MaxIoU is the largest IoU allowed between any two placed boxes.
	MaxIoU      float64 `toml:"max_iou" json:"max_iou"`
	MaxAttempts int     `toml:"max_attempts" json:"max_attempts"`

	ClassMapFile string `toml:"class_map_file" json:"class_map_file"`
	FilePrefix   string `toml:"file_prefix" json:"file_prefix"`
	JPEGQuality  int    `toml:"jpeg_quality" json:"jpeg_quality"`

	// TrimSources crops each source to its content before placement so
	// boxes hug the object instead of its margins. Pixels within
	// TrimTolerance gray levels of the source's top-left pixel are margin.
	TrimSources   bool `toml:"trim_sources" json:"trim_sources"`
	TrimTolerance int  `toml:"trim_tolerance" json:"trim_tolerance"`

	// Seed drives every random decision. Zero asks the CLI to pick one.
	Seed    uint64 `toml:"seed" json:"seed"`
	Workers int    `toml:"workers" json:"workers"`

	Augment imaging.AugmentConfig `toml:"augment" json:"augment"`
}

// Binarize configures batch thresholding.
type Binarize struct {
	InputDir  string `toml:"input_dir" json:"input_dir"`
	OutputDir string `toml:"output_dir" json:"output_dir"`
	Threshold int    `toml:"threshold" json:"threshold"`
	Method    string `toml:"method" json:"method"`
	// Size is the square output edge; zero keeps the source size.
	Size int `toml:"size" json:"size"`
}

// Split configures the train/validation split.
type Split struct {
	ImageDir   string  `toml:"image_dir" json:"image_dir"`
	LabelDir   string  `toml:"label_dir" json:"label_dir"`
	OutputDir  string  `toml:"output_dir" json:"output_dir"`
	TrainRatio float64 `toml:"train_ratio" json:"train_ratio"`
	Seed       uint64  `toml:"seed" json:"seed"`

	// ClassesFile is a "<label> <id>" map used to write data.yaml. Empty
	// skips data.yaml.
	ClassesFile string `toml:"classes_file" json:"classes_file"`
}

// Default returns the built-in settings for every job.
func Default() *Config {
	return &Config{
		Generate: DefaultGenerate(),
		Binarize: DefaultBinarize(),
		Split:    DefaultSplit(),
	}
}

// DefaultGenerate returns the generator defaults.
func DefaultGenerate() Generate {
	return Generate{
		DatasetPath:      "./111",
		OutputPath:       "./outputs",
		CanvasWidth:      640,
		CanvasHeight:     640,
		NumSamples:       20000,
		MinObjects:       3,
		MaxObjects:       7,
		ScaleMin:         0.3,
		ScaleMax:         1.0,
		BackgroundColors: []string{"#ffffff", "#e6e6e6", "#000000"},
		MaxIoU:           0.05,
		MaxAttempts:      100,
		ClassMapFile:     "classes.txt",
		FilePrefix:       "aug",
		JPEGQuality:      95,
		TrimTolerance:    16,
		Workers:          1,
		Augment:          imaging.DefaultAugmentConfig(),
	}
}

// DefaultBinarize returns the binarization defaults.
func DefaultBinarize() Binarize {
	return Binarize{
		InputDir:  "data",
		OutputDir: "binary_images",
		Threshold: 200,
		Method:    string(imaging.ThreshBinary),
		Size:      256,
	}
}

// DefaultSplit returns the split defaults.
func DefaultSplit() Split {
	return Split{
		ImageDir:   "dataset/images",
		LabelDir:   "dataset/labels",
		OutputDir:  "dataset",
		TrainRatio: 0.8,
	}
}

// Load reads a TOML file on top of Default(). Keys that do not map to a
// setting are rejected so typos do not silently fall back to defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalid, path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	return errors.Join(c.Generate.Validate(), c.Binarize.Validate(), c.Split.Validate())
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks ranges and cross-field constraints.
func (g Generate) Validate() error {
	switch {
	case g.DatasetPath == "":
		return invalid("generate.dataset_path is required")
	case g.OutputPath == "":
		return invalid("generate.output_path is required")
	case g.CanvasWidth <= 0 || g.CanvasHeight <= 0:
		return invalid("canvas size must be positive, got %dx%d", g.CanvasWidth, g.CanvasHeight)
	case g.NumSamples < 0:
		return invalid("num_samples must be non-negative, got %d", g.NumSamples)
	case g.MinObjects < 1 || g.MaxObjects < g.MinObjects:
		return invalid("objects per sample must satisfy 1 <= min <= max, got [%d,%d]", g.MinObjects, g.MaxObjects)
	case g.ScaleMin <= 0 || g.ScaleMax < g.ScaleMin:
		return invalid("scale range must satisfy 0 < min <= max, got [%v,%v]", g.ScaleMin, g.ScaleMax)
	case g.MaxIoU < 0 || g.MaxIoU > 1:
		return invalid("max_iou must be in [0,1], got %v", g.MaxIoU)
	case g.MaxAttempts < 1:
		return invalid("max_attempts must be at least 1, got %d", g.MaxAttempts)
	case g.ClassMapFile == "":
		return invalid("class_map_file is required")
	case g.FilePrefix == "":
		return invalid("file_prefix is required")
	case g.JPEGQuality < 1 || g.JPEGQuality > 100:
		return invalid("jpeg_quality must be in [1,100], got %d", g.JPEGQuality)
	case g.TrimTolerance < 0 || g.TrimTolerance > 255:
		return invalid("trim_tolerance must be in [0,255], got %d", g.TrimTolerance)
	case g.Workers < 1:
		return invalid("workers must be at least 1, got %d", g.Workers)
	}
	if _, err := imaging.ParsePalette(g.BackgroundColors); err != nil {
		return invalid("background_colors: %v", err)
	}
	if err := g.Augment.Validate(); err != nil {
		return invalid("augment: %v", err)
	}
	return nil
}

// Validate checks ranges and the threshold method name.
func (b Binarize) Validate() error {
	switch {
	case b.InputDir == "" || b.OutputDir == "":
		return invalid("binarize input_dir and output_dir are required")
	case b.Threshold < 0 || b.Threshold > 255:
		return invalid("threshold must be in [0,255], got %d", b.Threshold)
	case b.Size < 0:
		return invalid("size must be non-negative, got %d", b.Size)
	}
	if _, err := imaging.ParseThresholdMethod(b.Method); err != nil {
		return invalid("%v", err)
	}
	return nil
}

// Validate checks directories and the ratio.
func (s Split) Validate() error {
	switch {
	case s.ImageDir == "" || s.LabelDir == "" || s.OutputDir == "":
		return invalid("split image_dir, label_dir and output_dir are required")
	case s.TrainRatio < 0 || s.TrainRatio > 1:
		return invalid("train_ratio must be in [0,1], got %v", s.TrainRatio)
	}
	return nil
}
