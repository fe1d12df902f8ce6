package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DataYAML is the dataset descriptor read by YOLOv5 training.
type DataYAML struct {
	Path  string   `yaml:"path"`
	Train string   `yaml:"train"`
	Val   string   `yaml:"val"`
	NC    int      `yaml:"nc"`
	Names []string `yaml:"names"`
}

// NewDataYAML describes a split written to root. Train and Val point at the
// list files relative to root.
func NewDataYAML(root string, labels *LabelMap) DataYAML {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return DataYAML{
		Path:  filepath.ToSlash(root),
		Train: "train.txt",
		Val:   "val.txt",
		NC:    labels.Len(),
		Names: labels.Labels(),
	}
}

// WriteDataYAML encodes d to path.
func WriteDataYAML(path string, d DataYAML) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode data.yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReadDataYAML decodes a descriptor written by WriteDataYAML.
func ReadDataYAML(path string) (DataYAML, error) {
	var d DataYAML
	data, err := os.ReadFile(path)
	if err != nil {
		return d, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return d, nil
}
