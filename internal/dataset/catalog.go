package dataset

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ironsheep/yolo-prep/internal/imaging"
)

// SourceExtensions are the file types accepted as catalog sources.
var SourceExtensions = []string{".png", ".jpg", ".jpeg"}

// Entry is one source image; Label is the filename without its extension.
type Entry struct {
	Path  string
	Label string
}

// Catalog is the immutable set of sources for a generation run.
type Catalog struct {
	Entries []Entry
	Labels  *LabelMap
}

// LoadCatalog lists dir (not recursively) and builds a catalog from every
// file with a SourceExtensions extension. Entries are ordered by filename.
//
// A missing directory is an error; a directory without sources returns
// ErrEmptyCatalog.
func LoadCatalog(dir string) (*Catalog, error) {
	if err := requireDir(dir, "dataset"); err != nil {
		return nil, err
	}
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(files))
	labels := make([]string, 0, len(files))
	for _, f := range files {
		if f.IsDir() || !imaging.HasExtension(f.Name(), SourceExtensions) {
			continue
		}
		label := stem(f.Name())
		entries = append(entries, Entry{Path: filepath.Join(dir, f.Name()), Label: label})
		labels = append(labels, label)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no %s files in %s", ErrEmptyCatalog, strings.Join(SourceExtensions, "/"), dir)
	}

	return &Catalog{Entries: entries, Labels: NewLabelMap(labels)}, nil
}

// stem strips the final extension from a file name.
func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// LabelMap assigns integer ids to labels in ascending sort order.
type LabelMap struct {
	labels []string
	ids    map[string]int
}

// NewLabelMap deduplicates and sorts labels, then numbers them from 0.
func NewLabelMap(labels []string) *LabelMap {
	seen := make(map[string]struct{}, len(labels))
	unique := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		unique = append(unique, l)
	}
	sort.Strings(unique)

	ids := make(map[string]int, len(unique))
	for i, l := range unique {
		ids[l] = i
	}
	return &LabelMap{labels: unique, ids: ids}
}

// ID returns the id for label.
func (m *LabelMap) ID(label string) (int, bool) {
	id, ok := m.ids[label]
	return id, ok
}

// Labels returns labels ordered by id.
func (m *LabelMap) Labels() []string {
	return append([]string(nil), m.labels...)
}

// Len returns the number of labels.
func (m *LabelMap) Len() int { return len(m.labels) }

// WriteFile writes one "<label> <id>" line per label.
func (m *LabelMap) WriteFile(path string) error {
	var b strings.Builder
	for i, l := range m.labels {
		fmt.Fprintf(&b, "%s %d\n", l, i)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write label map: %w", err)
	}
	return nil
}

// ReadLabelMap parses a file written by WriteFile. Labels may contain
// spaces; the id is the last field. Ids must be exactly 0..n-1.
func ReadLabelMap(path string) (*LabelMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open label map: %w", err)
	}
	defer f.Close()

	byID := make(map[int]string)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		idx := strings.LastIndexAny(line, " \t")
		if idx <= 0 {
			return nil, fmt.Errorf("%s:%d: want \"<label> <id>\"", filepath.Base(path), lineNo)
		}
		id, err := strconv.Atoi(line[idx+1:])
		if err != nil || id < 0 {
			return nil, fmt.Errorf("%s:%d: invalid id %q", filepath.Base(path), lineNo, line[idx+1:])
		}
		if _, dup := byID[id]; dup {
			return nil, fmt.Errorf("%s:%d: duplicate id %d", filepath.Base(path), lineNo, id)
		}
		byID[id] = strings.TrimSpace(line[:idx])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read label map: %w", err)
	}

	labels := make([]string, len(byID))
	ids := make(map[string]int, len(byID))
	for i := range labels {
		l, ok := byID[i]
		if !ok {
			return nil, fmt.Errorf("%s: ids are not contiguous, missing %d", filepath.Base(path), i)
		}
		labels[i] = l
		ids[l] = i
	}
	return &LabelMap{labels: labels, ids: ids}, nil
}
