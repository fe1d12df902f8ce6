package dataset

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ironsheep/yolo-prep/internal/layout"
)

// FormatAnnotations renders records one per line, without a trailing newline.
func FormatAnnotations(records []layout.Record) string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = r.String()
	}
	return strings.Join(lines, "\n")
}

// WriteAnnotations writes a YOLO label file.
func WriteAnnotations(path string, records []layout.Record) error {
	if err := os.WriteFile(path, []byte(FormatAnnotations(records)), 0o644); err != nil {
		return fmt.Errorf("failed to write annotations: %w", err)
	}
	return nil
}

// ParseRecord parses "<class> <xc> <yc> <w> <h>". Normalized values must lie
// in [0,1] and the class id must be non-negative.
func ParseRecord(line string) (layout.Record, error) {
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return layout.Record{}, fmt.Errorf("want 5 fields, got %d", len(fields))
	}

	classID, err := strconv.Atoi(fields[0])
	if err != nil || classID < 0 {
		return layout.Record{}, fmt.Errorf("invalid class id %q", fields[0])
	}

	var vals [4]float64
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return layout.Record{}, fmt.Errorf("invalid number %q", f)
		}
		if !(v >= 0 && v <= 1) {
			return layout.Record{}, fmt.Errorf("value %v outside [0,1]", v)
		}
		vals[i] = v
	}

	return layout.Record{
		ClassID: classID,
		XCenter: vals[0],
		YCenter: vals[1],
		Width:   vals[2],
		Height:  vals[3],
	}, nil
}

// ReadAnnotations parses a YOLO label file. Blank lines are skipped; any
// malformed line fails the whole file with its line number.
func ReadAnnotations(path string) ([]layout.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open annotations: %w", err)
	}
	defer f.Close()

	var records []layout.Record
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		r, err := ParseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", filepath.Base(path), lineNo, err)
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read annotations: %w", err)
	}
	return records, nil
}
