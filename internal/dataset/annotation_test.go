package dataset

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/yolo-prep/internal/layout"
)

func TestFormatAnnotations(t *testing.T) {
	records := []layout.Record{
		{ClassID: 0, XCenter: 0.5, YCenter: 0.5, Width: 1, Height: 1},
		{ClassID: 3, XCenter: 0.25, YCenter: 0.125, Width: 0.1, Height: 0.05},
	}
	got := FormatAnnotations(records)
	want := "0 0.500000 0.500000 1.000000 1.000000\n3 0.250000 0.125000 0.100000 0.050000"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if FormatAnnotations(nil) != "" {
		t.Error("no records should format as an empty string")
	}
}

func TestAnnotations_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.txt")
	records := []layout.Record{
		{ClassID: 1, XCenter: 0.2, YCenter: 0.3, Width: 0.4, Height: 0.5},
		{ClassID: 12, XCenter: 0.75, YCenter: 0.5, Width: 0.5, Height: 1},
	}
	if err := WriteAnnotations(path, records); err != nil {
		t.Fatalf("WriteAnnotations failed: %v", err)
	}
	if strings.HasSuffix(readFile(t, path), "\n") {
		t.Error("label file should not end with a newline")
	}

	back, err := ReadAnnotations(path)
	if err != nil {
		t.Fatalf("ReadAnnotations failed: %v", err)
	}
	if len(back) != len(records) {
		t.Fatalf("got %d records, want %d", len(back), len(records))
	}
	for i := range records {
		if back[i] != records[i] {
			t.Errorf("record %d: got %+v, want %+v", i, back[i], records[i])
		}
	}
}

func TestParseRecord_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"too few fields", "0 0.5 0.5 0.1"},
		{"too many fields", "0 0.5 0.5 0.1 0.1 0.1"},
		{"bad class", "a 0.5 0.5 0.1 0.1"},
		{"negative class", "-1 0.5 0.5 0.1 0.1"},
		{"bad number", "0 0.5 x 0.1 0.1"},
		{"out of range", "0 1.5 0.5 0.1 0.1"},
		{"negative value", "0 0.5 0.5 -0.1 0.1"},
		{"not a number", "0 NaN 0.5 0.1 0.1"},
		{"infinite", "0 0.5 0.5 0.1 +Inf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRecord(tt.line); err == nil {
				t.Errorf("ParseRecord(%q) should fail", tt.line)
			}
		})
	}
}

func TestReadAnnotations_ReportsLine(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.txt", "0 0.5 0.5 0.1 0.1\n\n2 0.5 0.5 0.1\n")
	_, err := ReadAnnotations(path)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "bad.txt:3") {
		t.Errorf("error should name file and line, got %v", err)
	}
}

func TestReadAnnotations_BlankFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.txt", "\n\n")
	records, err := ReadAnnotations(path)
	if err != nil {
		t.Fatalf("ReadAnnotations failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}
