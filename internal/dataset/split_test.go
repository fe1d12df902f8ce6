package dataset

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math/rand/v2"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ironsheep/yolo-prep/internal/config"
)

func TestFindPairs(t *testing.T) {
	root := t.TempDir()
	images := mkdir(t, filepath.Join(root, "images"))
	labels := mkdir(t, filepath.Join(root, "labels"))

	writePNG(t, images, "b.png", 4, 4, color.White)
	writePNG(t, images, "a.png", 4, 4, color.White)
	writePNG(t, images, "a.jpg", 4, 4, color.White) // .jpg outranks .png
	writePNG(t, images, "unlabeled.jpg", 4, 4, color.White)
	writeFile(t, labels, "a.txt", "0 0.5 0.5 0.1 0.1")
	writeFile(t, labels, "b.txt", "0 0.5 0.5 0.1 0.1")
	writeFile(t, labels, "orphan.txt", "0 0.5 0.5 0.1 0.1")

	pairs, err := FindPairs(images, labels, quietLogger())
	if err != nil {
		t.Fatalf("FindPairs failed: %v", err)
	}
	want := []Pair{
		{Image: filepath.Join(images, "a.jpg"), Label: filepath.Join(labels, "a.txt")},
		{Image: filepath.Join(images, "b.png"), Label: filepath.Join(labels, "b.txt")},
	}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("pairs:\ngot  %v\nwant %v", pairs, want)
	}
}

func TestFindPairs_MissingDir(t *testing.T) {
	root := t.TempDir()
	if _, err := FindPairs(filepath.Join(root, "nope"), root, quietLogger()); err == nil {
		t.Error("missing image dir should fail")
	}
	if _, err := FindPairs(root, filepath.Join(root, "nope"), quietLogger()); err == nil {
		t.Error("missing label dir should fail")
	}
}

func makePairs(n int) []Pair {
	pairs := make([]Pair, n)
	for i := range pairs {
		name := fmt.Sprintf("img_%03d", i)
		pairs[i] = Pair{Image: name + ".jpg", Label: name + ".txt"}
	}
	return pairs
}

func TestSplitPairs(t *testing.T) {
	tests := []struct {
		n         int
		ratio     float64
		wantTrain int
	}{
		{100, 0.8, 80},
		{10, 0.75, 7},
		{5, 0, 0},
		{5, 1, 5},
		{0, 0.8, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d@%v", tt.n, tt.ratio), func(t *testing.T) {
			pairs := makePairs(tt.n)
			orig := append([]Pair(nil), pairs...)

			train, val := SplitPairs(pairs, tt.ratio, rand.New(rand.NewPCG(1, 2)))
			if len(train) != tt.wantTrain || len(val) != tt.n-tt.wantTrain {
				t.Fatalf("sizes: got %d/%d, want %d/%d", len(train), len(val), tt.wantTrain, tt.n-tt.wantTrain)
			}
			if !reflect.DeepEqual(pairs, orig) {
				t.Error("input slice was modified")
			}

			seen := make(map[Pair]int)
			for _, p := range append(append([]Pair(nil), train...), val...) {
				seen[p]++
			}
			for _, p := range pairs {
				if seen[p] != 1 {
					t.Errorf("%v appears %d times across train and val", p, seen[p])
				}
			}
		})
	}
}

func TestSplitPairs_SeedDeterminism(t *testing.T) {
	pairs := makePairs(30)
	a, _ := SplitPairs(pairs, 0.5, rand.New(rand.NewPCG(9, 0)))
	b, _ := SplitPairs(pairs, 0.5, rand.New(rand.NewPCG(9, 0)))
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different splits")
	}
}

// buildCorpus writes n labeled images and a classes file under root.
func buildCorpus(t *testing.T, root string, n int) config.Split {
	t.Helper()
	images := mkdir(t, filepath.Join(root, "src", "images"))
	labels := mkdir(t, filepath.Join(root, "src", "labels"))
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("aug_%d", i)
		writePNG(t, images, name+".jpg", 4, 4, color.White)
		writeFile(t, labels, name+".txt", "1 0.5 0.5 0.25 0.25")
	}
	classes := writeFile(t, root, "classes.txt", "arrow 0\ncircle 1\n")

	cfg := config.DefaultSplit()
	cfg.ImageDir = images
	cfg.LabelDir = labels
	cfg.OutputDir = filepath.Join(root, "dataset")
	cfg.ClassesFile = classes
	cfg.Seed = 7
	return cfg
}

func TestSplitter_Run(t *testing.T) {
	root := t.TempDir()
	cfg := buildCorpus(t, root, 10)

	s, err := NewSplitter(cfg, quietLogger())
	if err != nil {
		t.Fatalf("NewSplitter failed: %v", err)
	}
	stats, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.Pairs != 10 || stats.Train != 8 || stats.Val != 2 {
		t.Errorf("stats: got %+v, want 10 pairs split 8/2", stats)
	}

	for _, set := range []struct {
		name string
		want int
	}{{"train", 8}, {"val", 2}} {
		list := strings.Split(strings.TrimSuffix(readFile(t, filepath.Join(cfg.OutputDir, set.name+".txt")), "\n"), "\n")
		if len(list) != set.want {
			t.Fatalf("%s.txt: got %d lines, want %d", set.name, len(list), set.want)
		}
		for _, rel := range list {
			if !strings.HasPrefix(rel, "images/"+set.name+"/") {
				t.Errorf("%s.txt: unexpected path %q", set.name, rel)
			}
			if _, err := os.Stat(filepath.Join(cfg.OutputDir, filepath.FromSlash(rel))); err != nil {
				t.Errorf("listed image missing: %v", err)
			}
			label := strings.TrimSuffix(filepath.Base(rel), ".jpg") + ".txt"
			if _, err := os.Stat(filepath.Join(cfg.OutputDir, "labels", set.name, label)); err != nil {
				t.Errorf("label for %s missing: %v", rel, err)
			}
		}
	}

	d, err := ReadDataYAML(stats.DataYAML)
	if err != nil {
		t.Fatalf("ReadDataYAML failed: %v", err)
	}
	if d.NC != 2 || !reflect.DeepEqual(d.Names, []string{"arrow", "circle"}) {
		t.Errorf("data.yaml classes: got nc=%d names=%v", d.NC, d.Names)
	}
	if d.Train != "train.txt" || d.Val != "val.txt" {
		t.Errorf("data.yaml lists: got %q/%q", d.Train, d.Val)
	}
}

func TestSplitter_WithoutClasses(t *testing.T) {
	cfg := buildCorpus(t, t.TempDir(), 3)
	cfg.ClassesFile = ""

	s, err := NewSplitter(cfg, quietLogger())
	if err != nil {
		t.Fatalf("NewSplitter failed: %v", err)
	}
	stats, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.DataYAML != "" {
		t.Error("data.yaml should be skipped without a class map")
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "data.yaml")); !os.IsNotExist(err) {
		t.Error("data.yaml should not exist")
	}
}

func TestSplitter_NoPairs(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultSplit()
	cfg.ImageDir = mkdir(t, filepath.Join(root, "images"))
	cfg.LabelDir = mkdir(t, filepath.Join(root, "labels"))
	cfg.OutputDir = filepath.Join(root, "out")

	s, err := NewSplitter(cfg, quietLogger())
	if err != nil {
		t.Fatalf("NewSplitter failed: %v", err)
	}
	if _, err := s.Run(context.Background()); !errors.Is(err, ErrNoPairs) {
		t.Errorf("got %v, want ErrNoPairs", err)
	}
}

func TestNewSplitter_InvalidRatio(t *testing.T) {
	cfg := config.DefaultSplit()
	cfg.TrainRatio = 1.5
	if _, err := NewSplitter(cfg, nil); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("got %v, want ErrInvalid", err)
	}
}
