package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/colmak/collsim/internal/config"
)

func TestStore_SaveListLoad(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Bodies = []config.BodyConfig{
		{Name: "floor", Shapes: []config.ShapeConfig{{Kind: "box", Params: []float64{10, 0.5, 10}}}},
		{Name: "ball", Position: [3]float64{0, 1, 0}, Shapes: []config.ShapeConfig{{Kind: "sphere", Params: []float64{0.6}}}},
	}
	w, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	pairs, err := w.Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 1 {
		t.Fatalf("scene should produce 1 pair, got %v", pairs)
	}

	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := s.SaveScan(cfg.Engine, w, pairs)
	if err != nil {
		t.Fatalf("SaveScan() error: %v", err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != runID {
		t.Fatalf("List() = %+v", runs)
	}

	meta, err := s.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Engine != "sweep" || meta.Models != 2 || meta.Shapes != 2 || meta.Pairs != 1 {
		t.Errorf("metadata = %+v", meta)
	}

	got, err := s.LoadPairs(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != pairs[0] {
		t.Errorf("LoadPairs() = %v, want %v", got, pairs)
	}
}

func TestStore_ListMissingDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := s.List()
	if err != nil {
		t.Fatalf("List() on missing dir: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("List() = %v, want empty", runs)
	}
}

func TestStore_LoadUnknownRun(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Load("scan_0"); !os.IsNotExist(err) {
		t.Errorf("Load() = %v, want not-exist", err)
	}
}
