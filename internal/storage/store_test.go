package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/balloonar/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Seed:     42,
		Frames:   3,
		Spawned:  2,
		Dropped:  1,
		PeakLive: 2,
		Live:     []float64{0, 1, 2},
		Loudness: []float64{10, 45.5, 50},
		Metrics:  map[string]float64{"spawn_rate": 0.5},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("party", 60, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Preset != "party" {
		t.Errorf("expected preset 'party', got '%s'", meta.Preset)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Spawned != 2 || meta.Dropped != 1 {
		t.Errorf("expected spawned 2 dropped 1, got %d %d", meta.Spawned, meta.Dropped)
	}
	if meta.Metrics["spawn_rate"] != 0.5 {
		t.Errorf("expected spawn_rate 0.5, got %f", meta.Metrics["spawn_rate"])
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if len(series.Live) != 3 || series.Live[2] != 2 {
		t.Errorf("unexpected live series %v", series.Live)
	}
	if series.Loudness[1] != 45.5 {
		t.Errorf("expected loudness 45.5, got %f", series.Loudness[1])
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list on missing dir failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := st.Save("calm", 30, testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID == runs[1].ID {
		t.Error("run ids should be unique")
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("classic", 60, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "frames.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}
