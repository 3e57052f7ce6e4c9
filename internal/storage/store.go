package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/balloonar/internal/sim"
)

// Store keeps headless run results on disk, one directory per run.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	FPS       int                `json:"fps"`
	Frames    int                `json:"frames"`
	Spawned   int                `json:"spawned"`
	Dropped   int                `json:"dropped"`
	Gated     int                `json:"gated"`
	Retired   int                `json:"retired"`
	PeakLive  int                `json:"peak_live"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Series is the per-frame record of a run.
type Series struct {
	Live     []float64
	Loudness []float64
}

func (s *Store) Save(preset string, fps int, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d_%s", preset, now.Unix(), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    preset,
		Timestamp: now,
		Seed:      result.Seed,
		FPS:       fps,
		Frames:    result.Frames,
		Spawned:   result.Spawned,
		Dropped:   result.Dropped,
		Gated:     result.Gated,
		Retired:   result.Retired,
		PeakLive:  result.PeakLive,
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"frame", "time", "live", "loudness"}); err != nil {
		return "", err
	}
	for i := range result.Live {
		t := 0.0
		if fps > 0 {
			t = float64(i) / float64(fps)
		}
		loud := 0.0
		if i < len(result.Loudness) {
			loud = result.Loudness[i]
		}
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(t, 'f', 4, 64),
			strconv.FormatFloat(result.Live[i], 'f', 0, 64),
			strconv.FormatFloat(loud, 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	series := &Series{}
	if len(records) < 2 {
		return series, nil
	}

	for _, record := range records[1:] {
		live, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("frame %s: %w", record[0], err)
		}
		loud, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("frame %s: %w", record[0], err)
		}
		series.Live = append(series.Live, live)
		series.Loudness = append(series.Loudness, loud)
	}
	return series, nil
}
