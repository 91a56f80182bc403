// Package storage keeps run summaries and their sampled frames on disk,
// one directory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/ropecoil/internal/metrics"
)

const (
	metaFile   = "metadata.json"
	framesFile = "frames.csv"
)

var frameHeader = []string{"frame", "time", "angle", "segments", "static", "finalized"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata summarises one headless run.
type RunMetadata struct {
	ID            string             `json:"id"`
	Variant       string             `json:"variant"`
	Preset        string             `json:"preset,omitempty"`
	Timestamp     time.Time          `json:"timestamp"`
	Ticks         int                `json:"ticks"`
	RotationSpeed float64            `json:"rotationSpeed"`
	FixedTimestep float64            `json:"fixedTimestep"`
	Segments      int                `json:"segments"`
	Static        int                `json:"static"`
	Finalized     bool               `json:"finalized"`
	Metrics       map[string]float64 `json:"metrics"`
}

// Save writes meta and samples under a new run id and returns it.
func (s *Store) Save(meta RunMetadata, samples []metrics.Sample) (string, error) {
	meta.ID = fmt.Sprintf("%s_%s", meta.Variant, uuid.NewString())
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	mf, err := os.Create(filepath.Join(runDir, metaFile))
	if err != nil {
		return "", err
	}
	defer mf.Close()

	enc := json.NewEncoder(mf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	ff, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer ff.Close()

	w := csv.NewWriter(ff)
	if err := w.Write(frameHeader); err != nil {
		return "", err
	}
	for _, smp := range samples {
		row := []string{
			strconv.Itoa(smp.Frame),
			strconv.FormatFloat(smp.Time, 'f', 6, 64),
			strconv.FormatFloat(smp.Angle, 'f', 6, 64),
			strconv.Itoa(smp.SegmentCount),
			strconv.Itoa(smp.StaticCount),
			strconv.FormatBool(smp.Finalized),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
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
	slices.SortFunc(runs, func(a, b RunMetadata) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metaFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadFrames reads the sampled frames of a run. Malformed rows are skipped.
func (s *Store) LoadFrames(runID string) ([]metrics.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []metrics.Sample{}, nil
	}

	out := make([]metrics.Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < len(frameHeader) {
			continue
		}
		smp, err := parseSample(rec)
		if err != nil {
			continue
		}
		out = append(out, smp)
	}
	return out, nil
}

func parseSample(rec []string) (metrics.Sample, error) {
	var smp metrics.Sample
	var err error
	if smp.Frame, err = strconv.Atoi(rec[0]); err != nil {
		return smp, err
	}
	if smp.Time, err = strconv.ParseFloat(rec[1], 64); err != nil {
		return smp, err
	}
	if smp.Angle, err = strconv.ParseFloat(rec[2], 64); err != nil {
		return smp, err
	}
	if smp.SegmentCount, err = strconv.Atoi(rec[3]); err != nil {
		return smp, err
	}
	if smp.StaticCount, err = strconv.Atoi(rec[4]); err != nil {
		return smp, err
	}
	smp.Finalized, err = strconv.ParseBool(rec[5])
	return smp, err
}
