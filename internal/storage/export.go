package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/ropecoil/internal/metrics"
)

type ExportData struct {
	Run    RunMetadata      `json:"run"`
	Frames []metrics.Sample `json:"frames"`
}

// ExportJSON writes a stored run with its frames to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Frames: frames})
}
