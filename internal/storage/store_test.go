package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/san-kum/ropecoil/internal/metrics"
)

func testSamples() []metrics.Sample {
	return []metrics.Sample{
		{Frame: 10, Time: 0.166667, Angle: -0.2, SegmentCount: 40, StaticCount: 0},
		{Frame: 20, Time: 0.333333, Angle: -0.6, SegmentCount: 43, StaticCount: 5, Finalized: true},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	g := NewWithT(t)
	st := New(t.TempDir())
	g.Expect(st.Init()).To(Succeed())

	runID, err := st.Save(RunMetadata{
		Variant:       "100-10",
		Ticks:         20,
		RotationSpeed: -2.8,
		Metrics:       map[string]float64{"static_fraction": 0.1},
	}, testSamples())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(runID).To(HavePrefix("100-10_"))

	meta, err := st.Load(runID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(meta.ID).To(Equal(runID))
	g.Expect(meta.Variant).To(Equal("100-10"))
	g.Expect(meta.Metrics).To(HaveKeyWithValue("static_fraction", 0.1))
	g.Expect(meta.Timestamp.IsZero()).To(BeFalse())

	frames, err := st.LoadFrames(runID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(frames).To(Equal(testSamples()))
}

func TestStoreListNewestFirst(t *testing.T) {
	g := NewWithT(t)
	st := New(t.TempDir())
	g.Expect(st.Init()).To(Succeed())

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	older, err := st.Save(RunMetadata{Variant: "100-10", Timestamp: base}, nil)
	g.Expect(err).NotTo(HaveOccurred())
	newer, err := st.Save(RunMetadata{Variant: "200-20", Timestamp: base.Add(time.Hour)}, nil)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(os.MkdirAll(filepath.Join(st.baseDir, "junk"), 0755)).To(Succeed())

	runs, err := st.List()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(runs).To(HaveLen(2))
	g.Expect(runs[0].ID).To(Equal(newer))
	g.Expect(runs[1].ID).To(Equal(older))
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoadFramesSkipsBadRows(t *testing.T) {
	g := NewWithT(t)
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Variant: "100-10"}, testSamples())
	g.Expect(err).NotTo(HaveOccurred())

	path := filepath.Join(st.baseDir, runID, framesFile)
	data, err := os.ReadFile(path)
	g.Expect(err).NotTo(HaveOccurred())
	data = append(data, []byte("x,1,2,3,4,false\n5,1\n")...)
	g.Expect(os.WriteFile(path, data, 0644)).To(Succeed())

	frames, err := st.LoadFrames(runID)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(frames).To(HaveLen(2))
}

func TestExportJSON(t *testing.T) {
	g := NewWithT(t)
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Variant: "150-15", Segments: 43}, testSamples())
	g.Expect(err).NotTo(HaveOccurred())

	var buf bytes.Buffer
	g.Expect(st.ExportJSON(&buf, runID)).To(Succeed())
	g.Expect(strings.Contains(buf.String(), runID)).To(BeTrue())

	var out ExportData
	g.Expect(json.Unmarshal(buf.Bytes(), &out)).To(Succeed())
	g.Expect(out.Run.Segments).To(Equal(43))
	g.Expect(out.Frames).To(HaveLen(2))
}
