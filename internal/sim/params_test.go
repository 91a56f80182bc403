package sim

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/san-kum/ropecoil/internal/dynamo"
)

func TestDefaultParamsValid(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("default params invalid: %v", err)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"zero timestep", func(p *Params) { p.FixedTimestep = 0 }},
		{"no substeps", func(p *Params) { p.Substeps = 0 }},
		{"massless segments", func(p *Params) { p.SegmentMass = 0 }},
		{"mid past end", func(p *Params) { p.SegmentCount = p.MidRope + 1 }},
		{"insert before mid", func(p *Params) { p.InsertIndex = p.MidRope }},
		{"bootstrap too short", func(p *Params) { p.BootstrapLength = p.InsertIndex }},
		{"pin fraction", func(p *Params) { p.PinFraction = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("Validate() = %v, want ErrParameterBounds", err)
			}
		})
	}
}

func TestSnapshotWireNames(t *testing.T) {
	data, err := json.Marshal(Snapshot{Finalized: true, DelayActive: true})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"positions", "segmentCount", "staticCount", "simulationTime",
		"rotationAngle", "delayActive", "delayRemaining", "ropeFinalized"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	if _, ok := m["dropped"]; ok {
		t.Error("dropped should be omitted when zero")
	}
}
