package config

import (
	"slices"

	"github.com/san-kum/ropecoil/internal/coiler"
)

// Variants returns a fresh copy of the product line.
func Variants() coiler.Table {
	return coiler.Table{
		"100-10": {
			ID: "100-10", Radius: 0.5, Height: 1.0, ZOffset: 0,
			SideOffset1: -0.5, SideOffset2: 0.5, Color: "#c0c4c8",
			AngleIncrement: 0.15, BarrierScale: 2.0, MaxSegments: 400,
		},
		"150-15": {
			ID: "150-15", Radius: 0.75, Height: 1.5, ZOffset: 0,
			SideOffset1: -0.75, SideOffset2: 0.75, Color: "#9aa3ab",
			AngleIncrement: 0.12, BarrierScale: 2.1, MaxSegments: 400,
		},
		"200-20": {
			ID: "200-20", Radius: 1.0, Height: 2.0, ZOffset: 0,
			SideOffset1: -1.0, SideOffset2: 1.0, Color: "#6f7880",
			AngleIncrement: 0.1, BarrierScale: 2.2, MaxSegments: 300,
		},
	}
}

// Preset is a named run scenario.
type Preset struct {
	Description   string
	RotationSpeed float64
	Ticks         int
	DelayFrames   int
}

var Presets = map[string]Preset{
	"idle":     {Description: "settle only, no rotation", RotationSpeed: 0, Ticks: 180, DelayFrames: 120},
	"standard": {Description: "steady winding", RotationSpeed: -2.8, Ticks: 1200, DelayFrames: 120},
	"slow":     {Description: "gentle winding", RotationSpeed: -1.2, Ticks: 2400, DelayFrames: 120},
	"fast":     {Description: "aggressive winding", RotationSpeed: -5, Ticks: 900, DelayFrames: 60},
}

func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	return p, ok
}

// Apply copies the preset's run settings onto cfg.
func (p Preset) Apply(cfg *Config) {
	cfg.RotationSpeed = p.RotationSpeed
	cfg.Ticks = p.Ticks
	cfg.Scheduler.StartupDelayFrames = p.DelayFrames
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ListVariants returns variant ids ordered by radius.
func ListVariants(t coiler.Table) []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		switch ra, rb := t[a].Radius, t[b].Radius; {
		case ra < rb:
			return -1
		case ra > rb:
			return 1
		}
		return 0
	})
	return ids
}
