package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ropecoil/internal/coiler"
	"github.com/san-kum/ropecoil/internal/sim"
)

const (
	DefaultVariant  = "100-10"
	DefaultTicks    = 1200
	DefaultSpeed    = -2.8
	DefaultLogLevel = "info"
)

type Config struct {
	Variant       string          `yaml:"variant"`
	Variants      coiler.Table    `yaml:"variants"`
	Ticks         int             `yaml:"ticks"`
	RotationSpeed float64         `yaml:"rotation_speed"`
	LogLevel      string          `yaml:"log_level"`
	Scheduler     SchedulerConfig `yaml:"scheduler"`
	Rope          RopeConfig      `yaml:"rope"`
	Anchors       AnchorConfig    `yaml:"anchors"`
	Forces        ForceConfig     `yaml:"forces"`
	Lifecycle     LifecycleConfig `yaml:"lifecycle"`
	Growth        GrowthConfig    `yaml:"growth"`
}

type SchedulerConfig struct {
	FixedTimestep      float64    `yaml:"fixed_timestep"`
	Substeps           int        `yaml:"substeps"`
	Iterations         int        `yaml:"iterations"`
	MaxLinearSpeed     float64    `yaml:"max_linear_speed"`
	MaxAngularSpeed    float64    `yaml:"max_angular_speed"`
	StartupDelayFrames int        `yaml:"startup_delay_frames"`
	Gravity            [3]float64 `yaml:"gravity"`
	CoilerX            float64    `yaml:"coiler_x"`
	CoilerY            float64    `yaml:"coiler_y"`
}

type RopeConfig struct {
	SegmentCount    int     `yaml:"segment_count"`
	MidRope         int     `yaml:"mid_rope"`
	SegmentMass     float64 `yaml:"segment_mass"`
	SegmentRadius   float64 `yaml:"segment_radius"`
	SegmentDistance float64 `yaml:"segment_distance"`
	StretchFactor   float64 `yaml:"stretch_factor"`
	LinearDamping   float64 `yaml:"linear_damping"`
	AngularDamping  float64 `yaml:"angular_damping"`
	LinkStiffness   float64 `yaml:"link_stiffness"`
	LinkMaxForce    float64 `yaml:"link_max_force"`
	AnchorStiffness float64 `yaml:"anchor_stiffness"`
	AnchorMaxForce  float64 `yaml:"anchor_max_force"`
	StartSag        float64 `yaml:"start_sag"`
	EndSag          float64 `yaml:"end_sag"`
}

type AnchorConfig struct {
	Start   [3]float64 `yaml:"start"`
	Mid     [3]float64 `yaml:"mid"`
	EndLift float64    `yaml:"end_lift"`
}

type ForceConfig struct {
	SurfaceClearance float64 `yaml:"surface_clearance"`
	InfluenceRange   float64 `yaml:"influence_range"`
	RadialStiffness  float64 `yaml:"radial_stiffness"`
	TangentialGain   float64 `yaml:"tangential_gain"`
	FineRadialError  float64 `yaml:"fine_radial_error"`
	FineDamping      float64 `yaml:"fine_damping"`
}

type LifecycleConfig struct {
	GraceFrames           int     `yaml:"grace_frames"`
	GraceAttractionGain   float64 `yaml:"grace_attraction_gain"`
	GraceDamping          float64 `yaml:"grace_damping"`
	GraceRange            float64 `yaml:"grace_range"`
	ContactThreshold      float64 `yaml:"contact_threshold"`
	PinFraction           float64 `yaml:"pin_fraction"`
	ContactAttractionGain float64 `yaml:"contact_attraction_gain"`
	ContactDamping        float64 `yaml:"contact_damping"`
	CaptureRadius         float64 `yaml:"capture_radius"`
}

type GrowthConfig struct {
	BootstrapLength int     `yaml:"bootstrap_length"`
	InsertIndex     int     `yaml:"insert_index"`
	LayFlipEvery    int     `yaml:"lay_flip_every"`
	NearFactor      float64 `yaml:"near_factor"`
	NearSeedSpeed   float64 `yaml:"near_seed_speed"`
	FarSeedSpeed    float64 `yaml:"far_seed_speed"`
	Damping         float64 `yaml:"damping"`
}

func DefaultConfig() *Config {
	cfg := FromParams(sim.DefaultParams())
	cfg.Variant = DefaultVariant
	cfg.Variants = Variants()
	cfg.Ticks = DefaultTicks
	cfg.RotationSpeed = DefaultSpeed
	cfg.LogLevel = DefaultLogLevel
	return cfg
}

// FromParams lays p out in file form. Variant selection is left empty.
func FromParams(p sim.Params) *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			FixedTimestep:      p.FixedTimestep,
			Substeps:           p.Substeps,
			Iterations:         p.Iterations,
			MaxLinearSpeed:     p.MaxLinearSpeed,
			MaxAngularSpeed:    p.MaxAngularSpeed,
			StartupDelayFrames: p.StartupDelayFrames,
			Gravity:            p.Gravity,
			CoilerX:            p.CoilerX,
			CoilerY:            p.CoilerY,
		},
		Rope: RopeConfig{
			SegmentCount:    p.SegmentCount,
			MidRope:         p.MidRope,
			SegmentMass:     p.SegmentMass,
			SegmentRadius:   p.SegmentRadius,
			SegmentDistance: p.SegmentDistance,
			StretchFactor:   p.StretchFactor,
			LinearDamping:   p.LinearDamping,
			AngularDamping:  p.AngularDamping,
			LinkStiffness:   p.LinkStiffness,
			LinkMaxForce:    p.LinkMaxForce,
			AnchorStiffness: p.AnchorStiffness,
			AnchorMaxForce:  p.AnchorMaxForce,
			StartSag:        p.StartSag,
			EndSag:          p.EndSag,
		},
		Anchors: AnchorConfig{
			Start:   p.StartAnchor,
			Mid:     p.MidAnchor,
			EndLift: p.EndAnchorLift,
		},
		Forces: ForceConfig{
			SurfaceClearance: p.SurfaceClearance,
			InfluenceRange:   p.InfluenceRange,
			RadialStiffness:  p.RadialStiffness,
			TangentialGain:   p.TangentialGain,
			FineRadialError:  p.FineRadialError,
			FineDamping:      p.FineDamping,
		},
		Lifecycle: LifecycleConfig{
			GraceFrames:           p.GraceFrames,
			GraceAttractionGain:   p.GraceAttractionGain,
			GraceDamping:          p.GraceDamping,
			GraceRange:            p.GraceRange,
			ContactThreshold:      p.ContactThreshold,
			PinFraction:           p.PinFraction,
			ContactAttractionGain: p.ContactAttractionGain,
			ContactDamping:        p.ContactDamping,
			CaptureRadius:         p.CaptureRadius,
		},
		Growth: GrowthConfig{
			BootstrapLength: p.BootstrapLength,
			InsertIndex:     p.InsertIndex,
			LayFlipEvery:    p.LayFlipEvery,
			NearFactor:      p.NearFactor,
			NearSeedSpeed:   p.NearSeedSpeed,
			FarSeedSpeed:    p.FarSeedSpeed,
			Damping:         p.GrowthDamping,
		},
	}
}

// Params converts the file form back into simulator parameters.
func (c *Config) Params() sim.Params {
	s, r, a, f, l, g := c.Scheduler, c.Rope, c.Anchors, c.Forces, c.Lifecycle, c.Growth
	return sim.Params{
		FixedTimestep:      s.FixedTimestep,
		Substeps:           s.Substeps,
		Iterations:         s.Iterations,
		MaxLinearSpeed:     s.MaxLinearSpeed,
		MaxAngularSpeed:    s.MaxAngularSpeed,
		StartupDelayFrames: s.StartupDelayFrames,
		Gravity:            mgl64.Vec3(s.Gravity),
		CoilerX:            s.CoilerX,
		CoilerY:            s.CoilerY,

		SegmentCount:    r.SegmentCount,
		MidRope:         r.MidRope,
		SegmentMass:     r.SegmentMass,
		SegmentRadius:   r.SegmentRadius,
		SegmentDistance: r.SegmentDistance,
		StretchFactor:   r.StretchFactor,
		LinearDamping:   r.LinearDamping,
		AngularDamping:  r.AngularDamping,
		LinkStiffness:   r.LinkStiffness,
		LinkMaxForce:    r.LinkMaxForce,
		AnchorStiffness: r.AnchorStiffness,
		AnchorMaxForce:  r.AnchorMaxForce,
		StartSag:        r.StartSag,
		EndSag:          r.EndSag,
		StartAnchor:     mgl64.Vec3(a.Start),
		MidAnchor:       mgl64.Vec3(a.Mid),
		EndAnchorLift:   a.EndLift,

		SurfaceClearance: f.SurfaceClearance,
		InfluenceRange:   f.InfluenceRange,
		RadialStiffness:  f.RadialStiffness,
		TangentialGain:   f.TangentialGain,
		FineRadialError:  f.FineRadialError,
		FineDamping:      f.FineDamping,

		GraceFrames:           l.GraceFrames,
		GraceAttractionGain:   l.GraceAttractionGain,
		GraceDamping:          l.GraceDamping,
		GraceRange:            l.GraceRange,
		ContactThreshold:      l.ContactThreshold,
		PinFraction:           l.PinFraction,
		ContactAttractionGain: l.ContactAttractionGain,
		ContactDamping:        l.ContactDamping,
		CaptureRadius:         l.CaptureRadius,

		BootstrapLength: g.BootstrapLength,
		InsertIndex:     g.InsertIndex,
		LayFlipEvery:    g.LayFlipEvery,
		NearFactor:      g.NearFactor,
		NearSeedSpeed:   g.NearSeedSpeed,
		FarSeedSpeed:    g.FarSeedSpeed,
		GrowthDamping:   g.Damping,
	}
}

// Validate checks the parameters and that the selected variant resolves.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.Variants.Resolve(c.Variant); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load reads path over the defaults. Variants in the file are merged into
// the built-in table.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto reads path over cfg, so a preset applied to cfg first is
// overridden only by the keys the file sets.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	base := cfg.Variants
	cfg.Variants = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Variants == nil {
		cfg.Variants = make(coiler.Table)
	}
	if base == nil {
		base = Variants()
	}
	for id, v := range base {
		if _, ok := cfg.Variants[id]; !ok {
			cfg.Variants[id] = v
		}
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
