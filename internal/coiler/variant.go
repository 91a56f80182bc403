package coiler

import (
	"fmt"
	"math"

	"github.com/san-kum/ropecoil/internal/dynamo"
)

// Variant is one product configuration of the coiler.
type Variant struct {
	ID             string  `yaml:"id" json:"id"`
	Radius         float64 `yaml:"radius" json:"radius"`
	Height         float64 `yaml:"height" json:"height"`
	ZOffset        float64 `yaml:"z_offset" json:"zOffset"`
	SideOffset1    float64 `yaml:"side_offset_1" json:"sideOffset1"`
	SideOffset2    float64 `yaml:"side_offset_2" json:"sideOffset2"`
	Color          string  `yaml:"color" json:"color"`
	AngleIncrement float64 `yaml:"angle_increment" json:"angleIncrement"`
	BarrierScale   float64 `yaml:"barrier_scale" json:"barrierScale"`
	MaxSegments    int     `yaml:"max_segments" json:"maxSegments"`
}

// Validate rejects geometry the solver cannot work with.
func (v Variant) Validate() error {
	switch {
	case v.ID == "":
		return fmt.Errorf("%w: empty id", dynamo.ErrParameterBounds)
	case v.Radius <= 0:
		return dynamo.BoundsError("radius", v.Radius)
	case v.Height <= 0:
		return dynamo.BoundsError("height", v.Height)
	case v.AngleIncrement <= 0:
		return dynamo.BoundsError("angle_increment", v.AngleIncrement)
	case v.BarrierScale < 1:
		return dynamo.BoundsError("barrier_scale", v.BarrierScale)
	case v.MaxSegments <= 0:
		return dynamo.BoundsError("max_segments", float64(v.MaxSegments))
	case v.SideOffset1 == v.SideOffset2:
		return dynamo.BoundsError("side_offset_2", v.SideOffset2)
	}
	return nil
}

// BarrierRadius is the radius of the side disks.
func (v Variant) BarrierRadius() float64 {
	return v.Radius * v.BarrierScale
}

// Table maps variant ids to their configs.
type Table map[string]Variant

// Resolve looks up id and validates the result.
func (t Table) Resolve(id string) (Variant, error) {
	v, ok := t[id]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %q", dynamo.ErrUnknownVariant, id)
	}
	if v.ID == "" {
		v.ID = id
	}
	if err := v.Validate(); err != nil {
		return Variant{}, fmt.Errorf("variant %q: %w", id, err)
	}
	return v, nil
}

// Largest returns the id of the variant with the biggest radius.
func (t Table) Largest() string {
	best, r := "", math.Inf(-1)
	for id, v := range t {
		if v.Radius > r || (v.Radius == r && id < best) {
			best, r = id, v.Radius
		}
	}
	return best
}
