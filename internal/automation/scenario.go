// Package automation scripts winding sessions: YAML scenarios played
// through the protocol client, speed sweeps and Monte Carlo trials over
// headless experiments.
package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ropecoil/internal/coiler"
	"github.com/san-kum/ropecoil/internal/protocol"
	"github.com/san-kum/ropecoil/internal/sim"
)

// Scenario is a scripted command sequence against one simulator.
type Scenario struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Variant     string       `yaml:"variant"`
	Variants    coiler.Table `yaml:"variants"`
	Steps       []Action     `yaml:"steps"`
}

// Action is one scenario step. Do selects the command:
// step, rotate, anchor, delay, add, finalize, reset, rope.
type Action struct {
	Do         string              `yaml:"do"`
	Ticks      int                 `yaml:"ticks"`
	Speed      float64             `yaml:"speed"`
	Anchor     [3]float64          `yaml:"anchor"`
	Frames     int                 `yaml:"frames"`
	Count      int                 `yaml:"count"`
	ResetAngle bool                `yaml:"reset_angle"`
	Override   *sim.GrowthOverride `yaml:"override"`
}

// Outcome summarizes a played scenario.
type Outcome struct {
	Last     sim.Snapshot
	Ticks    int
	Added    int
	Declined int
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &sc, nil
}

// RunScenario initializes the simulator behind client with the scenario's
// coiler and rope, then plays every action in order.
func RunScenario(ctx context.Context, client *protocol.Client, sc *Scenario, logger *log.Logger) (*Outcome, error) {
	if _, err := client.Init(ctx); err != nil {
		return nil, err
	}
	if _, _, err := client.CreateCoiler(ctx, sc.Variants, sc.Variant); err != nil {
		return nil, err
	}
	snap, _, err := client.CreateRope(ctx)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Last: snap}
	speed := 0.0
	for i, a := range sc.Steps {
		logger.Debug("scenario action", "n", i+1, "do", a.Do)
		if err := play(ctx, client, a, &speed, out); err != nil {
			return out, fmt.Errorf("step %d (%s): %w", i+1, a.Do, err)
		}
	}
	logger.Info("scenario done", "name", sc.Name, "ticks", out.Ticks,
		"segments", out.Last.SegmentCount, "static", out.Last.StaticCount, "finalized", out.Last.Finalized)
	return out, nil
}

func play(ctx context.Context, client *protocol.Client, a Action, speed *float64, out *Outcome) error {
	switch a.Do {
	case "step":
		for range max(1, a.Ticks) {
			snap, err := client.Step(ctx, *speed, out.Last.RotationAngle)
			if err != nil {
				return err
			}
			out.Last = snap
			out.Ticks++
		}
	case "rotate":
		*speed = a.Speed
		return client.SetRotation(ctx, a.Speed)
	case "anchor":
		return client.UpdateAnchor(ctx, mgl64.Vec3(a.Anchor))
	case "delay":
		_, err := client.SetDelay(ctx, a.Frames)
		return err
	case "add":
		for range max(1, a.Count) {
			snap, ok, err := client.AddSegment(ctx, a.Override)
			if err != nil {
				return err
			}
			if !ok {
				out.Declined++
				continue
			}
			out.Last = snap
			out.Added++
		}
	case "finalize":
		snap, err := client.Finalize(ctx)
		if err != nil {
			return err
		}
		out.Last = snap
	case "reset":
		return client.Reset(ctx, a.ResetAngle)
	case "rope":
		snap, _, err := client.CreateRope(ctx)
		if err != nil {
			return err
		}
		out.Last = snap
	default:
		return fmt.Errorf("unknown action %q", a.Do)
	}
	return nil
}
