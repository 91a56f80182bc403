// Package experiment runs a winding session headless from a config.
package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/ropecoil/internal/config"
	"github.com/san-kum/ropecoil/internal/metrics"
	"github.com/san-kum/ropecoil/internal/sim"
)

// DefaultSampleEvery is the collector stride in frames.
const DefaultSampleEvery = 10

type Result struct {
	Final   sim.Snapshot
	Samples []metrics.Sample
	Metrics map[string]float64
	Elapsed time.Duration
}

type Experiment struct {
	cfg       *config.Config
	logger    *log.Logger
	every     int
	stop      bool
	simulator *sim.Simulator
	collector *metrics.Collector
}

type Option func(*Experiment)

func WithLogger(l *log.Logger) Option {
	return func(e *Experiment) { e.logger = l }
}

func WithSampleEvery(n int) Option {
	return func(e *Experiment) { e.every = max(1, n) }
}

// WithStopTick appends one zero-speed tick after the run, which finalizes
// the rope if the coiler spun up.
func WithStopTick(stop bool) Option {
	return func(e *Experiment) { e.stop = stop }
}

func New(cfg *config.Config, opts ...Option) *Experiment {
	e := &Experiment{cfg: cfg, logger: log.Default(), every: DefaultSampleEvery, stop: true}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Setup validates the config, builds the coiler and rope and attaches the
// metrics collector.
func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	v, err := e.cfg.Variants.Resolve(e.cfg.Variant)
	if err != nil {
		return err
	}
	s := sim.New(e.cfg.Params(), sim.WithLogger(e.logger), sim.WithVariants(e.cfg.Variants))
	s.Init()
	if _, err := s.CreateCoiler(nil, e.cfg.Variant); err != nil {
		return err
	}
	if err := s.CreateRope(); err != nil {
		return err
	}
	p := s.Params()
	e.collector = metrics.NewCollector(e.every, metrics.Default(p.CoilerX, p.CoilerY, v.Radius)...)
	s.AddObserver(e.collector)
	e.simulator = s
	return nil
}

// Run steps the configured number of ticks at the configured speed.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	s := e.simulator
	start := time.Now()
	in := sim.StepInput{TimeStep: s.Params().FixedTimestep, RotationSpeed: e.cfg.RotationSpeed}

	var last sim.Snapshot
	for i := range e.cfg.Ticks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		in.AngleHint = s.RotationAngle()
		last = s.Step(in)
		if i%600 == 0 {
			e.logger.Debug("tick", "frame", last.Frame, "segments", last.SegmentCount, "static", last.StaticCount)
		}
	}
	if e.stop && !last.Finalized {
		in.RotationSpeed = 0
		in.AngleHint = s.RotationAngle()
		last = s.Step(in)
	}

	return &Result{
		Final:   last,
		Samples: e.collector.Samples(),
		Metrics: e.collector.Values(),
		Elapsed: time.Since(start),
	}, nil
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}
