package automation

import (
	"context"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/ropecoil/internal/config"
	"github.com/san-kum/ropecoil/internal/experiment"
)

// SpeedSweep runs one experiment per rotation speed in [Min, Max].
type SpeedSweep struct {
	Base     *config.Config
	Min, Max float64
	NumSteps int
	// Workers bounds concurrent runs; 0 runs them all at once.
	Workers int
}

type SweepResult struct {
	Speed     float64
	Segments  int
	Static    int
	Finalized bool
	Metrics   map[string]float64
}

func RunSweep(ctx context.Context, sw *SpeedSweep, logger *log.Logger) ([]SweepResult, error) {
	n := max(1, sw.NumSteps)
	step := 0.0
	if n > 1 {
		step = (sw.Max - sw.Min) / float64(n-1)
	}
	cfgs := make([]*config.Config, n)
	for i := range n {
		cfg := *sw.Base
		cfg.RotationSpeed = sw.Min + float64(i)*step
		cfgs[i] = &cfg
	}

	runs, err := experiment.RunEnsemble(ctx, cfgs, sw.Workers, experiment.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	results := make([]SweepResult, n)
	for i, res := range runs {
		results[i] = SweepResult{
			Speed:     cfgs[i].RotationSpeed,
			Segments:  res.Final.SegmentCount,
			Static:    res.Final.StaticCount,
			Finalized: res.Final.Finalized,
			Metrics:   res.Metrics,
		}
		logger.Info("sweep", "n", i+1, "of", n, "speed", cfgs[i].RotationSpeed, "static", res.Final.StaticCount)
	}
	return results, nil
}

// MonteCarloConfig jitters speed and initial sag around Base.
type MonteCarloConfig struct {
	Base        *config.Config
	SpeedJitter float64
	SagJitter   float64
	NumTrials   int
	Seed        int64
	Workers     int
}

type MonteCarloResult struct {
	TrialID int
	Speed   float64
	Sag     float64
	Static  int
	// Stable is false when the run dropped non-finite positions.
	Stable bool
}

func RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig, logger *log.Logger) ([]MonteCarloResult, error) {
	seed := mc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	cfgs := make([]*config.Config, mc.NumTrials)
	for trial := range cfgs {
		cfg := *mc.Base
		cfg.RotationSpeed += (rng.Float64() - 0.5) * 2 * mc.SpeedJitter
		cfg.Rope.StartSag += (rng.Float64() - 0.5) * 2 * mc.SagJitter
		cfg.Rope.EndSag += (rng.Float64() - 0.5) * 2 * mc.SagJitter
		cfgs[trial] = &cfg
	}

	runs, err := experiment.RunEnsemble(ctx, cfgs, mc.Workers, experiment.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	results := make([]MonteCarloResult, len(runs))
	for trial, res := range runs {
		results[trial] = MonteCarloResult{
			TrialID: trial,
			Speed:   cfgs[trial].RotationSpeed,
			Sag:     cfgs[trial].Rope.StartSag,
			Static:  res.Final.StaticCount,
			Stable:  res.Final.Dropped == 0,
		}
	}
	stable, _ := MonteCarloStats(results)
	logger.Info("monte carlo", "trials", len(results), "stable", stable)
	return results, nil
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
