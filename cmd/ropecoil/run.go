package main

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/ropecoil/internal/automation"
	"github.com/san-kum/ropecoil/internal/experiment"
	"github.com/san-kum/ropecoil/internal/protocol"
	"github.com/san-kum/ropecoil/internal/sim"
	"github.com/san-kum/ropecoil/internal/storage"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.WithLogger(logger), experiment.WithSampleEvery(sampleEvery))
	if err := exp.Setup(); err != nil {
		return err
	}

	fmt.Printf("winding %s for %d ticks at %.2f rad/s...\n", cfg.Variant, cfg.Ticks, cfg.RotationSpeed)
	res, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}

	runID, err := st.Save(storage.RunMetadata{
		Variant:       cfg.Variant,
		Preset:        preset,
		Timestamp:     time.Now(),
		Ticks:         cfg.Ticks,
		RotationSpeed: cfg.RotationSpeed,
		FixedTimestep: cfg.Scheduler.FixedTimestep,
		Segments:      res.Final.SegmentCount,
		Static:        res.Final.StaticCount,
		Finalized:     res.Final.Finalized,
		Metrics:       res.Metrics,
	}, res.Samples)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", res.Elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("segments: %d (static %d, finalized %v)\n", res.Final.SegmentCount, res.Final.StaticCount, res.Final.Finalized)
	printMetrics(res.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	if len(m) == 0 {
		return
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if sc.Variant == "" {
		sc.Variant = cfg.Variant
	}

	ctx := cmd.Context()
	s := sim.New(cfg.Params(), sim.WithLogger(logger), sim.WithVariants(cfg.Variants))
	w := protocol.NewWorker(s, protocol.WithWorkerLogger(logger))
	go func() { _ = w.Run(ctx) }()

	out, err := automation.RunScenario(ctx, protocol.NewClient(w), sc, logger)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d ticks, %d segments (static %d), added %d, declined %d, finalized %v\n",
		sc.Name, out.Ticks, out.Last.SegmentCount, out.Last.StaticCount, out.Added, out.Declined, out.Last.Finalized)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Ticks = trialTicks
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	results, err := automation.RunSweep(cmd.Context(), &automation.SpeedSweep{
		Base: cfg, Min: sweepMin, Max: sweepMax, NumSteps: sweepN, Workers: workers,
	}, logger)
	if err != nil {
		return err
	}
	fmt.Printf("%10s %9s %7s %10s\n", "SPEED", "SEGMENTS", "STATIC", "WIND_RATE")
	for _, r := range results {
		fmt.Printf("%10.2f %9d %7d %10.3f\n", r.Speed, r.Segments, r.Static, r.Metrics["wind_rate"])
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Ticks = trialTicks
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base: cfg, SpeedJitter: 0.5, SagJitter: 0.05, NumTrials: trials, Seed: seed, Workers: workers,
	}, logger)
	if err != nil {
		return err
	}
	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("%d trials: %d stable, %d unstable\n", len(results), stable, unstable)
	return nil
}
