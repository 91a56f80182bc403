package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/san-kum/ropecoil/internal/coiler"
	"github.com/san-kum/ropecoil/internal/config"
	"github.com/san-kum/ropecoil/internal/metrics"
	"github.com/san-kum/ropecoil/internal/protocol"
	"github.com/san-kum/ropecoil/internal/server"
	"github.com/san-kum/ropecoil/internal/sim"
	"github.com/san-kum/ropecoil/internal/viz"
)

// runLive opens the terminal view. Logs go to a file under the data
// directory so they do not tear the screen.
func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if theme != "" && !viz.SetTheme(theme) {
		return fmt.Errorf("unknown theme: %s (available: %v)", theme, viz.ThemeNames())
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dataDir, "live.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	logger, err := newLogger(cfg, f)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	p := cfg.Params()
	launch := func(id string) (viz.Model, error) {
		v, err := cfg.Variants.Resolve(id)
		if err != nil {
			return viz.Model{}, err
		}
		s := sim.New(p, sim.WithLogger(logger.With("variant", id)), sim.WithVariants(cfg.Variants))
		w := protocol.NewWorker(s, protocol.WithWorkerLogger(logger))
		go func() { _ = w.Run(ctx) }()

		center := mgl64.Vec3{p.CoilerX, p.CoilerY, v.ZOffset}
		mid := (v.SideOffset1 + v.SideOffset2) / 2
		top := center.Add(mgl64.Vec3{0, v.Radius + p.EndAnchorLift, 0})
		return viz.NewModel(ctx, protocol.NewClient(w), viz.Options{
			Variants:  cfg.Variants,
			Variant:   id,
			Speed:     cfg.RotationSpeed,
			Center:    center,
			Anchor:    mgl64.Vec3{top.X(), top.Y(), mid},
			Sway:      sway,
			Amplitude: coiler.LateralFill * math.Abs(v.SideOffset2-v.SideOffset1) / 2,
			Metrics:   metrics.Default(p.CoilerX, p.CoilerY, v.Radius),
		})
	}

	if pick {
		return viz.RunPicker(cfg.Variants, config.ListVariants(cfg.Variants), launch)
	}
	m, err := launch(cfg.Variant)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	srv := server.New(cfg.Params(), server.WithLogger(logger), server.WithVariants(cfg.Variants))
	return srv.ListenAndServe(cmd.Context(), addr)
}
