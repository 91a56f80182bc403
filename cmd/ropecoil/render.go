package main

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/san-kum/ropecoil/internal/experiment"
	"github.com/san-kum/ropecoil/internal/export"
	"github.com/san-kum/ropecoil/internal/storage"
	"github.com/san-kum/ropecoil/internal/viz"
)

var (
	outFile     string
	profileFile string
)

func exportSVG(cmd *cobra.Command, args []string) error {
	frames, err := storage.New(dataDir).LoadFrames(args[0])
	if err != nil {
		return err
	}
	svg := export.SamplesToSVG(frames, 800, 400)
	if svg == "" {
		return fmt.Errorf("no data to plot")
	}
	return writeOut(svg)
}

// renderRun winds headless and draws the final snapshot.
func renderRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	exp := experiment.New(cfg, experiment.WithLogger(logger))
	if err := exp.Setup(); err != nil {
		return err
	}
	res, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}

	v, _ := cfg.Variants.Resolve(cfg.Variant)
	p := cfg.Params()
	center := mgl64.Vec3{p.CoilerX, p.CoilerY, v.ZOffset}
	c := viz.NewCanvas(100, 50)
	viz.DrawScene(c, c, viz.NewCamera(center), v, center, res.Final)
	if err := writeOut(export.CanvasToSVG(c, 4, "#e0b860")); err != nil {
		return err
	}

	if profileFile != "" {
		svg := export.TrajectoryToSVG(export.CrossSection(res.Final.Positions, p.CoilerX, p.CoilerY), 600, 300, "#7aa2c8")
		if err := os.WriteFile(profileFile, []byte(svg), 0644); err != nil {
			return err
		}
		logger.Info("wrote profile", "path", profileFile)
	}
	return nil
}

func writeOut(svg string) error {
	if outFile == "" || outFile == "-" {
		_, err := fmt.Println(svg)
		return err
	}
	return os.WriteFile(outFile, []byte(svg), 0644)
}
