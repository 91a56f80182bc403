package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/ropecoil/internal/config"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	preset     string

	variant     string
	ticks       int
	speed       float64
	delay       int
	sampleEvery int

	sway  bool
	pick  bool
	theme string
	addr  string

	// sweep and montecarlo
	trialTicks int
	sweepMin   float64
	sweepMax   float64
	sweepN     int
	trials     int
	workers    int
	seed       int64
)

// main registers commands and flags and executes the root command. With no
// subcommand it opens the variant picker.
func main() {
	rootCmd := &cobra.Command{
		Use:           "ropecoil",
		Short:         "rope winding simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			pick, sway = true, true
			return runLive(cmd, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".ropecoil", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "wind headless and store the run",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	sessionFlags(runCmd)
	runCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to run")
	runCmd.Flags().IntVar(&sampleEvery, "every", 10, "sample every n frames")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "wind with the terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	sessionFlags(liveCmd)
	liveCmd.Flags().BoolVar(&sway, "sway", true, "traverse the feed anchor across the barrel")
	liveCmd.Flags().BoolVar(&pick, "pick", false, "choose the variant from a menu")
	liveCmd.Flags().StringVar(&theme, "theme", "", "color theme")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the command protocol over websockets",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	variantsCmd := &cobra.Command{
		Use:   "variants",
		Short: "list coiler variants",
		Args:  cobra.NoArgs,
		RunE:  listVariants,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p, _ := config.GetPreset(name)
				fmt.Printf("  %-10s %s (%.1f rad/s, %d ticks)\n", name, p.Description, p.RotationSpeed, p.Ticks)
			}
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "play a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare rotation speeds",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sessionFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&trialTicks, "ticks", 600, "ticks per run")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", -5, "slowest speed")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", -1, "fastest speed")
	sweepCmd.Flags().IntVar(&sweepN, "steps", 5, "number of speeds")
	sweepCmd.Flags().IntVar(&workers, "workers", 4, "concurrent runs")

	montecarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "jittered robustness trials",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	sessionFlags(montecarloCmd)
	montecarloCmd.Flags().IntVar(&trialTicks, "ticks", 600, "ticks per trial")
	montecarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	montecarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time)")
	montecarloCmd.Flags().IntVar(&workers, "workers", 4, "concurrent runs")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "chart a stored run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (stdout if empty)")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "wind headless and draw the final rope as SVG",
		Args:  cobra.NoArgs,
		RunE:  renderRun,
	}
	sessionFlags(renderCmd)
	renderCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks to run")
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (stdout if empty)")
	renderCmd.Flags().StringVar(&profileFile, "profile", "", "also write the lay cross-section here")

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, variantsCmd, presetsCmd, listCmd, plotCmd,
		exportJSONCmd, exportSVGCmd, renderCmd, initConfigCmd, scenarioCmd, sweepCmd, montecarloCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func sessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&variant, "variant", config.DefaultVariant, "coiler variant")
	cmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeed, "rotation speed (rad/s)")
	cmd.Flags().IntVar(&delay, "delay", 0, "startup delay frames")
}

// loadConfig layers defaults, preset, config file and changed flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		p.Apply(cfg)
	}
	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("variant") {
		cfg.Variant = variant
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("speed") {
		cfg.RotationSpeed = speed
	}
	if flags.Changed("delay") {
		cfg.Scheduler.StartupDelayFrames = delay
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "ropecoil",
		ReportTimestamp: true,
	}), nil
}
