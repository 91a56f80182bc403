package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ropecoil/internal/config"
	"github.com/san-kum/ropecoil/internal/storage"
)

func listVariants(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers("ID", "RADIUS", "HEIGHT", "SIDES", "BARRIER", "INC", "CAP")
	for _, id := range config.ListVariants(cfg.Variants) {
		v := cfg.Variants[id]
		t.Row(id,
			fmt.Sprintf("%.2f", v.Radius),
			fmt.Sprintf("%.2f", v.Height),
			fmt.Sprintf("%.2f/%.2f", v.SideOffset1, v.SideOffset2),
			fmt.Sprintf("%.2f", v.BarrierRadius()),
			fmt.Sprintf("%.3f", v.AngleIncrement),
			fmt.Sprintf("%d", v.MaxSegments))
	}
	fmt.Println(t)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVARIANT\tTIME\tTICKS\tSPEED\tSEGMENTS\tSTATIC\tFINAL")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%d\t%d\t%v\n",
			run.ID,
			run.Variant,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.RotationSpeed,
			run.Segments,
			run.Static,
			run.Finalized,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("variant: %s\n", meta.Variant)
	fmt.Printf("samples: %d\n\n", len(frames))

	static := make([]float64, len(frames))
	segments := make([]float64, len(frames))
	for i, f := range frames {
		static[i] = float64(f.StaticCount)
		segments[i] = float64(f.SegmentCount)
	}

	fmt.Println(asciigraph.PlotMany([][]float64{segments, static},
		asciigraph.Height(12),
		asciigraph.Width(72),
		asciigraph.SeriesColors(asciigraph.Default, asciigraph.Green),
		asciigraph.Caption("segments (default) / static (green) per sample")))
	fmt.Println()
	printMetrics(meta.Metrics)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}
