package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/itersolve/internal/analysis"
	"github.com/san-kum/itersolve/internal/config"
	"github.com/san-kum/itersolve/internal/experiment"
	"github.com/san-kum/itersolve/internal/export"
	"github.com/san-kum/itersolve/internal/report"
	"github.com/san-kum/itersolve/internal/storage"
	"github.com/san-kum/itersolve/internal/viz"
)

var (
	dataDir       string
	configFile    string
	preset        string
	tolerance     float64
	maxSteps      int
	stride        int
	checkpoint    string
	resumeFrom    string
	verbose       bool
	stepsPerFrame int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "itersolve",
		Short: "iterative linear system solver lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".itersolve", "data directory")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "run a solve",
		RunE:  runSolve,
	}
	solveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	solveCmd.Flags().StringVar(&preset, "preset", "", "use preset system")
	solveCmd.Flags().Float64Var(&tolerance, "tol", 0, "residual norm tolerance")
	solveCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step bound")
	solveCmd.Flags().IntVar(&stride, "stride", 0, "inner steps per surfaced step")
	solveCmd.Flags().StringVar(&checkpoint, "checkpoint", "", "checkpoint file path")
	solveCmd.Flags().StringVar(&resumeFrom, "resume", "", "resume from checkpoint file")
	solveCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print every surfaced step")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot residual decay of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export residual history to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export residual decay chart as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "convergence analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a solve with live visualization",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset system")
	liveCmd.Flags().Float64Var(&tolerance, "tol", 0, "residual norm tolerance")
	liveCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step bound")
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 1, "surfaced steps per frame")

	compareCmd := &cobra.Command{
		Use:   "compare [preset...]",
		Short: "solve several presets concurrently and compare",
		RunE:  compareRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available preset systems",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(solveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportSVGCmd, analyzeCmd, liveCmd, compareCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		copied := *p
		cfg = &copied
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// CLI flags override preset and file values.
	if cmd.Flags().Changed("tol") {
		cfg.Tolerance = tolerance
	}
	if cmd.Flags().Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if cmd.Flags().Changed("stride") {
		cfg.Stride = stride
	}
	if checkpoint != "" {
		cfg.Checkpoint = checkpoint
	}
	cfg.Normalize()
	return cfg, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if resumeFrom != "" {
		snap, err := storage.NewCheckpointStore(resumeFrom).LoadCheckpoint()
		if err != nil {
			return fmt.Errorf("failed to load checkpoint: %w", err)
		}
		exp.Resume(snap)
		fmt.Printf("resuming from step %d\n", snap.Step)
	}
	if err := exp.Setup(); err != nil {
		return err
	}
	if verbose {
		exp.Driver().AddObserver(report.NewPrinter(os.Stdout))
	}

	fmt.Printf("solving %dx%d system with %s...\n", len(cfg.Matrix), len(cfg.Matrix), cfg.Method)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Method, cfg.Tolerance, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	if result.Breakdown {
		fmt.Println("warning: solve ended in numerical breakdown")
	}
	if !verbose {
		if norm, ok := result.Metrics["final_residual_norm"]; ok {
			fmt.Printf("||Ax - b||_2 = %.5e\n", norm)
		} else if len(result.Residuals) > 0 {
			last := result.Residuals[len(result.Residuals)-1]
			fmt.Printf("||Ax - b||_2 = %.5e\n", math.Sqrt(last))
		}
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6g\n", name, val)
	}

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
	fmt.Fprintln(w, "ID\tMETHOD\tTIME\tDIM\tSTEPS\tTOL\tBREAKDOWN")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.1e\t%v\n",
			run.ID,
			run.Method,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Dim,
			run.Steps,
			run.Tolerance,
			run.Breakdown,
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

	residuals, err := st.LoadResiduals(runID)
	if err != nil {
		return err
	}

	if len(residuals) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("method: %s, dim: %d\n", meta.Method, meta.Dim)
	fmt.Printf("samples: %d\n\n", len(residuals))

	data := make([]float64, len(residuals))
	for i, rs := range residuals {
		norm := math.Sqrt(rs)
		if norm > 0 {
			data[i] = math.Max(math.Log10(norm), -16)
		} else {
			data[i] = -16
		}
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("log10 ||r|| per step"),
	)
	fmt.Println(graph)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	residuals, err := st.LoadResiduals(runID)
	if err != nil {
		return err
	}

	if len(residuals) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"step", "residual_sq", "residual_norm"}); err != nil {
		return err
	}
	for i, rs := range residuals {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(rs, 'e', 12, 64),
			strconv.FormatFloat(math.Sqrt(rs), 'e', 12, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	residuals, err := st.LoadResiduals(runID)
	if err != nil {
		return err
	}

	svg := export.ResidualsToSVG(residuals, 640, 320)
	if svg == "" {
		return fmt.Errorf("not enough data to chart")
	}
	fmt.Println(svg)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	residuals, err := st.LoadResiduals(runID)
	if err != nil {
		return err
	}

	s := analysis.Analyze(residuals)
	fmt.Printf("run: %s (%s, dim %d)\n", meta.ID, meta.Method, meta.Dim)
	fmt.Printf("steps: %d\n", s.Steps)
	fmt.Printf("contraction rate: %.4f per step\n", s.Rate)
	if s.StagnationFrom >= 0 {
		fmt.Printf("stagnated from step %d\n", s.StagnationFrom+1)
	} else {
		fmt.Println("no stagnation detected")
	}
	return nil
}

func compareRuns(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = config.ListPresets()
	}

	configs := make([]*config.Config, len(names))
	for i, name := range names {
		p := config.GetPreset(name)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		copied := *p
		configs[i] = &copied
	}

	results, err := experiment.NewBatch(configs).Run(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tDIM\tSTEPS\tFINAL ||r||\tELAPSED")
	for i, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.3e\t%.3gs\n",
			names[i],
			len(configs[i].Matrix),
			r.Steps,
			r.Metrics["final_residual_norm"],
			r.Metrics["elapsed_seconds"],
		)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sys, err := cfg.System()
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	cursor, err := registry.GetMethod(cfg.Method, sys, cfg.InitialGuess)
	if err != nil {
		return err
	}

	m := viz.NewModel(cursor, cfg.Method, stepsPerFrame)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
