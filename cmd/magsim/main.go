package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/jheller/magsim/internal/analysis"
	"github.com/jheller/magsim/internal/config"
	"github.com/jheller/magsim/internal/experiment"
	"github.com/jheller/magsim/internal/export"
	"github.com/jheller/magsim/internal/gui"
	"github.com/jheller/magsim/internal/optim"
	"github.com/jheller/magsim/internal/storage"
	"github.com/jheller/magsim/internal/viz"
)

var (
	dataDir     string
	dt          float64
	duration    float64
	seed        int64
	integrator  string
	controller  string
	kp          float64
	ki          float64
	kd          float64
	target      float64
	configFile  string
	traceCol    int
	sweepMetric string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "magsim",
		Short: "2D magnetostatics playground",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runGUI(cmd, []string{"pair"}); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".magsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and save the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	addSceneFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui [scene]",
		Short: "run a scene in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	addSceneFlags(guiCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot orientation traces of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&traceCol, "column", 0, "state column to analyze")

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "benchmark a scene across timesteps",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	addSceneFlags(benchCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "grid-search damping and coupling for a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepScene,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "settle_time", "metric to minimize")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export full run data as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export an orientation trace as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&traceCol, "column", 0, "state column to plot")

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, listCmd, plotCmd, analyzeCmd, benchCmd, sweepCmd, presetsCmd, exportCmd, exportJSONCmd, exportSVGCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (euler, rk4, symplectic)")
	cmd.Flags().StringVar(&controller, "controller", "", "controller (none, pid)")
	cmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "pid kp")
	cmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "pid ki")
	cmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "pid kd")
	cmd.Flags().Float64Var(&target, "target", 0.0, "pid target angle (degrees)")
	cmd.Flags().StringVar(&configFile, "config", "", "scene file path (yaml)")
}

// loadScene resolves a scene from --config or a preset name, then layers any
// explicitly set flags on top.
func loadScene(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	var err error

	switch {
	case configFile != "":
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, err
		}
	case len(args) > 0:
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown scene: %s (available: %s)", args[0], strings.Join(config.ListPresets(), ", "))
		}
	default:
		cfg = config.GetPreset("pair")
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if controller != "" {
		cfg.Controller = controller
	}
	if flags.Changed("kp") {
		cfg.ControllerParams.Kp = kp
	}
	if flags.Changed("ki") {
		cfg.ControllerParams.Ki = ki
	}
	if flags.Changed("kd") {
		cfg.ControllerParams.Kd = kd
	}
	if flags.Changed("target") {
		cfg.ControllerParams.TargetDeg = target
	}

	return cfg, cfg.Validate()
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}

	start := time.Now()
	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg.Name, cfg.Dt, cfg.Duration, cfg.Seed, cfg.Integrator, cfg.Controller, result)
	if err != nil {
		return err
	}

	fmt.Printf("scene: %s\n", cfg.Name)
	fmt.Printf("steps: %d (%v)\n", result.StepsTaken, elapsed)
	fmt.Printf("energy drift: %.6f\n", result.EnergyDrift)
	for name, val := range result.Metrics {
		fmt.Printf("%s: %.4f\n", name, val)
	}
	fmt.Printf("saved: %s\n", runID)

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	mgr := cfg.Build()

	integ, err := experiment.GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}
	ctrl, err := experiment.GetController(cfg.Controller, cfg.ControllerParams)
	if err != nil {
		return err
	}

	model := viz.NewModel(mgr, integ, ctrl, cfg.Dt,
		float64(cfg.Display.Width), float64(cfg.Display.Height), cfg.Display.Title)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	mgr := cfg.Build()

	d, err := gui.NewDisplay(cfg.Display.Width, cfg.Display.Height, cfg.Display.Title)
	if err != nil {
		return err
	}
	for _, e := range mgr.Elements() {
		d.Attach(e)
	}
	d.Manager().Coupling = mgr.Coupling
	d.Manager().Damping = mgr.Damping
	d.Manager().DriveAngle = mgr.DriveAngle

	d.Run(cfg.Dt)
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tINTEG\tCTRL")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Controller,
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

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(states))

	numVars := len(states[0])
	maxPlots := 6
	if numVars > maxPlots {
		numVars = maxPlots
	}

	for varIdx := 0; varIdx < numVars; varIdx++ {
		data := make([]float64, len(states))
		for i := range states {
			if varIdx < len(states[i]) {
				data[i] = states[i][varIdx]
			}
		}

		caption := fmt.Sprintf("theta%d (rad)", varIdx/2)
		if varIdx%2 == 1 {
			caption = fmt.Sprintf("omega%d (rad/s)", varIdx/2)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 || traceCol >= len(states[0]) {
		return fmt.Errorf("no data in column %d", traceCol)
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s\n\n", meta.Scene)

	data := make([]float64, len(states))
	for i := range states {
		data[i] = states[i][traceCol]
	}

	ps := analysis.PowerSpectrum(analysis.PadPow2(data))
	plotData := ps[:len(ps)/4]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (column %d)", traceCol)),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(plotData, meta.Duration)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	durations := []float64{1.0, 5.0, 10.0}
	dts := []float64{0.001, 0.01, 0.1}

	fmt.Printf("benchmarking %s\n\n", cfg.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, step := range dts {
			c := *cfg
			c.Dt = step
			c.Duration = dur

			exp := experiment.New(&c)
			if err := exp.Setup(); err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			steps := len(result.States)
			stepsPerSec := float64(steps) / elapsed.Seconds()

			fmt.Fprintf(w, "%.1fs\t%.4fs\t%d\t%v\t%.0f\n",
				dur, step, steps, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}

func sweepScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	search := optim.NewGridSearch(
		[]string{"damping", "coupling"},
		[][]float64{
			{0.2, 0.5, 0.8, 1.2, 2.0},
			{cfg.Physics.Coupling * 0.5, cfg.Physics.Coupling, cfg.Physics.Coupling * 2},
		},
	)

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		c := *cfg
		c.Physics.Damping = params["damping"]
		c.Physics.Coupling = params["coupling"]

		exp := experiment.New(&c)
		if err := exp.Setup(); err != nil {
			return nil, err
		}
		return exp, nil
	}

	fmt.Printf("sweeping %s, minimizing %s\n", cfg.Name, sweepMetric)

	best, val, err := search.Search(context.Background(), build, sweepMetric)
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no successful runs in sweep")
	}

	fmt.Printf("best %s: %.4f\n", sweepMetric, val)
	for k, v := range best {
		fmt.Printf("  %s = %.4g\n", k, v)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, nil, nil)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, states, times)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	svg := export.OrientationTraceSVG(states, times, traceCol, 800, 400, "#00ff00")
	if svg == "" {
		return fmt.Errorf("no data in column %d", traceCol)
	}
	fmt.Println(svg)
	return nil
}
