package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/powersim/internal/analysis"
	"github.com/san-kum/powersim/internal/config"
	"github.com/san-kum/powersim/internal/export"
	"github.com/san-kum/powersim/internal/logger"
	"github.com/san-kum/powersim/internal/metrics"
	"github.com/san-kum/powersim/internal/scenario"
	"github.com/san-kum/powersim/internal/sim"
	"github.com/san-kum/powersim/internal/telemetry"
	"github.com/san-kum/powersim/internal/tui"
	"github.com/san-kum/powersim/internal/tune"
	"github.com/spf13/cobra"
)

var (
	// Scenario selection
	configFile string
	preset     string

	// Run overrides
	dt           float64
	duration     float64
	initialSoC   float64
	loadSetpoint float64
	disturbance  float64

	// Export options
	format  string
	outPath string

	// Phase plot channels
	xChannel string
	yChannel string
	svgPath  string

	// Sweep range
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	// Monte Carlo trials
	mcTrials     int
	mcSeed       int64
	mcSoCSpread  float64
	mcLoadSpread float64

	// Tuning objective
	tuneObjective string
)

// maxStackTemp is the thermal ceiling watched by the stability metric.
const maxStackTemp = 60.0

type channel struct {
	name   string
	sample func(sim.Snapshot) float64
}

// channels lists every plottable series, named after the CSV columns.
var channels = []channel{
	{"voltage", func(s sim.Snapshot) float64 { return s.FuelCellVoltage }},
	{"current", func(s sim.Snapshot) float64 { return s.FuelCellCurrent }},
	{"temperature", func(s sim.Snapshot) float64 { return s.FuelCellTemperature }},
	{"hydrogen_flow", func(s sim.Snapshot) float64 { return s.HydrogenFlow }},
	{"hydration", func(s sim.Snapshot) float64 { return s.MembraneHydration }},
	{"oxygen", func(s sim.Snapshot) float64 { return s.OxygenConcentration }},
	{"soc", func(s sim.Snapshot) float64 { return s.BatterySoC }},
	{"battery_voltage", func(s sim.Snapshot) float64 { return s.BatteryVoltage }},
	{"battery_current", func(s sim.Snapshot) float64 { return s.BatteryCurrent }},
	{"battery_temp", func(s sim.Snapshot) float64 { return s.BatteryTemperature }},
	{"manifold_pressure", func(s sim.Snapshot) float64 { return s.ManifoldPressure }},
	{"compressor_speed", func(s sim.Snapshot) float64 { return s.CompressorSpeed }},
	{"load", func(s sim.Snapshot) float64 { return s.Load }},
	{"motor_torque", func(s sim.Snapshot) float64 { return s.MotorTorque }},
}

func sampler(name string) (func(sim.Snapshot) float64, bool) {
	for _, c := range channels {
		if c.name == name {
			return c.sample, true
		}
	}
	return nil, false
}

func channelNames() []string {
	names := make([]string, len(channels))
	for i, c := range channels {
		names[i] = c.name
	}
	return names
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "powersim",
		Short: "hybrid fuel cell and battery power source simulator",
		RunE:  runLive,
	}
	addSimFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a batch simulation",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with a live dashboard",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "run in real time with per-tick logging",
		RunE:  watchRun,
	}
	addSimFlags(watchCmd)

	plotCmd := &cobra.Command{
		Use:   "plot [channel...]",
		Short: "run and plot channels",
		Args:  cobra.ArbitraryArgs,
		RunE:  plotRun,
	}
	addSimFlags(plotCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze [channel]",
		Short: "cycle analysis of a channel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	addSimFlags(analyzeCmd)

	phaseCmd := &cobra.Command{
		Use:   "phase",
		Short: "phase plot of one channel against another",
		RunE:  phasePlot,
	}
	addSimFlags(phaseCmd)
	phaseCmd.Flags().StringVar(&xChannel, "x", "soc", "x-axis channel")
	phaseCmd.Flags().StringVar(&yChannel, "y", "battery_current", "y-axis channel")
	phaseCmd.Flags().StringVar(&svgPath, "svg", "", "also write the trajectory as svg")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "run and export the trace",
		RunE:  exportRun,
	}
	addSimFlags(exportCmd)
	exportCmd.Flags().StringVar(&format, "format", "csv", "output format (csv or json)")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark tick throughput",
		RunE:  benchRun,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset...]",
		Short: "run presets in parallel and compare outcomes",
		Args:  cobra.ArbitraryArgs,
		RunE:  comparePresets,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario <file>",
		Short: "run a scripted scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addSimFlags(scenarioCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and compare outcomes",
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "disturbance", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 5.0, "sweep range lower bound")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 15.0, "sweep range upper bound")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of sweep points")

	montecarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "randomized stability trials",
		RunE:  runMonteCarlo,
	}
	addSimFlags(montecarloCmd)
	montecarloCmd.Flags().IntVar(&mcTrials, "trials", 20, "number of trials")
	montecarloCmd.Flags().Int64Var(&mcSeed, "seed", 0, "random seed (0 uses the clock)")
	montecarloCmd.Flags().Float64Var(&mcSoCSpread, "soc-spread", 10.0, "± spread on initial SoC")
	montecarloCmd.Flags().Float64Var(&mcLoadSpread, "load-spread", 2.0, "± spread on the disturbance")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search the load controller gains",
		RunE:  tuneGains,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&tuneObjective, "objective", "control_effort", "metric to minimize")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, name := range config.ListPresets() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a starter config file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	addSimFlags(initCmd)

	rootCmd.AddCommand(runCmd, liveCmd, watchCmd, plotCmd, analyzeCmd, phaseCmd, exportCmd, benchCmd,
		compareCmd, scenarioCmd, sweepCmd, montecarloCmd, tuneCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or json)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a preset scenario")
	cmd.Flags().Float64Var(&dt, "dt", 0.5, "timestep (seconds)")
	cmd.Flags().Float64Var(&duration, "time", 60.0, "duration (seconds)")
	cmd.Flags().Float64Var(&initialSoC, "soc", 100.0, "initial battery state of charge")
	cmd.Flags().Float64Var(&loadSetpoint, "setpoint", 2.0, "load controller setpoint")
	cmd.Flags().Float64Var(&disturbance, "disturbance", 10.0, "load disturbance offset")
}

// loadConfig layers preset, config file and flag overrides, in that
// order. CLI flags win over the file, the file wins over the preset.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Sim.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Sim.Duration = duration
	}
	if cmd.Flags().Changed("soc") {
		cfg.Sim.Battery.InitialSoC = initialSoC
	}
	if cmd.Flags().Changed("setpoint") {
		cfg.Sim.Control.LoadSetpoint = loadSetpoint
	}
	if cmd.Flags().Changed("disturbance") {
		cfg.Sim.Control.Disturbance = disturbance
	}

	if err := cfg.Sim.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupTelemetry builds the configured sink set and, when enabled, the
// Prometheus endpoint. The returned cleanup closes the sinks.
func setupTelemetry(ctx context.Context, cfg *config.Config, runID string, log logger.Logger) (sim.Observer, func(), error) {
	sink, err := telemetry.NewSink(cfg.Telemetry, runID)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Telemetry.Prometheus.Enabled {
		go func() {
			if err := telemetry.StartPromServer(ctx, cfg.Telemetry.Prometheus.Addr); err != nil {
				log.Errorf("prometheus server: %v", err)
			}
		}()
	}

	cleanup := func() {
		if err := sink.Close(); err != nil {
			log.Errorf("closing telemetry: %v", err)
		}
	}
	return telemetry.NewObserver(sink, log), cleanup, nil
}

func defaultMetrics(cfg sim.Config) []sim.Metric {
	return []sim.Metric{
		metrics.NewStackEnergy(cfg.Dt),
		metrics.NewBatteryThroughput(cfg.Dt),
		metrics.NewControlEffort(),
		metrics.NewThermalStability(maxStackTemp),
		metrics.NewModeSwitches(),
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.New("cli")
	runID := uuid.New().String()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch, err := sim.New(cfg.Sim)
	if err != nil {
		return err
	}
	for _, m := range defaultMetrics(cfg.Sim) {
		orch.AddMetric(m)
	}

	obs, closeTelemetry, err := setupTelemetry(ctx, cfg, runID, log)
	if err != nil {
		return err
	}
	defer closeTelemetry()
	orch.AddObserver(obs)

	fmt.Println("running simulation...")
	start := time.Now()

	result, err := orch.Run(ctx)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", len(result.Snapshots))

	final := result.Final()
	fmt.Printf("final: soc %.1f%%  voltage %.2f V  temp %.1f °C\n",
		final.BatterySoC, final.FuelCellVoltage, final.FuelCellTemperature)

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	fmt.Println("\nchannel stats:")
	printStats(result)

	return nil
}

func printStats(result *sim.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHANNEL\tMEAN\tSTDDEV\tMIN\tMAX\tMEDIAN")

	for _, name := range []string{"voltage", "current", "temperature", "soc", "manifold_pressure", "load"} {
		sample, _ := sampler(name)
		summary := metrics.NewSeriesSummary(name, sample)
		for _, snap := range result.Snapshots {
			summary.Observe(snap)
		}
		st := summary.Stats()
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n",
			name, st.Mean, st.StdDev, st.Min, st.Max, st.Median)
	}

	w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	runID := uuid.New().String()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The dashboard owns the terminal, so telemetry must not log.
	obs, closeTelemetry, err := setupTelemetry(ctx, cfg, runID, logger.NopLogger{})
	if err != nil {
		return err
	}
	defer closeTelemetry()

	return tui.Run(cfg.Sim, obs)
}

func watchRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.New("watch")
	runID := uuid.New().String()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch, err := sim.New(cfg.Sim)
	if err != nil {
		return err
	}

	obs, closeTelemetry, err := setupTelemetry(ctx, cfg, runID, log)
	if err != nil {
		return err
	}
	defer closeTelemetry()
	orch.AddObserver(obs)

	// Interrupting a watch is the normal way to end it.
	if err := sim.NewRunner(orch, log).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	final := orch.Snapshot()
	fmt.Printf("completed %d steps\n", final.Step)
	fmt.Printf("final soc: %.1f%%\n", final.BatterySoC)
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	orch, err := sim.New(cfg.Sim)
	if err != nil {
		return err
	}
	result, err := orch.Run(context.Background())
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = []string{"voltage", "soc", "temperature", "load"}
	}

	fmt.Printf("samples: %d\n\n", len(result.Snapshots))

	for _, name := range names {
		sample, ok := sampler(name)
		if !ok {
			return fmt.Errorf("unknown channel: %s (available: %s)", name, strings.Join(channelNames(), ", "))
		}

		data := make([]float64, len(result.Snapshots))
		for i, s := range result.Snapshots {
			data[i] = sample(s)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	name := "soc"
	if len(args) > 0 {
		name = args[0]
	}
	sample, ok := sampler(name)
	if !ok {
		return fmt.Errorf("unknown channel: %s (available: %s)", name, strings.Join(channelNames(), ", "))
	}

	orch, err := sim.New(cfg.Sim)
	if err != nil {
		return err
	}
	result, err := orch.Run(context.Background())
	if err != nil {
		return err
	}

	data := make([]float64, len(result.Snapshots))
	for i, s := range result.Snapshots {
		data[i] = sample(s)
	}

	fmt.Printf("cycle analysis: %s\n\n", name)

	ps := analysis.PowerSpectrum(data)
	plotData := ps
	if len(ps) > 16 {
		plotData = ps[:len(ps)/2]
	}
	if len(plotData) > 1 {
		graph := asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+name+")"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if period, ok := analysis.DominantPeriod(data, cfg.Sim.Dt); ok {
		fmt.Printf("dominant period: %.1f s\n", period)
		fmt.Printf("cycles per run: %.1f\n", cfg.Sim.Duration/period)
	} else {
		fmt.Println("no dominant cycle detected")
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	xSample, ok := sampler(xChannel)
	if !ok {
		return fmt.Errorf("unknown channel: %s (available: %s)", xChannel, strings.Join(channelNames(), ", "))
	}
	ySample, ok := sampler(yChannel)
	if !ok {
		return fmt.Errorf("unknown channel: %s (available: %s)", yChannel, strings.Join(channelNames(), ", "))
	}

	orch, err := sim.New(cfg.Sim)
	if err != nil {
		return err
	}
	result, err := orch.Run(context.Background())
	if err != nil {
		return err
	}

	portrait := analysis.NewPortrait(result.Snapshots, xChannel, xSample, yChannel, ySample)
	minX, maxX, minY, maxY := portrait.Bounds()

	fmt.Printf("phase plot: %s vs %s\n", yChannel, xChannel)
	fmt.Printf("x: [%.2f, %.2f]  y: [%.2f, %.2f]\n\n", minX, maxX, minY, maxY)
	fmt.Println(portrait.ASCII(70, 20))

	if svgPath != "" {
		xs := make([]float64, len(result.Snapshots))
		ys := make([]float64, len(result.Snapshots))
		for i, s := range result.Snapshots {
			xs[i] = xSample(s)
			ys[i] = ySample(s)
		}
		if err := export.SVGToFile(svgPath, export.TrajectorySVG(xs, ys, 800, 600, "#00ccff")); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgPath)
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	orch, err := sim.New(cfg.Sim)
	if err != nil {
		return err
	}
	for _, m := range defaultMetrics(cfg.Sim) {
		orch.AddMetric(m)
	}
	result, err := orch.Run(context.Background())
	if err != nil {
		return err
	}

	runID := uuid.New().String()

	switch format {
	case "json":
		doc := export.NewDocument(runID, cfg.Sim, result)
		if outPath == "" {
			return export.WriteJSON(os.Stdout, doc)
		}
		return export.JSONToFile(outPath, doc)
	case "csv":
		if outPath == "" {
			return export.WriteCSV(os.Stdout, result.Snapshots)
		}
		return export.CSVToFile(outPath, result.Snapshots)
	default:
		return fmt.Errorf("unknown format: %s (csv or json)", format)
	}
}

func benchRun(cmd *cobra.Command, args []string) error {
	durations := []float64{30.0, 60.0, 120.0}
	dts := []float64{0.1, 0.25, 0.5}

	fmt.Println("benchmarking orchestrator")
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, step := range dts {
			cfg := sim.DefaultConfig()
			cfg.Dt = step
			cfg.Duration = dur

			orch, err := sim.New(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := orch.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			steps := len(result.Snapshots)
			fmt.Fprintf(w, "%.0fs\t%.2fs\t%d\t%v\t%.0f\n",
				dur, step, steps, elapsed, float64(steps)/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func comparePresets(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = config.ListPresets()
	}

	configs := make([]sim.Config, 0, len(names))
	for _, name := range names {
		p := config.GetPreset(name)
		if p == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		configs = append(configs, p.Sim)
	}

	fmt.Printf("comparing %d presets\n\n", len(names))

	results, err := sim.NewSweep(configs).Run(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSTEPS\tFINAL SOC\tFINAL V\tSTACK ENERGY\tMODE SWITCHES")

	for i, res := range results {
		final := res.Final()

		energy := metrics.NewStackEnergy(configs[i].Dt)
		switches := metrics.NewModeSwitches()
		for _, s := range res.Snapshots {
			energy.Observe(s)
			switches.Observe(s)
		}

		fmt.Fprintf(w, "%s\t%d\t%.1f%%\t%.2fV\t%.0fJ\t%.0f\n",
			names[i], len(res.Snapshots), final.BatterySoC, final.FuelCellVoltage,
			energy.Value(), switches.Value())
	}

	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}

	name := sc.Name
	if name == "" {
		name = args[0]
	}
	fmt.Printf("scenario: %s (%d phases)\n", name, len(sc.Phases))
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := scenario.Run(ctx, sc, cfg.Sim, defaultMetrics)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PHASE\tSTEPS\tFINAL SOC\tFINAL V\tSTACK ENERGY\tMODE SWITCHES")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%.1f%%\t%.2fV\t%.0fJ\t%.0f\n",
			r.Phase, r.Steps, r.Final.BatterySoC, r.Final.FuelCellVoltage,
			r.Metrics["stack_energy"], r.Metrics["mode_switches"])
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweep := scenario.Sweep{Param: sweepParam, Min: sweepMin, Max: sweepMax, Steps: sweepSteps}
	points, err := sweep.Run(ctx, cfg.Sim)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s over [%g, %g]\n\n", sweepParam, sweepMin, sweepMax)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(sweepParam)+"\tFINAL SOC\tMAX TEMP\tSTACK ENERGY\tMODE SWITCHES")
	for _, p := range points {
		fmt.Fprintf(w, "%.3f\t%.1f%%\t%.1f°C\t%.0fJ\t%d\n",
			p.Value, p.FinalSoC, p.MaxTemp, p.StackEnergy, p.ModeSwitches)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mc := scenario.MonteCarlo{
		Trials:     mcTrials,
		Seed:       mcSeed,
		SoCSpread:  mcSoCSpread,
		LoadSpread: mcLoadSpread,
		TempLimit:  maxStackTemp,
	}

	trials, err := mc.Run(ctx, cfg.Sim)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tINIT SOC\tDISTURBANCE\tFINAL SOC\tMAX TEMP\tSTATUS")
	for _, trial := range trials {
		status := "stable"
		switch {
		case trial.Depleted:
			status = "depleted"
		case trial.Overheated:
			status = "overheated"
		}
		fmt.Fprintf(w, "%d\t%.1f%%\t%.1fA\t%.1f%%\t%.1f°C\t%s\n",
			trial.ID, trial.InitialSoC, trial.Disturbance, trial.FinalSoC, trial.MaxTemp, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stable, unstable := scenario.StableCount(trials)
	fmt.Printf("\n%d stable, %d unstable of %d trials\n", stable, unstable, len(trials))
	return nil
}

func tuneGains(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if _, err := objectiveMetric(tuneObjective, cfg.Sim); err != nil {
		return err
	}

	gains := cfg.Sim.Control.LoadPID
	gs := tune.NewGridSearch(
		tune.Axis{Name: "kp", Values: []float64{gains.Kp * 0.5, gains.Kp, gains.Kp * 2}},
		tune.Axis{Name: "ki", Values: []float64{gains.Ki * 0.5, gains.Ki, gains.Ki * 2}},
		tune.Axis{Name: "kd", Values: []float64{gains.Kd * 0.5, gains.Kd, gains.Kd * 2}},
	)

	fmt.Printf("searching %d gain combinations, minimizing %s\n", gs.Points(), tuneObjective)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	best, bestVal, err := gs.Search(ctx, func(ctx context.Context, point map[string]float64) (float64, error) {
		trial := cfg.Sim
		trial.Control.LoadPID = sim.PIDGains{Kp: point["kp"], Ki: point["ki"], Kd: point["kd"]}

		orch, err := sim.New(trial)
		if err != nil {
			return 0, err
		}
		m, err := objectiveMetric(tuneObjective, trial)
		if err != nil {
			return 0, err
		}
		orch.AddMetric(m)

		result, err := orch.Run(ctx)
		if err != nil {
			return 0, err
		}
		return result.Metrics[m.Name()], nil
	})
	if err != nil {
		return err
	}
	if best == nil {
		return fmt.Errorf("no gain combination completed a run")
	}

	fmt.Printf("\nbest gains: kp=%.4f ki=%.4f kd=%.4f\n", best["kp"], best["ki"], best["kd"])
	fmt.Printf("%s: %.6f\n", tuneObjective, bestVal)
	fmt.Printf("(baseline kp=%.4f ki=%.4f kd=%.4f)\n", gains.Kp, gains.Ki, gains.Kd)
	return nil
}

func objectiveMetric(name string, cfg sim.Config) (sim.Metric, error) {
	switch name {
	case "control_effort":
		return metrics.NewControlEffort(), nil
	case "mode_switches":
		return metrics.NewModeSwitches(), nil
	case "battery_throughput":
		return metrics.NewBatteryThroughput(cfg.Dt), nil
	}
	return nil, fmt.Errorf("unknown objective: %s (control_effort, mode_switches, battery_throughput)", name)
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "powersim.yaml"
	if len(args) > 0 {
		path = args[0]
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
