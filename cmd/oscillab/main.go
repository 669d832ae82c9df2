package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/oscillab/internal/analysis"
	"github.com/san-kum/oscillab/internal/config"
	"github.com/san-kum/oscillab/internal/dynamo"
	"github.com/san-kum/oscillab/internal/export"
	"github.com/san-kum/oscillab/internal/logging"
	"github.com/san-kum/oscillab/internal/params"
	"github.com/san-kum/oscillab/internal/physics"
	"github.com/san-kum/oscillab/internal/sim"
	"github.com/san-kum/oscillab/internal/viz"
)

var (
	configFile string
	preset     string
	mode       string
	window     float64
	timeScale  float64
	fps        float64
	theme      string
	wideAngle  bool
	logLevel   string
	logFile    string

	mass      float64
	springK   float64
	amplitude float64
	length    float64
	angle     float64
	gravity   float64
	phase     float64

	duration     float64
	format       string
	outPath      string
	sampleSignal string

	fromTime   float64
	toTime     float64
	nowTime    float64
	signalName string

	inputPath string
	force     bool
	sets      []string

	cfg     *config.Config
	logger  *slog.Logger
	cleanup = func() {}
)

// main runs the TUI when no subcommand is given.
func main() {
	err := newRootCmd().Execute()
	cleanup()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := dynamo.DefaultParams()

	rootCmd := &cobra.Command{
		Use:               "oscillab",
		Short:             "spring-mass and pendulum oscillation lab",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&mode, "mode", "spring", "oscillator: spring or pendulum")
	pf.Float64Var(&window, "window", config.DefaultWindow, "chart window in seconds")
	pf.Float64Var(&timeScale, "time-scale", config.DefaultTimeScale, "simulated seconds per wall second")
	pf.Float64Var(&fps, "fps", config.DefaultFPS, "frame rate")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	pf.BoolVar(&wideAngle, "wide-angle", false, "allow release angles up to 45°")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level")
	pf.StringVar(&logFile, "log-file", "", "log file path")

	pf.Float64Var(&mass, "mass", defaults.Mass, "mass (kg)")
	pf.Float64Var(&springK, "k", defaults.SpringConstant, "spring constant (N/m)")
	pf.Float64Var(&amplitude, "amplitude", defaults.Amplitude, "spring amplitude (m)")
	pf.Float64Var(&length, "length", defaults.PendulumLength, "pendulum length (m)")
	pf.Float64Var(&angle, "angle", defaults.PendulumAngleDeg, "pendulum release angle (deg)")
	pf.Float64Var(&gravity, "gravity", defaults.Gravity, "gravity (m/s²)")
	pf.Float64Var(&phase, "phase", defaults.Phase, "initial phase (rad)")
	pf.StringArrayVar(&sets, "set", nil, "set a parameter by field name, e.g. --set pendulumLength=2 (repeatable)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the interactive visualization",
		RunE:  runLive,
	}

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "print derived quantities",
		RunE:  runInfo,
	}

	keypointsCmd := &cobra.Command{
		Use:   "keypoints",
		Short: "list maxima, minima and zero crossings in a time window",
		RunE:  runKeyPoints,
	}
	keypointsCmd.Flags().Float64Var(&fromTime, "from", 0, "window start (s)")
	keypointsCmd.Flags().Float64Var(&toTime, "to", config.DefaultWindow, "window end (s)")
	keypointsCmd.Flags().Float64Var(&nowTime, "now", 0, "current time (s), defaults to --to")
	keypointsCmd.Flags().StringVar(&signalName, "signal", "all", "position, velocity, acceleration or all")

	sampleCmd := &cobra.Command{
		Use:   "sample",
		Short: "run headless and export the last window",
		RunE:  runSample,
	}
	sampleCmd.Flags().Float64Var(&duration, "duration", 20, "simulated seconds")
	sampleCmd.Flags().StringVar(&format, "format", "csv", "csv, json or svg")
	sampleCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	sampleCmd.Flags().StringVar(&sampleSignal, "signal", "", "with --format svg, plot only this signal")

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "run headless and plot the last window",
		RunE:  runPlot,
	}
	plotCmd.Flags().Float64Var(&duration, "duration", 20, "simulated seconds")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "compare spectral and analytic frequency",
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().Float64Var(&duration, "duration", 20, "simulated seconds")
	analyzeCmd.Flags().StringVar(&inputPath, "input", "", "analyze a CSV export instead of recording")

	presetsCmd := &cobra.Command{
		Use:   "presets [mode]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(liveCmd, infoCmd, keypointsCmd, sampleCmd, plotCmd, analyzeCmd, presetsCmd, configCmd)
	return rootCmd
}

// setup resolves the effective configuration: defaults, then the config
// file, then the preset, then explicitly set flags.
func setup(cmd *cobra.Command, args []string) error {
	cleanup()
	cleanup = func() {}

	var err error
	cfg, err = resolveConfig(cmd)
	if err != nil {
		return err
	}

	// the TUI owns the terminal, so it only logs to a file
	fallback := io.Writer(os.Stderr)
	if cmd.Name() == "live" || cmd == cmd.Root() {
		fallback = io.Discard
	}
	l, closeLog, err := logging.Init(cfg.Log.Level, cfg.Log.File, fallback)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	logger, cleanup = l, closeLog
	logger.Debug("configuration resolved", "mode", cfg.Mode, "window", cfg.Window, "fps", cfg.FPS)
	return nil
}

func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	c := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		c = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		m, err := dynamo.ParseMode(mode)
		if err != nil {
			return nil, err
		}
		c.Mode = m.String()
	}

	if preset != "" {
		p := config.GetPreset(c.Mode, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(c.Mode))
		}
		c.Params = p.Params
		c.WideAngle = p.WideAngle
	}

	if flags.Changed("window") {
		c.Window = window
	}
	if flags.Changed("time-scale") {
		c.TimeScale = timeScale
	}
	if flags.Changed("fps") {
		c.FPS = fps
	}
	if flags.Changed("theme") {
		c.Theme = theme
	}
	if flags.Changed("wide-angle") {
		c.WideAngle = wideAngle
	}
	if flags.Changed("log-level") {
		c.Log.Level = logLevel
	}
	if flags.Changed("log-file") {
		c.Log.File = logFile
	}

	overrides := []struct {
		flag string
		dst  *float64
		val  float64
	}{
		{"mass", &c.Params.Mass, mass},
		{"k", &c.Params.SpringConstant, springK},
		{"amplitude", &c.Params.Amplitude, amplitude},
		{"length", &c.Params.PendulumLength, length},
		{"angle", &c.Params.PendulumAngleDeg, angle},
		{"gravity", &c.Params.Gravity, gravity},
		{"phase", &c.Params.Phase, phase},
	}
	for _, o := range overrides {
		if flags.Changed(o.flag) {
			*o.dst = o.val
		}
	}
	if err := applySets(c, sets); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// applySets commits field=value pairs through a parameter store, so they
// get the same checks as values typed into the TUI.
func applySets(c *config.Config, pairs []string) error {
	if len(pairs) == 0 {
		return nil
	}
	store := params.New(c.Params, c.Ranges())
	for _, kv := range pairs {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q: want field=value", kv)
		}
		name = strings.TrimSpace(name)
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("invalid --set %q: %w", kv, dynamo.ErrNotNumeric)
		}
		if err := store.SetParam(name, v); err != nil {
			return err
		}
		f, _ := dynamo.ParseField(name)
		c.Params, _ = c.Params.With(f, v)
	}
	return nil
}

func simOptions(c *config.Config, m dynamo.Mode) sim.Options {
	opts := sim.DefaultOptions()
	opts.Mode = m
	opts.Window = c.Window
	opts.Margin = c.Margin
	opts.TimeScale = c.TimeScale
	opts.Logger = logger
	return opts
}

// checkedStore builds the parameter store and refuses invalid values up
// front, with the same error the driver returns on start.
func checkedStore(c *config.Config) (*params.Store, error) {
	store := params.New(c.Params, c.Ranges())
	if invalid := store.Invalid(); len(invalid) > 0 {
		return nil, fmt.Errorf("%w: %w", dynamo.ErrCannotStart, invalid[0])
	}
	return store, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	// invalid values are shown and can be fixed inside the TUI
	store := params.New(cfg.Params, cfg.Ranges())

	m := viz.NewModel(viz.Options{
		Sim:    simOptions(cfg, cfg.ParsedMode()),
		Store:  store,
		FPS:    int(cfg.FPS),
		Theme:  cfg.Theme,
		Logger: logger,
	})
	logger.Info("starting tui", "mode", cfg.Mode, "theme", cfg.Theme)
	return viz.Run(m)
}

func runInfo(cmd *cobra.Command, args []string) error {
	store, err := checkedStore(cfg)
	if err != nil {
		return err
	}
	m := cfg.ParsedMode()
	p := store.Params()
	if err := physics.CheckDomain(m, p); err != nil {
		return err
	}
	sum := physics.Describe(m, p)

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "mode:\t%s\n", m)
	values := store.GetParams()
	for _, f := range params.FieldsFor(m) {
		fmt.Fprintf(w, "%s:\t%g %s\n", f, values[string(f)], f.Unit())
	}
	fmt.Fprintf(w, "omega:\t%.6f rad/s\n", sum.Omega)
	fmt.Fprintf(w, "period:\t%.6f s\n", sum.Period)
	fmt.Fprintf(w, "frequency:\t%.6f hz\n", sum.Frequency)
	fmt.Fprintf(w, "amplitude:\t%.6f %s\n", sum.Amplitude, dynamo.SignalPosition.Unit(m))
	if m == dynamo.ModePendulum {
		fmt.Fprintf(w, "energy:\t%.6f J/kg\n", sum.Energy)
	} else {
		fmt.Fprintf(w, "energy:\t%.6f J\n", sum.Energy)
	}
	for _, sig := range dynamo.Signals {
		fmt.Fprintf(w, "peak %s:\t%.6f %s\n", sig, physics.Peak(sig, m, p), sig.Unit(m))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !sum.SmallAngle {
		fmt.Fprintf(out, "\nwarning: release angle beyond %.0f°, small-angle results are approximate\n", physics.SmallAngleLimitDeg)
	}
	return nil
}

func runKeyPoints(cmd *cobra.Command, args []string) error {
	store, err := checkedStore(cfg)
	if err != nil {
		return err
	}
	m := cfg.ParsedMode()
	if err := checkKeyPointWindow(m, store.Params(), fromTime, toTime); err != nil {
		return err
	}
	now := toTime
	if cmd.Flags().Changed("now") {
		now = nowTime
	}

	signals := dynamo.Signals
	if signalName != "all" {
		s, err := dynamo.ParseSignal(signalName)
		if err != nil {
			return err
		}
		signals = []dynamo.Signal{s}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIGNAL\tKIND\tTIME\tVALUE")
	for _, sig := range signals {
		kp := analysis.ComputeKeyPoints(fromTime, toTime, sig, m, store.Params(), now)
		for _, group := range [][]dynamo.KeyPoint{kp.Maxima, kp.Minima, kp.Zeros} {
			for _, pt := range group {
				fmt.Fprintf(w, "%s\t%s\t%.4fs\t%+.6f %s\n", sig, pt.Kind, pt.Time, pt.Value, sig.Unit(m))
			}
		}
	}
	return w.Flush()
}

// maxKeyPointPeriods bounds the keypoints window; the listing grows by
// four rows per period.
const maxKeyPointPeriods = 10000

func checkKeyPointWindow(m dynamo.Mode, p dynamo.Params, from, to float64) error {
	if math.IsNaN(from) || math.IsNaN(to) || math.IsInf(from, 0) || math.IsInf(to, 0) {
		return fmt.Errorf("window bounds must be finite, got [%g, %g]", from, to)
	}
	if to < from {
		return fmt.Errorf("window end %g is before start %g", to, from)
	}
	if periods := (to - from) / physics.Period(m, p); periods > maxKeyPointPeriods {
		return fmt.Errorf("window spans %.0f periods, at most %d allowed", periods, maxKeyPointPeriods)
	}
	return nil
}

func record(ctx context.Context, m dynamo.Mode, p dynamo.Params) (*sim.Recording, error) {
	return sim.Record(ctx, sim.Run{
		Options:  simOptions(cfg, m),
		Params:   p,
		Ranges:   cfg.Ranges(),
		Duration: duration,
		FPS:      cfg.FPS,
	})
}

func runSample(cmd *cobra.Command, args []string) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	var (
		sig    dynamo.Signal
		oneSig bool
	)
	if sampleSignal != "" {
		if f != export.FormatSVG {
			return fmt.Errorf("--signal needs --format svg, got %s", f)
		}
		if sig, err = dynamo.ParseSignal(sampleSignal); err != nil {
			return err
		}
		oneSig = true
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	m := cfg.ParsedMode()
	rec, err := record(ctx, m, cfg.Params)
	if err != nil {
		return err
	}
	buf := rec.Driver.Buffer()
	frames := export.FramesFromBuffer(buf)
	data := export.NewData(m, rec.Params, frames)

	write := func(w io.Writer) error {
		if oneSig {
			return export.WriteSeriesSVG(w, sig, buf.Series(sig).Samples())
		}
		return export.Write(w, f, data)
	}

	if outPath == "" {
		err = write(cmd.OutOrStdout())
	} else {
		err = writeFile(outPath, write)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", f, err)
	}
	logger.Info("sample written", "format", f, "frames", len(frames), "path", outPath)
	return nil
}

// writeFile creates path, runs write on it and returns the close error
// as well as the write error.
func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func runPlot(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	m := cfg.ParsedMode()
	rec, err := record(ctx, m, cfg.Params)
	if err != nil {
		return err
	}

	buf := rec.Driver.Buffer()
	if buf.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "mode: %s\n", m)
	fmt.Fprintf(out, "samples: %d\n\n", buf.Len())

	for _, sig := range dynamo.Signals {
		graph := asciigraph.Plot(buf.Series(sig).Values(),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s (%s)", sig, sig.Unit(m))),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if inputPath != "" {
		return analyzeFile(cmd, inputPath)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var runs []sim.Run
	for _, m := range []dynamo.Mode{dynamo.ModeSpring, dynamo.ModePendulum} {
		runs = append(runs, sim.Run{
			Options:  simOptions(cfg, m),
			Params:   cfg.Params,
			Ranges:   cfg.Ranges(),
			Duration: duration,
			FPS:      cfg.FPS,
		})
	}
	recs, err := sim.RecordAll(ctx, runs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tANALYTIC\tSPECTRAL\tERROR\tSAMPLES")
	for _, rec := range recs {
		want := physics.Frequency(rec.Mode, rec.Params)
		got, err := analysis.DominantFrequency(rec.Samples(dynamo.SignalPosition))
		if err != nil {
			return fmt.Errorf("%s: %w", rec.Mode, err)
		}
		fmt.Fprintf(w, "%s\t%.4f hz\t%.4f hz\t%.2f%%\t%d\n",
			rec.Mode, want, got, 100*(got-want)/want, len(rec.Frames))
	}
	return w.Flush()
}

func analyzeFile(cmd *cobra.Command, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	frames, err := export.ReadCSV(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	samples := make([]dynamo.Sample, len(frames))
	positions := make([]float64, len(frames))
	for i, k := range frames {
		samples[i] = dynamo.Sample{Time: k.Time, Value: k.Position}
		positions[i] = k.Position
	}

	got, err := analysis.DominantFrequency(samples)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "frequency analysis: %s\n", path)
	fmt.Fprintf(out, "samples: %d\n\n", len(frames))

	ps := analysis.PowerSpectrum(positions)
	if len(ps) > 8 {
		plotData := ps[:len(ps)/4+1]
		fmt.Fprintln(out, asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (position)"),
		))
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "dominant frequency: %.4f hz\n", got)
	if got > 0 {
		fmt.Fprintf(out, "period: %.4f s\n", 1/got)
	}
	m := cfg.ParsedMode()
	fmt.Fprintf(out, "%s analytic: %.4f hz\n", m, physics.Frequency(m, cfg.Params))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	modes := config.ListModes()
	if len(args) == 1 {
		modes = args[:1]
	}

	out := cmd.OutOrStdout()
	for _, m := range modes {
		presets := config.ListPresets(m)
		if len(presets) == 0 {
			fmt.Fprintf(out, "no presets for mode: %s\n", m)
			continue
		}
		fmt.Fprintf(out, "presets for %s:\n", m)
		for _, p := range presets {
			fmt.Fprintf(out, "  %s\n", p)
		}
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "oscillab.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
