package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravity/internal/config"
	"github.com/san-kum/gravity/internal/gravity"
	"github.com/san-kum/gravity/internal/logging"
	"github.com/san-kum/gravity/internal/metrics"
	"github.com/san-kum/gravity/internal/model"
	"github.com/san-kum/gravity/internal/orbit"
	"github.com/san-kum/gravity/internal/sim"
	"github.com/san-kum/gravity/internal/storage"
	"github.com/san-kum/gravity/internal/vecmath"
	"github.com/san-kum/gravity/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir   string
	logLevel  string
	logFormat string
	logger    *log.Logger

	steps       int
	duration    float64
	recordEvery int
	seed        int64
	traceSeed   int64
	randomize   bool
	jitter      float64
	ensemble    int
	outPath     string
	format      string

	orbitG float64
	known  orbit.Knowns
	toForm string
	inRad  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "gravity",
		Short:        "2d n-body gravity simulator",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(os.Stderr, logLevel, logFormat)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravity", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json, logfmt)")

	runCmd := &cobra.Command{
		Use:   "run [preset|config.yaml|model.json]",
		Short: "run a simulation headless and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&steps, "steps", 0, "number of steps (overrides config)")
	runCmd.Flags().Float64Var(&duration, "duration", 0, "simulated duration (overrides config)")
	runCmd.Flags().IntVar(&recordEvery, "record", 0, "record a frame every n steps (overrides config)")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed for jittered frames")
	runCmd.Flags().BoolVar(&randomize, "randomize", false, "scale dt by jittered frame times")
	runCmd.Flags().Float64Var(&jitter, "jitter", 0.25, "relative frame time jitter in randomized mode")
	runCmd.Flags().IntVar(&ensemble, "ensemble", 1, "number of runs with consecutive seeds")

	watchCmd := &cobra.Command{
		Use:   "watch [preset|config.yaml|model.json]",
		Short: "run a simulation with a live dashboard",
		Args:  cobra.MaximumNArgs(1),
		RunE:  watchSimulation,
	}
	watchCmd.Flags().IntVar(&steps, "steps", 0, "stop after n steps (0 runs until every body is gone)")
	watchCmd.Flags().BoolVar(&randomize, "randomize", false, "scale dt by the measured frame time")

	traceCmd := &cobra.Command{
		Use:   "trace [preset|config.yaml|model.json]",
		Short: "stream every frame as csv without storing the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  traceSimulation,
	}
	traceCmd.Flags().IntVar(&steps, "steps", 0, "number of steps (overrides config)")
	traceCmd.Flags().Float64Var(&duration, "duration", 0, "simulated duration (overrides config)")
	traceCmd.Flags().Int64Var(&traceSeed, "seed", 0, "random seed for jittered frames")
	traceCmd.Flags().Float64Var(&jitter, "jitter", 0.25, "relative frame time jitter in randomized mode")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot active bodies and energy of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	templateCmd := &cobra.Command{
		Use:   "template [preset]",
		Short: "write a preset as a model or config file",
		Args:  cobra.ExactArgs(1),
		RunE:  writeTemplate,
	}
	templateCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default <preset>.<format>)")
	templateCmd.Flags().StringVar(&format, "format", "json", "file format (json, yaml)")

	orbitCmd := &cobra.Command{
		Use:   "orbit",
		Short: "solve a circular orbit from two known values",
		Args:  cobra.NoArgs,
		RunE:  solveOrbit,
	}
	orbitCmd.Flags().Float64Var(&orbitG, "G", gravity.DefaultG, "gravitational constant")
	orbitCmd.Flags().Float64Var(&known.M, "M", 0, "central mass")
	orbitCmd.Flags().Float64Var(&known.R, "R", 0, "orbit radius")
	orbitCmd.Flags().Float64Var(&known.T, "T", 0, "orbital period")
	orbitCmd.Flags().Float64Var(&known.VOrb, "v-orb", 0, "orbital velocity")
	orbitCmd.Flags().Float64Var(&known.VEsc, "v-esc", 0, "escape velocity")

	convertCmd := &cobra.Command{
		Use:   "convert [a] [b]",
		Short: "convert a vector between cartesian and polar form",
		Args:  cobra.ExactArgs(2),
		RunE:  convertVector,
	}
	convertCmd.Flags().StringVar(&toForm, "to", "polar", "target form (polar, cartesian)")
	convertCmd.Flags().BoolVar(&inRad, "radians", false, "angles in radians")

	rootCmd.AddCommand(runCmd, watchCmd, traceCmd, listCmd, plotCmd, exportCmd, presetsCmd, templateCmd, orbitCmd, convertCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func argOr(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func runSimulation(cmd *cobra.Command, args []string) error {
	src, err := loadSource(argOr(args), logger)
	if err != nil {
		return err
	}
	cfg := src.cfg
	if cmd.Flags().Changed("steps") {
		cfg.Run.Steps = steps
	}
	if cmd.Flags().Changed("duration") {
		cfg.Run.Duration = duration
	}
	if cmd.Flags().Changed("record") {
		cfg.Run.RecordEvery = recordEvery
	}
	if cmd.Flags().Changed("randomize") {
		cfg.Sim.Randomize = randomize
	}
	if cfg.Run.Seed != 0 && !cmd.Flags().Changed("seed") {
		seed = cfg.Run.Seed
	}
	cfg.Run.Seed = seed

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s (%d bodies)...\n", src.name, len(cfg.Bodies))
	start := time.Now()
	runs, err := runMembers(ctx, src, st, max(ensemble, 1), jitter, logger)
	fmt.Printf("completed in %v\n", time.Since(start))

	for _, r := range runs {
		printResult(r.id, r.result)
	}
	if errors.Is(err, context.Canceled) {
		fmt.Println("\ninterrupted; partial results saved")
		return nil
	}
	return err
}

func traceSimulation(cmd *cobra.Command, args []string) error {
	src, err := loadSource(argOr(args), logger)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("steps") {
		src.cfg.Run.Steps = steps
	}
	if cmd.Flags().Changed("duration") {
		src.cfg.Run.Duration = duration
	}
	if cmd.Flags().Changed("seed") {
		src.cfg.Run.Seed = traceSeed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = traceFrames(ctx, src, os.Stdout, jitter)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printResult(runID string, result *sim.Result) {
	final := result.Final()
	fmt.Printf("\nrun id: %s\n", runID)
	fmt.Printf("steps: %d  sim time: %.4f\n", result.StepsTaken, result.SimTime)
	fmt.Printf("active: %d  collided: %d  escaped: %d\n", final.Active, final.Collided, final.Escaped)
	if result.Stopped != nil {
		fmt.Printf("stopped: %v\n", result.Stopped)
	}
	fmt.Println("metrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
}

func watchSimulation(cmd *cobra.Command, args []string) error {
	src, err := loadSource(argOr(args), logger)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("randomize") {
		src.cfg.Sim.Randomize = randomize
	}

	// the dashboard owns the terminal; keep diagnostics out of it
	quiet := logging.Discard()
	build := func() (*sim.Simulator, error) {
		sys, err := src.populate()
		if err != nil {
			return nil, err
		}
		sys.SetLogger(quiet)
		return sim.New(sys, nil), nil
	}
	return viz.Run(src.name, build, steps)
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSTEPS\tSIM TIME\tACTIVE\tCOLLIDED\tESCAPED\tSTOPPED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%d\t%d\t%d\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.SimTime,
			run.Active,
			run.Collided,
			run.Escaped,
			run.Stopped,
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

	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	frames := storage.GroupFrames(samples)
	if len(frames) < 2 {
		return fmt.Errorf("not enough frames to plot")
	}

	// frames are rebuilt with the settings the run ended with
	final, err := st.LoadFinal(runID)
	if err != nil {
		return err
	}
	active := make([]float64, len(frames))
	energy := make([]float64, len(frames))
	for i, fr := range frames {
		state := model.File{Settings: final.Settings, Data: fr.Bodies}
		active[i] = float64(fr.Active)
		energy[i] = metrics.TotalEnergy(state.Restore(gravity.DefaultParams()))
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("frames: %d\n\n", len(frames))

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{active, "active bodies"},
		{energy, "total energy"},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	data, err := st.Collect(args[0])
	if err != nil {
		return err
	}
	if outPath == "" {
		return storage.ExportJSON(os.Stdout, data)
	}
	if err := storage.ExportJSONFile(outPath, data); err != nil {
		return err
	}
	fmt.Printf("exported %d frames to %s\n", len(data.Frames), outPath)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tG\tSTEPS\tCOORDS")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		coords := "cartesian"
		if cfg.Obj.Polar {
			coords = "polar"
		}
		fmt.Fprintf(w, "%s\t%d\t%g\t%d\t%s\n", name, len(cfg.Bodies), cfg.Sim.G, cfg.Run.Steps, coords)
	}
	return w.Flush()
}

func writeTemplate(cmd *cobra.Command, args []string) error {
	name := args[0]
	cfg := config.GetPreset(name)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}

	path := outPath
	if path == "" {
		path = name + "." + format
	}

	switch format {
	case "json":
		f, err := model.FromConfig(cfg)
		if err != nil {
			return err
		}
		if err := model.Save(path, f); err != nil {
			return err
		}
	case "yaml":
		if err := config.Save(path, cfg); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s (want json or yaml)", format)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func solveOrbit(cmd *cobra.Command, args []string) error {
	k, err := orbit.Solve(orbitG, known)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "G\t%g\n", orbitG)
	fmt.Fprintf(w, "M\t%g\n", k.M)
	fmt.Fprintf(w, "R\t%g\n", k.R)
	fmt.Fprintf(w, "T\t%g\n", k.T)
	fmt.Fprintf(w, "v_orb\t%g\n", k.VOrb)
	fmt.Fprintf(w, "v_esc\t%g\n", k.VEsc)
	return w.Flush()
}

func convertVector(cmd *cobra.Command, args []string) error {
	a, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("first component: %w", err)
	}
	b, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("second component: %w", err)
	}

	switch toForm {
	case "polar":
		m, ang := vecmath.ToPolar(a, b, inRad)
		fmt.Printf("r = %g  θ = %g\n", m, ang)
	case "cartesian":
		x, y := vecmath.ToCartesian(a, b, inRad)
		fmt.Printf("x = %g  y = %g\n", x, y)
	default:
		return fmt.Errorf("unknown form: %s (want polar or cartesian)", toForm)
	}
	return nil
}
