package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/san-kum/gravbox/internal/api"
	"github.com/san-kum/gravbox/internal/config"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/storage"
	"github.com/san-kum/gravbox/internal/tui"
	"github.com/san-kum/gravbox/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	savesDir   string
	verbose    bool
	logFile    string
	resume     bool
	theme      string
	// run
	ticks    int
	tickTime float64
	preset   string
	outName  string
	recordDB string
	every    int
	sweepDts []float64
	diverge  int
	// plot
	bodyIndex  int
	plotHeight int
	plotWidth  int
	// export
	svgOut  string
	plotSVG string
	labels  bool
	// field
	margin int
	// serve
	addr string
	// stability / sweep
	days      float64
	radius    float64
	trials    int
	jitter    float64
	velJitter float64
	seed      int64
	massMin   float64
	massMax   float64
	steps     int

	logger log.Logger = log.NewNopLogger()
)

// main registers the commands and runs the interactive sandbox when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:          "gravbox",
		Short:        "2D gravitational sandbox",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = newLogger(os.Stderr, verbose)
			return nil
		},
		RunE: runSandbox,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&savesDir, "saves", "", "saves directory (default ~/.gravbox/saves)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write sandbox logs to this file")
	rootCmd.Flags().BoolVar(&resume, "resume", false, "start from the autosave")
	rootCmd.Flags().StringVar(&theme, "theme", "", "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	rootCmd.Flags().StringVar(&preset, "preset", "", "start from a scene preset")

	runCmd := &cobra.Command{
		Use:   "run [save]",
		Short: "run a scene headless and print its metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	runCmd.Flags().Float64Var(&tickTime, "tick-time", config.DefaultTickTime, "days per tick")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset scene")
	runCmd.Flags().StringVar(&outName, "out", "", "save the final world under this name")
	runCmd.Flags().StringVar(&recordDB, "record", "", "record every frame to this sqlite database")
	runCmd.Flags().IntVar(&every, "every", 1, "record every n-th tick")
	runCmd.Flags().Float64SliceVar(&sweepDts, "sweep", nil, "also run copies at these tick times")
	runCmd.Flags().IntVar(&diverge, "divergence", -1, "estimate the divergence rate by nudging this body")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saves",
		Args:  cobra.NoArgs,
		RunE:  listSaves,
	}

	showCmd := &cobra.Command{
		Use:   "show [save]",
		Short: "print the bodies of a save",
		Args:  cobra.ExactArgs(1),
		RunE:  showSave,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [save]",
		Short: "delete a save",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteSave,
	}

	fieldCmd := &cobra.Command{
		Use:   "field [save]",
		Short: "print the sampled gravitational field",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printField,
	}
	fieldCmd.Flags().IntVar(&margin, "margin", 0, "grid spacing (default from the viewport)")

	plotCmd := &cobra.Command{
		Use:   "plot [db]",
		Short: "plot a recorded body's distance from the centre of mass",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRecording,
	}
	plotCmd.Flags().IntVar(&bodyIndex, "body", 0, "body index")
	plotCmd.Flags().IntVar(&plotHeight, "height", 15, "plot height")
	plotCmd.Flags().IntVar(&plotWidth, "width", 70, "plot width")
	plotCmd.Flags().StringVar(&plotSVG, "svg", "", "also write the path as SVG")

	exportCmd := &cobra.Command{
		Use:   "export [save]",
		Short: "render a save as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportScene,
	}
	exportCmd.Flags().StringVar(&svgOut, "svg", "space.svg", "output file")
	exportCmd.Flags().BoolVar(&labels, "labels", true, "draw body names")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [db]",
		Short: "export a recording to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [db]",
		Short: "export a recorded body track to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().IntVar(&bodyIndex, "body", 0, "body index")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the sandbox over HTTP",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scene presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-8s %d bodies, %g d/tick\n", name, len(p.Bodies), p.TickTime)
			}
			return nil
		},
	}

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	stabilityCmd := &cobra.Command{
		Use:   "stability [save]",
		Short: "Monte Carlo stability of a scene under small perturbations",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStability,
	}
	stabilityCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	stabilityCmd.Flags().Float64Var(&jitter, "jitter", 1, "largest position shift in units")
	stabilityCmd.Flags().Float64Var(&velJitter, "vel-jitter", 0, "largest velocity shift in units/day")
	stabilityCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	stabilityCmd.Flags().Float64Var(&days, "days", 365, "simulated days per trial")
	stabilityCmd.Flags().Float64Var(&radius, "radius", 1000, "escape radius around the centre of mass")

	sweepCmd := &cobra.Command{
		Use:   "sweep [save]",
		Short: "vary the mass of one body and report stability",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMassSweep,
	}
	sweepCmd.Flags().IntVar(&bodyIndex, "body", 0, "body index")
	sweepCmd.Flags().Float64Var(&massMin, "min", 0.5, "smallest mass in Earth masses")
	sweepCmd.Flags().Float64Var(&massMax, "max", 5, "largest mass in Earth masses")
	sweepCmd.Flags().IntVar(&steps, "steps", 10, "number of masses")
	sweepCmd.Flags().Float64Var(&days, "days", 365, "simulated days per run")
	sweepCmd.Flags().Float64Var(&radius, "radius", 1000, "escape radius around the centre of mass")

	rootCmd.AddCommand(runCmd, listCmd, showCmd, deleteCmd, fieldCmd, plotCmd, exportCmd, exportJSONCmd, exportCSVCmd, serveCmd, presetsCmd, scriptCmd, stabilityCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(w io.Writer, debug bool) log.Logger {
	l := log.NewLogfmtLogger(log.NewSyncWriter(w))
	l = log.With(l, "ts", log.DefaultTimestampUTC)
	if debug {
		return level.NewFilter(l, level.AllowDebug())
	}
	return level.NewFilter(l, level.AllowInfo())
}

// loadConfig reads --config when given and applies --preset on top.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if preset != "" && !cfg.Apply(preset) {
		return nil, fmt.Errorf("%w: %s (available: %v)", config.ErrUnknownScene, preset, config.ListPresets())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(cfg *config.Config, l log.Logger) *storage.Store {
	dir := savesDir
	if dir == "" {
		dir = cfg.SavesDir
	}
	if dir == "" {
		dir = storage.DefaultDir()
	}
	return storage.New(dir, l)
}

// sceneFor loads the named save, or builds the configured scene when no
// name is given.
func sceneFor(cfg *config.Config, store *storage.Store, args []string) (*physics.World, error) {
	if len(args) > 0 {
		return store.Load(args[0])
	}
	return cfg.World()
}

func runSandbox(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tuiLogger := log.NewNopLogger()
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		tuiLogger = newLogger(f, verbose)
	}
	store := openStore(cfg, tuiLogger)

	w, err := cfg.World()
	if err != nil {
		return err
	}
	if resume {
		saved, err := store.LoadAutosave()
		switch {
		case err == nil:
			w = saved
		case errors.Is(err, storage.ErrNotFound):
			level.Info(tuiLogger).Log("msg", "no autosave, starting fresh")
		default:
			return err
		}
	}

	return tui.Run(tui.Options{
		World:    w,
		Viewport: cfg.Viewport,
		Store:    store,
		Logger:   tuiLogger,
		FPS:      cfg.FPS,
		Theme:    theme,
	})
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") || cfg.Server.Addr == "" {
		cfg.Server.Addr = addr
	}

	w, err := cfg.World()
	if err != nil {
		return err
	}
	store := openStore(cfg, logger)

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := api.NewHub(w, cfg.Viewport, store, cfg.Server.TickRate, logger)
	level.Info(logger).Log("msg", "serving", "addr", cfg.Server.Addr, "saves", store.Dir())
	return api.Serve(ctx, cfg.Server.Addr, hub, cfg.Server.AllowOrigins)
}
