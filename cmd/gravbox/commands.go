package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/go-kit/kit/log/level"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravbox/internal/analysis"
	"github.com/san-kum/gravbox/internal/automation"
	"github.com/san-kum/gravbox/internal/export"
	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/metrics"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/record"
	"github.com/san-kum/gravbox/internal/sim"
	"github.com/spf13/cobra"
)

// divergenceNudge is how far the nudged copy starts from the original, in
// units.
const divergenceNudge = 1e-3

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("tick-time") {
		cfg.TickTime = tickTime
	}
	if cmd.Flags().Changed("ticks") {
		cfg.Ticks = ticks
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	store := openStore(cfg, logger)
	w, err := sceneFor(cfg, store, args)
	if err != nil {
		return err
	}
	if len(args) > 0 && cmd.Flags().Changed("tick-time") {
		w.TickTime = cfg.TickTime
	}

	ctx, stop := signalContext()
	defer stop()

	if diverge >= 0 {
		lambda, err := analysis.Divergence(w, diverge, divergenceNudge, cfg.Ticks)
		if err != nil {
			return err
		}
		fmt.Printf("divergence rate of body %d: %.6f /day\n", diverge, lambda)
	}

	if len(sweepDts) > 0 {
		if err := printTickSweep(ctx, w, float64(cfg.Ticks)*w.TickTime); err != nil {
			return err
		}
	}

	runner := sim.New(w)
	for _, m := range metrics.Standard() {
		runner.AddMetric(m)
	}
	var pair *metrics.Distance
	if len(w.Bodies) >= 2 {
		pair = metrics.NewDistance(0, 1)
		runner.AddMetric(pair)
	}
	if recordDB != "" {
		rec, err := record.Create(recordDB, logger)
		if err != nil {
			return err
		}
		defer rec.Close()
		rec.SetInterval(every)
		runner.AddObserver(rec)
	}

	fmt.Printf("running %d bodies for %d ticks of %g days...\n", len(w.Bodies), cfg.Ticks, w.TickTime)
	start := time.Now()

	result, err := runner.Run(ctx, cfg.Ticks)
	if err != nil {
		var simErr *sim.SimulationError
		if !errors.As(err, &simErr) {
			return err
		}
		fmt.Printf("stopped at tick %d: %v\n", simErr.Tick, simErr.Wrapped)
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("ticks: %d\n", result.Ticks)
	fmt.Printf("days passed: %d\n", int(result.TimePassed))
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	if pair != nil {
		if period, perr := analysis.OrbitalPeriod(pair.Series(), w.TickTime); perr == nil {
			fmt.Printf("  period of %s around %s: %.1f days\n", w.Bodies[0].Name, w.Bodies[1].Name, period)
		}
	}

	if outName != "" {
		if store.Exists(outName) {
			level.Info(logger).Log("msg", "overwriting save", "name", outName)
		}
		if err := store.Save(outName, w); err != nil {
			return err
		}
		fmt.Printf("\nsaved as %s\n", outName)
	}
	return err
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func printTickSweep(ctx context.Context, w *physics.World, days float64) error {
	results, err := sim.NewSweep(w, sweepDts, metrics.Standard).Run(ctx, days)
	if err != nil && len(results) == 0 {
		return err
	}

	fmt.Printf("tick time sweep over %g days:\n", days)
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TICK TIME\tTICKS\tENERGY\tDRIFT")
	for _, r := range results {
		if r.Result == nil {
			fmt.Fprintf(tw, "%g\t-\t-\t-\n", r.TickTime)
			continue
		}
		fmt.Fprintf(tw, "%g\t%d\t%.6g\t%.3e\n", r.TickTime, r.Ticks, r.Metrics["energy"], r.Metrics["energy_drift"])
	}
	tw.Flush()
	fmt.Println()
	return nil
}

func listSaves(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg, logger)
	entries, err := store.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("no saves in %s\n", store.Dir())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODIFIED\tSIZE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\n", e.Name, e.ModTime.Format("2006-01-02 15:04"), e.Size)
	}
	return w.Flush()
}

func showSave(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	w, err := openStore(cfg, logger).Load(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("days passed: %d  tick time: %g  field: %t\n\n", int(w.TimePassed), w.TickTime, w.RendersField)
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tMASS\tPOSITION\tVELOCITY\tANGLE")
	for i, b := range w.Bodies {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i, b.Name, b.MassString(), geom.FormatTuple(b.Pos), b.VelString(), b.AngleString())
	}
	return tw.Flush()
}

func deleteSave(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := openStore(cfg, logger).Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", args[0])
	return nil
}

func printField(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	w, err := sceneFor(cfg, openStore(cfg, logger), args)
	if err != nil {
		return err
	}
	m := margin
	if m <= 0 {
		m = w.Margin
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "X\tY\tPULL X\tPULL Y\tINTENSITY\tANGLE\t")
	for _, s := range w.SampleField(cfg.Viewport, m) {
		fmt.Fprintf(tw, "%.0f\t%.0f\t%.4g\t%.4g\t%.3f\t%d°\t\n",
			s.Point[0], s.Point[1], s.Pull[0], s.Pull[1], s.Intensity, geom.Degrees(geom.Angle(s.Pull)))
	}
	return tw.Flush()
}

func plotRecording(cmd *cobra.Command, args []string) error {
	r, err := record.Open(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	track, err := r.Track(bodyIndex)
	if err != nil {
		return err
	}
	if len(track) < 2 {
		return fmt.Errorf("body %d has %d recorded frames", bodyIndex, len(track))
	}

	series := make([]float64, len(track))
	for i, p := range track {
		bodies, err := r.Bodies(p.Frame)
		if err != nil {
			return err
		}
		com := physics.NewWorld(0, bodies...).CenterOfMass()
		series[i] = p.Pos.Sub(com).Len()
	}

	graph := asciigraph.Plot(series,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("body %d distance from the centre of mass", bodyIndex)))
	fmt.Println(graph)

	dt := track[1].TimePassed - track[0].TimePassed
	if period, err := analysis.OrbitalPeriod(series, dt); err == nil {
		fmt.Printf("\nestimated orbital period: %.1f days\n", period)
	} else {
		fmt.Printf("\nno orbital period: %v\n", err)
	}

	path := record.Positions(track)
	fmt.Println("\npath:")
	fmt.Println(analysis.PathToASCII(path, plotWidth, plotHeight))

	if plotSVG != "" {
		svg := export.TrajectoryToSVG(path, 800, 600, export.TrailColor)
		if err := os.WriteFile(plotSVG, []byte(svg), 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", plotSVG)
	}
	return nil
}

func exportScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	w, err := sceneFor(cfg, openStore(cfg, logger), args)
	if err != nil {
		return err
	}

	svg := export.SceneSVG(w, cfg.Viewport, export.Options{
		Field:  w.RendersField,
		Margin: w.Margin,
		Labels: labels,
	})
	if err := os.WriteFile(svgOut, []byte(svg), 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	r, err := record.Open(args[0])
	if err != nil {
		return err
	}
	defer r.Close()
	return r.ExportJSON(os.Stdout)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	r, err := record.Open(args[0])
	if err != nil {
		return err
	}
	defer r.Close()
	return r.ExportCSV(os.Stdout, bodyIndex)
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	w, err := cfg.World()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	env := automation.Env{Store: openStore(cfg, logger), Viewport: cfg.Viewport, Logger: logger}
	results, final, err := automation.RunScenario(ctx, sc, w, env)
	for _, r := range results {
		fmt.Printf("step %d: %d bodies, %d ticks, day %d\n", r.Step, r.Bodies, r.Ticks, int(r.TimePassed))
		printMetrics(r.Metrics)
	}
	if err != nil {
		return err
	}
	fmt.Printf("\nscenario %q finished at day %d with %d bodies\n", sc.Name, int(final.TimePassed), len(final.Bodies))
	return nil
}

func runStability(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	w, err := sceneFor(cfg, openStore(cfg, logger), args)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	results, err := automation.RunMonteCarlo(ctx, w, &automation.MonteCarloConfig{
		Perturbation:    jitter,
		VelPerturbation: velJitter,
		NumTrials:       trials,
		Days:            days,
		Radius:          radius,
		Seed:            seed,
	})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TRIAL\tBOUNDED\tDRIFT\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%.3f\t%.3e\t%t\n", r.TrialID, r.Bounded, r.Drift, r.Stable)
	}
	tw.Flush()

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\n%d stable, %d unstable (%.0f%%)\n", stable, unstable, 100*float64(stable)/float64(len(results)))
	return nil
}

func runMassSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	w, err := sceneFor(cfg, openStore(cfg, logger), args)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	results, err := automation.RunSweep(ctx, w, &automation.ParameterSweep{
		Body:     bodyIndex,
		MassMin:  massMin,
		MassMax:  massMax,
		NumSteps: steps,
		Days:     days,
		Radius:   radius,
	})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MASS\tBOUNDED\tDRIFT\t")
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(tw, "%.4g\t-\t-\t%v\n", r.Mass, r.Err)
			continue
		}
		fmt.Fprintf(tw, "%.4g\t%.3f\t%.3e\t\n", r.Mass, r.Bounded, r.Drift)
	}
	return tw.Flush()
}
