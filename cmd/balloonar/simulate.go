package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/san-kum/balloonar/internal/config"
	"github.com/san-kum/balloonar/internal/export"
	"github.com/san-kum/balloonar/internal/loudness"
	"github.com/san-kum/balloonar/internal/metrics"
	"github.com/san-kum/balloonar/internal/sim"
	"github.com/san-kum/balloonar/internal/storage"
	"github.com/san-kum/balloonar/internal/tui"
	"github.com/san-kum/balloonar/internal/viz"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	frames      int
	runs        int
	jsonOut     bool
	plot        bool
	watch       bool
	levels      string
	loopLevels  bool
	showCounter bool
	save        bool
	snapshot    string
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "run a headless session",
		Long: "Run a session without a camera or microphone. Loudness comes from\n" +
			"--loudness (comma separated, one value per frame) or from a seeded\n" +
			"synthetic source.",
		RunE: runSimulate,
	}
	cmd.Flags().IntVar(&frames, "frames", 600, "frames to run (0 runs until interrupted)")
	cmd.Flags().IntVar(&runs, "runs", 1, "independent runs with consecutive seeds")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the result as json")
	cmd.Flags().BoolVar(&plot, "plot", false, "plot live balloons and loudness")
	cmd.Flags().BoolVar(&watch, "watch", false, "draw the scene in the terminal in real time")
	cmd.Flags().StringVar(&levels, "loudness", "", "scripted loudness levels")
	cmd.Flags().BoolVar(&loopLevels, "loop", false, "repeat the scripted levels")
	cmd.Flags().BoolVar(&showCounter, "counters", false, "print prometheus counters")
	cmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "write the final scene as svg")
	return cmd
}

func parseLevels(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid loudness %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// analyserFor returns the scripted levels when given, else synthetic noise
// seeded from the session seed.
func analyserFor(levels []float64, seed int64) loudness.Analyser {
	if levels != nil {
		return loudness.NewScript(levels, loopLevels)
	}
	return loudness.NewSynthetic(rand.New(rand.NewSource(seed)))
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg, watch)
	if err != nil {
		return err
	}
	defer closeLog()

	script, err := parseLevels(levels)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if runs > 1 {
		if err := checkEnsembleFlags(); err != nil {
			return err
		}
		return runEnsemble(ctx, cfg, script)
	}

	session, err := newSession(cfg)
	if err != nil {
		return err
	}
	session.AttachAnalyser(analyserFor(script, cfg.Seed))
	for _, m := range metrics.Default(cfg.Session.MaxBalloons) {
		session.AddMetric(m)
	}

	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		return err
	}
	session.AddObserver(collector)

	var clock sim.Clock = sim.NewManual(cfg.FPS)
	if watch {
		live := tui.NewLiveRenderer(os.Stdout, 1, true)
		session.AddObserver(live)
		live.Start()
		defer live.Stop()
		clock = sim.NewTicker(cfg.FPS)
	}

	logrus.WithFields(logrus.Fields{
		"preset": cfg.Preset,
		"seed":   cfg.Seed,
		"frames": frames,
	}).Info("Running simulation")

	result, err := sim.NewDriver(session, clock).Run(ctx, frames)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(cfg.Preset, cfg.FPS, result)
		if err != nil {
			return err
		}
		logrus.WithField("run", runID).Info("Run saved")
	}
	if snapshot != "" {
		svg := export.SceneSVG(session.Balloons(), *viz.NewCamera(), 800, 600, export.SkyColor)
		if err := os.WriteFile(snapshot, []byte(svg), 0644); err != nil {
			return err
		}
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(result)
	if plot {
		plotResult(result, cfg.Session.Threshold)
	}
	if showCounter {
		return printCounters(reg)
	}
	return nil
}

// checkEnsembleFlags rejects single-run options combined with --runs.
func checkEnsembleFlags() error {
	var bad []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"--save", save},
		{"--snapshot", snapshot != ""},
		{"--watch", watch},
		{"--counters", showCounter},
		{"--plot", plot},
	} {
		if f.set {
			bad = append(bad, f.name)
		}
	}
	if frames == 0 {
		bad = append(bad, "--frames 0")
	}
	if len(bad) > 0 {
		return fmt.Errorf("--runs cannot be combined with %s", strings.Join(bad, ", "))
	}
	return nil
}

func runEnsemble(ctx context.Context, cfg *config.Config, script []float64) error {
	factory := func(seed int64) (*sim.Session, sim.Clock, error) {
		sc := cfg.SimConfig()
		sc.Seed = seed
		s, err := sim.NewSession(sc)
		if err != nil {
			return nil, nil, err
		}
		s.AttachAnalyser(analyserFor(script, seed))
		for _, m := range metrics.Default(sc.MaxBalloons) {
			s.AddMetric(m)
		}
		return s, sim.NewManual(cfg.FPS), nil
	}

	logrus.WithFields(logrus.Fields{"runs": runs, "seed": cfg.Seed}).Info("Running ensemble")
	results, err := sim.NewEnsemble(runs, cfg.Seed, frames).Run(ctx, factory)
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSPAWNED\tDROPPED\tGATED\tRETIRED\tPEAK")
	var spawned, dropped int
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%d\n", r.Seed, r.Spawned, r.Dropped, r.Gated, r.Retired, r.PeakLive)
		spawned += r.Spawned
		dropped += r.Dropped
	}
	w.Flush()

	n := float64(len(results))
	fmt.Printf("\nmean spawned: %.1f  mean dropped: %.1f\n", float64(spawned)/n, float64(dropped)/n)
	return nil
}

func printResult(r *sim.Result) {
	fmt.Printf("seed:     %d\n", r.Seed)
	fmt.Printf("frames:   %d\n", r.Frames)
	fmt.Printf("spawned:  %d\n", r.Spawned)
	fmt.Printf("dropped:  %d\n", r.Dropped)
	fmt.Printf("gated:    %d\n", r.Gated)
	fmt.Printf("retired:  %d\n", r.Retired)
	fmt.Printf("peak:     %d\n", r.PeakLive)
	if len(r.Metrics) > 0 {
		fmt.Println("metrics:")
		names := make([]string, 0, len(r.Metrics))
		for name := range r.Metrics {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			fmt.Printf("  %s: %.4f\n", name, r.Metrics[name])
		}
	}
}

func plotResult(r *sim.Result, threshold float64) {
	if len(r.Live) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(r.Live,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("live balloons"),
	))
	fmt.Println()
	fmt.Println(asciigraph.PlotMany([][]float64{r.Loudness, constant(threshold, len(r.Loudness))},
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Default, asciigraph.Red),
		asciigraph.Caption("loudness / threshold"),
	))
}

func constant(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// printCounters dumps the registry's counters and gauges.
func printCounters(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	fmt.Println("counters:")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				fmt.Printf("  %s %.0f\n", mf.GetName(), m.GetCounter().GetValue())
			case dto.MetricType_GAUGE:
				fmt.Printf("  %s %.0f\n", mf.GetName(), m.GetGauge().GetValue())
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				fmt.Printf("  %s count=%d sum=%.1f\n", mf.GetName(), h.GetSampleCount(), h.GetSampleSum())
			}
		}
	}
	return nil
}
