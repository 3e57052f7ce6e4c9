package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/san-kum/balloonar/internal/scenario"
	"github.com/spf13/cobra"
)

var (
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	sweepFrames int
)

func newScenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "scripted sessions and parameter sweeps",
	}

	runCmd := &cobra.Command{
		Use:   "run [file]",
		Short: "run a scenario and check its expectations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print step results as json")

	validateCmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "check scenario files without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if _, err := scenario.Load(path); err != nil {
					fmt.Printf("FAIL %s: %v\n", path, err)
					failed++
					continue
				}
				fmt.Printf("ok   %s\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scenarios invalid", failed, len(args))
			}
			return nil
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one session parameter and compare outcomes",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "threshold", fmt.Sprintf("parameter to sweep %v", scenario.SweepParams()))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 20, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 80, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 7, "number of values")
	sweepCmd.Flags().IntVar(&sweepFrames, "frames", 600, "frames per value")
	sweepCmd.Flags().BoolVar(&jsonOut, "json", false, "print results as json")

	cmd.AddCommand(runCmd, validateCmd, sweepCmd)
	return cmd
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, runErr := scenario.Run(ctx, sc)
	if runErr != nil && !errors.Is(runErr, scenario.ErrExpectation) {
		return runErr
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		fmt.Printf("%s\n", sc.Name)
		if sc.Description != "" {
			fmt.Printf("  %s\n", sc.Description)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STEP\tFRAMES\tSPAWNED\tDROPPED\tGATED\tRETIRED\tFINAL\tMAX")
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
				r.Name, len(r.Live), r.Spawned, r.Dropped, r.Gated, r.Retired, r.Final(), r.MaxLive)
		}
		w.Flush()
	}

	if runErr != nil {
		return runErr
	}
	fmt.Fprintln(os.Stderr, "all expectations met")
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := scenario.RunSweep(ctx, &scenario.Sweep{
		Base:   cfg.SimConfig(),
		Param:  sweepParam,
		Min:    sweepMin,
		Max:    sweepMax,
		Steps:  sweepSteps,
		Frames: sweepFrames,
	})
	if err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSPAWNED\tDROPPED\tGATED\tPEAK\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%.3f\t%d\t%d\t%d\t%d\n", r.Value, r.Spawned, r.Dropped, r.Gated, r.PeakLive)
	}
	return w.Flush()
}
