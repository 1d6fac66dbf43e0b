package main

import (
	"os"
	"time"

	"github.com/katalvlaran/quadquant/config"
	"github.com/katalvlaran/quadquant/quantize"
	"github.com/katalvlaran/quadquant/runlog"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"
)

type solveFlags struct {
	inputFlags
	out         string
	record      string
	solver      string
	clusterSize int
	workers     int
}

func newSolveCmd() *cobra.Command {
	f := &solveFlags{}
	cmd := &cobra.Command{
		Use:   "solve <input>",
		Short: "Quantize a topology and print counts and statistics as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd, args[0])
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&f.out, "out", "", "write the JSON result to this file instead of stdout")
	cmd.Flags().StringVar(&f.record, "record", "", "append the run to this SQLite run log")
	cmd.Flags().StringVar(&f.solver, "solver", "", "override the parameter solver (flow, ilp, gurobi)")
	cmd.Flags().IntVar(&f.clusterSize, "cluster-size", -1, "override the parameter cluster size")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "override the parameter worker count")

	return cmd
}

func (f *solveFlags) run(cmd *cobra.Command, input string) error {
	topo, err := f.topology(input)
	if err != nil {
		return err
	}
	p, err := f.parameters()
	if err != nil {
		return err
	}
	fc, err := f.flow()
	if err != nil {
		return err
	}
	if f.solver != "" {
		p.Solver = config.Solver(f.solver)
	}
	if f.clusterSize >= 0 {
		p.ClusterSize = f.clusterSize
	}
	if f.workers > 0 {
		p.Workers = f.workers
	}

	started := time.Now()
	out, err := quantize.NewEngine().Quantize(cmd.Context(), topo, p, fc)
	if err != nil {
		return err
	}
	klog.Infof("solved %s: %d charts, %d segments, cost %.6g in %s",
		input, len(topo.Charts), len(topo.Segments), out.Report.Total(), out.Elapsed)

	w := cmd.OutOrStdout()
	if f.out != "" {
		file, err := os.Create(f.out)
		if err != nil {
			return errors.Wrap(err, "create output")
		}
		defer file.Close()
		w = file
	}
	if err = writeJSON(w, out); err != nil {
		return errors.Wrap(err, "write result")
	}

	if f.record == "" {
		return nil
	}
	store, err := runlog.Open(cmd.Context(), f.record)
	if err != nil {
		return err
	}
	defer store.Close()
	run, err := runlog.FromOutcome(input, started, len(topo.Segments), out)
	if err != nil {
		return err
	}
	if err = store.Record(cmd.Context(), run); err != nil {
		return err
	}
	klog.Infof("recorded run %s in %s", run.ID, f.record)

	return nil
}
