package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/katalvlaran/quadquant/chart"
	"github.com/katalvlaran/quadquant/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// inputFlags are shared by every command that reads a topology.
type inputFlags struct {
	surface    bool
	params     string
	flowConfig string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.surface, "surface", false, "input is a traced surface document instead of a topology")
	cmd.Flags().StringVar(&f.params, "params", "", "parameter document (YAML); defaults when empty")
	cmd.Flags().StringVar(&f.flowConfig, "flow-config", "", "flow configuration document (YAML); defaults when empty")
}

func (f *inputFlags) topology(path string) (*chart.Topology, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open input")
	}
	defer file.Close()

	if !f.surface {
		return chart.ReadTopology(file)
	}
	s, err := chart.ReadSurface(file)
	if err != nil {
		return nil, err
	}

	return chart.Build(s)
}

func (f *inputFlags) parameters() (*config.Parameters, error) {
	if f.params == "" {
		p := config.DefaultParameters()
		return &p, nil
	}

	return config.LoadParameters(f.params)
}

func (f *inputFlags) flow() (*config.FlowConfig, error) {
	if f.flowConfig == "" {
		fc := config.DefaultFlowConfig()
		return &fc, nil
	}

	return config.LoadFlowConfig(f.flowConfig)
}

// writeJSON writes v indented to w.
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "quadquant",
		Short:        "Quantize chart topologies for quad remeshing",
		Long:         "quadquant decides how many quad subdivisions every segment of a chart decomposition receives.",
		SilenceUsage: true,
	}
	root.AddCommand(newSolveCmd(), newEvalCmd(), newPairsCmd(), newRunsCmd())

	return root
}
