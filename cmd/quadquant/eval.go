package main

import (
	"encoding/json"
	"os"

	"github.com/katalvlaran/quadquant/evaluate"
	"github.com/katalvlaran/quadquant/singularity"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// countsDoc accepts both a bare count array and the solve output.
type countsDoc struct {
	Counts []int `json:"counts"`
}

func readCounts(path string) ([]int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read counts")
	}
	var counts []int
	if json.Unmarshal(raw, &counts) == nil {
		return counts, nil
	}
	var doc countsDoc
	if err = json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(err, "decode counts %s", path)
	}

	return doc.Counts, nil
}

func newEvalCmd() *cobra.Command {
	f := &inputFlags{}
	cmd := &cobra.Command{
		Use:   "eval <input> <counts.json>",
		Short: "Score a quantization with the evaluator",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			topo, err := f.topology(args[0])
			if err != nil {
				return err
			}
			counts, err := readCounts(args[1])
			if err != nil {
				return err
			}
			if len(counts) != len(topo.Segments) {
				return errors.Errorf("%d counts for %d segments", len(counts), len(topo.Segments))
			}
			p, err := f.parameters()
			if err != nil {
				return err
			}
			var pairs []singularity.Pair
			if p.AlignSingularities {
				pairs = singularity.Find(topo, singularity.Options{}).Pairs
			}

			return writeJSON(cmd.OutOrStdout(), evaluate.Evaluate(topo, counts, p, pairs))
		},
	}
	f.register(cmd)

	return cmd
}
