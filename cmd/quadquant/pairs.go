package main

import (
	"github.com/katalvlaran/quadquant/singularity"
	"github.com/spf13/cobra"
)

type quadDoc struct {
	Chart int    `json:"chart"`
	Sides [2]int `json:"sides"`
}

type pairDoc struct {
	Charts [2]int    `json:"charts"`
	Sides  [2]int    `json:"sides"`
	Quads  []quadDoc `json:"quads"`
}

type pairsDoc struct {
	Pairs     []pairDoc `json:"pairs"`
	SelfPairs int       `json:"self_pairs"`
}

func newPairsCmd() *cobra.Command {
	f := &inputFlags{}
	cmd := &cobra.Command{
		Use:   "pairs <input>",
		Short: "List the singularity pairs of a topology",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topo, err := f.topology(args[0])
			if err != nil {
				return err
			}
			info := singularity.Find(topo, singularity.Options{})
			doc := pairsDoc{Pairs: make([]pairDoc, len(info.Pairs)), SelfPairs: info.SelfPairs}
			for i, p := range info.Pairs {
				pd := pairDoc{
					Charts: [2]int{int(p.Charts[0]), int(p.Charts[1])},
					Sides:  p.Sides,
					Quads:  make([]quadDoc, len(p.Quads)),
				}
				for j, q := range p.Quads {
					pd.Quads[j] = quadDoc{Chart: int(q.Chart), Sides: q.Sides}
				}
				doc.Pairs[i] = pd
			}

			return writeJSON(cmd.OutOrStdout(), doc)
		},
	}
	f.register(cmd)

	return cmd
}
