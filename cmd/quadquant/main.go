// Command quadquant quantizes chart topologies from the command line.
//
//	quadquant solve topology.yaml --params params.yaml --out result.json
//	quadquant eval topology.yaml result.json
//	quadquant pairs topology.yaml
//	quadquant runs list --db runs.db
package main

import (
	"flag"
	"os"

	"github.com/plan-systems/klog"
)

func main() {
	fset := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	root := newRootCmd()
	root.PersistentFlags().AddGoFlagSet(fset)
	err := root.Execute()
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
