package main

import (
	"github.com/google/uuid"
	"github.com/katalvlaran/quadquant/runlog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newRunsCmd() *cobra.Command {
	var db string
	open := func(cmd *cobra.Command) (*runlog.Store, error) {
		if db == "" {
			return nil, errors.New("--db is required")
		}
		return runlog.Open(cmd.Context(), db)
	}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := open(cmd)
			if err != nil {
				return err
			}
			defer store.Close()
			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), runs)
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "maximum number of runs; 0 lists all")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return errors.Wrapf(err, "run id %q", args[0])
			}
			store, err := open(cmd)
			if err != nil {
				return err
			}
			defer store.Close()
			run, err := store.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), run)
		},
	}

	runs := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the SQLite run log",
	}
	runs.PersistentFlags().StringVar(&db, "db", "", "run log database")
	runs.AddCommand(list, show)

	return runs
}
