package main

import (
	"errors"

	"github.com/spf13/cobra"

	"jenkinsrun/internal/storage"
	"jenkinsrun/internal/storage/models"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return errors.New("--limit must be positive")
			}
			if offset < 0 {
				return errors.New("--offset must not be negative")
			}

			cfg, err := root.load(cmd, false)
			if err != nil {
				return err
			}
			if cfg.History.Path == "" {
				return errors.New("run history is disabled (set history.path or --history)")
			}

			store, err := storage.Open(cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.GetRuns(limit, offset)
			if err != nil {
				return err
			}
			if runs == nil {
				runs = []models.Run{}
			}

			return writeJSON(cmd.OutOrStdout(), runs)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of runs to skip")

	return cmd
}
