package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback <version-id>",
		Short: "Point the lane back at an earlier adopted version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Rollback(cfg.Lane, args[0]); err != nil {
				return err
			}
			newLogger(cmd, cfg).Info("rolled back", "lane", cfg.Lane, "version", args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "lane %s now at %s\n", cfg.Lane, args[0])
			return nil
		},
	}
}
