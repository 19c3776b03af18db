package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/eval"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/receipt"
	"github.com/spf13/cobra"
)

func newAuditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Check a lane's stored versions and receipts for consistency",
		Args:  cobra.NoArgs,
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

			versions, err := store.ListVersions(cfg.Lane, math.MaxInt32)
			if err != nil {
				return err
			}
			snap, err := store.Load(cfg.Lane)
			if err != nil {
				return err
			}
			all, err := receipt.ReadDir(cfg.ReceiptDir)
			if err != nil {
				return err
			}
			var receipts []receipt.Receipt
			for _, r := range all {
				if r.Lane == cfg.Lane {
					receipts = append(receipts, r)
				}
			}

			res := eval.NewEvalHarness(eval.DefaultEvalConfig()).Run(versions, snap.VersionID, receipts)
			if jsonOutput(cmd) {
				if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, m := range res.Metrics {
					status := "ok"
					if !m.Pass {
						status = "FAIL"
					}
					fmt.Fprintf(out, "%-4s %-16s %d checked, %d failed\n", status, m.Name, m.Checked, m.Failed)
					for _, d := range m.Details {
						fmt.Fprintf(out, "       %s\n", d)
					}
				}
			}
			if !res.Passed {
				return errors.New(res.Reason)
			}
			return nil
		},
	}
}
