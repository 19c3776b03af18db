package main

import (
	"fmt"

	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/receipt"
	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [receipt.json...]",
		Short: "Recompute receipt digests and compare them to the stored stamp",
		Long: `verify checks that each receipt's digest_sha256 matches the SHA-256 of
its canonical form. With no arguments it checks the latest receipt.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				paths = []string{cfg.LatestPath}
			}

			bad := 0
			for _, path := range paths {
				r, err := receipt.ReadFile(path)
				if err != nil {
					return err
				}
				ok, err := receipt.Verify(r)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				status := "ok"
				if !ok {
					status = "MISMATCH"
					bad++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s %s\n", status, r.Stamp.Digest, path)
			}
			if bad > 0 {
				return fmt.Errorf("%d of %d receipts failed verification", bad, len(paths))
			}
			return nil
		},
	}
}
