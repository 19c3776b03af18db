package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/law"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the canon, state database and receipt directory",
		Long: `init writes the default canon to the configured law path (unless one
already exists), creates the receipt and history directories, and migrates
the state database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool("force")
			out := cmd.OutOrStdout()

			wrote, err := writeDefaultLaw(cfg.LawPath, force)
			if err != nil {
				return err
			}
			if wrote {
				fmt.Fprintf(out, "canon    %s (created)\n", cfg.LawPath)
			} else {
				fmt.Fprintf(out, "canon    %s (kept)\n", cfg.LawPath)
			}

			for _, dir := range []string{cfg.ReceiptDir, filepath.Dir(cfg.LatestPath), filepath.Dir(cfg.HistoryPath)} {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create %s: %w", dir, err)
				}
			}
			fmt.Fprintf(out, "receipts %s\n", cfg.ReceiptDir)

			store, err := openStore(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()
			fmt.Fprintf(out, "state    %s\n", cfg.DBPath)
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing canon with the default")
	return cmd
}

// writeDefaultLaw writes law.DefaultSpec to path. An existing file is left
// alone unless force is set.
func writeDefaultLaw(path string, force bool) (bool, error) {
	if _, err := os.Stat(path); err == nil && !force {
		return false, nil
	}
	data, err := json.MarshalIndent(law.DefaultSpec(), "", "  ")
	if err != nil {
		return false, fmt.Errorf("marshal canon: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create canon dir: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return false, fmt.Errorf("write canon: %w", err)
	}
	return true, nil
}
