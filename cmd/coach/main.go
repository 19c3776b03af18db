package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/config"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/logging"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

// #region main
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "coach",
		Short: "Self-tuning style coach",
		Long: `coach proposes a nearby style for a lane, simulates it, judges it
against the canon, adopts it only if it passes, and writes a sealed
receipt for every cycle.

Run without a subcommand to execute one cycle.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runCycle,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("root", "", "Project root directory (default $COACH_ROOT or .)")
	rootCmd.PersistentFlags().String("lane", "", "Lane to tune (default $COACH_LANE or lane1)")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error")
	rootCmd.Flags().Uint64("seed", 0, "Seed for proposal and simulation noise (0 = random)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newInspectCmd(),
		newRollbackCmd(),
		newReplayCmd(),
		newVerifyCmd(),
		newAuditCmd(),
	)
	return rootCmd
}

// #endregion main

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"version": version})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "coach version %s\n", version)
			return nil
		},
	}
}

// #region helpers
// loadConfig resolves the config with persistent flags applied on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	root, _ := cmd.Flags().GetString("root")
	lane, _ := cmd.Flags().GetString("lane")
	level, _ := cmd.Flags().GetString("log-level")
	return config.LoadWith(config.Overrides{Root: root, Lane: lane, LogLevel: level})
}

func newLogger(cmd *cobra.Command, cfg config.Config) *slog.Logger {
	return logging.NewLogger(cfg.LogLevel, cmd.ErrOrStderr(), cfg.NoColor)
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// #endregion helpers
