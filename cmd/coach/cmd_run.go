package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/coach"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/law"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/logging"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/receipt"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/state"
	"github.com/spf13/cobra"
)

// #region run-cycle
// runCycle executes one tuning cycle for the configured lane. A rejected
// candidate is a normal outcome; only load, persist and receipt failures
// return an error.
func runCycle(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cmd, cfg)

	store, err := openStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	seed, _ := cmd.Flags().GetUint64("seed")
	c := coach.New(cfg.Lane, cfg.HistoryPath,
		law.FileSource{Path: cfg.LawPath},
		store,
		receipt.FileSink{Dir: cfg.ReceiptDir, LatestPath: cfg.LatestPath},
		newRand(seed),
		coach.WithLogger(log),
		coach.WithDecisionLog(logging.DBRecorder{DB: store.DB()}),
	)

	out, runErr := c.Run()
	if errors.Is(runErr, coach.ErrConfigMissing) {
		if errors.Is(runErr, os.ErrNotExist) {
			return fmt.Errorf("%w (run 'coach init' to create %s)", runErr, cfg.LawPath)
		}
		return runErr
	}

	if jsonOutput(cmd) {
		if err := writeJSON(cmd.OutOrStdout(), out.Receipt); err != nil {
			return errors.Join(runErr, err)
		}
	} else {
		printOutcome(cmd.OutOrStdout(), out)
	}
	return runErr
}

// #endregion run-cycle

func printOutcome(w io.Writer, out coach.Outcome) {
	fmt.Fprintf(w, "cycle    %s\n", out.CycleID)
	fmt.Fprintf(w, "lane     %s\n", out.Lane)
	if out.Verdict.Accepted() {
		fmt.Fprintf(w, "verdict  %s\n", out.Verdict.Status)
	} else {
		fmt.Fprintf(w, "verdict  %s (%s)\n", out.Verdict.Status, strings.Join(out.Verdict.Texts(), "; "))
	}
	fmt.Fprintf(w, "style    forgiveness=%.2f smoothing=%.2f vkd_discount=%.2f reflex=%s\n",
		out.NewStyle.Forgiveness, out.NewStyle.Smoothing, out.NewStyle.VKDDiscount,
		strings.Join(out.NewStyle.ReflexOrder, ","))
	fmt.Fprintf(w, "objective %.3f\n", out.Sim.Emergence.ObjectiveJ)
	if out.Adopted {
		fmt.Fprintf(w, "adopted  %s\n", out.VersionID)
	} else {
		fmt.Fprintln(w, "adopted  no")
	}
	if out.Written.Slot != "" {
		fmt.Fprintf(w, "receipt  %s\n", out.Written.Slot)
	}
	if out.Receipt.Stamp.Digest != "" {
		fmt.Fprintf(w, "digest   %s\n", out.Receipt.Stamp.Digest)
	}
}

func openStore(dbPath string) (*state.Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	store, err := state.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", dbPath, err)
	}
	return store, nil
}

// newRand returns a PCG source; seed 0 draws a fresh seed.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}
