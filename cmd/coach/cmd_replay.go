package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/gate"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/law"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/replay"
	"github.com/spf13/cobra"
)

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Run many cycles in memory and summarize the outcome",
		Long: `replay runs tuning cycles against an in-memory store. Nothing on disk
changes. With --fixture, the canon, seed and cycle count come from the
fixture and its expected verdicts are checked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fixturePath, _ := cmd.Flags().GetString("fixture")

			var (
				rcfg    replay.Config
				fixture *replay.Fixture
			)
			if fixturePath != "" {
				f, err := replay.LoadFixture(fixturePath)
				if err != nil {
					return err
				}
				fixture = f
				rcfg = f.ToConfig()
			} else {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				rcfg = replay.DefaultConfig()
				rcfg.Lane = cfg.Lane
				rcfg.Cycles, _ = cmd.Flags().GetInt("cycles")
				rcfg.Seed, _ = cmd.Flags().GetUint64("seed")
				useDefault, _ := cmd.Flags().GetBool("default-law")
				if !useDefault {
					doc, err := law.FileSource{Path: cfg.LawPath}.Load()
					if err != nil {
						return fmt.Errorf("%w (use --default-law to replay the built-in canon)", err)
					}
					rcfg.Law = doc.Spec
				}
			}

			results, final, err := replay.Replay(rcfg)
			if err != nil {
				return err
			}
			summary := replay.Summarize(results, final)

			if jsonOutput(cmd) {
				if err := writeJSON(cmd.OutOrStdout(), summary); err != nil {
					return err
				}
			} else {
				printSummary(cmd.OutOrStdout(), summary)
			}

			if fixture != nil {
				if problems := fixture.Check(results); len(problems) > 0 {
					return errors.New("fixture mismatch:\n  " + strings.Join(problems, "\n  "))
				}
			}
			return nil
		},
	}
	cmd.Flags().Int("cycles", 10, "Number of cycles to replay")
	cmd.Flags().Uint64("seed", 1, "Seed for proposal and simulation noise")
	cmd.Flags().String("fixture", "", "Replay fixture (JSON or YAML)")
	cmd.Flags().Bool("default-law", false, "Use the built-in canon instead of the law file")
	return cmd
}

func printSummary(w io.Writer, s replay.Summary) {
	fmt.Fprintf(w, "cycles   %d\n", s.TotalCycles)
	fmt.Fprintf(w, "accepted %d\n", s.Accepted)
	fmt.Fprintf(w, "rejected %d\n", s.Rejected)
	if len(s.ReasonCounts) > 0 {
		codes := make([]string, 0, len(s.ReasonCounts))
		for code := range s.ReasonCounts {
			codes = append(codes, string(code))
		}
		sort.Strings(codes)
		for _, code := range codes {
			fmt.Fprintf(w, "  %-15s %d\n", code, s.ReasonCounts[gate.ReasonCode(code)])
		}
	}
	fmt.Fprintf(w, "best J   %.3f\n", s.BestObjective)
	fmt.Fprintf(w, "final    forgiveness=%.2f smoothing=%.2f vkd_discount=%.2f reflex=%s\n",
		s.FinalStyle.Forgiveness, s.FinalStyle.Smoothing, s.FinalStyle.VKDDiscount,
		strings.Join(s.FinalStyle.ReflexOrder, ","))
}
