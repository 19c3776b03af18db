package main

import (
	"fmt"
	"io"
	"time"

	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/logging"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/state"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/style"
	"github.com/spf13/cobra"
)

// #region rows

type versionRow struct {
	VersionID  string       `json:"version_id"`
	ParentID   string       `json:"parent_id,omitempty"`
	Active     bool         `json:"active"`
	Style      style.Params `json:"style"`
	ObjectiveJ float64      `json:"objective_J"`
	FalseGreen float64      `json:"false_green"`
	FlapIndex  float64      `json:"flap_index"`
	CreatedAt  string       `json:"created_at"`
}

type decisionRow struct {
	CycleID   string `json:"cycle_id"`
	Verdict   string `json:"verdict"`
	Adopted   bool   `json:"adopted"`
	Reasons   string `json:"reasons,omitempty"`
	VersionID string `json:"version_id,omitempty"`
	Digest    string `json:"digest,omitempty"`
	CreatedAt string `json:"created_at"`
}

type inspectReport struct {
	Lane      string        `json:"lane"`
	Active    string        `json:"active,omitempty"`
	Versions  []versionRow  `json:"versions"`
	Decisions []decisionRow `json:"decisions"`
}

// #endregion rows

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show a lane's style versions and recent cycle decisions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			last, _ := cmd.Flags().GetInt("last")

			store, err := openStore(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			report, err := buildInspectReport(store, cfg.Lane, last)
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printInspectReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().Int("last", 20, "Show N most recent versions and decisions")
	return cmd
}

// #region build
func buildInspectReport(store *state.Store, lane string, last int) (inspectReport, error) {
	report := inspectReport{Lane: lane, Versions: []versionRow{}, Decisions: []decisionRow{}}

	snap, err := store.Load(lane)
	if err != nil {
		return report, err
	}
	report.Active = snap.VersionID

	versions, err := store.ListVersions(lane, last)
	if err != nil {
		return report, err
	}
	for _, v := range versions {
		report.Versions = append(report.Versions, versionRow{
			VersionID:  v.VersionID,
			ParentID:   v.ParentID,
			Active:     v.VersionID == snap.VersionID,
			Style:      v.Style,
			ObjectiveJ: v.Sim.Emergence.ObjectiveJ,
			FalseGreen: v.Sim.Emergence.FalseGreen,
			FlapIndex:  v.Sim.Emergence.FlapIndex,
			CreatedAt:  v.CreatedAt.Format(time.RFC3339),
		})
	}

	decisions, err := logging.RecentDecisions(store.DB(), lane, last)
	if err != nil {
		return report, err
	}
	for _, d := range decisions {
		report.Decisions = append(report.Decisions, decisionRow{
			CycleID:   d.CycleID,
			Verdict:   d.Verdict,
			Adopted:   d.Adopted,
			Reasons:   d.Reasons,
			VersionID: d.VersionID,
			Digest:    d.Digest,
			CreatedAt: d.CreatedAt.Format(time.RFC3339),
		})
	}
	return report, nil
}

// #endregion build

// #region print
func printInspectReport(w io.Writer, r inspectReport) {
	fmt.Fprintf(w, "lane %s", r.Lane)
	if r.Active == "" {
		fmt.Fprintln(w, " (default style, nothing adopted)")
	} else {
		fmt.Fprintf(w, " active=%s\n", short(r.Active))
	}

	fmt.Fprintf(w, "\nversions (%d)\n", len(r.Versions))
	for _, v := range r.Versions {
		mark := " "
		if v.Active {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %s  f=%.2f s=%.2f v=%.2f  J=%.3f fg=%.3f flap=%.3f  %s\n",
			mark, short(v.VersionID), v.Style.Forgiveness, v.Style.Smoothing, v.Style.VKDDiscount,
			v.ObjectiveJ, v.FalseGreen, v.FlapIndex, v.CreatedAt)
	}

	fmt.Fprintf(w, "\ndecisions (%d)\n", len(r.Decisions))
	for _, d := range r.Decisions {
		fmt.Fprintf(w, "  %s  %-8s adopted=%-5t %s\n", short(d.CycleID), d.Verdict, d.Adopted, d.Reasons)
	}
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion print
