package replay

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/coach"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/gate"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/law"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/receipt"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/simulate"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/state"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/style"
)

// #region types
// Config describes one replay run.
type Config struct {
	Lane   string
	Cycles int
	Seed   uint64
	Law    law.Spec

	// Start, when set, is committed as the lane's first version before cycle 1,
	// scored by one simulation drawn from the same seeded source.
	Start *style.Params
}

// DefaultConfig replays ten cycles of lane "replay" under the default canon.
func DefaultConfig() Config {
	return Config{
		Lane:   "replay",
		Cycles: 10,
		Seed:   1,
		Law:    law.DefaultSpec(),
	}
}

// CycleResult captures one replayed cycle.
type CycleResult struct {
	Cycle     int
	CycleID   string
	Candidate style.Params
	Sim       simulate.Result
	Verdict   gate.Verdict
	Adopted   bool
	VersionID string // active version after the cycle
	Digest    string
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalCycles    int                     `json:"total_cycles"`
	Accepted       int                     `json:"accepted"`
	Rejected       int                     `json:"rejected"`
	ReasonCounts   map[gate.ReasonCode]int `json:"reason_counts"`
	FinalStyle     style.Params            `json:"final_style"`
	FinalVersionID string                  `json:"final_version_id,omitempty"`
	BestObjective  float64                 `json:"best_objective_J"`
}

// #endregion types

// epoch is the fixed receipt clock for replays, so a seed reproduces digests.
var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// #region replay
// Replay runs cfg.Cycles tuning cycles in memory. Receipts are sealed but not
// written. Cycle ids and receipt timestamps are derived from the cycle number,
// so the same Config always yields the same results.
func Replay(cfg Config) ([]CycleResult, state.Snapshot, error) {
	if err := law.Validate(cfg.Law); err != nil {
		return nil, state.Snapshot{}, err
	}
	if cfg.Cycles < 0 {
		return nil, state.Snapshot{}, fmt.Errorf("cycles must be >= 0, got %d", cfg.Cycles)
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5eed))
	store := state.NewMemoryStore()
	if cfg.Start != nil {
		if err := style.Validate(*cfg.Start); err != nil {
			return nil, state.Snapshot{}, fmt.Errorf("start style: %w", err)
		}
		baseline := simulate.Simulate(cfg.Law, *cfg.Start, "", rng)
		if _, err := store.Commit(cfg.Lane, *cfg.Start, baseline); err != nil {
			return nil, state.Snapshot{}, err
		}
	}

	cycle := 0
	c := coach.New(cfg.Lane, "", law.StaticSource{Doc: law.Document{Spec: cfg.Law}}, store, receipt.Discard{}, rng,
		coach.WithClock(func() time.Time { return epoch.Add(time.Duration(cycle) * time.Minute) }),
		coach.WithIDs(func() string { return fmt.Sprintf("replay-%04d", cycle) }),
	)

	results := make([]CycleResult, 0, cfg.Cycles)
	for cycle = 1; cycle <= cfg.Cycles; cycle++ {
		out, err := c.Run()
		if err != nil {
			return results, state.Snapshot{}, fmt.Errorf("cycle %d: %w", cycle, err)
		}
		results = append(results, CycleResult{
			Cycle:     cycle,
			CycleID:   out.CycleID,
			Candidate: out.NewStyle,
			Sim:       out.Sim,
			Verdict:   out.Verdict,
			Adopted:   out.Adopted,
			VersionID: out.VersionID,
			Digest:    out.Receipt.Stamp.Digest,
		})
	}

	final, err := store.Load(cfg.Lane)
	if err != nil {
		return results, state.Snapshot{}, err
	}
	return results, final, nil
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []CycleResult, final state.Snapshot) Summary {
	s := Summary{
		TotalCycles:    len(results),
		ReasonCounts:   make(map[gate.ReasonCode]int),
		FinalStyle:     final.Style,
		FinalVersionID: final.VersionID,
	}
	for i, r := range results {
		if r.Adopted {
			s.Accepted++
		} else {
			s.Rejected++
		}
		for _, reason := range r.Verdict.Reasons {
			s.ReasonCounts[reason.Code]++
		}
		if i == 0 || r.Sim.Emergence.ObjectiveJ > s.BestObjective {
			s.BestObjective = r.Sim.Emergence.ObjectiveJ
		}
	}
	return s
}

// #endregion replay
