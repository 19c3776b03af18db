// Package eval audits what a lane has persisted: every adopted version and
// every receipt written for it. It reads only; nothing is repaired.
package eval

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/receipt"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/simulate"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/state"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/style"
)

// #region eval-harness
// EvalHarness checks persisted versions and receipts against the invariants
// a tuning cycle maintains.
type EvalHarness struct {
	config EvalConfig
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig) *EvalHarness {
	return &EvalHarness{config: config}
}

// Run audits versions (all versions of one lane), the lane's active version
// id and its receipts. Checks:
//
//  1. style_bounds: each stored style validates.
//  2. metric_ranges: each stored sim has metrics inside their ranges.
//  3. canon_at_commit: each stored sim passed budget and bend.
//  4. parent_chain: each parent exists in the lane and is one proposal step away.
//  5. active_version: the active id names a stored version.
//  6. receipt_digests: each receipt's digest matches its content.
func (h *EvalHarness) Run(versions []state.StyleRecord, active string, receipts []receipt.Receipt) EvalResult {
	byID := make(map[string]state.StyleRecord, len(versions))
	for _, v := range versions {
		byID[v.VersionID] = v
	}

	metrics := []EvalMetric{
		h.check("style_bounds", versions, func(v state.StyleRecord) string {
			if err := style.Validate(v.Style); err != nil {
				return err.Error()
			}
			return ""
		}),
		h.check("metric_ranges", versions, func(v state.StyleRecord) string {
			return rangeProblem(v.Sim)
		}),
		h.check("canon_at_commit", versions, func(v state.StyleRecord) string {
			if !v.Sim.Law.BudgetOK || !v.Sim.Law.BendOK {
				return "adopted with a failing canon check"
			}
			return ""
		}),
		h.check("parent_chain", versions, func(v state.StyleRecord) string {
			if v.ParentID == "" {
				return ""
			}
			parent, ok := byID[v.ParentID]
			if !ok {
				return fmt.Sprintf("parent %s missing", v.ParentID)
			}
			return h.stepProblem(parent.Style, v.Style)
		}),
	}

	activeMetric := EvalMetric{Name: "active_version", Checked: 1, Pass: true}
	if active != "" {
		if _, ok := byID[active]; !ok {
			activeMetric.Failed, activeMetric.Pass = 1, false
			activeMetric.Details = []string{fmt.Sprintf("active %s not among stored versions", active)}
		}
	}
	metrics = append(metrics, activeMetric)

	digests := EvalMetric{Name: "receipt_digests", Checked: len(receipts), Pass: true}
	for _, r := range receipts {
		ok, err := receipt.Verify(r)
		if err != nil || !ok {
			digests.Failed++
			digests.Pass = false
			digests.Details = append(digests.Details, fmt.Sprintf("receipt %s: digest mismatch", r.CycleID))
		}
	}
	metrics = append(metrics, digests)

	passed := true
	var failed []string
	for _, m := range metrics {
		if !m.Pass {
			passed = false
			failed = append(failed, m.Name)
		}
	}

	reason := "all checks passed"
	if !passed {
		reason = fmt.Sprintf("eval failed: %s", failed[0])
		if len(failed) > 1 {
			reason = fmt.Sprintf("eval failed: %d checks: %s", len(failed), failed[0])
		}
	}

	return EvalResult{
		Passed:  passed,
		Metrics: metrics,
		Reason:  reason,
	}
}

// #endregion eval-harness

// #region helpers
func (h *EvalHarness) check(name string, versions []state.StyleRecord, problem func(state.StyleRecord) string) EvalMetric {
	m := EvalMetric{Name: name, Checked: len(versions), Pass: true}
	for _, v := range versions {
		if p := problem(v); p != "" {
			m.Failed++
			m.Pass = false
			m.Details = append(m.Details, fmt.Sprintf("%s: %s", v.VersionID, p))
		}
	}
	return m
}

func rangeProblem(sim simulate.Result) string {
	e := sim.Emergence
	switch {
	case e.FalseGreen < 0 || e.FalseGreen > simulate.MaxFalseGreen:
		return fmt.Sprintf("false_green %.3f out of range", e.FalseGreen)
	case e.FlapIndex < 0 || e.FlapIndex > simulate.MaxFlapIndex:
		return fmt.Sprintf("flap_index %.3f out of range", e.FlapIndex)
	case e.ExceptionRate < 0 || e.ExceptionRate > simulate.MaxExceptionRate:
		return fmt.Sprintf("exception_rate %.3f out of range", e.ExceptionRate)
	case e.Recognition < 0 || e.Recognition > 1:
		return fmt.Sprintf("recognition %.3f out of range", e.Recognition)
	case e.Alignment < 0 || e.Alignment > 1:
		return fmt.Sprintf("alignment %.3f out of range", e.Alignment)
	case e.RecoveryHalflife < 1:
		return fmt.Sprintf("recovery_halflife %d below 1", e.RecoveryHalflife)
	}
	return ""
}

// stepProblem reports a knob that moved by more than one step from parent.
// A move of zero is allowed: a knob pinned at its bound stays put.
func (h *EvalHarness) stepProblem(parent, child style.Params) string {
	values := func(p style.Params) []float64 {
		return []float64{p.Forgiveness, p.Smoothing, p.VKDDiscount}
	}
	pv, cv := values(parent), values(child)
	for i, k := range style.Knobs {
		if d := math.Abs(cv[i] - pv[i]); d > k.Step+h.config.StepTolerance {
			return fmt.Sprintf("%s moved %.3f, step is %.2f", k.Name, d, k.Step)
		}
	}
	return ""
}

// #endregion helpers
