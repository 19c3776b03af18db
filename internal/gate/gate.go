package gate

import (
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/law"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/simulate"
)

// #region gate
// Gate judges simulated styles against a canon.
type Gate struct {
	spec law.Spec
}

// NewGate creates a gate bound to the given canon.
func NewGate(spec law.Spec) *Gate {
	return &Gate{spec: spec}
}

// Evaluate runs every canon check and records each failure; checks do not
// short-circuit. When all pass and last is non-nil, the candidate must also
// be not worse on false_green and flap, or not worse on objective_J.
// Evaluate is a pure function of its inputs.
func (g *Gate) Evaluate(sim simulate.Result, last *simulate.Result) Verdict {
	var reasons []Reason
	e := sim.Emergence
	bm := g.spec.Benchmark

	if !sim.Law.BudgetOK {
		reasons = append(reasons, Reason{Code: ReasonBudget, Text: "budget fail"})
	}
	if !sim.Law.BendOK {
		reasons = append(reasons, Reason{Code: ReasonBend, Text: "bend fail"})
	}
	if e.FalseGreen > bm.MaxFalseGreen {
		reasons = append(reasons, Reason{Code: ReasonFalseGreen, Text: "false_green high"})
	}
	if e.FlapIndex > bm.MaxFlapIndex {
		reasons = append(reasons, Reason{Code: ReasonFlap, Text: "flap high"})
	}
	if e.RecoveryHalflife > bm.TargetRecoveryHalflife {
		reasons = append(reasons, Reason{Code: ReasonRecovery, Text: "slow recovery"})
	}
	if e.ExceptionRate > g.spec.Exception.TargetRate {
		reasons = append(reasons, Reason{Code: ReasonException, Text: "exception rate high"})
	}

	if len(reasons) == 0 && last != nil && !improves(e, last.Emergence) {
		reasons = append(reasons, Reason{Code: ReasonNoImprovement, Text: "no improvement"})
	}

	if len(reasons) > 0 {
		return Verdict{Status: Rejected, Reasons: reasons}
	}
	return Verdict{Status: Accepted, Reasons: []Reason{}}
}

// #endregion gate

// #region helpers
// improves is true when the candidate is not worse on both side-effect
// metrics, or its objective did not drop.
func improves(cur, prev simulate.Emergence) bool {
	notWorse := cur.FalseGreen <= prev.FalseGreen+Tolerance &&
		cur.FlapIndex <= prev.FlapIndex+Tolerance
	better := cur.ObjectiveJ >= prev.ObjectiveJ-Tolerance
	return notWorse || better
}

// #endregion helpers
