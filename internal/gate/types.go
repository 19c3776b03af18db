package gate

import "strings"

// #region reason-code
// ReasonCode enumerates rejection categories.
type ReasonCode string

const (
	ReasonBudget        ReasonCode = "budget"
	ReasonBend          ReasonCode = "bend"
	ReasonFalseGreen    ReasonCode = "false_green"
	ReasonFlap          ReasonCode = "flap"
	ReasonRecovery      ReasonCode = "recovery"
	ReasonException     ReasonCode = "exception"
	ReasonNoImprovement ReasonCode = "no_improvement"
)

// #endregion reason-code

// #region reason
// Reason is one failed check. Text is the human-readable form recorded in receipts.
type Reason struct {
	Code ReasonCode `json:"code"`
	Text string     `json:"text"`
}

// #endregion reason

// #region verdict
// Status is the outcome of judging a simulated style.
type Status string

const (
	Accepted Status = "accepted"
	Rejected Status = "rejected"
)

// Verdict is the output of Evaluate. Reasons is empty iff Status is Accepted.
type Verdict struct {
	Status  Status   `json:"status"`
	Reasons []Reason `json:"reasons"`
}

// Accepted reports whether the candidate may be committed.
func (v Verdict) Accepted() bool {
	return v.Status == Accepted
}

// Texts returns the reason texts in check order.
func (v Verdict) Texts() []string {
	out := make([]string, 0, len(v.Reasons))
	for _, r := range v.Reasons {
		out = append(out, r.Text)
	}
	return out
}

// Joined returns the reason texts joined by "; ", or "" when accepted.
func (v Verdict) Joined() string {
	return strings.Join(v.Texts(), "; ")
}

// #endregion verdict

// Tolerance is the slack allowed when comparing against the last accepted run.
const Tolerance = 1e-6
