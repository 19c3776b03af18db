package receipt

import "github.com/danielpatrickdp/adaptive-state/style-coach/internal/simulate"

// #region receipt
// Receipt is the audit record of one tuning cycle. Once sealed it is never
// mutated; Stamp.Digest covers every other field.
type Receipt struct {
	Title   string   `json:"title"`
	Status  string   `json:"status"` // "OK" | "ERROR"
	Point   string   `json:"point"`
	Because []string `json:"because"`
	But     string   `json:"but"`
	So      string   `json:"so"` // "adopted" | "rejected" | "not adopted"
	Metrics Metrics  `json:"metrics"`
	Policy  Policy   `json:"policy"`
	Stamp   Stamp    `json:"stamp"`
	Verdict string   `json:"verdict"`
	CycleID string   `json:"cycle_id"`
	Lane    string   `json:"lane"`
}

// Metrics snapshots the simulation the verdict was based on.
type Metrics struct {
	Law       simulate.LawMetrics `json:"law"`
	Emergence simulate.Emergence  `json:"emergence"`
}

// Policy carries the usage flags attached to every receipt.
type Policy struct {
	Use   string `json:"use"`
	Share string `json:"share"`
	Train string `json:"train"`
}

// Stamp records when the receipt was issued and its content digest.
type Stamp struct {
	IssuedAt string `json:"issued_at"`
	Digest   string `json:"digest_sha256"`
}

// #endregion receipt

// DefaultPolicy is attached to receipts unless the caller overrides it.
func DefaultPolicy() Policy {
	return Policy{Use: "demo", Share: "yes", Train: "yes"}
}

// IssuedAtLayout formats Stamp.IssuedAt.
const IssuedAtLayout = "2006-01-02T15:04:05Z"
