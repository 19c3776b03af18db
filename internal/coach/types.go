package coach

import (
	"errors"

	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/gate"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/law"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/logging"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/receipt"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/simulate"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/state"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/style"
)

// #region errors
var (
	// ErrConfigMissing: the canon or the lane state could not be loaded.
	// The cycle stops before simulating and no receipt is written.
	ErrConfigMissing = errors.New("config missing")

	// ErrPersist: an accepted style could not be committed. The receipt
	// reports the style as not adopted.
	ErrPersist = errors.New("persist failed")

	// ErrReceipt: the receipt did not fully land. A style committed earlier
	// in the same cycle stays committed.
	ErrReceipt = errors.New("receipt write failed")

	// ErrRecord: the decision log row could not be appended.
	ErrRecord = errors.New("decision log failed")
)

// #endregion errors

// #region collaborators
// LawSource loads the canon for a cycle.
type LawSource interface {
	Load() (law.Document, error)
}

// StateStore loads a lane's current style and commits accepted ones.
// Commit must persist style and sim together or not at all.
type StateStore interface {
	Load(lane string) (state.Snapshot, error)
	Commit(lane string, p style.Params, sim simulate.Result) (string, error)
}

// ReceiptSink persists a sealed receipt and, optionally, the canon it was judged by.
type ReceiptSink interface {
	Write(r receipt.Receipt, canon []byte) (receipt.Written, error)
}

// DecisionLog appends one row per cycle.
type DecisionLog interface {
	Record(entry logging.DecisionEntry) error
}

// Rand is the single randomness source threaded through proposal and
// simulation. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// #endregion collaborators

// #region outcome
// Outcome describes one completed cycle.
type Outcome struct {
	CycleID   string
	Lane      string
	OldStyle  style.Params
	NewStyle  style.Params
	Sim       simulate.Result
	Verdict   gate.Verdict
	Adopted   bool   // true only when the commit landed
	VersionID string // active version after the cycle
	Receipt   receipt.Receipt
	Written   receipt.Written
}

// #endregion outcome

// Receipt wording.
const (
	receiptTitle = "Tuning Receipt"
	receiptPoint = "Shadow → judge by Canon → (maybe) adopt style"

	statusOK    = "OK"
	statusError = "ERROR"

	soAdopted    = "adopted"
	soRejected   = "rejected"
	soNotAdopted = "not adopted"
)
