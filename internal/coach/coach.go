package coach

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/gate"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/logging"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/simulate"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/style"
	"github.com/google/uuid"
)

// #region controller
// Controller runs tuning cycles for one lane. It holds no cycle state
// between runs; everything persistent lives behind StateStore.
type Controller struct {
	lane    string
	history string

	laws      LawSource
	store     StateStore
	sink      ReceiptSink
	decisions DecisionLog
	rng       Rand

	log   *slog.Logger
	now   func() time.Time
	newID func() string
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithDecisionLog appends every cycle to d after its receipt is written.
func WithDecisionLog(d DecisionLog) Option {
	return func(c *Controller) { c.decisions = d }
}

// WithClock overrides the receipt clock.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithIDs overrides cycle id generation.
func WithIDs(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

// New creates a controller for lane. history is forwarded to the simulator.
func New(lane, history string, laws LawSource, store StateStore, sink ReceiptSink, rng Rand, opts ...Option) *Controller {
	c := &Controller{
		lane:    lane,
		history: history,
		laws:    laws,
		store:   store,
		sink:    sink,
		rng:     rng,
		log:     logging.Discard(),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.New().String() },
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// #endregion controller

// #region run
// Run executes one cycle: load, propose, simulate, judge, commit, report.
//
// Load failures return ErrConfigMissing and nothing else happens. Otherwise
// a receipt is always attempted. The commit happens before the receipt is
// written, so a receipt failure (ErrReceipt) can leave a committed style
// without a landed receipt; the returned Outcome still says what was
// committed. A commit failure returns ErrPersist and the receipt records
// the candidate as not adopted.
func (c *Controller) Run() (Outcome, error) {
	doc, err := c.laws.Load()
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: law: %w", ErrConfigMissing, err)
	}
	snap, err := c.store.Load(c.lane)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: style: %w", ErrConfigMissing, err)
	}

	out := Outcome{
		CycleID:   c.newID(),
		Lane:      c.lane,
		OldStyle:  snap.Style,
		VersionID: snap.VersionID,
	}
	log := c.log.With("lane", c.lane, "cycle", out.CycleID)

	out.NewStyle = style.Propose(snap.Style, c.rng)
	log.Debug("proposed",
		"forgiveness", out.NewStyle.Forgiveness,
		"smoothing", out.NewStyle.Smoothing,
		"vkd_discount", out.NewStyle.VKDDiscount,
		"reflex_order", out.NewStyle.ReflexOrder)

	out.Sim = simulate.Simulate(doc.Spec, out.NewStyle, c.history, c.rng)
	out.Verdict = gate.NewGate(doc.Spec).Evaluate(out.Sim, snap.LastSim)
	log.Info("judged",
		"verdict", out.Verdict.Status,
		"reasons", out.Verdict.Joined(),
		"objective_J", out.Sim.Emergence.ObjectiveJ)

	var errs []error
	var commitErr error
	if out.Verdict.Accepted() {
		id, err := c.store.Commit(c.lane, out.NewStyle, out.Sim)
		if err != nil {
			commitErr = err
			errs = append(errs, fmt.Errorf("%w: %w", ErrPersist, err))
			log.Error("commit failed", "err", err)
		} else {
			out.Adopted = true
			out.VersionID = id
			log.Info("adopted", "version", id)
		}
	}

	rec, err := c.buildReceipt(out, commitErr)
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrReceipt, err))
		return out, errors.Join(errs...)
	}
	out.Receipt = rec

	written, err := c.sink.Write(rec, doc.Raw)
	out.Written = written
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrReceipt, err))
		log.Error("receipt write failed", "err", err)
	} else {
		log.Info("receipt written", "slot", written.Slot, "digest", rec.Stamp.Digest)
	}

	if c.decisions != nil {
		entry := logging.DecisionEntry{
			CycleID:   out.CycleID,
			Lane:      c.lane,
			VersionID: out.VersionID,
			Verdict:   string(out.Verdict.Status),
			Adopted:   out.Adopted,
			Reasons:   rec.But,
			Digest:    rec.Stamp.Digest,
		}
		if err := c.decisions.Record(entry); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrRecord, err))
			log.Warn("decision log failed", "err", err)
		}
	}

	return out, errors.Join(errs...)
}

// #endregion run
