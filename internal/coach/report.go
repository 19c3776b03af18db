package coach

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/receipt"
)

// #region build-receipt
// buildReceipt assembles and seals the receipt for out. Status and So follow
// what actually persisted: an accepted verdict whose commit failed reports
// ERROR / not adopted.
func (c *Controller) buildReceipt(out Outcome, commitErr error) (receipt.Receipt, error) {
	oldJSON, err := json.Marshal(out.OldStyle)
	if err != nil {
		return receipt.Receipt{}, fmt.Errorf("marshal old style: %w", err)
	}
	newJSON, err := json.Marshal(out.NewStyle)
	if err != nil {
		return receipt.Receipt{}, fmt.Errorf("marshal new style: %w", err)
	}
	simJSON, err := json.Marshal(out.Sim)
	if err != nil {
		return receipt.Receipt{}, fmt.Errorf("marshal sim: %w", err)
	}

	l := out.Sim.Law
	because := []string{
		"lane: " + out.Lane,
		"style_old: " + string(oldJSON),
		"style_new: " + string(newJSON),
		fmt.Sprintf("law: budget k=%g, AMB=%g, bend kappa_c=%g", l.K, l.AMB, l.KappaC),
		"sim: " + string(simJSON),
	}

	status, so := statusOK, soAdopted
	but := out.Verdict.Joined()
	switch {
	case !out.Verdict.Accepted():
		status, so = statusError, soRejected
	case commitErr != nil:
		status, so = statusError, soNotAdopted
		but = joinNonEmpty(but, "commit failed: "+commitErr.Error())
	}

	r := receipt.Receipt{
		Title:   receiptTitle,
		Status:  status,
		Point:   receiptPoint,
		Because: because,
		But:     but,
		So:      so,
		Metrics: receipt.Metrics{Law: out.Sim.Law, Emergence: out.Sim.Emergence},
		Policy:  receipt.DefaultPolicy(),
		Stamp:   receipt.Stamp{IssuedAt: c.now().UTC().Format(receipt.IssuedAtLayout)},
		Verdict: string(out.Verdict.Status),
		CycleID: out.CycleID,
		Lane:    out.Lane,
	}
	return receipt.Seal(r)
}

// #endregion build-receipt

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "; ")
}
