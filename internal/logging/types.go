package logging

import "time"

// #region decision-entry
// DecisionEntry is a single row in the cycle_log table.
type DecisionEntry struct {
	CycleID   string
	Lane      string
	VersionID string // active version after the cycle; empty if the lane has none
	Verdict   string // "accepted" | "rejected"
	Adopted   bool
	Reasons   string
	Digest    string
	CreatedAt time.Time
}

// #endregion decision-entry
