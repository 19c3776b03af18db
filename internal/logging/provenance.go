package logging

import (
	"database/sql"
	"fmt"
	"time"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// #region log-decision
// LogDecision appends a cycle outcome to the cycle_log table.
func LogDecision(db *sql.DB, entry DecisionEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	adopted := 0
	if entry.Adopted {
		adopted = 1
	}

	_, err := db.Exec(
		`INSERT INTO cycle_log (cycle_id, lane, version_id, verdict, adopted, reasons, digest, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.CycleID,
		entry.Lane,
		nullIfEmpty(entry.VersionID),
		entry.Verdict,
		adopted,
		nullIfEmpty(entry.Reasons),
		nullIfEmpty(entry.Digest),
		entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("log decision: %w", err)
	}
	return nil
}

// #endregion log-decision

// #region recent-decisions
// RecentDecisions returns the lane's latest cycle_log rows, newest first.
func RecentDecisions(db *sql.DB, lane string, limit int) ([]DecisionEntry, error) {
	rows, err := db.Query(
		`SELECT cycle_id, lane, version_id, verdict, adopted, reasons, digest, created_at
		 FROM cycle_log WHERE lane = ? ORDER BY id DESC LIMIT ?`, lane, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent decisions: %w", err)
	}
	defer rows.Close()

	var out []DecisionEntry
	for rows.Next() {
		var e DecisionEntry
		var versionID, reasons, digest sql.NullString
		var adopted int
		var createdStr string
		if err := rows.Scan(&e.CycleID, &e.Lane, &versionID, &e.Verdict, &adopted, &reasons, &digest, &createdStr); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		e.VersionID = versionID.String
		e.Reasons = reasons.String
		e.Digest = digest.String
		e.Adopted = adopted == 1
		created, err := time.Parse(time.RFC3339Nano, createdStr)
		if err != nil {
			return nil, fmt.Errorf("parse decision %s created_at: %w", e.CycleID, err)
		}
		e.CreatedAt = created
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion recent-decisions

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers

// #region db-recorder
// DBRecorder appends decisions to a database holding the cycle_log table.
type DBRecorder struct {
	DB *sql.DB
}

// Record writes entry via LogDecision.
func (r DBRecorder) Record(entry DecisionEntry) error {
	return LogDecision(r.DB, entry)
}

// #endregion db-recorder
