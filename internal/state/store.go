package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/simulate"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/style"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so created_at sorts as text in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS style_versions (
	version_id    TEXT PRIMARY KEY,
	parent_id     TEXT,
	lane          TEXT NOT NULL,
	style_json    TEXT NOT NULL,
	sim_json      TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES style_versions(version_id)
);

CREATE INDEX IF NOT EXISTS style_versions_lane ON style_versions(lane, created_at);

CREATE TABLE IF NOT EXISTS active_style (
	lane          TEXT PRIMARY KEY,
	version_id    TEXT NOT NULL,
	FOREIGN KEY (version_id) REFERENCES style_versions(version_id)
);

CREATE TABLE IF NOT EXISTS cycle_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	cycle_id      TEXT NOT NULL,
	lane          TEXT NOT NULL,
	version_id    TEXT,
	verdict       TEXT NOT NULL,
	adopted       INTEGER NOT NULL,
	reasons       TEXT,
	digest        TEXT,
	created_at    TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct
// Store keeps accepted style versions per lane in SQLite. One process writes
// at a time; concurrent cycles against the same file are not supported.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStoreWithDB wraps an already-migrated database.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate applies the schema to db. Used for in-memory databases.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// #endregion constructor

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #region load
// Load returns the lane's active style and the simulation that justified it.
// A lane without an active version starts from style.Default() and no sim.
func (s *Store) Load(lane string) (Snapshot, error) {
	rec, err := s.GetCurrent(lane)
	if errors.Is(err, ErrNoActive) {
		return Snapshot{Style: style.Default()}, nil
	}
	if err != nil {
		return Snapshot{}, err
	}
	if err := style.Validate(rec.Style); err != nil {
		return Snapshot{}, fmt.Errorf("version %s: %w", rec.VersionID, err)
	}
	sim := rec.Sim
	return Snapshot{VersionID: rec.VersionID, Style: rec.Style, LastSim: &sim}, nil
}

// #endregion load

// #region commit
// Commit records p and sim as a new version for lane and moves the lane's
// active pointer to it in one transaction: either both land or neither does.
func (s *Store) Commit(lane string, p style.Params, sim simulate.Result) (string, error) {
	rec := StyleRecord{
		VersionID: uuid.New().String(),
		Lane:      lane,
		Style:     p,
		Sim:       sim,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.CommitStyle(rec); err != nil {
		return "", err
	}
	return rec.VersionID, nil
}

// CommitStyle inserts rec and makes it the active version of rec.Lane.
// An empty ParentID is filled from the lane's current active version.
func (s *Store) CommitStyle(rec StyleRecord) error {
	styleJSON, err := json.Marshal(rec.Style)
	if err != nil {
		return fmt.Errorf("marshal style: %w", err)
	}
	simJSON, err := json.Marshal(rec.Sim)
	if err != nil {
		return fmt.Errorf("marshal sim: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	parent := rec.ParentID
	if parent == "" {
		err := tx.QueryRow(`SELECT version_id FROM active_style WHERE lane = ?`, rec.Lane).Scan(&parent)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("get parent: %w", err)
		}
	}

	_, err = tx.Exec(
		`INSERT INTO style_versions (version_id, parent_id, lane, style_json, sim_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.VersionID, nullIfEmpty(parent), rec.Lane, string(styleJSON), string(simJSON),
		rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert version: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO active_style (lane, version_id) VALUES (?, ?)
		 ON CONFLICT(lane) DO UPDATE SET version_id = excluded.version_id`,
		rec.Lane, rec.VersionID,
	)
	if err != nil {
		return fmt.Errorf("update active: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// #endregion commit

// #region get-current
// GetCurrent reads the lane's active version. It returns ErrNoActive when the
// lane has none.
func (s *Store) GetCurrent(lane string) (StyleRecord, error) {
	var versionID string
	err := s.db.QueryRow(`SELECT version_id FROM active_style WHERE lane = ?`, lane).Scan(&versionID)
	if errors.Is(err, sql.ErrNoRows) {
		return StyleRecord{}, fmt.Errorf("lane %s: %w", lane, ErrNoActive)
	}
	if err != nil {
		return StyleRecord{}, fmt.Errorf("get active: %w", err)
	}
	return s.GetVersion(versionID)
}

// #endregion get-current

// #region get-version
// GetVersion retrieves a specific version by ID.
func (s *Store) GetVersion(id string) (StyleRecord, error) {
	row := s.db.QueryRow(
		`SELECT version_id, parent_id, lane, style_json, sim_json, created_at
		 FROM style_versions WHERE version_id = ?`, id,
	)
	rec, err := scanRecord(row)
	if err != nil {
		return StyleRecord{}, fmt.Errorf("get version %s: %w", id, err)
	}
	return rec, nil
}

// #endregion get-version

// #region rollback
// Rollback points the lane back at an earlier version of the same lane.
func (s *Store) Rollback(lane, targetVersionID string) error {
	var exists int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM style_versions WHERE version_id = ? AND lane = ?`, targetVersionID, lane,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check version: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("version %s not found in lane %s", targetVersionID, lane)
	}

	_, err = s.db.Exec(
		`INSERT INTO active_style (lane, version_id) VALUES (?, ?)
		 ON CONFLICT(lane) DO UPDATE SET version_id = excluded.version_id`,
		lane, targetVersionID,
	)
	if err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// #endregion rollback

// #region list-versions
// ListVersions returns the lane's most recent versions, newest first.
func (s *Store) ListVersions(lane string, limit int) ([]StyleRecord, error) {
	rows, err := s.db.Query(
		`SELECT version_id, parent_id, lane, style_json, sim_json, created_at
		 FROM style_versions WHERE lane = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, lane, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var records []StyleRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list-versions

// #region helpers
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (StyleRecord, error) {
	var rec StyleRecord
	var parentID sql.NullString
	var styleJSON, simJSON, createdStr string

	if err := sc.Scan(&rec.VersionID, &parentID, &rec.Lane, &styleJSON, &simJSON, &createdStr); err != nil {
		return StyleRecord{}, err
	}
	if parentID.Valid {
		rec.ParentID = parentID.String
	}
	if err := json.Unmarshal([]byte(styleJSON), &rec.Style); err != nil {
		return StyleRecord{}, fmt.Errorf("unmarshal style: %w", err)
	}
	if err := json.Unmarshal([]byte(simJSON), &rec.Sim); err != nil {
		return StyleRecord{}, fmt.Errorf("unmarshal sim: %w", err)
	}
	created, err := time.Parse(time.RFC3339Nano, createdStr)
	if err != nil {
		return StyleRecord{}, fmt.Errorf("parse created_at: %w", err)
	}
	rec.CreatedAt = created
	return rec, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
