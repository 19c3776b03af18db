package state

import (
	"errors"
	"time"

	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/simulate"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/style"
)

// ErrNoActive is returned when a lane has no accepted version yet.
var ErrNoActive = errors.New("no active style version")

// #region style-record
// StyleRecord is one accepted style version for a lane together with the
// simulation that justified it.
type StyleRecord struct {
	VersionID string
	ParentID  string
	Lane      string
	Style     style.Params
	Sim       simulate.Result
	CreatedAt time.Time
}

// #endregion style-record

// #region snapshot
// Snapshot is what a cycle starts from. LastSim is nil and VersionID empty
// when the lane has never accepted a style.
type Snapshot struct {
	VersionID string
	Style     style.Params
	LastSim   *simulate.Result
}

// #endregion snapshot
