package simulate

// #region result
// LawMetrics reports the canon compliance of a simulated style.
type LawMetrics struct {
	BudgetOK bool    `json:"budget_ok"`
	BendOK   bool    `json:"bend_ok"`
	Ic       float64 `json:"Ic"`
	AMB      float64 `json:"AMB"`
	K        float64 `json:"k"`
	Kappa    float64 `json:"kappa"`
	KappaC   float64 `json:"kappa_c"`
}

// Emergence reports the proxy side-effect metrics and composite scores.
type Emergence struct {
	V                float64 `json:"V"`
	PhiStar          float64 `json:"phi_star"`
	Recognition      float64 `json:"recognition"`
	Alignment        float64 `json:"alignment"`
	FalseGreen       float64 `json:"false_green"`
	FlapIndex        float64 `json:"flap_index"`
	RecoveryHalflife int     `json:"recovery_halflife"`
	ExceptionRate    float64 `json:"exception_rate"`
	ObjectiveJ       float64 `json:"objective_J"`
}

// Result is one simulation of a candidate style. Numbers are rounded for
// reporting: V and PhiStar to 4 decimals, the rest to 3.
type Result struct {
	Law       LawMetrics `json:"law"`
	Emergence Emergence  `json:"emergence"`
}

// #endregion result

// #region ranges
// Emergence metric ceilings. Every metric is clamped to [0, ceiling].
const (
	MaxFalseGreen    = 0.20
	MaxFlapIndex     = 0.40
	MaxExceptionRate = 0.20
)

// #endregion ranges
