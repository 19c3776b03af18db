package law

// #region spec
// Spec is the static rule set a candidate style is judged against.
// It is loaded once per cycle and never mutated.
type Spec struct {
	Budget    Budget    `json:"budget" yaml:"budget"`
	Bend      Bend      `json:"bend" yaml:"bend"`
	Benchmark Benchmark `json:"benchmark" yaml:"benchmark"`
	Exception Exception `json:"exception" yaml:"exception"`
	Weights   Weights   `json:"weights" yaml:"weights"`
}

// Budget bounds the integration load: Ic must stay at or below K*AMB.
type Budget struct {
	K   float64 `json:"k" yaml:"k" validate:"gt=0"`
	AMB float64 `json:"AMB" yaml:"AMB" validate:"gt=0"`
}

// Bend holds the curvature threshold; kappa must stay strictly below KappaC.
type Bend struct {
	KappaC float64 `json:"kappa_c" yaml:"kappa_c" validate:"gt=0"`
}

// Benchmark holds the emergence ceilings.
type Benchmark struct {
	MaxFalseGreen          float64 `json:"max_false_green" yaml:"max_false_green" validate:"gte=0"`
	MaxFlapIndex           float64 `json:"max_flap_index" yaml:"max_flap_index" validate:"gte=0"`
	TargetRecoveryHalflife int     `json:"target_recovery_halflife" yaml:"target_recovery_halflife" validate:"gte=1"`
}

// Exception holds the tolerated exception rate.
type Exception struct {
	TargetRate float64 `json:"target_rate" yaml:"target_rate" validate:"gte=0"`
}

// Weights are the objective coefficients.
type Weights struct {
	WRecognition    float64 `json:"w_recognition" yaml:"w_recognition" validate:"gte=0"`
	WAlignment      float64 `json:"w_alignment" yaml:"w_alignment" validate:"gte=0"`
	LambdaFlap      float64 `json:"lambda_flap" yaml:"lambda_flap" validate:"gte=0"`
	LambdaException float64 `json:"lambda_exception" yaml:"lambda_exception" validate:"gte=0"`
}

// #endregion spec

// #region raw-spec
// rawSpec mirrors Spec with pointer leaves so a missing key is told apart
// from an explicit zero.
type rawSpec struct {
	Budget *struct {
		K   *float64 `yaml:"k" validate:"required"`
		AMB *float64 `yaml:"AMB" validate:"required"`
	} `yaml:"budget" validate:"required"`
	Bend *struct {
		KappaC *float64 `yaml:"kappa_c" validate:"required"`
	} `yaml:"bend" validate:"required"`
	Benchmark *struct {
		MaxFalseGreen          *float64 `yaml:"max_false_green" validate:"required"`
		MaxFlapIndex           *float64 `yaml:"max_flap_index" validate:"required"`
		TargetRecoveryHalflife *int     `yaml:"target_recovery_halflife" validate:"required"`
	} `yaml:"benchmark" validate:"required"`
	Exception *struct {
		TargetRate *float64 `yaml:"target_rate" validate:"required"`
	} `yaml:"exception" validate:"required"`
	Weights *struct {
		WRecognition    *float64 `yaml:"w_recognition" validate:"required"`
		WAlignment      *float64 `yaml:"w_alignment" validate:"required"`
		LambdaFlap      *float64 `yaml:"lambda_flap" validate:"required"`
		LambdaException *float64 `yaml:"lambda_exception" validate:"required"`
	} `yaml:"weights" validate:"required"`
}

// spec copies a presence-checked rawSpec into a Spec.
func (r rawSpec) spec() Spec {
	return Spec{
		Budget:    Budget{K: *r.Budget.K, AMB: *r.Budget.AMB},
		Bend:      Bend{KappaC: *r.Bend.KappaC},
		Benchmark: Benchmark{MaxFalseGreen: *r.Benchmark.MaxFalseGreen, MaxFlapIndex: *r.Benchmark.MaxFlapIndex, TargetRecoveryHalflife: *r.Benchmark.TargetRecoveryHalflife},
		Exception: Exception{TargetRate: *r.Exception.TargetRate},
		Weights: Weights{
			WRecognition:    *r.Weights.WRecognition,
			WAlignment:      *r.Weights.WAlignment,
			LambdaFlap:      *r.Weights.LambdaFlap,
			LambdaException: *r.Weights.LambdaException,
		},
	}
}

// #endregion raw-spec

// #region default-spec
// DefaultSpec returns the canon shipped with the coach. It is used to seed a
// fresh canon file and by tests; production cycles always load from disk.
func DefaultSpec() Spec {
	return Spec{
		Budget:    Budget{K: 1.0, AMB: 1.0},
		Bend:      Bend{KappaC: 0.9},
		Benchmark: Benchmark{MaxFalseGreen: 0.05, MaxFlapIndex: 0.20, TargetRecoveryHalflife: 3},
		Exception: Exception{TargetRate: 0.03},
		Weights:   Weights{WRecognition: 0.5, WAlignment: 0.5, LambdaFlap: 0.3, LambdaException: 0.5},
	}
}

// #endregion default-spec
