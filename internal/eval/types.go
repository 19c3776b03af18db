package eval

// #region eval-config
// EvalConfig holds the slack used when auditing persisted versions.
type EvalConfig struct {
	StepTolerance float64 // allowed drift when comparing a knob move to its step
}

// DefaultEvalConfig returns the audit defaults.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		StepTolerance: 1e-6,
	}
}

// #endregion eval-config

// #region eval-metric
// EvalMetric captures a single audit check: how many items it covered and
// how many failed.
type EvalMetric struct {
	Name    string   `json:"name"`
	Checked int      `json:"checked"`
	Failed  int      `json:"failed"`
	Pass    bool     `json:"pass"`
	Details []string `json:"details,omitempty"`
}

// #endregion eval-metric

// #region eval-result
// EvalResult is the output of an audit run.
type EvalResult struct {
	Passed  bool         `json:"passed"`
	Metrics []EvalMetric `json:"metrics"`
	Reason  string       `json:"reason"`
}

// #endregion eval-result
