package replay

import (
	"fmt"
	"os"

	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/gate"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/law"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/style"
	"gopkg.in/yaml.v3"
)

// #region fixture-types

// Fixture is a recorded replay scenario: a canon, a seed, and the verdicts
// the scenario must produce.
type Fixture struct {
	Description     string                  `json:"description" yaml:"description"`
	Lane            string                  `json:"lane" yaml:"lane"`
	Seed            uint64                  `json:"seed" yaml:"seed"`
	Cycles          int                     `json:"cycles" yaml:"cycles"`
	StartStyle      *style.Params           `json:"start_style,omitempty" yaml:"start_style,omitempty"`
	Law             law.Spec                `json:"law" yaml:"law"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results" yaml:"expected_results"`
}

// FixtureExpectedResult pins one cycle. Reason, when set, must be among the
// cycle's reason codes.
type FixtureExpectedResult struct {
	Cycle   int             `json:"cycle" yaml:"cycle"`
	Verdict gate.Status     `json:"verdict" yaml:"verdict"`
	Reason  gate.ReasonCode `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON or YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if f.Lane == "" {
		f.Lane = "replay"
	}
	return &f, nil
}

// ToConfig converts a Fixture to a replay Config.
func (f *Fixture) ToConfig() Config {
	cfg := Config{
		Lane:   f.Lane,
		Cycles: f.Cycles,
		Seed:   f.Seed,
		Law:    f.Law,
	}
	if f.StartStyle != nil {
		start := f.StartStyle.Clone()
		cfg.Start = &start
	}
	return cfg
}

// Check compares results against the fixture's expectations and returns one
// message per mismatch.
func (f *Fixture) Check(results []CycleResult) []string {
	var problems []string
	for _, want := range f.ExpectedResults {
		if want.Cycle < 1 || want.Cycle > len(results) {
			problems = append(problems, fmt.Sprintf("cycle %d: not replayed", want.Cycle))
			continue
		}
		got := results[want.Cycle-1]
		if got.Verdict.Status != want.Verdict {
			problems = append(problems, fmt.Sprintf("cycle %d: expected %s, got %s (%s)",
				want.Cycle, want.Verdict, got.Verdict.Status, got.Verdict.Joined()))
		}
		if want.Reason != "" && !hasReason(got.Verdict, want.Reason) {
			problems = append(problems, fmt.Sprintf("cycle %d: expected reason %s, got %q",
				want.Cycle, want.Reason, got.Verdict.Joined()))
		}
	}
	return problems
}

func hasReason(v gate.Verdict, code gate.ReasonCode) bool {
	for _, r := range v.Reasons {
		if r.Code == code {
			return true
		}
	}
	return false
}

// #endregion fixture-loader
