package simulate

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/law"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/style"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// constRand returns the same uniform for every draw.
type constRand float64

func (c constRand) Float64() float64 { return float64(c) }

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestStateFor(t *testing.T) {
	st := StateFor(style.Default())
	checks := []struct {
		name      string
		got, want float64
	}{
		{"IStar", st.IStar, 1.02},
		{"K", st.K, 0.70},
		{"W", st.W, 0.75},
		{"Gamma", st.Gamma, 1.04},
		{"Eps", st.Eps, 0.115},
		{"Ic", st.Ic, 1.0},
	}
	for _, c := range checks {
		if !near(c.got, c.want, 1e-12) {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, c.got)
		}
	}
}

func TestSimulateDefaultStyleNoNoise(t *testing.T) {
	res := Simulate(law.DefaultSpec(), style.Default(), "data/lane1/history.jsonl", constRand(0))

	if !res.Law.BudgetOK {
		t.Errorf("expected budget ok, Ic=%v", res.Law.Ic)
	}
	if !res.Law.BendOK {
		t.Errorf("expected bend ok, kappa=%v", res.Law.Kappa)
	}
	if res.Law.Ic != 0.635 {
		t.Errorf("Ic: expected 0.635, got %v", res.Law.Ic)
	}
	if res.Law.Kappa != 0.845 {
		t.Errorf("kappa: expected 0.845, got %v", res.Law.Kappa)
	}

	e := res.Emergence
	if e.FalseGreen != 0.02 {
		t.Errorf("false_green: expected 0.02, got %v", e.FalseGreen)
	}
	if e.FlapIndex != 0.135 {
		t.Errorf("flap_index: expected 0.135, got %v", e.FlapIndex)
	}
	if e.ExceptionRate != 0.01 {
		t.Errorf("exception_rate: expected 0.01, got %v", e.ExceptionRate)
	}
	if e.Recognition != 0.72 {
		t.Errorf("recognition: expected 0.72, got %v", e.Recognition)
	}
	if e.Alignment != 0.916 {
		t.Errorf("alignment: expected 0.916, got %v", e.Alignment)
	}
	if e.RecoveryHalflife < 2 || e.RecoveryHalflife > 3 {
		t.Errorf("recovery_halflife: expected 2 or 3, got %d", e.RecoveryHalflife)
	}
	// 0.5*0.72 + 0.5*0.916 - 0.3*0.135 - 0.5*0.01
	if !near(e.ObjectiveJ, 0.773, 0.0011) {
		t.Errorf("objective_J: expected ~0.773, got %v", e.ObjectiveJ)
	}
	if e.V <= 0 || e.PhiStar <= 0 {
		t.Errorf("expected positive V and phi, got V=%v phi=%v", e.V, e.PhiStar)
	}
}

func TestSimulateScenarioBudgetWithNoise(t *testing.T) {
	spec := law.DefaultSpec()
	spec.Budget = law.Budget{K: 1.0, AMB: 1.0}
	spec.Bend = law.Bend{KappaC: 0.9}

	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 200; i++ {
		res := Simulate(spec, style.Default(), "", rng)
		if !res.Law.BudgetOK {
			t.Fatalf("run %d: expected budget ok, Ic=%v", i, res.Law.Ic)
		}
		if res.Law.Ic < 0.635 || res.Law.Ic > 0.685 {
			t.Fatalf("run %d: Ic %v outside 0.635 + [0, 0.05]", i, res.Law.Ic)
		}
	}
}

func TestSimulateBudgetAndBendFail(t *testing.T) {
	spec := law.DefaultSpec()
	spec.Budget = law.Budget{K: 0.5, AMB: 1.0}
	spec.Bend = law.Bend{KappaC: 0.5}

	res := Simulate(spec, style.Default(), "", constRand(0.5))
	if res.Law.BudgetOK {
		t.Error("expected budget fail with k*AMB=0.5")
	}
	if res.Law.BendOK {
		t.Error("expected bend fail with kappa_c=0.5")
	}
	if res.Law.K != 0.5 || res.Law.AMB != 1.0 || res.Law.KappaC != 0.5 {
		t.Errorf("law constants not echoed: %+v", res.Law)
	}
}

func TestSimulateBendIsStrict(t *testing.T) {
	spec := law.DefaultSpec()
	// kappa with no noise is exactly 0.845 for the default style
	spec.Bend.KappaC = 0.40 + 0.40*(1.0-0.20) + 0.25*0.10 + 0.20*0.50
	res := Simulate(spec, style.Default(), "", constRand(0))
	if res.Law.BendOK {
		t.Fatal("kappa equal to kappa_c must fail the bend check")
	}
}

func TestSimulateExtremeStyleClamps(t *testing.T) {
	p := style.Params{Forgiveness: 0.30, Smoothing: 0.05, ReflexOrder: style.Default().ReflexOrder, VKDDiscount: 0.90}
	res := Simulate(law.DefaultSpec(), p, "", constRand(0.999))
	e := res.Emergence
	if e.FalseGreen > MaxFalseGreen {
		t.Errorf("false_green %v exceeds %v", e.FalseGreen, MaxFalseGreen)
	}
	if e.FlapIndex > MaxFlapIndex {
		t.Errorf("flap_index %v exceeds %v", e.FlapIndex, MaxFlapIndex)
	}
	if e.ExceptionRate > MaxExceptionRate {
		t.Errorf("exception_rate %v exceeds %v", e.ExceptionRate, MaxExceptionRate)
	}
	if e.RecoveryHalflife < 1 {
		t.Errorf("recovery_halflife %d below 1", e.RecoveryHalflife)
	}
}

func TestSimulateRecognitionPeak(t *testing.T) {
	p := style.Params{Forgiveness: 0.14, Smoothing: 0.22, ReflexOrder: style.Default().ReflexOrder, VKDDiscount: 0.5}
	res := Simulate(law.DefaultSpec(), p, "", constRand(0))
	if res.Emergence.Recognition != 1 {
		t.Fatalf("expected recognition 1 at the peak, got %v", res.Emergence.Recognition)
	}
}

func TestSimulateObjectiveCanBeNegative(t *testing.T) {
	spec := law.DefaultSpec()
	spec.Weights = law.Weights{WRecognition: 0, WAlignment: 0, LambdaFlap: 5, LambdaException: 5}
	res := Simulate(spec, style.Default(), "", constRand(0.5))
	if res.Emergence.ObjectiveJ >= 0 {
		t.Fatalf("expected negative objective, got %v", res.Emergence.ObjectiveJ)
	}
}

func TestSimulateSeededReproducible(t *testing.T) {
	a := Simulate(law.DefaultSpec(), style.Default(), "", rand.New(rand.NewPCG(1, 2)))
	b := Simulate(law.DefaultSpec(), style.Default(), "", rand.New(rand.NewPCG(1, 2)))
	if a != b {
		t.Fatalf("same seed produced different results:\n%+v\n%+v", a, b)
	}
}

func TestEmergenceRangesProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("emergence metrics stay in range", prop.ForAll(
		func(f, s, v, u float64) bool {
			p := style.Params{Forgiveness: f, Smoothing: s, ReflexOrder: style.Default().ReflexOrder, VKDDiscount: v}
			e := Simulate(law.DefaultSpec(), p, "", constRand(u)).Emergence
			return e.FalseGreen >= 0 && e.FalseGreen <= MaxFalseGreen &&
				e.FlapIndex >= 0 && e.FlapIndex <= MaxFlapIndex &&
				e.ExceptionRate >= 0 && e.ExceptionRate <= MaxExceptionRate &&
				e.RecoveryHalflife >= 1 &&
				e.Recognition >= 0 && e.Recognition <= 1 &&
				e.Alignment >= 0 && e.Alignment <= 1 &&
				e.V >= 0
		},
		gen.Float64Range(0.02, 0.30),
		gen.Float64Range(0.05, 0.40),
		gen.Float64Range(0.20, 0.90),
		gen.Float64Range(0, 0.999999),
	))

	properties.TestingRun(t)
}
