package simulate

import (
	"math"

	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/curve"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/law"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/style"
)

// Rand supplies uniform draws in [0, 1). *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// #region state-mapping
// StateFor maps a style onto the physical state the curve scores.
// More forgiveness lifts the ceiling and entropy, less smoothing adds load,
// a lower discount improves work potential, more smoothing adds pressure.
func StateFor(p style.Params) curve.State {
	f, s, v := p.Forgiveness, p.Smoothing, p.VKDDiscount
	return curve.State{
		IStar: 1.0 + 0.2*f,
		K:     0.3 + 0.5*(1.0-s),
		W:     0.7 + 0.1*(1.0-v),
		Gamma: 1.0 + 0.2*s,
		Eps:   0.10 + 0.15*f,
		Ic:    curve.BaselineIc,
	}
}

// #endregion state-mapping

// #region simulate
// Simulate scores a candidate style for one lane. history names the lane's
// history data; it is carried for callers and does not feed the scores.
// Uniform draws are taken in a fixed order (Ic, kappa, false_green, flap,
// halflife, exception) so a seeded rng reproduces a run exactly.
func Simulate(spec law.Spec, p style.Params, history string, rng Rand) Result {
	f, s, v := p.Forgiveness, p.Smoothing, p.VKDDiscount

	st := StateFor(p)
	value := curve.TerrynceValue(st)
	phi := curve.PhiStarDefault(st)

	ic := 0.30 + 0.6*f + 0.25*(1.0-s) + 0.15*v + 0.05*rng.Float64()
	kappa := 0.40 + 0.40*(1.0-s) + 0.25*f + 0.20*v + 0.05*rng.Float64()

	budgetOK := ic <= spec.Budget.K*spec.Budget.AMB
	bendOK := kappa < spec.Bend.KappaC

	falseGreen := clamp(0.01+0.25*(f-0.10)+0.10*(0.30-s)+0.02*rng.Float64(), 0, MaxFalseGreen)
	flap := clamp(0.05+0.30*(0.40-s)+0.05*v+0.02*rng.Float64(), 0, MaxFlapIndex)

	rec := 2 + 4*s - 3*f + 1.5*(0.5-v) + rng.Float64()
	halflife := max(1, int(math.RoundToEven(rec)))

	exception := clamp(0.01+0.10*(f-0.10)+0.02*rng.Float64(), 0, MaxExceptionRate)

	recognition := clamp(1.0-math.Abs(f-0.14)/0.20-math.Abs(s-0.22)/0.25, 0, 1)
	alignment := clamp(1.0-2.2*falseGreen-4.0*exception, 0, 1)

	w := spec.Weights
	objective := w.WRecognition*recognition +
		w.WAlignment*alignment -
		w.LambdaFlap*flap -
		w.LambdaException*exception

	return Result{
		Law: LawMetrics{
			BudgetOK: budgetOK,
			BendOK:   bendOK,
			Ic:       round(ic, 3),
			AMB:      spec.Budget.AMB,
			K:        spec.Budget.K,
			Kappa:    round(kappa, 3),
			KappaC:   spec.Bend.KappaC,
		},
		Emergence: Emergence{
			V:                round(value, 4),
			PhiStar:          round(phi, 4),
			Recognition:      round(recognition, 3),
			Alignment:        round(alignment, 3),
			FalseGreen:       round(falseGreen, 3),
			FlapIndex:        round(flap, 3),
			RecoveryHalflife: halflife,
			ExceptionRate:    round(exception, 3),
			ObjectiveJ:       round(objective, 3),
		},
	}
}

// #endregion simulate

// #region helpers
func clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}

func round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

// #endregion helpers
