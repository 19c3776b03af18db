package curve

import "math"

// #region state
// State is the physical state a style maps onto before scoring.
type State struct {
	IStar float64 // integration ceiling
	K     float64 // stress load
	W     float64 // work / energy
	Gamma float64 // learning pressure
	Eps   float64 // entropy / fragmentation
	Ic    float64 // baseline integration constant
}

// BaselineIc is the fixed integration baseline carried by every State.
const BaselineIc = 1.0

// #endregion state

// #region terrynce-value
// TerrynceValue scores a state: max(0, I*-K) * max(0,W)^gamma * (1 - clamp(eps, 0, 1)).
// The result is never negative and is zero when K >= I*, W == 0 or eps >= 1.
func TerrynceValue(s State) float64 {
	kTerm := math.Max(0, s.IStar-s.K)
	work := workPow(math.Max(0, s.W), s.Gamma)
	return kTerm * work * (1.0 - clamp(s.Eps, 0, 1))
}

// workPow is math.Pow with a zero base pinned to 1 for gamma == 0 and 0 otherwise,
// so a negative gamma cannot produce +Inf.
func workPow(w, gamma float64) float64 {
	if w == 0 {
		if gamma == 0 {
			return 1
		}
		return 0
	}
	return math.Pow(w, gamma)
}

// #endregion terrynce-value

// #region phi-star
// Default PhiStar coefficients.
const (
	DefaultAK = 0.6
	DefaultAE = 0.7
)

// PhiStar returns Ic / max(1e-9, 1 + aK*max(0,K) + aE*max(0,eps)) + delta.
func PhiStar(s State, aK, aE, delta float64) float64 {
	denom := 1.0 + aK*math.Max(0, s.K) + aE*math.Max(0, s.Eps)
	return s.Ic/math.Max(1e-9, denom) + delta
}

// PhiStarDefault is PhiStar with the default coefficients and no offset.
func PhiStarDefault(s State) float64 {
	return PhiStar(s, DefaultAK, DefaultAE, 0)
}

// #endregion phi-star

func clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}
