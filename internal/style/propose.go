package style

import "math"

// Rand is the randomness a proposal consumes. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// SwapProbability is the chance a proposal swaps the last two reflex labels.
const SwapProbability = 0.20

// #region propose
// Propose is a pure function of old and rng: each numeric knob moves one step
// up or down with equal probability, is clamped to its bounds and rounded to
// two decimals. Independently, the last two reflex labels are swapped with
// probability SwapProbability. old is not mutated.
func Propose(old Params, rng Rand) Params {
	next := old.Clone()
	for _, k := range Knobs {
		step := k.Step
		if rng.IntN(2) == 0 {
			step = -step
		}
		next.set(k.Name, Round2(clamp(old.get(k.Name)+step, k.Lo, k.Hi)))
	}

	if rng.Float64() < SwapProbability && len(next.ReflexOrder) >= 2 {
		n := len(next.ReflexOrder)
		next.ReflexOrder[n-1], next.ReflexOrder[n-2] = next.ReflexOrder[n-2], next.ReflexOrder[n-1]
	}
	return next
}

// #endregion propose

// #region helpers
func (p Params) get(name string) float64 {
	switch name {
	case "forgiveness":
		return p.Forgiveness
	case "smoothing":
		return p.Smoothing
	case "vkd_discount":
		return p.VKDDiscount
	}
	panic("style: unknown knob " + name)
}

func (p *Params) set(name string, v float64) {
	switch name {
	case "forgiveness":
		p.Forgiveness = v
	case "smoothing":
		p.Smoothing = v
	case "vkd_discount":
		p.VKDDiscount = v
	default:
		panic("style: unknown knob " + name)
	}
}

// Round2 rounds half away from zero to two decimals.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}

// #endregion helpers
