package style

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// #region params
// Params is the tunable control tuple for a lane.
type Params struct {
	Forgiveness float64  `json:"forgiveness" yaml:"forgiveness" validate:"gte=0.02,lte=0.30"`
	Smoothing   float64  `json:"smoothing" yaml:"smoothing" validate:"gte=0.05,lte=0.40"`
	ReflexOrder []string `json:"reflex_order" yaml:"reflex_order" validate:"len=3,unique,dive,required"`
	VKDDiscount float64  `json:"vkd_discount" yaml:"vkd_discount" validate:"gte=0.20,lte=0.90"`
}

// Clone returns a copy that shares no backing array with p.
func (p Params) Clone() Params {
	out := p
	out.ReflexOrder = append([]string(nil), p.ReflexOrder...)
	return out
}

// #endregion params

// #region bounds
// Knob describes one numeric style field's perturbation step and bounds.
type Knob struct {
	Name string
	Step float64
	Lo   float64
	Hi   float64
}

// Knobs lists the numeric fields in proposal order.
var Knobs = []Knob{
	{Name: "forgiveness", Step: 0.02, Lo: 0.02, Hi: 0.30},
	{Name: "smoothing", Step: 0.05, Lo: 0.05, Hi: 0.40},
	{Name: "vkd_discount", Step: 0.05, Lo: 0.20, Hi: 0.90},
}

// #endregion bounds

// #region default
// Default returns the seed style used when a lane has no accepted version.
func Default() Params {
	return Params{
		Forgiveness: 0.10,
		Smoothing:   0.20,
		ReflexOrder: []string{"rollback", "rules_first", "retune"},
		VKDDiscount: 0.50,
	}
}

// #endregion default

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks bounds and the reflex order shape.
func Validate(p Params) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid style: %w", err)
	}
	return nil
}
