// Package easing maps linear animation progress onto eased progress.
package easing

import (
	"fmt"
	"math"
	"strings"

	"github.com/fogleman/ease"
)

// Easing identifies one curve of the catalog. The zero value is Smooth.
type Easing int

const (
	Smooth Easing = iota
	Linear
	EaseInQuad
	EaseOutQuad
	EaseInOutQuad
	EaseInCubic
	EaseOutCubic
	EaseInOutCubic
	EaseInSine
	EaseOutSine
	EaseInOutSine
	EaseInExpo
	EaseOutExpo
	EaseInOutExpo
	EaseInBack
	EaseOutBack
	EaseOutElastic
	EaseOutBounce
	EaseInOutBounce
)

var names = map[Easing]string{
	Smooth:          "smooth",
	Linear:          "linear",
	EaseInQuad:      "ease_in_quad",
	EaseOutQuad:     "ease_out_quad",
	EaseInOutQuad:   "ease_in_out_quad",
	EaseInCubic:     "ease_in_cubic",
	EaseOutCubic:    "ease_out_cubic",
	EaseInOutCubic:  "ease_in_out_cubic",
	EaseInSine:      "ease_in_sine",
	EaseOutSine:     "ease_out_sine",
	EaseInOutSine:   "ease_in_out_sine",
	EaseInExpo:      "ease_in_expo",
	EaseOutExpo:     "ease_out_expo",
	EaseInOutExpo:   "ease_in_out_expo",
	EaseInBack:      "ease_in_back",
	EaseOutBack:     "ease_out_back",
	EaseOutElastic:  "ease_out_elastic",
	EaseOutBounce:   "ease_out_bounce",
	EaseInOutBounce: "ease_in_out_bounce",
}

var curves = map[Easing]func(float64) float64{
	Smooth:          smoothstep,
	Linear:          ease.Linear,
	EaseInQuad:      ease.InQuad,
	EaseOutQuad:     ease.OutQuad,
	EaseInOutQuad:   ease.InOutQuad,
	EaseInCubic:     ease.InCubic,
	EaseOutCubic:    ease.OutCubic,
	EaseInOutCubic:  ease.InOutCubic,
	EaseInSine:      ease.InSine,
	EaseOutSine:     ease.OutSine,
	EaseInOutSine:   ease.InOutSine,
	EaseInExpo:      ease.InExpo,
	EaseOutExpo:     ease.OutExpo,
	EaseInOutExpo:   ease.InOutExpo,
	EaseInBack:      ease.InBack,
	EaseOutBack:     outBack,
	EaseOutElastic:  ease.OutElastic,
	EaseOutBounce:   outBounce,
	EaseInOutBounce: ease.InOutBounce,
}

// Apply clamps t to [0,1] and returns the eased value. The endpoints are
// exact: Apply(0) == 0 and Apply(1) == 1 for every curve. Curves like
// EaseOutBack may leave [0,1] in between.
func (e Easing) Apply(t float64) float64 {
	if math.IsNaN(t) || t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	f, ok := curves[e]
	if !ok {
		f = smoothstep
	}
	return f(t)
}

func (e Easing) String() string {
	if n, ok := names[e]; ok {
		return n
	}
	return fmt.Sprintf("easing(%d)", int(e))
}

// Parse accepts the snake_case names produced by String, with or without the
// "ease_" prefix, and is case-insensitive. Empty input yields Smooth.
func Parse(name string) (Easing, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "-", "_")
	if key == "" {
		return Smooth, nil
	}
	for e, n := range names {
		if n == key || n == "ease_"+key {
			return e, nil
		}
	}
	return Smooth, fmt.Errorf("unknown easing %q", name)
}

// All lists the catalog in declaration order.
func All() []Easing {
	out := make([]Easing, 0, len(names))
	for e := Smooth; e <= EaseInOutBounce; e++ {
		out = append(out, e)
	}
	return out
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

func outBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	u := t - 1
	return 1 + c3*u*u*u + c1*u*u
}

func outBounce(t float64) float64 {
	const n1, d1 = 7.5625, 2.75
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}
