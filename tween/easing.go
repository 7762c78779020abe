package tween

import "math"

// EaseFunc maps linear progress t in [0, 1] to eased progress.
// Every ease satisfies f(0) = 0 and f(1) = 1.
type EaseFunc func(t float64) float64

func Linear(t float64) float64 {
	return t
}

func InQuad(t float64) float64 {
	return t * t
}

func OutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

func InOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

func InCubic(t float64) float64 {
	return t * t * t
}

// OutCubic starts fast and slows into the target.
func OutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

func InOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func OutExpo(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

func InOutSine(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// ByName resolves the ease names accepted in deck files.
func ByName(name string) (EaseFunc, bool) {
	ease, ok := eases[name]
	return ease, ok
}

var eases = map[string]EaseFunc{
	"linear":       Linear,
	"in-quad":      InQuad,
	"out-quad":     OutQuad,
	"in-out-quad":  InOutQuad,
	"in-cubic":     InCubic,
	"out-cubic":    OutCubic,
	"in-out-cubic": InOutCubic,
	"out-expo":     OutExpo,
	"in-out-sine":  InOutSine,
}

// Lerp interpolates between a and b; t = 0 yields a and t = 1 yields b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
