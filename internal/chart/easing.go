package chart

import (
	"fmt"
	"math"
	"sort"
)

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(t float64) float64

var easings = map[string]Easing{
	"linear":        Linear,
	"easeOutQuart":  EaseOutQuart,
	"easeInOutQuad": EaseInOutQuad,
	"easeOutCubic":  EaseOutCubic,
}

func Linear(t float64) float64 { return t }

func EaseOutQuart(t float64) float64 {
	t--
	return -(t*t*t*t - 1)
}

func EaseOutCubic(t float64) float64 {
	t--
	return t*t*t + 1
}

func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// EasingByName looks up a named easing.
func EasingByName(name string) (Easing, error) {
	e, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing: %s", name)
	}
	return e, nil
}

func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for n := range easings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Progress returns the eased value of step out of steps, clamped to [0, 1].
func Progress(e Easing, step, steps int) float64 {
	if steps <= 0 {
		return 1
	}
	t := math.Min(1, math.Max(0, float64(step)/float64(steps)))
	return e(t)
}
