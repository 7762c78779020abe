// Package tween interpolates a value over a fixed duration with an easing
// curve. Tweens are advanced by frame deltas and run alongside scene scripts
// without blocking them.
package tween

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidDuration = errors.New("tween: duration must be a positive finite number of seconds")

// Tween calls OnStep with the eased value on every advance until the duration
// has elapsed. The final call always receives To exactly.
type Tween struct {
	from, to float64
	duration float64
	elapsed  float64
	ease     EaseFunc
	onStep   func(float64)
	value    float64
	done     bool
	canceled bool
}

// New creates a tween from from to to over duration seconds. A nil ease means Linear.
func New(from, to, duration float64, ease EaseFunc, onStep func(float64)) (*Tween, error) {
	if !(duration > 0) || math.IsInf(duration, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidDuration, duration)
	}
	if ease == nil {
		ease = Linear
	}
	return &Tween{
		from:     from,
		to:       to,
		duration: duration,
		ease:     ease,
		onStep:   onStep,
		value:    from,
	}, nil
}

// Advance moves the tween forward by dt seconds and reports whether it has finished.
func (t *Tween) Advance(dt float64) bool {
	if t.done || t.canceled {
		return true
	}
	if !(dt > 0) {
		return false
	}

	t.elapsed = math.Min(t.elapsed+dt, t.duration)
	if t.elapsed >= t.duration {
		t.value = t.to
		t.done = true
	} else {
		t.value = Lerp(t.from, t.to, t.ease(t.elapsed/t.duration))
	}

	if t.onStep != nil {
		t.onStep(t.value)
	}
	return t.done
}

// Cancel stops the tween where it is. OnStep is not called again.
func (t *Tween) Cancel() bool {
	if t.done || t.canceled {
		return false
	}
	t.canceled = true
	return true
}

func (t *Tween) Value() float64 {
	return t.value
}

// Done reports whether the tween reached its end value.
func (t *Tween) Done() bool {
	return t.done
}

func (t *Tween) Canceled() bool {
	return t.canceled
}

// Finished reports whether the tween will not step again.
func (t *Tween) Finished() bool {
	return t.done || t.canceled
}

// Progress returns elapsed time as a fraction of the duration.
func (t *Tween) Progress() float64 {
	return t.elapsed / t.duration
}

func (t *Tween) Duration() float64 {
	return t.duration
}
