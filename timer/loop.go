// Package timer provides the repeating, cancelable actions that emitters
// attach to their owning entities.
package timer

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidInterval = errors.New("timer: interval must be a positive finite number of seconds")
	ErrNilAction       = errors.New("timer: action must not be nil")
)

// Loop fires an action once per elapsed interval. It is advanced explicitly
// with frame deltas and never runs on its own goroutine.
type Loop struct {
	interval float64
	action   func()
	elapsed  float64
	fired    int
	canceled bool
}

// Every schedules action to run after each full interval of advanced time.
// The first firing happens once the first interval has elapsed.
func Every(interval float64, action func()) (*Loop, error) {
	if !(interval > 0) || math.IsInf(interval, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidInterval, interval)
	}
	if action == nil {
		return nil, ErrNilAction
	}
	return &Loop{interval: interval, action: action}, nil
}

// Advance adds dt seconds to the loop and fires the action once for every
// interval boundary crossed. It returns the number of firings. The action may
// cancel its own loop, which stops any remaining catch-up firings.
func (l *Loop) Advance(dt float64) int {
	if l.canceled || !(dt > 0) || math.IsInf(dt, 0) {
		return 0
	}

	l.elapsed += dt
	n := 0
	for !l.canceled && l.elapsed >= l.interval {
		l.elapsed -= l.interval
		l.fired++
		n++
		l.action()
	}
	return n
}

// Cancel stops all future firings. It reports whether this call canceled the
// loop; canceling an already canceled loop is a no-op.
func (l *Loop) Cancel() bool {
	if l.canceled {
		return false
	}
	l.canceled = true
	l.action = nil
	return true
}

func (l *Loop) Canceled() bool {
	return l.canceled
}

// Fired returns how many times the action has run.
func (l *Loop) Fired() int {
	return l.fired
}

func (l *Loop) Interval() float64 {
	return l.interval
}

// Remaining returns the time left until the next firing.
func (l *Loop) Remaining() float64 {
	return l.interval - l.elapsed
}
