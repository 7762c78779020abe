// Package scene sequences a presentation timeline. A Script is an ordered
// list of steps; a Runner executes it cooperatively, suspending on durations
// and input events while movers, emitters and tweens keep animating.
package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/plus3/slidedeck/event"
	"github.com/plus3/slidedeck/tween"
)

var (
	ErrAlreadySuspended = errors.New("scene: script already has a pending suspension")
	ErrInvalidStep      = errors.New("scene: invalid step")
	ErrStopped          = errors.New("scene: run is stopped")
)

type StepKind int

const (
	StepEffect StepKind = iota
	StepWaitDuration
	StepWaitEvent
	StepParallelTween
)

func (k StepKind) String() string {
	switch k {
	case StepEffect:
		return "effect"
	case StepWaitDuration:
		return "wait-duration"
	case StepWaitEvent:
		return "wait-event"
	case StepParallelTween:
		return "parallel-tween"
	default:
		return fmt.Sprintf("StepKind(%d)", int(k))
	}
}

// Waiter is a pending single-shot suspension. event.Pending satisfies it.
type Waiter interface {
	Done() bool
	Cancel() bool
}

// TweenSpec describes a tween started by a ParallelTween step. An empty
// Target runs the tween on the runner itself, so it lives until the script is
// stopped.
type TweenSpec struct {
	Target   string
	From, To float64
	Duration float64
	Ease     tween.EaseFunc
	OnStep   func(ctx *Context, value float64)
}

// Step is one entry of a Script. Only the fields of its Kind are used.
type Step struct {
	Kind     StepKind
	Label    string
	Effect   func(ctx *Context)
	Duration float64
	Wait     func(ctx *Context) Waiter
	Tween    TweenSpec
}

// Script is an ordered list of steps. Scripts are plain data and may be run
// any number of times, each run by its own Runner.
type Script struct {
	Name  string
	Steps []Step
}

// New starts an empty script.
func New(name string) *Script {
	return &Script{Name: name}
}

// Do appends an effect step.
func (s *Script) Do(effect func(ctx *Context)) *Script {
	return s.add(Step{Kind: StepEffect, Effect: effect})
}

// Wait suspends the script for seconds of tick time.
func (s *Script) Wait(seconds float64) *Script {
	return s.add(Step{Kind: StepWaitDuration, Label: fmt.Sprintf("%gs", seconds), Duration: seconds})
}

// WaitClick suspends until the next click.
func (s *Script) WaitClick() *Script {
	return s.WaitFor("click", func(ctx *Context) Waiter {
		return event.WaitOnce(ctx.Stage.Input.Clicks)
	})
}

// WaitKey suspends until one of keys is pressed, or any key when none are given.
func (s *Script) WaitKey(keys ...event.Key) *Script {
	label := "key"
	if len(keys) > 0 {
		label = fmt.Sprintf("key %v", keys)
	}
	return s.WaitFor(label, func(ctx *Context) Waiter {
		return event.WaitOnceFunc(ctx.Stage.Input.Keys, event.AnyKey(keys...))
	})
}

// WaitFor suspends on the waiter returned by wait, which is called when the
// step is reached.
func (s *Script) WaitFor(label string, wait func(ctx *Context) Waiter) *Script {
	return s.add(Step{Kind: StepWaitEvent, Label: label, Wait: wait})
}

// Tween starts a tween and moves on without waiting for it.
func (s *Script) Tween(spec TweenSpec) *Script {
	return s.add(Step{Kind: StepParallelTween, Label: spec.Target, Tween: spec})
}

// Fade tweens the alpha of the named entity.
func (s *Script) Fade(target string, from, to, duration float64) *Script {
	return s.Tween(TweenSpec{
		Target:   target,
		From:     from,
		To:       to,
		Duration: duration,
		Ease:     tween.InOutSine,
		OnStep: func(ctx *Context, v float64) {
			ctx.Entity(target).SetAlpha(v)
		},
	})
}

func (s *Script) add(step Step) *Script {
	s.Steps = append(s.Steps, step)
	return s
}

// Validate checks every step for the fields its kind needs.
func (s *Script) Validate() error {
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("script %q step %d (%s): %w", s.Name, i, step.Kind, err)
		}
	}
	return nil
}

func (st Step) validate() error {
	switch st.Kind {
	case StepEffect:
		if st.Effect == nil {
			return fmt.Errorf("%w: nil effect", ErrInvalidStep)
		}
	case StepWaitDuration:
		if !(st.Duration >= 0) || math.IsInf(st.Duration, 0) {
			return fmt.Errorf("%w: duration %v", ErrInvalidStep, st.Duration)
		}
	case StepWaitEvent:
		if st.Wait == nil {
			return fmt.Errorf("%w: nil waiter", ErrInvalidStep)
		}
	case StepParallelTween:
		if !(st.Tween.Duration > 0) || math.IsInf(st.Tween.Duration, 0) {
			return fmt.Errorf("%w: got %v", tween.ErrInvalidDuration, st.Tween.Duration)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidStep, int(st.Kind))
	}
	return nil
}
