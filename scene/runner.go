package scene

import (
	"fmt"

	"github.com/plus3/slidedeck/ecs"
	"github.com/plus3/slidedeck/stage"
	"github.com/plus3/slidedeck/stagelog"
)

type State int

const (
	Idle State = iota
	Running
	Suspended
	Completed
	// Stopped is reached when a run is torn down, completed or not.
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Suspended:
		return "suspended"
	case Completed:
		return "completed"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type suspension struct {
	label    string
	waiter   Waiter
	duration float64
	elapsed  float64
}

func (s *suspension) ready(dt float64) bool {
	if s.waiter != nil {
		return s.waiter.Done()
	}
	s.elapsed += dt
	return s.elapsed >= s.duration
}

// Driver marks the entity that drives a Runner. The scene System updates
// every runner found on the stage.
type Driver struct {
	*Runner
}

type RunnerOptions struct {
	Logger stagelog.Logger
}

// Runner executes one run of a Script. It holds at most one pending
// suspension; while suspended, the rest of the stage keeps ticking. A
// suspension is checked once per tick, so a script resumed by an event runs
// its next effects on the tick after the event, once every mover has moved.
type Runner struct {
	script  *Script
	stage   *stage.Stage
	ctx     *Context
	log     stagelog.Logger
	state   State
	pc      int
	pending *suspension
	entity  *stage.Entity
}

// NewRunner validates script and prepares a run on st.
func NewRunner(st *stage.Stage, script *Script, opts RunnerOptions) (*Runner, error) {
	if err := script.Validate(); err != nil {
		return nil, err
	}
	Install(st)

	log := opts.Logger
	if log == nil {
		log = st.Log
	}
	log = stagelog.With(log, "scene", script.Name)

	r := &Runner{script: script, stage: st, log: log}
	r.ctx = newContext(st, r, log)
	return r, nil
}

func (r *Runner) Script() *Script {
	return r.script
}

func (r *Runner) State() State {
	return r.state
}

func (r *Runner) Context() *Context {
	return r.ctx
}

// Step returns the index of the next step to run.
func (r *Runner) Step() int {
	return r.pc
}

// Waiting returns the label of the pending suspension.
func (r *Runner) Waiting() (string, bool) {
	if r.pending == nil {
		return "", false
	}
	return r.pending.label, true
}

// Done reports whether the runner reached a terminal state.
func (r *Runner) Done() bool {
	return r.state == Completed || r.state == Stopped
}

// self returns the entity that drives this runner and owns its free-standing tweens.
func (r *Runner) self() *stage.Entity {
	if r.state == Stopped {
		panic(fmt.Errorf("%w: script %q has no driver entity", ErrStopped, r.script.Name))
	}
	if r.entity == nil || !r.entity.Alive() {
		r.entity = r.stage.Spawn(Driver{Runner: r}, stage.Tweens{})
	}
	return r.entity
}

// Start runs the script from the first step up to its first suspension.
// It panics if the runner was already started.
func (r *Runner) Start() {
	if r.state != Idle {
		panic(fmt.Sprintf("scene: cannot start script %q in state %s", r.script.Name, r.state))
	}
	r.self()
	r.log.Debug("scene started", "steps", len(r.script.Steps))
	r.run()
}

// Update advances a pending suspension by dt and resumes the script if it resolved.
func (r *Runner) Update(dt float64) {
	if r.state != Suspended || r.pending == nil {
		return
	}
	if !r.pending.ready(dt) {
		return
	}
	r.log.Debug("scene resumed", "step", r.pc, "wait", r.pending.label)
	r.pending = nil
	r.run()
}

func (r *Runner) run() {
	r.state = Running
	steps := r.script.Steps
	for r.pc < len(steps) {
		step := steps[r.pc]
		r.pc++

		switch step.Kind {
		case StepEffect:
			step.Effect(r.ctx)
		case StepWaitDuration:
			r.suspend(&suspension{label: step.Label, duration: step.Duration})
		case StepWaitEvent:
			w := step.Wait(r.ctx)
			if w == nil {
				panic(fmt.Errorf("%w: script %q step %d returned no waiter", ErrInvalidStep, r.script.Name, r.pc-1))
			}
			r.suspend(&suspension{label: step.Label, waiter: w})
		case StepParallelTween:
			r.startTween(step.Tween)
		}

		if r.state == Stopped {
			return
		}
		if r.pending != nil {
			r.state = Suspended
			r.log.Debug("scene suspended", "step", r.pc, "wait", r.pending.label)
			return
		}
	}

	r.state = Completed
	r.log.Debug("scene completed")
}

func (r *Runner) suspend(s *suspension) {
	if r.pending != nil {
		panic(fmt.Errorf("%w: script %q step %d waits on %q", ErrAlreadySuspended, r.script.Name, r.pc-1, r.pending.label))
	}
	if r.state != Running {
		panic(fmt.Errorf("%w: script %q cannot suspend while %s", ErrInvalidStep, r.script.Name, r.state))
	}
	r.pending = s
}

func (r *Runner) startTween(spec TweenSpec) {
	owner := r.self()
	if spec.Target != "" {
		owner = r.ctx.Entity(spec.Target)
	}

	var onStep func(float64)
	if spec.OnStep != nil {
		onStep = func(v float64) { spec.OnStep(r.ctx, v) }
	}
	if _, err := owner.Tween(spec.From, spec.To, spec.Duration, spec.Ease, onStep); err != nil {
		// Validate rejects bad durations, so this is a destroyed target.
		panic(fmt.Errorf("scene: script %q tween on %q: %w", r.script.Name, spec.Target, err))
	}
}

// Stop tears the run down: the pending waiter is canceled without resolving,
// and every entity the run created is destroyed along with its loops, tweens
// and mover. Stop reports whether the runner was not already stopped.
func (r *Runner) Stop() bool {
	if r.state == Stopped {
		return false
	}
	if r.pending != nil && r.pending.waiter != nil {
		r.pending.waiter.Cancel()
	}
	r.pending = nil

	prev := r.state
	r.state = Stopped
	r.ctx.teardown()
	if r.entity != nil {
		r.entity.Destroy()
	}
	r.log.Debug("scene stopped", "from", prev.String(), "step", r.pc)
	return true
}

// System updates every runner on the stage. Register it after the stage's
// own systems so resumed scripts observe the moved state of the tick.
type System struct {
	Runners ecs.Query[struct {
		ecs.EntityId
		*Driver
	}]
}

func (s *System) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Runners.Iter() {
		if !frame.Storage.Alive(item.EntityId) || item.Runner == nil {
			continue
		}
		item.Update(frame.DeltaTime)
	}
}

type installed struct{}

// Install registers the runner component and System on st. It is a no-op
// after the first call.
func Install(st *stage.Stage) {
	var marker *installed
	if st.Storage.ReadSingleton(&marker) {
		return
	}
	ecs.RegisterComponent[Driver](st.Storage.Registry())
	st.Storage.AddSingleton(installed{})
	st.Register(&System{})
}
