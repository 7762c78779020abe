package stage

import (
	"fmt"

	"github.com/plus3/slidedeck/ecs"
	"github.com/plus3/slidedeck/motion"
	"github.com/plus3/slidedeck/timer"
	"github.com/plus3/slidedeck/tween"
)

// Entity is a handle to a stage entity. Capabilities (mover, emitter loops,
// tweens) are attached by composition and released together with the entity.
type Entity struct {
	stage *Stage
	id    ecs.EntityId
}

func (e *Entity) ID() ecs.EntityId {
	return e.id
}

func (e *Entity) Stage() *Stage {
	return e.stage
}

func (e *Entity) Alive() bool {
	return e.stage.Storage.Alive(e.id)
}

func (e *Entity) mustBeAlive(op string) {
	if !e.Alive() {
		panic(fmt.Sprintf("stage: %s on destroyed entity %d", op, e.id.Index()))
	}
}

// Destroy deletes the entity now. Its loops and tweens are canceled and its
// mover stops updating before Destroy returns. Destroying twice is a no-op.
func (e *Entity) Destroy() bool {
	return e.stage.Storage.Delete(e.id)
}

// Add attaches or replaces a component.
func (e *Entity) Add(component any) *Entity {
	e.mustBeAlive("Add")
	e.stage.Storage.AddComponent(e.id, component)
	return e
}

// Position returns the drawn position, or the zero vector if the entity has none.
func (e *Entity) Position() motion.Vec2 {
	if p := ecs.ReadComponent[Position](e.stage.Storage, e.id); p != nil {
		return p.Vec()
	}
	return motion.Vec2{}
}

// SetPosition places the entity at p, teleporting its mover if it has one.
func (e *Entity) SetPosition(p motion.Vec2) {
	e.mustBeAlive("SetPosition")
	if m := e.Mover(); m != nil {
		m.Teleport(p)
	}
	e.stage.Storage.AddComponent(e.id, Position{X: p.X, Y: p.Y})
}

// AttachMover gives the entity a SmoothMover resting at its current position.
// An existing mover is replaced.
func (e *Entity) AttachMover(damping, speed float64) (*motion.SmoothMover, error) {
	e.mustBeAlive("AttachMover")
	m, err := motion.New(e.Position(), damping, speed)
	if err != nil {
		return nil, fmt.Errorf("attach mover: %w", err)
	}
	if ecs.ReadComponent[Position](e.stage.Storage, e.id) == nil {
		e.stage.Storage.AddComponent(e.id, Position{})
	}
	e.stage.Storage.AddComponent(e.id, Mover{SmoothMover: m})
	return m, nil
}

// Mover returns the attached mover, or nil.
func (e *Entity) Mover() *motion.SmoothMover {
	if m := ecs.ReadComponent[Mover](e.stage.Storage, e.id); m != nil {
		return m.SmoothMover
	}
	return nil
}

// MoveTo retargets the entity's mover. It panics if the entity has no mover.
func (e *Entity) MoveTo(p motion.Vec2) {
	m := e.Mover()
	if m == nil {
		panic("stage: MoveTo on entity without a mover")
	}
	m.MoveTo(p)
}

// MoveBy offsets the target of the entity's mover.
func (e *Entity) MoveBy(d motion.Vec2) {
	m := e.Mover()
	if m == nil {
		panic("stage: MoveBy on entity without a mover")
	}
	m.MoveBy(d)
}

// Every attaches a repeating action to the entity's emitter. The loop is
// canceled when the entity is destroyed.
func (e *Entity) Every(interval float64, action func()) (*timer.Loop, error) {
	e.mustBeAlive("Every")
	loop, err := timer.Every(interval, action)
	if err != nil {
		return nil, err
	}
	emitter := ecs.ReadComponent[Emitter](e.stage.Storage, e.id)
	if emitter == nil {
		e.stage.Storage.AddComponent(e.id, Emitter{})
		emitter = ecs.ReadComponent[Emitter](e.stage.Storage, e.id)
	}
	emitter.Loops = append(emitter.Loops, loop)
	return loop, nil
}

// Loops returns the entity's live emitter loops.
func (e *Entity) Loops() []*timer.Loop {
	if emitter := ecs.ReadComponent[Emitter](e.stage.Storage, e.id); emitter != nil {
		return emitter.Loops
	}
	return nil
}

// Tween runs a tween owned by the entity. It starts advancing on the next tick
// and is canceled if the entity is destroyed first.
func (e *Entity) Tween(from, to, duration float64, ease tween.EaseFunc, onStep func(float64)) (*tween.Tween, error) {
	e.mustBeAlive("Tween")
	tw, err := tween.New(from, to, duration, ease, onStep)
	if err != nil {
		return nil, err
	}
	tweens := ecs.ReadComponent[Tweens](e.stage.Storage, e.id)
	if tweens == nil {
		e.stage.Storage.AddComponent(e.id, Tweens{})
		tweens = ecs.ReadComponent[Tweens](e.stage.Storage, e.id)
	}
	tweens.Active = append(tweens.Active, tw)
	return tw, nil
}

// Shape returns the entity's shape for in-place edits, or nil.
func (e *Entity) Shape() *Shape {
	return ecs.ReadComponent[Shape](e.stage.Storage, e.id)
}

// Label returns the entity's label for in-place edits, or nil.
func (e *Entity) Label() *Label {
	return ecs.ReadComponent[Label](e.stage.Storage, e.id)
}

// SetAlpha sets the alpha of the entity's shape and label.
func (e *Entity) SetAlpha(alpha float64) {
	if s := e.Shape(); s != nil {
		s.Alpha = alpha
	}
	if l := e.Label(); l != nil {
		l.Alpha = alpha
	}
}

// FadeTo tweens the entity's alpha from its current value.
func (e *Entity) FadeTo(alpha, duration float64, ease tween.EaseFunc) (*tween.Tween, error) {
	from := 1.0
	if s := e.Shape(); s != nil {
		from = s.Alpha
	} else if l := e.Label(); l != nil {
		from = l.Alpha
	}
	return e.Tween(from, alpha, duration, ease, e.SetAlpha)
}
