// Package stage binds the motion, timer and tween primitives to ECS entities
// and drives them once per tick. A Stage is the explicit context that scenes
// and hosts share; there is no global engine state.
package stage

import (
	"math/rand/v2"
	"reflect"
	"slices"

	"github.com/plus3/slidedeck/ecs"
	"github.com/plus3/slidedeck/event"
	"github.com/plus3/slidedeck/motion"
	"github.com/plus3/slidedeck/stagelog"
)

type Options struct {
	// Seed feeds the jitter source. Jitter never affects scene step order.
	Seed uint64
	// Logger defaults to stagelog.Nop.
	Logger stagelog.Logger
	// Register adds extra component types to the stage registry.
	Register func(*ecs.ComponentRegistry)
}

// Stage owns the entity storage, the scheduler that ticks it and the input
// sources hosts feed. It is not safe for concurrent use.
type Stage struct {
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler
	Input     *event.Input
	Log       stagelog.Logger

	rand    *rand.Rand
	drawing *ecs.Query[drawable]
}

type drawable struct {
	ecs.EntityId
	*Position
	Shape *Shape `ecs:"optional"`
	Label *Label `ecs:"optional"`
}

// New creates a stage with the mover, emitter, tween and lifetime systems
// registered in that order.
func New(opts Options) *Stage {
	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	if opts.Register != nil {
		opts.Register(registry)
	}

	log := opts.Logger
	if log == nil {
		log = stagelog.Nop()
	}

	storage := ecs.NewStorage(registry)
	s := &Stage{
		Storage:   storage,
		Scheduler: ecs.NewScheduler(storage),
		Input:     event.NewInput(),
		Log:       log,
		rand:      rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
	}
	storage.OnDelete(releaseOwned)

	s.Scheduler.Register(&MoverSystem{})
	s.Scheduler.Register(&EmitterSystem{})
	s.Scheduler.Register(&TweenSystem{})
	s.Scheduler.Register(&LifetimeSystem{})

	s.drawing = ecs.NewQuery[drawable](storage)
	return s
}

// releaseOwned cancels an entity's loops and tweens before its components are freed.
func releaseOwned(storage *ecs.Storage, id ecs.EntityId) {
	if emitter := ecs.ReadComponent[Emitter](storage, id); emitter != nil {
		for _, loop := range emitter.Loops {
			loop.Cancel()
		}
	}
	if tweens := ecs.ReadComponent[Tweens](storage, id); tweens != nil {
		for _, tw := range tweens.Active {
			tw.Cancel()
		}
	}
}

// Register appends a system after the ones already registered.
func (s *Stage) Register(system ecs.System) {
	s.Scheduler.Register(system)
}

// Tick runs one frame of dt seconds.
func (s *Stage) Tick(dt float64) {
	s.Scheduler.Once(dt)
}

func (s *Stage) Clock() ecs.Clock {
	return s.Scheduler.Clock()
}

// Spawn creates an entity immediately and returns its handle.
func (s *Stage) Spawn(components ...any) *Entity {
	return &Entity{stage: s, id: s.Storage.Spawn(components...)}
}

// SpawnLater queues a spawn for the end of the current (or next) tick. Use it
// from loop actions and systems.
func (s *Stage) SpawnLater(components ...any) {
	s.Scheduler.Commands().Spawn(components...)
}

// Entity returns a handle for id. The handle may refer to a dead entity.
func (s *Stage) Entity(id ecs.EntityId) *Entity {
	return &Entity{stage: s, id: id}
}

// Len returns the number of live entities.
func (s *Stage) Len() int {
	return s.Storage.Len()
}

// Jitter returns a random offset in [-amount, amount]. Only visual parameters
// should be jittered.
func (s *Stage) Jitter(amount float64) float64 {
	return (s.rand.Float64()*2 - 1) * amount
}

// JitterVec returns a random offset with each axis in [-amount, amount].
func (s *Stage) JitterVec(amount float64) motion.Vec2 {
	return motion.V(s.Jitter(amount), s.Jitter(amount))
}

// Drawable is one renderable entity as seen by a host.
type Drawable struct {
	ID    ecs.EntityId
	Pos   motion.Vec2
	Shape *Shape
	Label *Label
}

// Drawables returns every entity with a Position and a Shape or Label, in
// ascending Z order. Ties keep entity order.
func (s *Stage) Drawables() []Drawable {
	s.drawing.Execute()
	var out []Drawable
	for item := range s.drawing.Iter() {
		if item.Shape == nil && item.Label == nil {
			continue
		}
		out = append(out, Drawable{
			ID:    item.EntityId,
			Pos:   item.Position.Vec(),
			Shape: item.Shape,
			Label: item.Label,
		})
	}
	slices.SortStableFunc(out, func(a, b Drawable) int {
		return a.z() - b.z()
	})
	return out
}

func (d Drawable) z() int {
	if d.Shape != nil {
		return d.Shape.Z
	}
	return d.Label.Z
}

// Has reports whether id carries a component of type T.
func Has[T any](s *Stage, id ecs.EntityId) bool {
	return s.Storage.HasComponent(id, reflect.TypeFor[T]())
}
