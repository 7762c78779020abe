package stage

import (
	"github.com/plus3/slidedeck/ecs"
	"github.com/plus3/slidedeck/timer"
	"github.com/plus3/slidedeck/tween"
)

// MoverSystem steps every mover and mirrors it into Position.
type MoverSystem struct {
	Entities ecs.Query[struct {
		*Mover
		*Position
	}]
}

func (s *MoverSystem) Execute(frame *ecs.UpdateFrame) {
	for entity := range s.Entities.Iter() {
		if entity.SmoothMover == nil {
			continue
		}
		entity.Step(frame.DeltaTime)
		cur := entity.Current()
		entity.Position.X, entity.Position.Y = cur.X, cur.Y
	}
}

// EmitterSystem advances emitter loops. Loops fire in entity order, then in
// the order they were attached.
type EmitterSystem struct {
	Entities ecs.Query[struct {
		ecs.EntityId
		*Emitter
	}]
}

func (s *EmitterSystem) Execute(frame *ecs.UpdateFrame) {
	for entity := range s.Entities.Iter() {
		if !frame.Storage.Alive(entity.EntityId) {
			continue
		}
		loops := entity.Loops
		for _, loop := range loops {
			loop.Advance(frame.DeltaTime)
		}
		// An action may have destroyed the owner, which zeroes the component.
		if !frame.Storage.Alive(entity.EntityId) {
			continue
		}
		entity.Loops = compactLoops(entity.Loops)
	}
}

// TweenSystem advances tweens and drops finished ones.
type TweenSystem struct {
	Entities ecs.Query[struct {
		ecs.EntityId
		*Tweens
	}]
}

func (s *TweenSystem) Execute(frame *ecs.UpdateFrame) {
	for entity := range s.Entities.Iter() {
		if !frame.Storage.Alive(entity.EntityId) {
			continue
		}
		active := entity.Active
		for _, tw := range active {
			tw.Advance(frame.DeltaTime)
		}
		if !frame.Storage.Alive(entity.EntityId) {
			continue
		}
		entity.Active = compactTweens(entity.Active)
	}
}

// LifetimeSystem counts down lifetimes and queues expired entities for deletion.
type LifetimeSystem struct {
	Entities ecs.Query[struct {
		ecs.EntityId
		*Lifetime
		Shape *Shape `ecs:"optional"`
		Label *Label `ecs:"optional"`
	}]
}

func (s *LifetimeSystem) Execute(frame *ecs.UpdateFrame) {
	for entity := range s.Entities.Iter() {
		if !frame.Storage.Alive(entity.EntityId) {
			continue
		}
		entity.Remaining -= frame.DeltaTime
		if entity.Remaining <= 0 {
			entity.Remaining = 0
			frame.Commands.Delete(entity.EntityId)
		}
		if entity.Fade && entity.Total > 0 {
			alpha := entity.Remaining / entity.Total
			if entity.Shape != nil {
				entity.Shape.Alpha = alpha
			}
			if entity.Label != nil {
				entity.Label.Alpha = alpha
			}
		}
	}
}

func compactLoops(loops []*timer.Loop) []*timer.Loop {
	kept := loops[:0]
	for _, loop := range loops {
		if !loop.Canceled() {
			kept = append(kept, loop)
		}
	}
	clear(loops[len(kept):])
	return kept
}

func compactTweens(tweens []*tween.Tween) []*tween.Tween {
	kept := tweens[:0]
	for _, tw := range tweens {
		if !tw.Finished() {
			kept = append(kept, tw)
		}
	}
	clear(tweens[len(kept):])
	return kept
}
