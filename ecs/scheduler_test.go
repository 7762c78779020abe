package ecs_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/plus3/slidedeck/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MovementSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Velocity
	}]
	ExecuteCount int
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	for item := range s.Entities.Iter() {
		item.Position.X += item.Velocity.DX * frame.DeltaTime
		item.Position.Y += item.Velocity.DY * frame.DeltaTime
	}
}

type recordingSystem struct {
	name  string
	log   *[]string
	frame *ecs.UpdateFrame
}

func (s *recordingSystem) Execute(frame *ecs.UpdateFrame) {
	*s.log = append(*s.log, s.name)
	s.frame = frame
}

type spawnDuringTick struct {
	Seen ecs.Query[struct{ *Name }]
	seen int
}

func (s *spawnDuringTick) Execute(frame *ecs.UpdateFrame) {
	s.seen = s.Seen.Len()
	frame.Commands.Spawn(Name{Value: "late"})
}

func TestScheduler(t *testing.T) {
	registry := newTestRegistry()

	t.Run("system execution order and query initialization", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)

		var log []string
		movement := &MovementSystem{}
		scheduler.Register(&recordingSystem{name: "first", log: &log})
		scheduler.Register(movement)
		scheduler.Register(&recordingSystem{name: "last", log: &log})

		id := storage.Spawn(Position{}, Velocity{DX: 1, DY: 2})

		scheduler.Once(1.0)
		scheduler.Once(0.5)

		assert.Equal(t, []string{"first", "last", "first", "last"}, log)
		assert.Equal(t, 2, movement.ExecuteCount)

		pos := ecs.ReadComponent[Position](storage, id)
		assert.InDelta(t, 1.5, pos.X, 1e-12)
		assert.InDelta(t, 3.0, pos.Y, 1e-12)
	})

	t.Run("clock advances once per tick", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)
		var log []string
		rec := &recordingSystem{name: "rec", log: &log}
		scheduler.Register(rec)

		scheduler.Once(0.25)
		scheduler.Once(-1)
		scheduler.Once(0.5)

		clock := scheduler.Clock()
		assert.Equal(t, uint64(3), clock.Frame)
		assert.InDelta(t, 0.75, clock.Now, 1e-12)
		assert.Equal(t, 0.5, clock.Delta)
		assert.Equal(t, 0.5, rec.frame.DeltaTime)
		assert.Equal(t, uint64(3), rec.frame.Frame)
	})

	t.Run("deferred spawns become visible next tick", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)
		sys := &spawnDuringTick{}
		scheduler.Register(sys)

		scheduler.Once(0.1)
		assert.Equal(t, 0, sys.seen)
		assert.Equal(t, 1, storage.Len())

		scheduler.Once(0.1)
		assert.Equal(t, 1, sys.seen)
		assert.Equal(t, 2, storage.Len())
	})

	t.Run("stats", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(&MovementSystem{})

		empty := scheduler.GetStats()
		require.Len(t, empty.Systems, 1)
		assert.Equal(t, time.Duration(0), empty.Systems[0].MinDuration)

		for i := 0; i < 4; i++ {
			scheduler.Once(0.016)
		}

		stats := scheduler.GetStats()
		assert.Equal(t, 1, stats.SystemCount)
		assert.Equal(t, int64(4), stats.TotalExecutions)
		assert.Equal(t, uint64(4), stats.Frames)
		assert.Equal(t, "MovementSystem", stats.Systems[0].Name)
		assert.Equal(t, int64(4), stats.Systems[0].ExecutionCount)
		assert.LessOrEqual(t, stats.Systems[0].MinDuration, stats.Systems[0].MaxDuration)
	})

	t.Run("run stops on context cancel", func(t *testing.T) {
		storage := ecs.NewStorage(registry)
		scheduler := ecs.NewScheduler(storage)
		movement := &MovementSystem{}
		scheduler.Register(movement)

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
		defer cancel()
		scheduler.Run(ctx, 5*time.Millisecond)

		assert.Greater(t, movement.ExecuteCount, 0)
	})
}

func TestCommandsFlushOrder(t *testing.T) {
	registry := newTestRegistry()
	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage)

	target := storage.Spawn(Position{X: 1})
	keep := storage.Spawn(Position{X: 2}, Velocity{DX: 1})

	var spawned ecs.EntityId
	var order []string
	scheduler.Register(&commandSystem{fn: func(c *ecs.Commands) {
		c.Defer(func() { order = append(order, "defer") })
		c.SpawnThen(func(id ecs.EntityId) {
			spawned = id
			order = append(order, "spawn")
		}, Name{Value: "new"})
		c.AddComponent(target, Velocity{DX: 9})
		c.Delete(target)
		c.RemoveComponent(keep, reflect.TypeFor[Velocity]())
		assert.Equal(t, 5, c.Pending())
	}})

	scheduler.Once(0.1)

	assert.False(t, storage.Alive(target), "delete wins over add")
	assert.False(t, storage.HasComponent(keep, reflect.TypeFor[Velocity]()))
	assert.True(t, storage.Alive(spawned))
	assert.Equal(t, []string{"spawn", "defer"}, order)
}

type commandSystem struct {
	fn   func(*ecs.Commands)
	done bool
}

func (s *commandSystem) Execute(frame *ecs.UpdateFrame) {
	if s.done {
		return
	}
	s.done = true
	s.fn(frame.Commands)
}
