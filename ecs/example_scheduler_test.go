package ecs_test

import (
	"context"
	"fmt"
	"time"

	"github.com/plus3/slidedeck/ecs"
)

type Transform struct {
	X, Y float64
}

type Drift struct {
	DX, DY float64
}

type Fade struct {
	Alpha, Rate float64
}

type DriftSystem struct {
	Entities ecs.Query[struct {
		*Transform
		*Drift
	}]
}

func (s *DriftSystem) Execute(frame *ecs.UpdateFrame) {
	for entity := range s.Entities.Iter() {
		entity.Transform.X += entity.Drift.DX * frame.DeltaTime
		entity.Transform.Y += entity.Drift.DY * frame.DeltaTime
	}
}

type FadeSystem struct {
	Entities ecs.Query[struct {
		ecs.EntityId
		*Fade
	}]
}

func (s *FadeSystem) Execute(frame *ecs.UpdateFrame) {
	for entity := range s.Entities.Iter() {
		entity.Fade.Alpha -= entity.Fade.Rate * frame.DeltaTime
		if entity.Fade.Alpha <= 0 {
			frame.Commands.Delete(entity.EntityId)
		}
	}
}

// ExampleScheduler demonstrates building a frame loop with multiple systems.
// The Scheduler initializes Query fields on registration, refreshes each
// query right before its system runs, and flushes deferred commands at the
// end of the tick.
func ExampleScheduler() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Drift](registry)
	ecs.RegisterComponent[Fade](registry)
	storage := ecs.NewStorage(registry)

	storage.Spawn(
		Transform{X: 0, Y: 0},
		Drift{DX: 10, DY: 5},
	)
	storage.Spawn(
		Transform{X: 100, Y: 100},
		Drift{DX: -5, DY: -5},
		Fade{Alpha: 1, Rate: 2},
	)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&DriftSystem{})
	scheduler.Register(&FadeSystem{})

	scheduler.Once(0.25)

	positions := ecs.NewQuery[struct{ *Transform }](storage)
	positions.Execute()

	fmt.Println("After one frame:")
	for item := range positions.Iter() {
		fmt.Printf("Position: (%.2f, %.2f)\n", item.Transform.X, item.Transform.Y)
	}

	scheduler.Once(0.25)
	fmt.Printf("Entities after fade: %d\n", storage.Len())

	// Output:
	// After one frame:
	// Position: (2.50, 1.25)
	// Position: (98.75, 98.75)
	// Entities after fade: 1
}

// ExampleScheduler_Run demonstrates running a continuous loop.
// The Run method blocks and executes all systems at a fixed interval
// until the context is cancelled.
func ExampleScheduler_Run() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Drift](registry)
	storage := ecs.NewStorage(registry)

	storage.Spawn(Transform{X: 0, Y: 0}, Drift{DX: 1, DY: 1})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&DriftSystem{})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	scheduler.Run(ctx, 16*time.Millisecond)

	fmt.Println("Scheduler stopped")
	// Output:
	// Scheduler stopped
}

type ScoreTracker struct {
	Points int
}

type ScoreSystem struct {
	Entities ecs.Query[struct{ *Transform }]
	Score    ecs.Singleton[ScoreTracker]
}

func (s *ScoreSystem) Execute(frame *ecs.UpdateFrame) {
	s.Score.Get().Points += s.Entities.Len() * 10
}

// ExampleScheduler_withSingletons demonstrates singleton components in systems.
// Singleton fields are initialized by the Scheduler just like Query fields,
// and the built-in Clock singleton tracks elapsed frame time.
func ExampleScheduler_withSingletons() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Transform](registry)
	storage := ecs.NewStorage(registry)

	ecs.NewSingleton[ScoreTracker](storage, ScoreTracker{Points: 0})

	storage.Spawn(Transform{X: 0, Y: 0})
	storage.Spawn(Transform{X: 10, Y: 10})
	storage.Spawn(Transform{X: 20, Y: 20})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&ScoreSystem{})

	scheduler.Once(0.016)
	scheduler.Once(0.016)
	scheduler.Once(0.016)

	var clock *ecs.Clock
	storage.ReadSingleton(&clock)
	fmt.Printf("Frames: %d, Time: %.3f\n", clock.Frame, clock.Now)

	var score *ScoreTracker
	storage.ReadSingleton(&score)
	fmt.Printf("Score: %d points\n", score.Points)

	// Output:
	// Frames: 3, Time: 0.048
	// Score: 90 points
}
