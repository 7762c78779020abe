package ecs_test

import "github.com/plus3/slidedeck/ecs"

// Common test component types
type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Name struct {
	Value string
}

type Opacity struct {
	Alpha float64
}

type Lifespan struct {
	Remaining float64
}

type Handle struct {
	Ref *Position
}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Opacity](registry)
	ecs.RegisterComponent[Lifespan](registry)
	ecs.RegisterComponent[Handle](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[Tag](registry)
	return registry
}
