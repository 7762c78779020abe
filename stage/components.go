package stage

import (
	"image/color"

	"github.com/plus3/slidedeck/ecs"
	"github.com/plus3/slidedeck/motion"
	"github.com/plus3/slidedeck/timer"
	"github.com/plus3/slidedeck/tween"
)

// Position is where the host draws an entity. Entities with a Mover have
// their Position rewritten from the mover every tick.
type Position struct {
	X, Y float64
}

func (p Position) Vec() motion.Vec2 {
	return motion.V(p.X, p.Y)
}

// Mover attaches a SmoothMover to an entity.
type Mover struct {
	*motion.SmoothMover
}

// Emitter owns the repeating loops of an entity. The loops are canceled when
// the entity is deleted.
type Emitter struct {
	Loops []*timer.Loop
}

// Tweens owns the tweens running against an entity.
type Tweens struct {
	Active []*tween.Tween
}

// Lifetime despawns an entity after Total seconds. With Fade set, the
// entity's Shape and Label alpha follow the remaining fraction.
type Lifetime struct {
	Total     float64
	Remaining float64
	Fade      bool
}

type ShapeKind int

const (
	ShapeRect ShapeKind = iota
	ShapeCircle
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeRect:
		return "rect"
	case ShapeCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// Shape is a filled primitive centered on the entity's Position. Circles use
// W as the diameter.
type Shape struct {
	Kind  ShapeKind
	W, H  float64
	Color color.RGBA
	Alpha float64
	Z     int
}

// Label is text drawn with its top-left corner at the entity's Position.
type Label struct {
	Text  string
	Color color.RGBA
	Alpha float64
	Scale float64
	Z     int
}

// RegisterComponents registers every component type the stage systems use.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Mover](registry)
	ecs.RegisterComponent[Emitter](registry)
	ecs.RegisterComponent[Tweens](registry)
	ecs.RegisterComponent[Lifetime](registry)
	ecs.RegisterComponent[Shape](registry)
	ecs.RegisterComponent[Label](registry)
}
