package stage_test

import (
	"image/color"
	"testing"

	"github.com/plus3/slidedeck/motion"
	"github.com/plus3/slidedeck/stage"
	"github.com/plus3/slidedeck/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ticks are a power of two so accumulated time is exact.
const frame = 1.0 / 64

func tickFor(s *stage.Stage, seconds float64) {
	n := int(seconds/frame + 0.5)
	for i := 0; i < n; i++ {
		s.Tick(frame)
	}
}

func TestMoverDrivesPosition(t *testing.T) {
	s := stage.New(stage.Options{})
	e := s.Spawn(stage.Position{X: 0, Y: 0})

	m, err := e.AttachMover(2, 0.5)
	require.NoError(t, err)
	e.MoveTo(motion.V(10, 0))

	tickFor(s, 5)

	assert.Equal(t, m.Current(), e.Position())
	assert.Greater(t, e.Position().X, 8.5)
	assert.Less(t, e.Position().X, 10.0)
}

func TestAttachMoverErrors(t *testing.T) {
	s := stage.New(stage.Options{})
	e := s.Spawn(stage.Position{})

	_, err := e.AttachMover(0, 1)
	assert.ErrorIs(t, err, motion.ErrInvalidDamping)
	_, err = e.AttachMover(1, -1)
	assert.ErrorIs(t, err, motion.ErrInvalidSpeed)
	assert.Nil(t, e.Mover())
}

func TestAttachMoverAddsPosition(t *testing.T) {
	s := stage.New(stage.Options{})
	e := s.Spawn(stage.Label{Text: "hi"})

	_, err := e.AttachMover(1, 1)
	require.NoError(t, err)
	assert.True(t, stage.Has[stage.Position](s, e.ID()))
}

func TestSetPositionTeleportsMover(t *testing.T) {
	s := stage.New(stage.Options{})
	e := s.Spawn(stage.Position{})
	_, err := e.AttachMover(1, 1)
	require.NoError(t, err)

	e.MoveTo(motion.V(100, 100))
	tickFor(s, 0.2)
	e.SetPosition(motion.V(5, 5))
	tickFor(s, 1)

	assert.Equal(t, motion.V(5, 5), e.Position())
}

func TestEmitterLoops(t *testing.T) {
	s := stage.New(stage.Options{})
	e := s.Spawn(stage.Position{})

	fired := 0
	_, err := e.Every(0.5, func() { fired++ })
	require.NoError(t, err)

	tickFor(s, 2)
	assert.Equal(t, 4, fired)

	_, err = e.Every(0, func() {})
	assert.ErrorIs(t, err, timer.ErrInvalidInterval)
}

func TestDestroyCancelsOwnedWork(t *testing.T) {
	s := stage.New(stage.Options{})
	e := s.Spawn(stage.Position{}, stage.Shape{Alpha: 1})
	_, err := e.AttachMover(1, 1)
	require.NoError(t, err)

	fired := 0
	loop, err := e.Every(0.125, func() { fired++ })
	require.NoError(t, err)
	tw, err := e.FadeTo(0, 10, nil)
	require.NoError(t, err)

	tickFor(s, 0.5)
	require.Equal(t, 4, fired)

	assert.True(t, e.Destroy())
	assert.True(t, loop.Canceled(), "loops are canceled synchronously")
	assert.True(t, tw.Canceled())
	assert.Nil(t, e.Mover())
	assert.False(t, e.Destroy())

	tickFor(s, 2)
	assert.Equal(t, 4, fired)
	assert.Equal(t, 0, s.Len())
}

func TestLoopActionDestroyingOwner(t *testing.T) {
	s := stage.New(stage.Options{})
	e := s.Spawn(stage.Position{})

	fired := 0
	_, err := e.Every(0.1, func() {
		fired++
		e.Destroy()
	})
	require.NoError(t, err)
	_, err = e.Every(0.1, func() { fired++ })
	require.NoError(t, err)

	assert.NotPanics(t, func() { tickFor(s, 1) })
	assert.Equal(t, 1, fired, "the second loop was canceled before it could fire")
	assert.False(t, e.Alive())
}

func TestParticlesExpire(t *testing.T) {
	s := stage.New(stage.Options{Seed: 7})
	emitter := s.Spawn(stage.Position{X: 50, Y: 50})

	_, err := emitter.Every(0.25, func() {
		p := emitter.Position().Add(s.JitterVec(4))
		s.SpawnLater(
			stage.Position{X: p.X, Y: p.Y},
			stage.Shape{Kind: stage.ShapeCircle, W: 2, Alpha: 1},
			stage.Lifetime{Total: 0.5, Remaining: 0.5, Fade: true},
		)
	})
	require.NoError(t, err)

	tickFor(s, 1)
	// four spawned, two already expired
	assert.Equal(t, 3, s.Len())

	emitter.Destroy()
	tickFor(s, 1)
	assert.Equal(t, 0, s.Len())
}

func TestLifetimeFades(t *testing.T) {
	s := stage.New(stage.Options{})
	e := s.Spawn(
		stage.Position{},
		stage.Label{Text: "bye", Alpha: 1},
		stage.Lifetime{Total: 1, Remaining: 1, Fade: true},
	)

	s.Tick(0.25)
	assert.InDelta(t, 0.75, e.Label().Alpha, 1e-12)

	s.Tick(0.75)
	assert.False(t, e.Alive())
}

func TestTweenAdvancesWithTicks(t *testing.T) {
	s := stage.New(stage.Options{})
	e := s.Spawn(stage.Position{}, stage.Shape{Alpha: 0})

	var steps []float64
	tw, err := e.Tween(0, 1, 0.5, nil, func(v float64) {
		steps = append(steps, v)
		e.SetAlpha(v)
	})
	require.NoError(t, err)

	s.Tick(0.25)
	s.Tick(0.25)
	s.Tick(0.25)

	assert.True(t, tw.Done())
	assert.Equal(t, []float64{0.5, 1}, steps)
	assert.Equal(t, 1.0, e.Shape().Alpha)
}

func TestDrawablesSortedByZ(t *testing.T) {
	s := stage.New(stage.Options{})
	top := s.Spawn(stage.Position{X: 1}, stage.Shape{Z: 5, Color: color.RGBA{R: 255, A: 255}})
	s.Spawn(stage.Position{X: 2})
	bottom := s.Spawn(stage.Position{X: 3}, stage.Label{Text: "a", Z: -1})
	middle := s.Spawn(stage.Position{X: 4}, stage.Shape{})

	ds := s.Drawables()
	require.Len(t, ds, 3)
	assert.Equal(t, bottom.ID(), ds[0].ID)
	assert.Equal(t, middle.ID(), ds[1].ID)
	assert.Equal(t, top.ID(), ds[2].ID)
	assert.Equal(t, motion.V(1, 0), ds[2].Pos)
}

func TestJitterIsSeeded(t *testing.T) {
	a := stage.New(stage.Options{Seed: 42})
	b := stage.New(stage.Options{Seed: 42})

	for i := 0; i < 10; i++ {
		x := a.Jitter(3)
		assert.Equal(t, x, b.Jitter(3))
		assert.LessOrEqual(t, x, 3.0)
		assert.GreaterOrEqual(t, x, -3.0)
	}
}

func TestDestroyedEntityPanics(t *testing.T) {
	s := stage.New(stage.Options{})
	e := s.Spawn(stage.Position{})
	e.Destroy()

	assert.Panics(t, func() { _, _ = e.AttachMover(1, 1) })
	assert.Panics(t, func() { _, _ = e.Every(1, func() {}) })
	assert.Panics(t, func() { e.Add(stage.Shape{}) })
	assert.Panics(t, func() { e.MoveTo(motion.V(1, 1)) })
}
