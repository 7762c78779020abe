package scene_test

import (
	"errors"
	"testing"

	"github.com/plus3/slidedeck/scene"
	"github.com/plus3/slidedeck/stage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTracker struct {
	indices []int
	err     error
}

func (r *recordingTracker) SaveIndex(i int) error {
	r.indices = append(r.indices, i)
	return r.err
}

func titled(name string) scene.Entry {
	return scene.Entry{
		Name: name,
		Build: func() *scene.Script {
			return scene.New("").
				Do(func(ctx *scene.Context) {
					ctx.Spawn("title", stage.Position{}, stage.Label{Text: name, Alpha: 1})
				}).
				WaitKey("space").
				Do(func(ctx *scene.Context) {
					ctx.Entity("title").Label().Text = name + "!"
				})
		},
	}
}

func newTestDeck(tracker scene.Tracker) (*stage.Stage, *scene.Deck) {
	st := stage.New(stage.Options{})
	deck := scene.NewDeck(st, []scene.Entry{titled("one"), titled("two"), titled("three")}, scene.DeckOptions{
		Tracker: tracker,
	})
	return st, deck
}

func TestDeckNavigation(t *testing.T) {
	tracker := &recordingTracker{}
	st, deck := newTestDeck(tracker)

	assert.Equal(t, -1, deck.Index())
	require.NoError(t, deck.Start(0))
	assert.Equal(t, "one", deck.Current().Script().Name)
	first := deck.Current()

	assert.True(t, deck.Next())
	assert.Equal(t, 1, deck.Index())
	assert.Equal(t, scene.Stopped, first.State())
	assert.Equal(t, 1, st.Input.Keys.Len(), "only the new scene waits on keys")

	assert.True(t, deck.Next())
	assert.False(t, deck.Next())
	assert.Equal(t, 2, deck.Index())

	assert.True(t, deck.Prev())
	assert.True(t, deck.Prev())
	assert.False(t, deck.Prev())
	assert.Equal(t, 0, deck.Index())

	assert.Equal(t, []int{0, 1, 2, 1, 0}, tracker.indices)
	assert.Equal(t, []string{"one", "two", "three"}, deck.Names())
}

func TestDeckStartOutOfRange(t *testing.T) {
	_, deck := newTestDeck(nil)
	assert.ErrorIs(t, deck.Start(3), scene.ErrSceneIndex)
	assert.ErrorIs(t, deck.Start(-1), scene.ErrSceneIndex)
	assert.Nil(t, deck.Current())
}

func TestDeckLeavingDestroysSceneEntities(t *testing.T) {
	st, deck := newTestDeck(nil)
	require.NoError(t, deck.Start(0))
	title := deck.Current().Context().Entity("title")

	st.Input.Press("space")
	st.Tick(frame)
	assert.Equal(t, scene.Completed, deck.Current().State())
	assert.Equal(t, "one!", title.Label().Text)

	deck.Next()
	assert.False(t, title.Alive())
	assert.Equal(t, "two", deck.Current().Context().Entity("title").Label().Text)
}

func TestDeckKeyBindings(t *testing.T) {
	st, deck := newTestDeck(nil)
	deck.BindKeys()
	deck.BindKeys()
	require.NoError(t, deck.Start(0))

	st.Input.Press("right")
	assert.Equal(t, 1, deck.Index())
	st.Input.Press("pagedown")
	assert.Equal(t, 2, deck.Index())
	st.Input.Press("left")
	assert.Equal(t, 1, deck.Index())

	// the scene's own wait is untouched by navigation keys
	assert.Equal(t, scene.Suspended, deck.Current().State())

	deck.Close()
	assert.Equal(t, 0, st.Input.Keys.Len())
	assert.Equal(t, scene.Stopped, deck.Current().State())

	st.Input.Press("right")
	assert.Equal(t, 1, deck.Index())
}

func TestDeckTrackerFailureIsNotFatal(t *testing.T) {
	tracker := &recordingTracker{err: errors.New("disk full")}
	_, deck := newTestDeck(tracker)

	require.NoError(t, deck.Start(1))
	assert.Equal(t, 1, deck.Index())
	assert.Equal(t, scene.Suspended, deck.Current().State())
}

func TestDeckRejectsInvalidScript(t *testing.T) {
	st := stage.New(stage.Options{})
	deck := scene.NewDeck(st, []scene.Entry{
		titled("ok"),
		{Name: "broken", Build: func() *scene.Script { return scene.New("broken").Wait(-2) }},
	}, scene.DeckOptions{})

	require.NoError(t, deck.Start(0))
	assert.False(t, deck.Next())
	assert.Equal(t, 0, deck.Index())
	assert.Equal(t, scene.Suspended, deck.Current().State(), "the current scene keeps running")
}
