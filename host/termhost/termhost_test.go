package termhost

import (
	"context"
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/slidedeck/config"
	"github.com/plus3/slidedeck/event"
	"github.com/plus3/slidedeck/scene"
	"github.com/plus3/slidedeck/stage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHost(t *testing.T, deck func(*stage.Stage) *scene.Deck) (*Host, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(96, 54)
	t.Cleanup(screen.Fini)

	st := stage.New(stage.Options{})
	var d *scene.Deck
	if deck != nil {
		d = deck(st)
	}
	h := New(st, d, screen, Options{Width: 960, Height: 540, TPS: 64})
	return h, screen
}

func TestMouseClicksAreEdgeTriggered(t *testing.T) {
	h, _ := newTestHost(t, nil)
	var clicks []event.Click
	h.stage.Input.Clicks.Subscribe(func(c event.Click) { clicks = append(clicks, c) })

	h.HandleEvent(tcell.NewEventMouse(5, 3, tcell.Button1, tcell.ModNone))
	h.HandleEvent(tcell.NewEventMouse(6, 3, tcell.Button1, tcell.ModNone))
	require.Len(t, clicks, 1, "drag does not click again")
	assert.Equal(t, event.Click{X: 55, Y: 35, Button: event.ButtonLeft}, clicks[0])

	h.HandleEvent(tcell.NewEventMouse(6, 3, tcell.ButtonNone, tcell.ModNone))
	h.HandleEvent(tcell.NewEventMouse(0, 0, tcell.Button2, tcell.ModNone))
	require.Len(t, clicks, 2)
	assert.Equal(t, event.Click{X: 5, Y: 5, Button: event.ButtonRight}, clicks[1])
}

func TestMultiButtonPressClicksInOrder(t *testing.T) {
	h, _ := newTestHost(t, nil)
	var buttons []int
	h.stage.Input.Clicks.Subscribe(func(c event.Click) { buttons = append(buttons, c.Button) })

	all := tcell.Button3 | tcell.Button1 | tcell.Button2
	for i := 0; i < 3; i++ {
		h.HandleEvent(tcell.NewEventMouse(1, 1, all, tcell.ModNone))
		h.HandleEvent(tcell.NewEventMouse(1, 1, tcell.ButtonNone, tcell.ModNone))
	}

	want := []int{event.ButtonLeft, event.ButtonRight, event.ButtonMiddle}
	assert.Equal(t, append(append(append([]int{}, want...), want...), want...), buttons)
}

func TestKeyEvents(t *testing.T) {
	h, _ := newTestHost(t, nil)
	var keys []event.Key
	h.stage.Input.Keys.Subscribe(func(k event.Key) { keys = append(keys, k) })

	assert.True(t, h.HandleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)))
	assert.True(t, h.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'A', tcell.ModNone)))
	assert.True(t, h.HandleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone)))
	assert.True(t, h.HandleEvent(tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone)))
	assert.True(t, h.HandleEvent(tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone)))
	assert.Equal(t, []event.Key{"right", "a", "space", "pagedown"}, keys)

	assert.False(t, h.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.False(t, h.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone)))
}

func TestDrawShapesAndLabels(t *testing.T) {
	h, screen := newTestHost(t, nil)
	red := color.RGBA{R: 255, A: 255}
	h.stage.Spawn(stage.Position{X: 100, Y: 100}, stage.Shape{Kind: stage.ShapeRect, W: 20, H: 20, Color: red, Alpha: 1})
	h.stage.Spawn(stage.Position{X: 300, Y: 200}, stage.Label{Text: "hi", Color: red, Alpha: 1})
	h.stage.Spawn(stage.Position{X: 500, Y: 500}, stage.Shape{Kind: stage.ShapeRect, W: 20, H: 20, Color: red, Alpha: 0})

	h.Draw()

	cell := func(x, y int) rune {
		r, _, _, _ := screen.GetContent(x, y)
		return r
	}
	assert.Equal(t, '█', cell(9, 9))
	assert.Equal(t, '█', cell(11, 11))
	assert.Equal(t, ' ', cell(12, 10))
	assert.Equal(t, 'h', cell(30, 20))
	assert.Equal(t, 'i', cell(31, 20))
	assert.Equal(t, ' ', cell(50, 50), "invisible shapes are skipped")

	_, _, style, _ := screen.GetContent(10, 10)
	fg, _, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)
}

func TestDrawCircleStaysRound(t *testing.T) {
	h, screen := newTestHost(t, nil)
	h.stage.Spawn(stage.Position{X: 200, Y: 200}, stage.Shape{Kind: stage.ShapeCircle, W: 60, Color: color.RGBA{G: 255, A: 255}, Alpha: 1})

	h.Draw()

	r, _, _, _ := screen.GetContent(20, 20)
	assert.Equal(t, '█', r)
	r, _, _, _ = screen.GetContent(17, 17)
	assert.Equal(t, ' ', r, "corner of the bounding box is outside the circle")
}

func TestStatusLine(t *testing.T) {
	h, screen := newTestHost(t, func(st *stage.Stage) *scene.Deck {
		return scene.NewDeck(st, []scene.Entry{{
			Name:  "intro",
			Build: func() *scene.Script { return scene.New("").WaitClick() },
		}}, scene.DeckOptions{})
	})
	require.NoError(t, h.deck.Start(0))

	h.Draw()

	var line []rune
	for x := 0; x < 40; x++ {
		r, _, _, _ := screen.GetContent(x, 53)
		line = append(line, r)
	}
	assert.Contains(t, string(line), "1/1 intro (waiting for click)")
}

func TestBlend(t *testing.T) {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.RGBA{A: 255}

	assert.Equal(t, tcell.NewRGBColor(255, 255, 255), blend(white, black, 1))
	assert.Equal(t, tcell.NewRGBColor(128, 128, 128), blend(white, black, 0.5))
	assert.Equal(t, tcell.NewRGBColor(0, 0, 0), blend(white, black, -2))
}

func TestRunStopsOnEscape(t *testing.T) {
	h, screen := newTestHost(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = h.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("host did not stop")
	}
	assert.NoError(t, ctx.Err(), "stopped by the key, not the deadline")
	assert.Positive(t, h.stage.Clock().Frame)
}

func TestHostAppliesReloadedConfig(t *testing.T) {
	h, _ := newTestHost(t, nil)
	w := &config.Watcher{Updates: make(chan *config.Deck, 1), Errors: make(chan error, 1)}
	var applied *config.Deck
	h.opts.Watcher = w
	h.opts.OnConfig = func(d *config.Deck) { applied = d }

	w.Errors <- errors.New("broken")
	h.drainConfig()
	assert.Nil(t, applied)

	cfg := config.Default()
	w.Updates <- cfg
	h.drainConfig()
	assert.Same(t, cfg, applied)
}
