// Package termhost runs a stage in a terminal. Stage coordinates are scaled
// onto the character grid; shapes become blocks of cells and labels are
// written as plain text.
package termhost

import (
	"context"
	"image/color"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/slidedeck/config"
	"github.com/plus3/slidedeck/ecs"
	"github.com/plus3/slidedeck/event"
	"github.com/plus3/slidedeck/scene"
	"github.com/plus3/slidedeck/stage"
	"github.com/plus3/slidedeck/stagelog"
)

type Options struct {
	// Width and Height are the stage's logical size, mapped onto the
	// whole terminal.
	Width, Height float64
	TPS           int
	Background    color.RGBA
	// Watcher delivers reloaded deck files to OnConfig on the tick goroutine.
	Watcher  *config.Watcher
	OnConfig func(*config.Deck)
	Logger   stagelog.Logger
}

// Host ties a tcell screen to a stage. The screen must be initialized by
// the caller, who also calls Fini after Run returns.
type Host struct {
	stage  *stage.Stage
	deck   *scene.Deck
	screen tcell.Screen
	opts   Options
	log    stagelog.Logger

	events  chan tcell.Event
	buttons tcell.ButtonMask
	stop    context.CancelFunc
}

func New(st *stage.Stage, deck *scene.Deck, screen tcell.Screen, opts Options) *Host {
	cfg := config.Default()
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = float64(cfg.Window.Width), float64(cfg.Window.Height)
	}
	if opts.TPS <= 0 {
		opts.TPS = cfg.Window.TPS
	}
	if opts.Logger == nil {
		opts.Logger = st.Log
	}
	screen.EnableMouse()
	return &Host{
		stage:  st,
		deck:   deck,
		screen: screen,
		opts:   opts,
		log:    stagelog.With(opts.Logger, "host", "term"),
		events: make(chan tcell.Event, 64),
		stop:   func() {},
	}
}

// Run ticks the stage until ctx is canceled or the user quits with Escape
// or Ctrl-C. Events are read on a separate goroutine and handled inside the
// tick, so the stage is only touched by the scheduler goroutine.
func (h *Host) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	h.stop = cancel

	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case h.events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	h.stage.Register(&hostSystem{host: h})
	h.log.Info("terminal host running", "tps", h.opts.TPS)
	h.stage.Scheduler.Run(ctx, time.Second/time.Duration(h.opts.TPS))
	return nil
}

// hostSystem feeds queued terminal events into the stage and redraws after
// the tick's commands are flushed.
type hostSystem struct {
	host *Host
}

func (s *hostSystem) Execute(frame *ecs.UpdateFrame) {
	for drained := false; !drained; {
		select {
		case ev := <-s.host.events:
			if !s.host.HandleEvent(ev) {
				s.host.stop()
			}
		default:
			drained = true
		}
	}
	s.host.drainConfig()
	frame.Commands.Defer(s.host.Draw)
}

func (h *Host) drainConfig() {
	if h.opts.Watcher == nil {
		return
	}
	select {
	case cfg, ok := <-h.opts.Watcher.Updates:
		if ok && h.opts.OnConfig != nil {
			h.log.Info("deck config reloaded", "title", cfg.Title)
			h.opts.OnConfig(cfg)
		}
	case err, ok := <-h.opts.Watcher.Errors:
		if ok {
			h.log.Warn("deck config reload failed", "error", err)
		}
	default:
	}
}

// HandleEvent dispatches one terminal event. It returns false when the user
// asked to quit.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if name, ok := keyName(ev); ok {
			h.stage.Input.Press(name)
		}

	case *tcell.EventMouse:
		buttons := ev.Buttons()
		pressed := buttons &^ h.buttons
		h.buttons = buttons

		cx, cy := ev.Position()
		p := h.grid().point(cx, cy)
		for _, b := range mouseButtons {
			if pressed&b.mask != 0 {
				h.stage.Input.Clicks.Emit(event.Click{X: p.X, Y: p.Y, Button: b.id})
			}
		}

	case *tcell.EventResize:
		h.screen.Sync()
	}
	return true
}

// mouseButtons is ordered so that a multi-button press clicks in a fixed order.
var mouseButtons = []struct {
	mask tcell.ButtonMask
	id   int
}{
	{tcell.Button1, event.ButtonLeft},
	{tcell.Button2, event.ButtonRight},
	{tcell.Button3, event.ButtonMiddle},
}

var keyNames = map[tcell.Key]event.Key{
	tcell.KeyRight:      "right",
	tcell.KeyLeft:       "left",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyPgUp:       "pageup",
	tcell.KeyPgDn:       "pagedown",
	tcell.KeyEnter:      "enter",
	tcell.KeyTab:        "tab",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
}

func keyName(ev *tcell.EventKey) (event.Key, bool) {
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if r == ' ' {
			return "space", true
		}
		return event.Key(string(unicode.ToLower(r))), true
	}
	name, ok := keyNames[ev.Key()]
	return name, ok
}
