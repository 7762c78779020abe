// Package ebitenhost runs a stage in an Ebiten window. It forwards clicks and
// key presses into the stage's input sources, ticks the stage at a fixed rate
// and draws shapes and labels in Z order.
package ebitenhost

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/plus3/slidedeck/config"
	"github.com/plus3/slidedeck/debugui"
	debugebiten "github.com/plus3/slidedeck/debugui/ebiten"
	"github.com/plus3/slidedeck/event"
	"github.com/plus3/slidedeck/scene"
	"github.com/plus3/slidedeck/stage"
	"github.com/plus3/slidedeck/stagelog"
	"golang.org/x/image/font/basicfont"
)

type Options struct {
	Width, Height int
	TPS           int
	Title         string
	Background    color.RGBA
	// Debug opens the ImGui overlay. The window is then created by the
	// ImGui backend.
	Debug bool
	// Watcher delivers reloaded deck files; OnConfig receives them on the
	// game goroutine.
	Watcher  *config.Watcher
	OnConfig func(*config.Deck)
	Logger   stagelog.Logger
}

// Game implements ebiten.Game for one stage and its deck.
type Game struct {
	stage *stage.Stage
	deck  *scene.Deck
	opts  Options
	log   stagelog.Logger

	face   ebtext.Face
	imgui  *debugebiten.Backend
	pause  *ebitenui.UI
	paused bool
	quit   bool
	keys   []ebiten.Key
}

// New prepares a game. deck may be nil for a bare stage.
func New(st *stage.Stage, deck *scene.Deck, opts Options) *Game {
	cfg := config.Default()
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = cfg.Window.Width, cfg.Window.Height
	}
	if opts.TPS <= 0 {
		opts.TPS = cfg.Window.TPS
	}
	if opts.Logger == nil {
		opts.Logger = st.Log
	}

	g := &Game{
		stage: st,
		deck:  deck,
		opts:  opts,
		log:   stagelog.With(opts.Logger, "host", "ebiten"),
		face:  ebtext.NewGoXFace(basicfont.Face7x13),
	}
	g.pause = newPauseUI(g, g.face)

	if opts.Debug {
		g.imgui = debugebiten.New(opts.Title, opts.Width, opts.Height)
		debugui.Install(st, deck)
	}
	return g
}

// Run opens the window and blocks until it is closed.
func (g *Game) Run() error {
	if g.imgui == nil {
		ebiten.SetWindowSize(g.opts.Width, g.opts.Height)
		ebiten.SetWindowTitle(g.opts.Title)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(g.opts.TPS)
	g.log.Info("window opened", "width", g.opts.Width, "height", g.opts.Height, "tps", g.opts.TPS)
	return ebiten.RunGame(g)
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
		g.log.Debug("pause toggled", "paused", g.paused)
	}
	g.drainConfig()

	if g.imgui != nil {
		g.imgui.BeginFrame()
		defer g.imgui.EndFrame()
	}

	if g.paused {
		g.pause.Update()
		return nil
	}

	g.forwardInput()
	g.stage.Tick(1 / float64(g.opts.TPS))
	return nil
}

// forwardInput emits this frame's clicks and key presses unless the debug
// overlay is consuming them.
func (g *Game) forwardInput() {
	capture := debugui.Capture(g.stage)

	if !capture.WantCaptureMouse {
		x, y := ebiten.CursorPosition()
		for _, b := range mouseButtons {
			if inpututil.IsMouseButtonJustPressed(b.button) {
				g.stage.Input.Clicks.Emit(event.Click{X: float64(x), Y: float64(y), Button: b.id})
			}
		}
	}

	if !capture.WantCaptureKeyboard {
		g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
		for _, k := range g.keys {
			if k == ebiten.KeyEscape {
				continue
			}
			g.stage.Input.Press(keyName(k))
		}
	}
}

func (g *Game) drainConfig() {
	if g.opts.Watcher == nil {
		return
	}
	select {
	case cfg, ok := <-g.opts.Watcher.Updates:
		if ok && g.opts.OnConfig != nil {
			g.log.Info("deck config reloaded", "title", cfg.Title)
			g.opts.OnConfig(cfg)
		}
	case err, ok := <-g.opts.Watcher.Errors:
		if ok {
			g.log.Warn("deck config reload failed", "error", err)
		}
	default:
	}
}

func (g *Game) restartScene() {
	g.paused = false
	if g.deck == nil || g.deck.Index() < 0 {
		return
	}
	if err := g.deck.Start(g.deck.Index()); err != nil {
		g.log.Error("restarting scene failed", "index", g.deck.Index(), "error", err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.opts.Background)
	drawStage(screen, g.stage.Drawables(), g.face)

	if g.paused {
		g.pause.Draw(screen)
	}
	if g.imgui != nil {
		g.imgui.Overlay(screen)
	}
}

// Layout keeps the logical screen at the configured size so stage
// coordinates do not depend on the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.imgui != nil {
		g.imgui.Layout(g.opts.Width, g.opts.Height)
	}
	return g.opts.Width, g.opts.Height
}
