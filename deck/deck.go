// Package deck holds the demo presentation shipped with the slidedeck
// command. Every scene reads the deck config when it is entered, so a
// reloaded config applies from the next scene start.
package deck

import (
	"fmt"
	"image/color"

	"github.com/plus3/slidedeck/config"
	"github.com/plus3/slidedeck/event"
	"github.com/plus3/slidedeck/motion"
	"github.com/plus3/slidedeck/scene"
	"github.com/plus3/slidedeck/stage"
	"github.com/plus3/slidedeck/tween"
)

// Library builds the demo scenes against the current config.
type Library struct {
	cfg *config.Deck
}

func NewLibrary(cfg *config.Deck) *Library {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Library{cfg: cfg}
}

// SetConfig replaces the config used by scenes entered from now on.
func (l *Library) SetConfig(cfg *config.Deck) {
	if cfg != nil {
		l.cfg = cfg
	}
}

func (l *Library) Config() *config.Deck {
	return l.cfg
}

// Entries lists the demo scenes in presentation order.
func (l *Library) Entries() []scene.Entry {
	return []scene.Entry{
		{Name: "title", Build: l.titleScene},
		{Name: "motion", Build: l.motionScene},
		{Name: "particles", Build: l.particlesScene},
		{Name: "end", Build: l.endScene},
	}
}

func (l *Library) center() motion.Vec2 {
	return motion.V(float64(l.cfg.Window.Width)/2, float64(l.cfg.Window.Height)/2)
}

func (l *Library) color(name string) color.RGBA {
	return l.cfg.Color(name, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
}

func (l *Library) label(text string, scale float64, alpha float64) stage.Label {
	return stage.Label{Text: text, Color: l.color("foreground"), Alpha: alpha, Scale: scale, Z: 10}
}

// attachMover gives e the mover tuning for sceneName, logging instead of
// failing the scene when the tuning is rejected.
func (l *Library) attachMover(ctx *scene.Context, e *stage.Entity, sceneName string) bool {
	m := l.cfg.MoverFor(sceneName)
	if _, err := e.AttachMover(m.Damping, m.Speed); err != nil {
		ctx.Log.Error("mover rejected", "scene", sceneName, "error", err)
		return false
	}
	return true
}

func (l *Library) titleScene() *scene.Script {
	c := l.center()
	return scene.New("title").
		Do(func(ctx *scene.Context) {
			title := ctx.Spawn("title", stage.Position{X: c.X - 120, Y: c.Y - 20}, l.label(l.cfg.Title, 3, 0))
			l.attachMover(ctx, title, "title")
			ctx.Spawn("rule", stage.Position{X: c.X, Y: c.Y + 30}, stage.Shape{
				Kind: stage.ShapeRect, W: 0, H: 4, Color: l.color("accent"), Alpha: 1,
			})
		}).
		Fade("title", 0, 1, 1).
		Tween(scene.TweenSpec{
			Target:   "rule",
			From:     0,
			To:       320,
			Duration: 1.2,
			Ease:     tween.OutCubic,
			OnStep: func(ctx *scene.Context, v float64) {
				ctx.Entity("rule").Shape().W = v
			},
		}).
		Wait(1).
		Do(func(ctx *scene.Context) {
			ctx.Spawn("hint", stage.Position{X: c.X - 60, Y: c.Y + 80}, stage.Label{
				Text: "click to continue", Color: l.color("muted"), Alpha: 0, Scale: 1, Z: 10,
			})
		}).
		Fade("hint", 0, 1, 0.5).
		WaitClick().
		Do(func(ctx *scene.Context) {
			ctx.Entity("title").MoveBy(motion.V(0, -120))
			ctx.Entity("hint").Label().Text = "right arrow for the next slide"
		})
}

func (l *Library) motionScene() *scene.Script {
	c := l.center()
	tuning := l.cfg.MoverFor("motion")
	moveToClick := func(ctx *scene.Context) scene.Waiter {
		p := event.WaitOnce(ctx.Stage.Input.Clicks)
		p.OnResolve(func(click event.Click) {
			ctx.Entity("box").MoveTo(motion.V(click.X, click.Y))
		})
		return p
	}

	return scene.New("motion").
		Do(func(ctx *scene.Context) {
			ctx.Spawn("caption", stage.Position{X: 40, Y: 40}, l.label(
				fmt.Sprintf("damping %.2g, speed %.2g: click anywhere", tuning.Damping, tuning.Speed), 1.5, 1))
			box := ctx.Spawn("box", stage.Position{X: c.X, Y: c.Y}, stage.Shape{
				Kind: stage.ShapeRect, W: 48, H: 48, Color: l.color("accent"), Alpha: 1, Z: 1,
			})
			l.attachMover(ctx, box, "motion")
		}).
		WaitFor("click", moveToClick).
		WaitFor("click", moveToClick).
		WaitFor("click", moveToClick).
		Do(func(ctx *scene.Context) {
			ctx.Entity("caption").Label().Text = "same target, different damping"
			ctx.Entity("box").MoveTo(c)
			for i, damping := range []float64{0.5, 1, 2, 4} {
				y := c.Y - 90 + float64(i)*60
				racer := ctx.Spawn(fmt.Sprintf("racer-%d", i), stage.Position{X: 80, Y: y}, stage.Shape{
					Kind: stage.ShapeCircle, W: 24, Color: l.color("foreground"), Alpha: 1, Z: 2,
				})
				if _, err := racer.AttachMover(damping, tuning.Speed); err != nil {
					ctx.Log.Error("racer mover rejected", "error", err)
					continue
				}
				racer.MoveTo(motion.V(float64(l.cfg.Window.Width)-80, y))
			}
		}).
		WaitClick()
}

func (l *Library) particlesScene() *scene.Script {
	c := l.center()
	em := l.cfg.EmitterFor("particles")
	mv := l.cfg.MoverFor("particles")

	return scene.New("particles").
		Do(func(ctx *scene.Context) {
			ctx.Spawn("caption", stage.Position{X: 40, Y: 40}, l.label("emitters: click to stop", 1.5, 1))
			source := ctx.Spawn("source", stage.Position{X: c.X, Y: c.Y}, stage.Shape{
				Kind: stage.ShapeCircle, W: 16, Color: l.color("accent"), Alpha: 1, Z: 5,
			})
			if !l.attachMover(ctx, source, "particles") {
				return
			}

			st := ctx.Stage
			_, err := source.Every(em.Interval, func() {
				at := source.Position().Add(st.JitterVec(em.Jitter))
				m, err := motion.New(at, mv.Damping, mv.Speed)
				if err != nil {
					return
				}
				m.MoveTo(at.Add(motion.V(st.Jitter(em.Jitter*4), -60)))
				ctx.SpawnLater("",
					stage.Position{X: at.X, Y: at.Y},
					stage.Mover{SmoothMover: m},
					stage.Shape{Kind: stage.ShapeCircle, W: 6, Color: l.color("foreground"), Alpha: 1},
					stage.Lifetime{Total: em.Lifetime, Remaining: em.Lifetime, Fade: true},
				)
			})
			if err != nil {
				ctx.Log.Error("emitter rejected", "error", err)
				return
			}
			_, err = source.Every(1.5, func() {
				source.MoveTo(c.Add(st.JitterVec(c.Y / 2)))
			})
			if err != nil {
				ctx.Log.Error("wander loop rejected", "error", err)
			}
		}).
		WaitClick().
		Do(func(ctx *scene.Context) {
			for _, loop := range ctx.Entity("source").Loops() {
				loop.Cancel()
			}
			ctx.Entity("caption").Label().Text = "stopped"
		}).
		Fade("source", 1, 0, em.Lifetime).
		Wait(em.Lifetime).
		Do(func(ctx *scene.Context) {
			ctx.Entity("caption").Label().Text = "all particles expired"
		})
}

func (l *Library) endScene() *scene.Script {
	c := l.center()
	return scene.New("end").
		Do(func(ctx *scene.Context) {
			ctx.Spawn("fin", stage.Position{X: c.X - 40, Y: c.Y - 20}, l.label("fin", 3, 0))
		}).
		Fade("fin", 0, 1, 1.5).
		WaitKey().
		Do(func(ctx *scene.Context) {
			if _, err := ctx.Entity("fin").FadeTo(0, 0.5, tween.InQuad); err != nil {
				ctx.Log.Warn("fade rejected", "error", err)
			}
		})
}
