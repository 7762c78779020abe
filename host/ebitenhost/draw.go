package ebitenhost

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/slidedeck/motion"
	"github.com/plus3/slidedeck/stage"
)

func drawStage(screen *ebiten.Image, drawables []stage.Drawable, face ebtext.Face) {
	for _, d := range drawables {
		if d.Shape != nil {
			drawShape(screen, d.Pos, d.Shape)
		}
		if d.Label != nil {
			drawLabel(screen, d.Pos, d.Label, face)
		}
	}
}

func drawShape(screen *ebiten.Image, pos motion.Vec2, s *stage.Shape) {
	c := fade(s.Color, s.Alpha)
	if c.A == 0 {
		return
	}
	x, y := float32(pos.X), float32(pos.Y)
	switch s.Kind {
	case stage.ShapeCircle:
		vector.DrawFilledCircle(screen, x, y, float32(s.W/2), c, true)
	default:
		w, h := float32(s.W), float32(s.H)
		vector.DrawFilledRect(screen, x-w/2, y-h/2, w, h, c, true)
	}
}

func drawLabel(screen *ebiten.Image, pos motion.Vec2, l *stage.Label, face ebtext.Face) {
	c := fade(l.Color, l.Alpha)
	if c.A == 0 || l.Text == "" {
		return
	}
	scale := l.Scale
	if scale <= 0 {
		scale = 1
	}
	op := &ebtext.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(pos.X, pos.Y)
	op.ColorScale.ScaleWithColor(c)
	op.LineSpacing = 16 * scale
	ebtext.Draw(screen, l.Text, face, op)
}

// fade applies alpha in [0, 1] to an opaque palette color.
func fade(c color.RGBA, alpha float64) color.NRGBA {
	alpha = min(max(alpha, 0), 1)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(float64(c.A)*alpha + 0.5)}
}
