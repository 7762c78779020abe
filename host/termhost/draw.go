package termhost

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/slidedeck/motion"
	"github.com/plus3/slidedeck/stage"
)

// grid maps stage coordinates onto terminal cells.
type grid struct {
	cols, rows   int
	cellW, cellH float64
}

func (h *Host) grid() grid {
	cols, rows := h.screen.Size()
	cols, rows = max(cols, 1), max(rows, 1)
	return grid{
		cols:  cols,
		rows:  rows,
		cellW: h.opts.Width / float64(cols),
		cellH: h.opts.Height / float64(rows),
	}
}

// cell returns the cell containing p.
func (g grid) cell(p motion.Vec2) (int, int) {
	return int(math.Floor(p.X / g.cellW)), int(math.Floor(p.Y / g.cellH))
}

// point returns the stage coordinates of the center of cell (cx, cy).
func (g grid) point(cx, cy int) motion.Vec2 {
	return motion.V((float64(cx)+0.5)*g.cellW, (float64(cy)+0.5)*g.cellH)
}

func (g grid) inside(cx, cy int) bool {
	return cx >= 0 && cy >= 0 && cx < g.cols && cy < g.rows
}

// blend mixes c over bg by alpha in [0, 1].
func blend(c, bg color.RGBA, alpha float64) tcell.Color {
	alpha = min(max(alpha, 0), 1)
	mix := func(a, b uint8) int32 {
		return int32(math.Round(float64(a)*alpha + float64(b)*(1-alpha)))
	}
	return tcell.NewRGBColor(mix(c.R, bg.R), mix(c.G, bg.G), mix(c.B, bg.B))
}

// Draw renders the stage and a status line, then shows the screen.
func (h *Host) Draw() {
	bg := h.opts.Background
	bgColor := tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B))
	base := tcell.StyleDefault.Background(bgColor)
	h.screen.Fill(' ', base)

	g := h.grid()
	for _, d := range h.stage.Drawables() {
		if d.Shape != nil {
			h.drawShape(g, base, d.Pos, d.Shape)
		}
		if d.Label != nil {
			h.drawLabel(g, base, d.Pos, d.Label)
		}
	}

	if h.deck != nil {
		h.drawStatus(g, base)
	}
	h.screen.Show()
}

func (h *Host) drawShape(g grid, base tcell.Style, pos motion.Vec2, s *stage.Shape) {
	if s.Alpha <= 0 {
		return
	}
	style := base.Foreground(blend(s.Color, h.opts.Background, s.Alpha))

	x0, y0 := g.cell(motion.V(pos.X-s.W/2, pos.Y-s.H/2))
	x1, y1 := g.cell(motion.V(pos.X+s.W/2, pos.Y+s.H/2))
	if s.Kind == stage.ShapeCircle {
		x0, y0 = g.cell(motion.V(pos.X-s.W/2, pos.Y-s.W/2))
		x1, y1 = g.cell(motion.V(pos.X+s.W/2, pos.Y+s.W/2))
	}

	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			if !g.inside(cx, cy) {
				continue
			}
			if s.Kind == stage.ShapeCircle && g.point(cx, cy).Dist(pos) > s.W/2 {
				continue
			}
			h.screen.SetContent(cx, cy, '█', nil, style)
		}
	}
}

func (h *Host) drawLabel(g grid, base tcell.Style, pos motion.Vec2, l *stage.Label) {
	if l.Alpha <= 0 {
		return
	}
	style := base.Foreground(blend(l.Color, h.opts.Background, l.Alpha))
	cx, cy := g.cell(pos)
	for i, r := range []rune(l.Text) {
		if g.inside(cx+i, cy) {
			h.screen.SetContent(cx+i, cy, r, nil, style)
		}
	}
}

func (h *Host) drawStatus(g grid, base tcell.Style) {
	status := fmt.Sprintf(" %d/%d ", h.deck.Index()+1, h.deck.Len())
	if r := h.deck.Current(); r != nil {
		status += r.Script().Name
		if label, ok := r.Waiting(); ok {
			status += " (waiting for " + label + ")"
		}
	}
	style := base.Reverse(true)
	for i, r := range []rune(status) {
		if i >= g.cols {
			break
		}
		h.screen.SetContent(i, g.rows-1, r, nil, style)
	}
}
