package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/slidedeck/ecs"
	"github.com/plus3/slidedeck/stage"
)

type performancePanel struct {
	stage   *stage.Stage
	history []float32
	next    int
	timer   frameTimer
}

func newPerformancePanel(st *stage.Stage, historyFrames int) *performancePanel {
	return &performancePanel{
		stage:   st,
		history: make([]float32, historyFrames),
		timer:   frameTimer{last: time.Now()},
	}
}

// record stores one frame time in milliseconds in the ring buffer.
func (p *performancePanel) record(ms float32) {
	p.history[p.next] = ms
	p.next = (p.next + 1) % len(p.history)
}

func (p *performancePanel) render() {
	p.record(float32(p.timer.tick().Seconds() * 1000))

	if !imgui.BeginV("Performance", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	clock := p.stage.Clock()
	stats := p.stage.Storage.CollectStats()
	imgui.Text(fmt.Sprintf("Frame %d  t=%.2fs", clock.Frame, clock.Now))
	imgui.Text(fmt.Sprintf("Entities: %d", stats.TotalEntityCount))
	imgui.Text(fmt.Sprintf("Components: %d in %d stores", stats.ComponentCount, len(stats.Components)))
	imgui.Text(fmt.Sprintf("Singletons: %d", stats.SingletonCount))

	avg := averageFrameTime(p.history)
	if avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &p.history[0], int32(len(p.history)))

	if imgui.TreeNodeStr("Systems") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Last")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, row := range systemRows(p.stage.Scheduler.GetStats()) {
				imgui.TableNextRow()
				for _, cell := range row {
					imgui.TableNextColumn()
					imgui.Text(cell)
				}
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Components") {
		for _, c := range stats.Components {
			imgui.BulletText(fmt.Sprintf("%s: %d", c.Type, c.Count))
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Singletons") {
		for _, name := range stats.SingletonTypes {
			imgui.BulletText(name)
		}
		imgui.TreePop()
	}

	imgui.End()
}

// averageFrameTime averages the non-zero samples, so a history that is not
// yet full does not drag the average down.
func averageFrameTime(history []float32) float32 {
	var sum float32
	var n int
	for _, ms := range history {
		if ms <= 0 {
			continue
		}
		sum += ms
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float32(n)
}

func systemRows(stats *ecs.SchedulerStats) [][4]string {
	rows := make([][4]string, 0, len(stats.Systems))
	for _, s := range stats.Systems {
		rows = append(rows, [4]string{
			s.Name,
			formatDuration(s.LastDuration),
			formatDuration(s.AvgDuration),
			formatDuration(s.MaxDuration),
		})
	}
	return rows
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.3f ms", float64(d.Microseconds())/1000)
}

type frameTimer struct {
	last time.Time
}

func (t *frameTimer) tick() time.Duration {
	now := time.Now()
	d := now.Sub(t.last)
	t.last = now
	return d
}
