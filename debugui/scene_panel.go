package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/slidedeck/scene"
)

type sceneInfo struct {
	Index   int
	Count   int
	Name    string
	State   scene.State
	Step    int
	Steps   int
	Waiting string
}

func describeDeck(d *scene.Deck) sceneInfo {
	info := sceneInfo{Index: d.Index(), Count: d.Len()}
	r := d.Current()
	if r == nil {
		return info
	}
	info.Name = r.Script().Name
	info.State = r.State()
	info.Step = r.Step()
	info.Steps = len(r.Script().Steps)
	if label, ok := r.Waiting(); ok {
		info.Waiting = label
	}
	return info
}

func (i sceneInfo) String() string {
	if i.Name == "" {
		return fmt.Sprintf("no scene (%d in deck)", i.Count)
	}
	return fmt.Sprintf("%d/%d %s: %s, step %d/%d", i.Index+1, i.Count, i.Name, i.State, i.Step, i.Steps)
}

type scenePanel struct {
	deck *scene.Deck
	err  error
}

func (p *scenePanel) start(i int) {
	p.err = p.deck.Start(i)
}

func (p *scenePanel) render() {
	if !imgui.BeginV("Scene", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	info := describeDeck(p.deck)
	imgui.Text(info.String())
	if info.Waiting != "" {
		imgui.Text("waiting for " + info.Waiting)
	}
	imgui.Text("run " + p.deck.RunID().String())
	if p.err != nil {
		imgui.Text("error: " + p.err.Error())
	}

	imgui.Separator()
	if imgui.Button("Prev") {
		p.deck.Prev()
	}
	imgui.SameLine()
	if imgui.Button("Restart") && info.Index >= 0 {
		p.start(info.Index)
	}
	imgui.SameLine()
	if imgui.Button("Next") {
		p.deck.Next()
	}

	if imgui.TreeNodeStr("Scenes") {
		for i, name := range p.deck.Names() {
			if imgui.SelectableBool(fmt.Sprintf("%d. %s", i+1, name)) && i != info.Index {
				p.start(i)
			}
		}
		imgui.TreePop()
	}

	imgui.End()
}
