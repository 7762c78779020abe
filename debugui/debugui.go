// Package debugui draws a Dear ImGui overlay over a running stage: scheduler
// timings, the entity table, a component inspector and the scene deck.
// Panels are ordinary stage entities rendered by the OverlaySystem.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/slidedeck/ecs"
	"github.com/plus3/slidedeck/scene"
	"github.com/plus3/slidedeck/stage"
)

// Panel is a component holding one ImGui render function.
type Panel struct {
	Name   string
	Render func()
}

// InputState mirrors ImGui's input capture flags. Hosts consult it before
// forwarding clicks and keys to the stage.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// OverlaySystem refreshes InputState and queues every panel's render function
// for the end of the tick, after all simulation systems have run.
type OverlaySystem struct {
	Panels     ecs.Query[struct{ *Panel }]
	InputState ecs.Singleton[InputState]
}

func (o *OverlaySystem) Execute(frame *ecs.UpdateFrame) {
	io := imgui.CurrentIO()
	state := o.InputState.Get()
	state.WantCaptureMouse = io.WantCaptureMouse()
	state.WantCaptureKeyboard = io.WantCaptureKeyboard()

	for item := range o.Panels.Iter() {
		if item.Render != nil {
			frame.Commands.Defer(item.Render)
		}
	}
}

func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Panel](registry)
	ecs.RegisterComponent[InputState](registry)
}

// Install spawns the standard panels on st. deck may be nil, in which case
// the scene panel is left out. The ImGui context must exist before the first
// tick; the ebiten backend creates it.
func Install(st *stage.Stage, deck *scene.Deck) {
	RegisterComponents(st.Storage.Registry())
	ecs.NewSingleton[InputState](st.Storage)

	perf := newPerformancePanel(st, 120)
	browser := newEntityBrowser(st.Storage, 100)
	inspector := &inspector{storage: st.Storage, browser: browser}

	st.Storage.Spawn(Panel{Name: "performance", Render: perf.render})
	st.Storage.Spawn(Panel{Name: "entities", Render: browser.render})
	st.Storage.Spawn(Panel{Name: "inspector", Render: inspector.render})
	if deck != nil {
		panel := &scenePanel{deck: deck}
		st.Storage.Spawn(Panel{Name: "scene", Render: panel.render})
	}

	st.Register(&OverlaySystem{})
}

// Capture returns the current input capture flags. Before Install it
// reports no capture.
func Capture(st *stage.Stage) InputState {
	var state *InputState
	if !st.Storage.ReadSingleton(&state) || state == nil {
		return InputState{}
	}
	return *state
}
