// Package ebiten connects the debug overlay to the Ebiten Dear ImGui backend.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
)

// Backend wraps the Ebiten ImGui backend. Hosts call BeginFrame before
// ticking the stage and EndFrame after, so panel renders queued during the
// tick land inside one ImGui frame.
type Backend struct {
	*ebitenbackend.EbitenBackend
}

// New creates the ImGui context and the Ebiten window it draws into.
// The imgui.ini file is disabled.
func New(title string, width, height int) *Backend {
	b := ebitenbackend.NewEbitenBackend()
	b.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &Backend{EbitenBackend: b}
}

// Overlay draws the ImGui frame on top of screen.
func (b *Backend) Overlay(screen *ebiten.Image) {
	b.Draw(screen)
}
