package ebitenhost

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/slidedeck/event"
)

var keyNames = map[ebiten.Key]event.Key{
	ebiten.KeyArrowRight: "right",
	ebiten.KeyArrowLeft:  "left",
	ebiten.KeyArrowUp:    "up",
	ebiten.KeyArrowDown:  "down",
	ebiten.KeyPageUp:     "pageup",
	ebiten.KeyPageDown:   "pagedown",
	ebiten.KeySpace:      "space",
	ebiten.KeyEnter:      "enter",
	ebiten.KeyBackspace:  "backspace",
	ebiten.KeyTab:        "tab",
	ebiten.KeyHome:       "home",
	ebiten.KeyEnd:        "end",
}

// keyName normalizes an ebiten key to the stage's key names. Letters and
// digits map to their lowercase character, e.g. KeyA to "a" and Key1 to "1".
func keyName(k ebiten.Key) event.Key {
	if name, ok := keyNames[k]; ok {
		return name
	}
	name := k.String()
	if rest, ok := strings.CutPrefix(name, "Digit"); ok {
		name = rest
	}
	return event.Key(strings.ToLower(name))
}

type mouseButton struct {
	button ebiten.MouseButton
	id     int
}

// mouseButtons is ordered so that buttons pressed in the same frame click in
// a fixed order.
var mouseButtons = []mouseButton{
	{ebiten.MouseButtonLeft, event.ButtonLeft},
	{ebiten.MouseButtonRight, event.ButtonRight},
	{ebiten.MouseButtonMiddle, event.ButtonMiddle},
}
