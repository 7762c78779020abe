package event

// Mouse buttons reported in Click.Button.
const (
	ButtonLeft = iota
	ButtonRight
	ButtonMiddle
)

// Click is a pointer press in stage coordinates.
type Click struct {
	X, Y   float64
	Button int
}

// Key is a normalized key name such as "space", "right", "enter" or "a".
type Key string

// Input is the engine facing input surface of a stage. Hosts emit into it
// between ticks; scripts and decks subscribe to it.
type Input struct {
	Clicks *Source[Click]
	Keys   *Source[Key]
}

func NewInput() *Input {
	return &Input{
		Clicks: NewSource[Click]("click"),
		Keys:   NewSource[Key]("key"),
	}
}

// Click emits a left click at x, y.
func (in *Input) Click(x, y float64) {
	in.Clicks.Emit(Click{X: x, Y: y, Button: ButtonLeft})
}

func (in *Input) Press(key Key) {
	in.Keys.Emit(key)
}

// AnyKey accepts any key in keys; with no keys it accepts every key.
func AnyKey(keys ...Key) func(Key) bool {
	if len(keys) == 0 {
		return nil
	}
	return func(k Key) bool {
		for _, want := range keys {
			if k == want {
				return true
			}
		}
		return false
	}
}
