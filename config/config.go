// Package config loads the YAML deck file that tunes a presentation: window
// size, mover and emitter defaults, the palette and navigation keys.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("config: invalid deck")

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	TPS    int    `yaml:"tps"`
	Title  string `yaml:"title"`
}

type Mover struct {
	Damping float64 `yaml:"damping"`
	Speed   float64 `yaml:"speed"`
}

type Emitter struct {
	Interval float64 `yaml:"interval"`
	Lifetime float64 `yaml:"lifetime"`
	Jitter   float64 `yaml:"jitter"`
}

type Keys struct {
	Next []string `yaml:"next"`
	Prev []string `yaml:"prev"`
}

// Tuning overrides the mover and emitter defaults for one scene.
type Tuning struct {
	Mover   *Mover   `yaml:"mover,omitempty"`
	Emitter *Emitter `yaml:"emitter,omitempty"`
}

// Color is an RGB color written as "#rrggbb" in deck files.
type Color color.RGBA

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("line %d: color %q: %w", value.Line, s, err)
	}
	r, g, b := parsed.RGB255()
	*c = Color{R: r, G: g, B: b, A: 0xff}
	return nil
}

func (c Color) MarshalYAML() (any, error) {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), nil
}

func (c Color) RGBA() color.RGBA {
	return color.RGBA(c)
}

// Deck is the top-level deck file.
type Deck struct {
	Title   string            `yaml:"title"`
	Seed    uint64            `yaml:"seed"`
	Window  Window            `yaml:"window"`
	Mover   Mover             `yaml:"mover"`
	Emitter Emitter           `yaml:"emitter"`
	Palette map[string]Color  `yaml:"palette"`
	Keys    Keys              `yaml:"keys"`
	Scenes  map[string]Tuning `yaml:"scenes,omitempty"`
}

// Default returns the deck used when no file is given.
func Default() *Deck {
	return &Deck{
		Title: "slidedeck",
		Seed:  1,
		Window: Window{
			Width:  960,
			Height: 540,
			TPS:    60,
		},
		Mover:   Mover{Damping: 2, Speed: 0.5},
		Emitter: Emitter{Interval: 0.1, Lifetime: 0.8, Jitter: 6},
		Palette: map[string]Color{
			"background": {R: 0x1d, G: 0x20, B: 0x21, A: 0xff},
			"foreground": {R: 0xeb, G: 0xdb, B: 0xb2, A: 0xff},
			"accent":     {R: 0xfe, G: 0x80, B: 0x19, A: 0xff},
			"muted":      {R: 0x66, G: 0x5c, B: 0x54, A: 0xff},
		},
		Keys: Keys{
			Next: []string{"right", "pagedown"},
			Prev: []string{"left", "pageup"},
		},
	}
}

// Parse decodes a deck file over the defaults and validates the result.
func Parse(data []byte) (*Deck, error) {
	d := Default()
	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("parse deck: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Load reads and parses the deck file at path.
func Load(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load deck: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Marshal encodes the deck as YAML.
func (d *Deck) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

func (d *Deck) Validate() error {
	var errs []error
	if d.Window.Width <= 0 || d.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", d.Window.Width, d.Window.Height))
	}
	if d.Window.TPS <= 0 {
		errs = append(errs, fmt.Errorf("window tps %d must be positive", d.Window.TPS))
	}
	errs = append(errs, d.Mover.validate("mover"), d.Emitter.validate("emitter"))
	for name, t := range d.Scenes {
		if t.Mover != nil {
			errs = append(errs, t.Mover.validate("scenes."+name+".mover"))
		}
		if t.Emitter != nil {
			errs = append(errs, t.Emitter.validate("scenes."+name+".emitter"))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (m Mover) validate(path string) error {
	if !(m.Damping > 0) || !(m.Speed > 0) {
		return fmt.Errorf("%s: damping %v and speed %v must be positive", path, m.Damping, m.Speed)
	}
	return nil
}

func (e Emitter) validate(path string) error {
	if !(e.Interval > 0) || !(e.Lifetime > 0) {
		return fmt.Errorf("%s: interval %v and lifetime %v must be positive", path, e.Interval, e.Lifetime)
	}
	if e.Jitter < 0 {
		return fmt.Errorf("%s: jitter %v must not be negative", path, e.Jitter)
	}
	return nil
}

// Color returns the named palette color, or fallback when it is missing.
func (d *Deck) Color(name string, fallback color.RGBA) color.RGBA {
	if c, ok := d.Palette[name]; ok {
		return c.RGBA()
	}
	return fallback
}

// MoverFor returns the mover tuning for a scene.
func (d *Deck) MoverFor(scene string) Mover {
	if t, ok := d.Scenes[scene]; ok && t.Mover != nil {
		return *t.Mover
	}
	return d.Mover
}

// EmitterFor returns the emitter tuning for a scene.
func (d *Deck) EmitterFor(scene string) Emitter {
	if t, ok := d.Scenes[scene]; ok && t.Emitter != nil {
		return *t.Emitter
	}
	return d.Emitter
}
