// Package display defines the presentation device the simulation draws to and
// reads input from, plus the two devices that implement it: a headless one for
// tests and batch runs, and a tcell terminal.
package display

import (
	"fmt"
	"strings"
)

// Display is the cell-addressed output device. The render system is its only
// writer.
type Display interface {
	Clear()
	Set(x, y int, glyph rune, fg, bg Color)
	Width() int
	Height() int
}

// Device is a Display that also produces input and presents frames.
type Device interface {
	Display
	// PollInput returns the directional input gathered since the last call.
	// quit is true once the user asked to leave.
	PollInput() (dirs []Direction, quit bool)
	// Show presents the frame drawn since the last Clear.
	Show()
	Close()
}

// Direction is a discrete directional input.
type Direction uint8

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "Up"
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	case DirRight:
		return "Right"
	default:
		return "None"
	}
}

// Color is one of the eight palette colors. ColorDefault lets the device pick
// (white foreground, black background).
type Color uint8

const (
	ColorDefault Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
)

var colorNames = [...]string{"default", "black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("color(%d)", c)
}

// ParseColor maps a palette name to its Color.
func ParseColor(name string) (Color, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return ColorDefault, nil
	}
	for i, cn := range colorNames {
		if cn == n {
			return Color(i), nil
		}
	}
	return ColorDefault, fmt.Errorf("unknown color %q", name)
}

func (c *Color) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// OrFG resolves ColorDefault for use as a foreground.
func (c Color) OrFG() Color {
	if c == ColorDefault {
		return ColorWhite
	}
	return c
}

// OrBG resolves ColorDefault for use as a background.
func (c Color) OrBG() Color {
	if c == ColorDefault {
		return ColorBlack
	}
	return c
}

// Layer orders sprites for drawing. It has no effect on simulation.
type Layer uint8

const (
	LayerGround Layer = iota
	LayerGroundCover
	LayerParticles
	LayerMobBelow
	LayerMob
	LayerMobAbove
)

// Layers lists every layer in draw order, bottom first.
var Layers = [...]Layer{LayerGround, LayerGroundCover, LayerParticles, LayerMobBelow, LayerMob, LayerMobAbove}

var layerNames = [...]string{"ground", "ground_cover", "particles", "mob_below", "mob", "mob_above"}

func (l Layer) String() string {
	if int(l) < len(layerNames) {
		return layerNames[l]
	}
	return fmt.Sprintf("layer(%d)", l)
}

// ParseLayer maps a layer name to its Layer.
func ParseLayer(name string) (Layer, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, ln := range layerNames {
		if ln == n {
			return Layer(i), nil
		}
	}
	return LayerGround, fmt.Errorf("unknown render layer %q", name)
}

func (l *Layer) UnmarshalText(text []byte) error {
	v, err := ParseLayer(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func (l Layer) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}
