package component

import (
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/display"
	"github.com/tickworld/server/internal/geom"
)

// Sprite is a drawable glyph sequence at a grid position.
type Sprite struct {
	ID           ecs.ID
	Entity       ecs.ID
	Position     geom.Vec2i
	Layer        display.Layer
	Frames       []rune
	Animated     bool
	Frame        int
	FrameRate    int
	FrameCounter int
	FG, BG       display.Color
	FlashTimer   int
}

// Glyph returns the current frame's glyph, or '?' for an empty sprite.
func (s *Sprite) Glyph() rune {
	if len(s.Frames) == 0 {
		return '?'
	}
	return s.Frames[s.Frame%len(s.Frames)]
}

// SetFrame selects a frame, ignoring indices outside the sequence.
func (s *Sprite) SetFrame(i int) {
	if i >= 0 && i < len(s.Frames) {
		s.Frame = i
	}
}

// Advance steps the animation counter and moves to the next frame once the
// counter reaches the frame rate.
func (s *Sprite) Advance() {
	if !s.Animated || len(s.Frames) == 0 {
		return
	}
	s.FrameCounter++
	if s.FrameCounter >= s.FrameRate {
		s.Frame = (s.Frame + 1) % len(s.Frames)
		s.FrameCounter = 0
	}
}

// Flashing reports whether the hit-flash is showing.
func (s *Sprite) Flashing() bool {
	return s.FlashTimer > 0
}
