package system

import (
	"github.com/tickworld/server/internal/core/event"
	"github.com/tickworld/server/internal/display"
	"github.com/tickworld/server/internal/geom"
	"github.com/tickworld/server/internal/world"
)

// animateEvery slows sprite animation and flash decay to every third update.
const animateEvery = 3

// RenderSystem animates sprites and draws the visible world.
type RenderSystem struct {
	world   *world.State
	counter int
}

func NewRenderSystem(ws *world.State) *RenderSystem {
	return &RenderSystem{world: ws}
}

func (s *RenderSystem) Update() {
	s.counter++
	if s.counter < animateEvery {
		return
	}
	s.counter = 0

	for _, spr := range s.world.Sprites.Values() {
		spr.Advance()
		if spr.FlashTimer > 0 {
			spr.FlashTimer--
		}
	}
}

func (s *RenderSystem) HandleEvent(event.Event) {}

// Draw paints the ground inside the world bounds, then every sprite layer by
// layer. Sprites outside the bounds are not drawn; flashing ones are white.
func (s *RenderSystem) Draw(d display.Display) {
	w := s.world
	size := geom.V(d.Width(), d.Height())

	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			p := w.Camera.WorldCoord(geom.V(x, y), size)
			if w.Bounds.Contains(p) {
				d.Set(x, y, w.Terrain.At(p), display.ColorWhite, display.ColorBlack)
			}
		}
	}

	sprites := w.Sprites.Values()
	for _, layer := range display.Layers {
		for _, spr := range sprites {
			if spr.Layer != layer || !w.Bounds.Contains(spr.Position) {
				continue
			}
			fg := spr.FG.OrFG()
			if spr.Flashing() {
				fg = display.ColorWhite
			}
			sc := w.Camera.ScreenCoord(spr.Position, size)
			d.Set(sc.X, sc.Y, spr.Glyph(), fg, spr.BG.OrBG())
		}
	}
}
