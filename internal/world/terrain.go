package world

import (
	"math/rand"

	"github.com/tickworld/server/internal/geom"
)

// Terrain glyphs.
const (
	TileFlat     = '.'
	TileTrampled = '_'
	TileGrass    = ','
	TileBare     = ' '
	regrowOneInN = 31
)

// Terrain is the ground glyph grid covering the world bounds.
// Accessed only from the simulation goroutine.
type Terrain struct {
	bounds geom.Rect
	tiles  []rune
}

func NewTerrain(bounds geom.Rect, fill rune) *Terrain {
	t := &Terrain{
		bounds: bounds,
		tiles:  make([]rune, bounds.Width*bounds.Height),
	}
	t.Fill(fill)
	return t
}

func (t *Terrain) index(p geom.Vec2i) (int, bool) {
	if !t.bounds.Contains(p) {
		return 0, false
	}
	col := p.X - t.bounds.Left
	row := t.bounds.Top - p.Y
	return row*t.bounds.Width + col, true
}

// At returns the tile at p, or ' ' outside the bounds.
func (t *Terrain) At(p geom.Vec2i) rune {
	i, ok := t.index(p)
	if !ok {
		return TileBare
	}
	return t.tiles[i]
}

// Set changes the tile at p. Points outside the bounds are ignored.
func (t *Terrain) Set(p geom.Vec2i, r rune) {
	if i, ok := t.index(p); ok {
		t.tiles[i] = r
	}
}

func (t *Terrain) Fill(r rune) {
	for i := range t.tiles {
		t.tiles[i] = r
	}
}

// Decay lets trampled ground regrow. Each trampled tile turns flat with
// probability 1/31 per call. It returns the number of tiles that regrew.
func (t *Terrain) Decay(rng *rand.Rand) int {
	n := 0
	for i, r := range t.tiles {
		if r == TileTrampled && rng.Intn(regrowOneInN) == 0 {
			t.tiles[i] = TileFlat
			n++
		}
	}
	return n
}

// Count returns how many tiles hold r.
func (t *Terrain) Count(r rune) int {
	n := 0
	for _, tr := range t.tiles {
		if tr == r {
			n++
		}
	}
	return n
}
