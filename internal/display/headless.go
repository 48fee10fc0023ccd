package display

// Cell is one character cell of a Headless frame.
type Cell struct {
	Glyph  rune
	FG, BG Color
}

// Headless is an in-memory Device. It records the last frame drawn and feeds a
// fixed cycle of directional input, one direction per poll.
type Headless struct {
	width, height int
	cells         []Cell
	script        []Direction
	next          int
	frames        int
	maxFrames     int
}

// NewHeadless returns a device of the given size. A nil script produces no
// input. maxFrames > 0 makes PollInput report quit after that many polls.
func NewHeadless(width, height int, script []Direction, maxFrames int) *Headless {
	h := &Headless{
		width:     width,
		height:    height,
		cells:     make([]Cell, width*height),
		script:    script,
		maxFrames: maxFrames,
	}
	h.Clear()
	return h
}

// WanderScript walks the player in a small square.
var WanderScript = []Direction{DirUp, DirLeft, DirDown, DirRight}

func (h *Headless) Width() int  { return h.width }
func (h *Headless) Height() int { return h.height }

func (h *Headless) Clear() {
	for i := range h.cells {
		h.cells[i] = Cell{Glyph: ' '}
	}
}

// Set writes one cell. Writes outside the frame are dropped.
func (h *Headless) Set(x, y int, glyph rune, fg, bg Color) {
	if x < 0 || y < 0 || x >= h.width || y >= h.height {
		return
	}
	h.cells[y*h.width+x] = Cell{Glyph: glyph, FG: fg, BG: bg}
}

// At returns the cell at x, y.
func (h *Headless) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= h.width || y >= h.height {
		return Cell{}
	}
	return h.cells[y*h.width+x]
}

// Row returns the glyphs of row y as a string.
func (h *Headless) Row(y int) string {
	rs := make([]rune, h.width)
	for x := range rs {
		rs[x] = h.At(x, y).Glyph
	}
	return string(rs)
}

func (h *Headless) PollInput() ([]Direction, bool) {
	h.frames++
	if h.maxFrames > 0 && h.frames > h.maxFrames {
		return nil, true
	}
	if len(h.script) == 0 {
		return nil, false
	}
	d := h.script[h.next%len(h.script)]
	h.next++
	return []Direction{d}, false
}

func (h *Headless) Show() {}

func (h *Headless) Close() {}
