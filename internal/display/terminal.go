package display

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/text/width"
)

// Terminal is a Device backed by a tcell screen.
type Terminal struct {
	screen  tcell.Screen
	pending []Direction
}

// NewTerminal takes over the controlling terminal. Failure here is fatal for
// interactive runs.
func NewTerminal() (*Terminal, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	s.HideCursor()
	s.SetStyle(tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack))
	s.Clear()
	return &Terminal{screen: s, pending: make([]Direction, 0, 4)}, nil
}

func (t *Terminal) Width() int {
	w, _ := t.screen.Size()
	return w
}

func (t *Terminal) Height() int {
	_, h := t.screen.Size()
	return h
}

func (t *Terminal) Clear() {
	t.screen.Clear()
}

func (t *Terminal) Set(x, y int, glyph rune, fg, bg Color) {
	style := tcell.StyleDefault.Foreground(tcellColor(fg.OrFG())).Background(tcellColor(bg.OrBG()))
	t.screen.SetContent(x, y, narrowGlyph(glyph), nil, style)
}

// PollInput drains pending terminal events without blocking.
func (t *Terminal) PollInput() ([]Direction, bool) {
	t.pending = t.pending[:0]
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return nil, true
			case tcell.KeyUp:
				t.pending = append(t.pending, DirUp)
			case tcell.KeyDown:
				t.pending = append(t.pending, DirDown)
			case tcell.KeyLeft:
				t.pending = append(t.pending, DirLeft)
			case tcell.KeyRight:
				t.pending = append(t.pending, DirRight)
			case tcell.KeyRune:
				if ev.Rune() == 'q' {
					return nil, true
				}
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
	return t.pending, false
}

func (t *Terminal) Show() {
	t.screen.Show()
}

func (t *Terminal) Close() {
	t.screen.Fini()
}

// narrowGlyph folds wide glyphs to their narrow form so every sprite occupies
// exactly one cell.
func narrowGlyph(r rune) rune {
	p := width.LookupRune(r)
	switch p.Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		if n := p.Narrow(); n != 0 {
			return n
		}
		return '?'
	}
	return r
}

func tcellColor(c Color) tcell.Color {
	switch c {
	case ColorBlack:
		return tcell.ColorBlack
	case ColorRed:
		return tcell.ColorRed
	case ColorGreen:
		return tcell.ColorGreen
	case ColorYellow:
		return tcell.ColorYellow
	case ColorBlue:
		return tcell.ColorBlue
	case ColorMagenta:
		return tcell.ColorFuchsia
	case ColorCyan:
		return tcell.ColorAqua
	case ColorWhite:
		return tcell.ColorWhite
	default:
		return tcell.ColorDefault
	}
}
