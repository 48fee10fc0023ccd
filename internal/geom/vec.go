// Package geom holds the small vector and rectangle types shared by the world
// and its systems. World space is y-up; screen space is y-down.
package geom

import (
	"fmt"
	"math"
)

// Vec2i is an integer grid coordinate or direction.
type Vec2i struct {
	X, Y int
}

func V(x, y int) Vec2i { return Vec2i{X: x, Y: y} }

func (v Vec2i) Add(o Vec2i) Vec2i { return Vec2i{v.X + o.X, v.Y + o.Y} }
func (v Vec2i) Sub(o Vec2i) Vec2i { return Vec2i{v.X - o.X, v.Y - o.Y} }
func (v Vec2i) Div(n int) Vec2i   { return Vec2i{v.X / n, v.Y / n} }
func (v Vec2i) IsZero() bool      { return v.X == 0 && v.Y == 0 }

func (v Vec2i) Float() Vec2d { return Vec2d{float64(v.X), float64(v.Y)} }

func (v Vec2i) String() string { return fmt.Sprintf("(%d,%d)", v.X, v.Y) }

// Vec2d is a real-valued position or velocity used for sub-cell motion.
type Vec2d struct {
	X, Y float64
}

func (v Vec2d) Add(o Vec2d) Vec2d     { return Vec2d{v.X + o.X, v.Y + o.Y} }
func (v Vec2d) Scale(f float64) Vec2d { return Vec2d{v.X * f, v.Y * f} }
func (v Vec2d) Length() float64       { return math.Hypot(v.X, v.Y) }
func (v Vec2d) Round() Vec2i          { return Vec2i{int(math.Round(v.X)), int(math.Round(v.Y))} }
func (v Vec2d) String() string        { return fmt.Sprintf("(%.2f,%.2f)", v.X, v.Y) }

// Polar builds a vector from a length and an angle in radians.
func Polar(length, theta float64) Vec2d { return Vec2d{length * math.Cos(theta), length * math.Sin(theta)} }

// Rect is a y-up rectangle anchored at its top-left cell. It covers
// x in [Left, Left+Width) and y in (Top-Height, Top].
type Rect struct {
	Left, Top, Width, Height int
}

func (r Rect) Right() int  { return r.Left + r.Width - 1 }
func (r Rect) Bottom() int { return r.Top - r.Height + 1 }

func (r Rect) Contains(p Vec2i) bool {
	return p.X >= r.Left && p.X < r.Left+r.Width &&
		p.Y <= r.Top && p.Y > r.Top-r.Height
}
