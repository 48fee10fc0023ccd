package world

import (
	"math/rand"

	"github.com/tickworld/server/internal/geom"
)

// ShakeStrength selects how far a camera shake may jolt the view.
type ShakeStrength uint8

const (
	ShakeStrong ShakeStrength = iota // ±1 on both axes
	ShakeWeak                        // ±1 on one axis per jolt
)

const (
	shakeDuration = 7 // gated ticks a shake lasts
)

// TrackMargin is how close the tracked point may come to a viewport edge
// before the camera re-centers, and how far it moves when it does.
var TrackMargin = geom.V(8, 4)

// Camera maps between world space (y-up) and screen space (y-down).
type Camera struct {
	Center      geom.Vec2i
	Shaking     bool
	Strength    ShakeStrength
	ShakeTimer  int
	ShakeOffset geom.Vec2i
}

// Final is the camera center including any active shake offset.
func (c *Camera) Final() geom.Vec2i {
	if c.Shaking {
		return c.Center.Add(c.ShakeOffset)
	}
	return c.Center
}

// ScreenCoord maps a world cell to a screen cell.
func (c *Camera) ScreenCoord(world, screenSize geom.Vec2i) geom.Vec2i {
	cam := c.Final()
	return geom.V(world.X-cam.X, cam.Y-world.Y).Add(screenSize.Div(2))
}

// WorldCoord maps a screen cell to a world cell. It inverts ScreenCoord.
func (c *Camera) WorldCoord(screen, screenSize geom.Vec2i) geom.Vec2i {
	cam := c.Final()
	q := screen.Sub(screenSize.Div(2))
	return geom.V(q.X+cam.X, -(q.Y - cam.Y))
}

// Track re-centers the camera by one margin step when the tracked world point
// comes within the margin of a viewport edge. It reports whether it moved.
func (c *Camera) Track(world, screenSize geom.Vec2i) bool {
	sc := c.ScreenCoord(world, screenSize)
	switch {
	case screenSize.X-sc.X < TrackMargin.X:
		c.Center.X += TrackMargin.X
	case sc.X < TrackMargin.X:
		c.Center.X -= TrackMargin.X
	case screenSize.Y-sc.Y < TrackMargin.Y:
		c.Center.Y -= TrackMargin.Y
	case sc.Y < TrackMargin.Y:
		c.Center.Y += TrackMargin.Y
	default:
		return false
	}
	return true
}

// StartShake (re)starts a shake. A weak shake never overrides a strong one
// already running.
func (c *Camera) StartShake(strength ShakeStrength) {
	if c.Shaking && c.Strength == ShakeStrong && strength == ShakeWeak {
		c.ShakeTimer = 0
		return
	}
	c.Shaking = true
	c.Strength = strength
	c.ShakeTimer = 0
}

// UpdateShake advances an active shake by one gated tick.
func (c *Camera) UpdateShake(rng *rand.Rand) {
	if !c.Shaking {
		return
	}
	c.ShakeTimer++
	switch {
	case c.ShakeTimer > shakeDuration:
		c.Shaking = false
		c.ShakeOffset = geom.Vec2i{}
		c.ShakeTimer = 0
	case c.ShakeTimer%2 == 0:
		c.ShakeOffset = c.jolt(rng)
	}
}

func (c *Camera) jolt(rng *rand.Rand) geom.Vec2i {
	if c.Strength == ShakeWeak {
		if rng.Intn(2) == 0 {
			return geom.V(rng.Intn(3)-1, 0)
		}
		return geom.V(0, rng.Intn(3)-1)
	}
	return geom.V(rng.Intn(3)-1, rng.Intn(3)-1)
}
