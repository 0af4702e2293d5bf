package camera

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultFOVDegrees      = 90
	DefaultVisibleDistance = 300
)

// Camera holds the viewer position and heading over the map.
// Eye height, horizon and vertical scale belong to the renderers.
type Camera struct {
	Position         image.Point
	DirectionDegrees float64
	FOVDegrees       int
	VisibleDistance  int
}

func New() *Camera {
	return &Camera{
		FOVDegrees:      DefaultFOVDegrees,
		VisibleDistance: DefaultVisibleDistance,
	}
}

// Rotate adds delta degrees to the heading. With wrap set the heading is
// kept in [0, 360); without it the angle grows unbounded.
func (c *Camera) Rotate(delta float64, wrap bool) {
	c.DirectionDegrees += delta
	if wrap {
		c.DirectionDegrees = WrapDegrees(c.DirectionDegrees)
	}
}

// Forward returns the unit vector the camera looks along in map space.
// Heading 0 looks toward -Y.
func (c *Camera) Forward() mgl64.Vec2 {
	return mgl64.Rotate2D(mgl64.DegToRad(c.DirectionDegrees)).Mul2x1(mgl64.Vec2{0, -1})
}

// WrapDegrees maps any angle into [0, 360).
func WrapDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// math.Mod of a tiny negative value can round up to exactly 360
	if deg >= 360 {
		deg = 0
	}
	return deg
}
