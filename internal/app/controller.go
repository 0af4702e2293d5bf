package app

import (
	"image"

	"github.com/go-gl/mathgl/mgl64"

	"voxel-flyer/internal/camera"
	"voxel-flyer/internal/config"
	"voxel-flyer/internal/input"
)

// Controller turns debounced button states into camera motion. It must run
// after InputManager.Tick in the same frame.
type Controller struct {
	input  *input.InputManager
	camera *camera.Camera

	RotateRate  float64 // degrees per second while a button is held
	TapStep     float64 // degrees per completed tap
	FlightSpeed float64 // map cells per second along the heading
	WrapHeading bool

	// sub-cell flight distance not yet applied to the integer position
	carry mgl64.Vec2
}

func NewController(im *input.InputManager, cam *camera.Camera, s config.CameraSettings) *Controller {
	return &Controller{
		input:       im,
		camera:      cam,
		RotateRate:  s.RotateRate,
		TapStep:     s.TapStep,
		FlightSpeed: s.FlightSpeed,
		WrapHeading: s.WrapHeading,
	}
}

// Update advances the camera by dt seconds.
func (c *Controller) Update(dt float64) {
	var delta float64
	switch c.input.State(input.ButtonLeft) {
	case input.Down:
		delta -= c.RotateRate * dt
	case input.Pressed:
		delta -= c.TapStep
	}
	switch c.input.State(input.ButtonRight) {
	case input.Down:
		delta += c.RotateRate * dt
	case input.Pressed:
		delta += c.TapStep
	}
	if delta != 0 {
		c.camera.Rotate(delta, c.WrapHeading)
	}

	if c.FlightSpeed > 0 {
		c.fly(dt)
	}
}

func (c *Controller) fly(dt float64) {
	c.carry = c.carry.Add(c.camera.Forward().Mul(c.FlightSpeed * dt))
	step := image.Pt(int(c.carry.X()), int(c.carry.Y()))
	if step == (image.Point{}) {
		return
	}
	c.camera.Position = c.camera.Position.Add(step)
	c.carry = c.carry.Sub(mgl64.Vec2{float64(step.X), float64(step.Y)})
}
