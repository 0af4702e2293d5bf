package render

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"voxel-flyer/internal/camera"
)

// View holds the heading rotation of a camera, computed once per frame and
// reused for every depth slice.
type View struct {
	rot mgl64.Mat2
}

func NewView(cam *camera.Camera) View {
	return View{rot: mgl64.Rotate2D(mgl64.DegToRad(cam.DirectionDegrees))}
}

// Segment returns the ends of the line visible across the full screen width
// at the given depth, relative to the camera. The local points
// (-halfWidth, -depth) and (halfWidth, -depth) are rotated by the heading.
func (v View) Segment(halfWidth, depth float64) (left, right mgl64.Vec2) {
	left = v.rot.Mul2x1(mgl64.Vec2{-halfWidth, -depth})
	right = v.rot.Mul2x1(mgl64.Vec2{halfWidth, -depth})
	return left, right
}

// HalfWidth is the frustum half-width at depth for a field of view
func HalfWidth(fovDegrees int, depth float64) float64 {
	return math.Tan(mgl64.DegToRad(float64(fovDegrees))/2) * depth
}

// truncPoint truncates toward zero and offsets by the camera position
func truncPoint(v mgl64.Vec2, origin image.Point) image.Point {
	return image.Pt(int(v.X())+origin.X, int(v.Y())+origin.Y)
}

// roundPoint rounds half to even and offsets by the camera position
func roundPoint(v mgl64.Vec2, origin image.Point) image.Point {
	return image.Pt(int(math.RoundToEven(v.X()))+origin.X, int(math.RoundToEven(v.Y()))+origin.Y)
}
