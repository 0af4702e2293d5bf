package render

import (
	"image"
	"image/draw"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"

	"voxel-flyer/internal/camera"
	"voxel-flyer/internal/profiling"
	"voxel-flyer/internal/terrain"
)

// FrustumView is a top-down debug view in map coordinates: the camera as a
// single pixel and the triangle from it to the far plane. Screen pixel
// (x, y) is map cell (x, y) and nothing wraps.
type FrustumView struct {
	sink   Sink
	opts   Options
	raster vector.Rasterizer
	mask   *image.Alpha
}

func NewFrustumView(sink Sink, opts Options) *FrustumView {
	return &FrustumView{sink: sink, opts: opts}
}

func (r *FrustumView) Name() string { return string(BackendFrustum) }

func (r *FrustumView) Close() error { return nil }

func (r *FrustumView) Render(cam *camera.Camera, _ *terrain.HeightField) error {
	func() {
		defer profiling.Track("render.Frustum")()
		r.draw(cam)
	}()

	defer profiling.Track("render.Present")()
	return r.sink.Present()
}

func (r *FrustumView) draw(cam *camera.Camera) {
	buf := r.sink.Buffer()
	bounds := buf.Bounds()
	buf.Fill(r.opts.Background)

	if r.mask == nil || r.mask.Bounds() != bounds {
		r.mask = image.NewAlpha(bounds)
	} else {
		clear(r.mask.Pix)
	}
	r.raster.Reset(bounds.Dx(), bounds.Dy())

	eye := cam.Position
	left, right := FarPlane(cam)
	stroke(&r.raster, left, right)
	stroke(&r.raster, left, eye)
	stroke(&r.raster, right, eye)

	r.raster.Draw(r.mask, bounds, image.Opaque, image.Point{})
	draw.DrawMask(buf, bounds, image.NewUniform(terrain.White), image.Point{}, r.mask, image.Point{}, draw.Over)

	if eye.In(bounds) {
		buf.Set565(eye.X, eye.Y, terrain.White)
	}
}

// stroke adds a one pixel wide line through the centres of pixels a and b,
// extended half a pixel past both ends.
func stroke(z *vector.Rasterizer, a, b image.Point) {
	if a == b {
		return
	}
	from := mgl32.Vec2{float32(a.X) + 0.5, float32(a.Y) + 0.5}
	to := mgl32.Vec2{float32(b.X) + 0.5, float32(b.Y) + 0.5}
	along := to.Sub(from).Normalize().Mul(0.5)
	across := mgl32.Vec2{-along.Y(), along.X()}

	from, to = from.Sub(along), to.Add(along)
	z.MoveTo(from.Add(across).Elem())
	z.LineTo(to.Add(across).Elem())
	z.LineTo(to.Sub(across).Elem())
	z.LineTo(from.Sub(across).Elem())
	z.ClosePath()
}
