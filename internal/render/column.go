package render

import (
	"image"

	"github.com/go-gl/mathgl/mgl64"

	"voxel-flyer/internal/camera"
	"voxel-flyer/internal/profiling"
	"voxel-flyer/internal/terrain"
)

// ColumnRenderer casts one ray per screen column from the camera to the far
// plane and walks it upward from the bottom row, filling each column from
// the current row to where the sampled terrain projects. Rows only move
// upward, so nearer terrain is never painted over. Columns are independent,
// so with Options.Workers > 1 bands of columns render in parallel.
type ColumnRenderer struct {
	sink Sink
	opts Options
	pool *WorkerPool
}

func NewColumnRenderer(sink Sink, opts Options) *ColumnRenderer {
	r := &ColumnRenderer{sink: sink, opts: opts}
	if opts.Workers > 1 {
		r.pool = NewWorkerPool(opts.Workers)
	}
	return r
}

func (r *ColumnRenderer) Name() string { return string(BackendColumn) }

func (r *ColumnRenderer) Close() error {
	if r.pool != nil {
		r.pool.Shutdown()
		r.pool = nil
	}
	return nil
}

func (r *ColumnRenderer) Render(cam *camera.Camera, field *terrain.HeightField) error {
	func() {
		defer profiling.Track("render.Columns")()
		r.columns(cam, field)
	}()

	defer profiling.Track("render.Present")()
	return r.sink.Present()
}

// FarPlane returns the map-space ends of the far plane, rounded to whole
// map cells.
func FarPlane(cam *camera.Camera) (left, right image.Point) {
	depth := float64(cam.VisibleDistance)
	// the half-width is truncated to whole cells before rotating
	halfWidth := float64(int(HalfWidth(cam.FOVDegrees, depth)))
	l, r := NewView(cam).Segment(halfWidth, depth)
	return roundPoint(l, cam.Position), roundPoint(r, cam.Position)
}

func (r *ColumnRenderer) columns(cam *camera.Camera, field *terrain.HeightField) {
	buf := r.sink.Buffer()
	width, height := buf.Width(), buf.Height()
	buf.Fill(r.opts.Background)

	left, right := FarPlane(cam)
	columnDelta := mgl64.Vec2{
		float64(right.X-left.X) / float64(width),
		float64(right.Y-left.Y) / float64(width),
	}
	origin := mgl64.Vec2{float64(cam.Position.X), float64(cam.Position.Y)}
	leftV := mgl64.Vec2{float64(left.X), float64(left.Y)}

	band := func(lo, hi int) {
		for x := lo; x < hi; x++ {
			far := roundPoint(leftV.Add(columnDelta.Mul(float64(x))), image.Point{})
			rowDelta := mgl64.Vec2{float64(far.X), float64(far.Y)}.Sub(origin).Mul(1 / float64(height))
			r.column(x, origin, rowDelta, field, buf)
		}
	}
	if r.pool != nil {
		r.pool.Run(width, band)
	} else {
		band(0, width)
	}
}

func (r *ColumnRenderer) column(x int, origin, rowDelta mgl64.Vec2, field *terrain.HeightField, buf *PixelBuffer) {
	height := buf.Height()

	row := 0
	for row < height {
		s := origin.Add(rowDelta.Mul(float64(row)))
		p := field.Normalize(image.Pt(int(s.X()), int(s.Y())))

		top := int(ProjectRow(r.opts.EyeHeight, float64(field.HeightAt(p)), float64(row+1), r.opts.VerticalScale, r.opts.HorizonOffset))
		if top <= row {
			row++
			continue
		}
		if top > height {
			top = height
		}

		c := field.ColorAt(p)
		for ; row < top; row++ {
			buf.Set565(x, height-row-1, c)
		}
	}
}
