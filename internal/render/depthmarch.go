package render

import (
	"image"
	"math"

	"voxel-flyer/internal/camera"
	"voxel-flyer/internal/profiling"
	"voxel-flyer/internal/terrain"
)

// DepthMarch renders front to back in depth slices of growing thickness.
// Each slice is a line across the view projected row by row; a per-column
// boundary of the topmost painted row keeps farther slices from painting
// over nearer ones, so no depth buffer is needed.
type DepthMarch struct {
	sink    Sink
	opts    Options
	yBuffer []int

	// onSpan observes every painted span; rows top+1..bottom of column x
	onSpan func(x, top, bottom int)
}

func NewDepthMarch(sink Sink, opts Options) *DepthMarch {
	return &DepthMarch{sink: sink, opts: opts}
}

func (r *DepthMarch) Name() string { return string(BackendDepthMarch) }

func (r *DepthMarch) Close() error { return nil }

func (r *DepthMarch) Render(cam *camera.Camera, field *terrain.HeightField) error {
	func() {
		defer profiling.Track("render.DepthMarch")()
		r.march(cam, field)
	}()

	defer profiling.Track("render.Present")()
	return r.sink.Present()
}

func (r *DepthMarch) march(cam *camera.Camera, field *terrain.HeightField) {
	buf := r.sink.Buffer()
	width, height := buf.Width(), buf.Height()
	buf.Fill(r.opts.Background)

	if len(r.yBuffer) != width {
		r.yBuffer = make([]int, width)
	}
	for x := range r.yBuffer {
		r.yBuffer[x] = height - 1
	}

	view := NewView(cam)
	maxDepth := float64(cam.VisibleDistance)

	dz := 1.0
	for z := 1.0; z < maxDepth; z += dz {
		halfWidth := z
		if r.opts.UseCameraFOV {
			halfWidth = HalfWidth(cam.FOVDegrees, z)
		}
		l, rt := view.Segment(halfWidth, z)
		left := truncPoint(l, cam.Position)
		right := truncPoint(rt, cam.Position)

		stepX := float64(right.X-left.X) / float64(width)
		stepY := float64(right.Y-left.Y) / float64(width)
		px, py := float64(left.X), float64(left.Y)

		for x := 0; x < width; x++ {
			p := field.Normalize(image.Pt(int(px), int(py)))
			px += stepX
			py += stepY

			row := ProjectRow(r.opts.EyeHeight, float64(field.HeightAt(p)), z, r.opts.VerticalScale, r.opts.HorizonOffset)
			bottom := r.yBuffer[x]
			top := int(math.Max(math.Floor(row), -1))
			if top >= bottom {
				continue
			}

			c := field.ColorAt(p)
			for y := bottom; y > top; y-- {
				buf.Set565(x, y, c)
			}
			if r.onSpan != nil {
				r.onSpan(x, top, bottom)
			}
			r.yBuffer[x] = top
		}

		dz += r.opts.DepthStepGrowth
	}
}
