package render

import (
	"errors"
	"fmt"

	"voxel-flyer/internal/camera"
	"voxel-flyer/internal/terrain"
)

var ErrUnknownBackend = errors.New("unknown renderer backend")

// Sink is the display side of a renderer: a frame buffer the renderer only
// writes, and a present call that shows it.
type Sink interface {
	Buffer() *PixelBuffer
	Present() error
}

// Renderer paints one frame of the terrain as seen from the camera into its
// sink and presents it.
type Renderer interface {
	Render(cam *camera.Camera, field *terrain.HeightField) error
	Name() string
	// Close releases worker goroutines, if any
	Close() error
}

// Backend selects a Renderer implementation
type Backend string

const (
	BackendDepthMarch Backend = "depth"
	BackendColumn     Backend = "column"
	BackendFrustum    Backend = "frustum"
)

// Options holds the projection constants of a renderer. Each backend has
// its own defaults; see DefaultOptions.
type Options struct {
	EyeHeight     float64
	VerticalScale float64
	HorizonOffset float64

	// DepthStepGrowth is added to the depth step after every slice
	DepthStepGrowth float64
	// UseCameraFOV derives the depth-march frustum from the camera FOV
	// instead of the fixed 90 degree frustum
	UseCameraFOV bool

	// Workers renders column bands in parallel; 0 or 1 renders serially.
	// Only the column renderer uses it.
	Workers int

	Background terrain.Color565
}

// DefaultOptions returns the tuned constants for a backend
func DefaultOptions(b Backend) Options {
	switch b {
	case BackendFrustum:
		return Options{Background: terrain.Black}
	case BackendColumn:
		return Options{
			EyeHeight:     50,
			VerticalScale: 120,
			HorizonOffset: 120,
			Background:    terrain.Black,
		}
	default:
		return Options{
			EyeHeight:       100,
			VerticalScale:   120,
			HorizonOffset:   120,
			DepthStepGrowth: 0.2,
			Background:      terrain.CornflowerBlue,
		}
	}
}

// New creates the renderer for backend b drawing into sink
func New(b Backend, sink Sink, opts Options) (Renderer, error) {
	switch b {
	case BackendDepthMarch:
		return NewDepthMarch(sink, opts), nil
	case BackendColumn:
		return NewColumnRenderer(sink, opts), nil
	case BackendFrustum:
		return NewFrustumView(sink, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, b)
	}
}

// ProjectRow maps a terrain height seen at depth z to a screen row.
// Nearer samples (smaller z) spread further from the horizon.
func ProjectRow(eyeHeight, sampleHeight, z, verticalScale, horizonOffset float64) float64 {
	return (eyeHeight-sampleHeight)/z*verticalScale + horizonOffset
}
