package app

import (
	"fmt"
	"image"
	"log"
	"runtime"

	"voxel-flyer/internal/camera"
	"voxel-flyer/internal/config"
	"voxel-flyer/internal/render"
	"voxel-flyer/internal/terrain"
)

// LoadField builds the heightfield selected by the map settings.
func LoadField(m config.MapSettings) (*terrain.HeightField, error) {
	switch m.Source {
	case config.MapSourceGenerated:
		log.Printf("Generating %dx%d map, seed %d", m.Width, m.Height, m.Seed)
		return terrain.Generate(m.Width, m.Height, m.Seed)
	case config.MapSourceFiles:
		return terrain.LoadDir(m.Dir, m.ColorFile, m.HeightFile)
	default:
		return nil, fmt.Errorf("%w: unknown map source %q", config.ErrInvalidConfig, m.Source)
	}
}

// NewCamera places the camera at the centre of the screen-sized area of the
// map, facing the configured heading.
func NewCamera(s config.Settings) *camera.Camera {
	cam := camera.New()
	cam.Position = image.Pt(s.Display.Width/2, s.Display.Height/2)
	cam.DirectionDegrees = s.Camera.Direction
	cam.FOVDegrees = s.Camera.FOV
	cam.VisibleDistance = s.Camera.VisibleDistance
	return cam
}

// RenderOptions returns the backend and its options with the configured
// overrides applied. Depth-march tuning and the sky colour only apply to the
// depth-march backend, worker count only to the column backend.
func RenderOptions(r config.RenderSettings) (render.Backend, render.Options, error) {
	b := render.Backend(r.Backend)
	opts := render.DefaultOptions(b)
	if b == render.BackendColumn {
		opts.Workers = r.Workers
		if opts.Workers == 0 {
			opts.Workers = runtime.GOMAXPROCS(0)
		}
	}
	if b != render.BackendDepthMarch {
		return b, opts, nil
	}

	sky, err := r.Sky()
	if err != nil {
		return b, opts, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	opts.Background = sky
	opts.DepthStepGrowth = r.DepthStepGrowth
	opts.UseCameraFOV = r.UseCameraFOV
	return b, opts, nil
}
