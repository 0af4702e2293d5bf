package app

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"voxel-flyer/internal/camera"
	"voxel-flyer/internal/config"
	"voxel-flyer/internal/hud"
	"voxel-flyer/internal/input"
	"voxel-flyer/internal/profiling"
	"voxel-flyer/internal/render"
	"voxel-flyer/internal/terrain"
)

// Window is a display the app can drive: a render sink that also pumps
// its own input events into the InputManager.
type Window interface {
	render.Sink
	PollEvents()
	ShouldClose() bool
}

const slowFrame = 16 * time.Millisecond

type App struct {
	window     Window
	input      *input.InputManager
	renderer   render.Renderer
	camera     *camera.Camera
	field      *terrain.HeightField
	controller *Controller

	fpsLimiter       *FPSLimiter
	lastTime         time.Time
	frames           int
	fps              int
	lastFPSCheckTime time.Time

	stopped atomic.Bool
}

// New wires an App for the given settings. field is read-only from here on.
func New(s config.Settings, window Window, im *input.InputManager, field *terrain.HeightField) (*App, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	backend, opts, err := RenderOptions(s.Render)
	if err != nil {
		return nil, err
	}

	a := &App{
		window:           window,
		input:            im,
		camera:           NewCamera(s),
		field:            field,
		fpsLimiter:       NewFPSLimiter(config.GetFPSLimit),
		lastTime:         time.Now(),
		lastFPSCheckTime: time.Now(),
	}
	a.controller = NewController(im, a.camera, s.Camera)

	a.renderer, err = render.New(backend, &overlaySink{Window: window, app: a}, opts)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) Camera() *camera.Camera      { return a.camera }
func (a *App) Controller() *Controller     { return a.controller }
func (a *App) Renderer() render.Renderer   { return a.renderer }
func (a *App) Input() *input.InputManager  { return a.input }
func (a *App) Field() *terrain.HeightField { return a.field }

// Close releases the renderer's workers.
func (a *App) Close() error { return a.renderer.Close() }

// FPS returns the frame count of the last full second.
func (a *App) FPS() int { return a.fps }

// Stop makes Run return after the current frame. Safe from any goroutine.
func (a *App) Stop() { a.stopped.Store(true) }

func (a *App) Stopped() bool { return a.stopped.Load() }

// Step runs one frame's logic for dt seconds: drain input, move the camera,
// then render and present. The order never changes.
func (a *App) Step(dt float64) error {
	func() { defer profiling.Track("input.Tick")(); a.input.Tick() }()

	if a.input.State(input.ButtonQuit) != input.Up {
		a.Stop()
		return nil
	}
	if a.input.WasPressed(input.ButtonHUD) {
		config.ToggleHUD()
	}

	func() { defer profiling.Track("app.Update")(); a.controller.Update(dt) }()

	return a.renderer.Render(a.camera, a.field)
}

// Frame polls the window and runs one Step with the time elapsed since the
// previous frame. Backends that own the main loop call this directly.
func (a *App) Frame() error {
	profiling.ResetFrame()
	now := time.Now()
	dt := now.Sub(a.lastTime).Seconds()
	a.lastTime = now

	func() { defer profiling.Track("window.PollEvents")(); a.window.PollEvents() }()

	if err := a.Step(dt); err != nil {
		return err
	}

	a.frames++
	if time.Since(a.lastFPSCheckTime) >= time.Second {
		log.Printf("FPS: %d", a.frames)
		a.fps = a.frames
		a.frames = 0
		a.lastFPSCheckTime = time.Now()
	}

	// Check if frame took too long (> 16ms)
	if d := time.Since(now); d > slowFrame {
		log.Printf("Slow frame: %v. Top tasks: %s", d, profiling.TopN(5))
	}
	return nil
}

// Run drives frames until the window closes, Stop is called, a frame fails,
// or ctx is done. It must run on the goroutine that owns the window.
func (a *App) Run(ctx context.Context) error {
	for !a.window.ShouldClose() && !a.Stopped() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.Frame(); err != nil {
			return err
		}
		a.fpsLimiter.Wait()
	}
	return nil
}

// overlaySink draws the HUD over the finished frame before presenting.
type overlaySink struct {
	Window
	app *App
}

func (s *overlaySink) Present() error {
	if config.GetShowHUD() {
		func() {
			defer profiling.Track("hud.Draw")()
			hud.Draw(s.Buffer(), hud.Stats{
				Heading:  camera.WrapDegrees(s.app.camera.DirectionDegrees),
				FPS:      s.app.fps,
				Backend:  s.app.renderer.Name(),
				Position: s.app.field.Normalize(s.app.camera.Position),
			})
		}()
	}
	return s.Window.Present()
}
