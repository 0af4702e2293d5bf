package app

import (
	"context"
	"errors"
	"image"
	"math"
	"testing"
	"time"

	"voxel-flyer/internal/config"
	"voxel-flyer/internal/input"
	"voxel-flyer/internal/render"
	"voxel-flyer/internal/terrain"
)

var grass = terrain.RGB565(40, 200, 40)

type fakeWindow struct {
	*render.MemorySink
	polls      int
	closeAfter int // polls before ShouldClose reports true, 0 = never
	onPoll     func()
}

func (w *fakeWindow) PollEvents() {
	w.polls++
	if w.onPoll != nil {
		w.onPoll()
	}
}

func (w *fakeWindow) ShouldClose() bool {
	return w.closeAfter > 0 && w.polls >= w.closeAfter
}

func testSettings() config.Settings {
	s := config.Default()
	s.Display.Width, s.Display.Height = 64, 64
	s.Map.Source = config.MapSourceGenerated
	return s
}

func newTestApp(t *testing.T, s config.Settings) (*App, *fakeWindow) {
	t.Helper()
	field, err := terrain.Uniform(128, 128, grass, 0)
	if err != nil {
		t.Fatal(err)
	}
	win := &fakeWindow{MemorySink: render.NewMemorySink(s.Display.Width, s.Display.Height)}
	a, err := New(s, win, input.NewInputManager(), field)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a, win
}

func TestStepHoldRotates(t *testing.T) {
	a, win := newTestApp(t, testSettings())
	a.Input().Push(input.ButtonLeft)

	if err := a.Step(0.5); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := a.Camera().DirectionDegrees; math.Abs(got-135) > 1e-9 {
		t.Errorf("Expected heading 135 after half a second of left, got %v", got)
	}
	if win.Presents != 1 {
		t.Errorf("Expected one present per step, got %d", win.Presents)
	}

	a.Input().Release(input.ButtonLeft)
	if err := a.Step(0.5); err != nil {
		t.Fatal(err)
	}
	// the release completes a press, which also counts as a tap
	if got := a.Camera().DirectionDegrees; math.Abs(got-130) > 1e-9 {
		t.Errorf("Expected tap step on release, got %v", got)
	}
}

func TestStepTapWithinOneFrame(t *testing.T) {
	a, _ := newTestApp(t, testSettings())
	a.Input().Push(input.ButtonRight)
	a.Input().Release(input.ButtonRight)

	if err := a.Step(0.016); err != nil {
		t.Fatal(err)
	}
	if got := a.Camera().DirectionDegrees; math.Abs(got-185) > 1e-9 {
		t.Errorf("Expected a tap to turn 5 degrees, got %v", got)
	}
	if err := a.Step(0.016); err != nil {
		t.Fatal(err)
	}
	if got := a.Camera().DirectionDegrees; math.Abs(got-185) > 1e-9 {
		t.Errorf("Expected the tap to apply once, got %v", got)
	}
}

func TestHeadingWrapSetting(t *testing.T) {
	s := testSettings()
	s.Camera.Direction = 10
	s.Camera.WrapHeading = false
	a, _ := newTestApp(t, s)

	a.Input().Push(input.ButtonLeft)
	if err := a.Step(1); err != nil {
		t.Fatal(err)
	}
	if got := a.Camera().DirectionDegrees; got != -80 {
		t.Errorf("Expected unwrapped heading -80, got %v", got)
	}

	a.Controller().WrapHeading = true
	if err := a.Step(1); err != nil {
		t.Fatal(err)
	}
	if got := a.Camera().DirectionDegrees; got != 190 {
		t.Errorf("Expected wrapped heading 190, got %v", got)
	}
}

func TestFlightAccumulatesSubCellSteps(t *testing.T) {
	s := testSettings()
	s.Camera.Direction = 90
	s.Camera.FlightSpeed = 10
	a, _ := newTestApp(t, s)
	start := a.Camera().Position

	for i := 0; i < 4; i++ {
		if err := a.Step(0.25); err != nil {
			t.Fatal(err)
		}
	}
	if got := a.Camera().Position.Sub(start); got != image.Pt(10, 0) {
		t.Errorf("Expected to move 10 cells along +X, moved %v", got)
	}
}

func TestQuitStopsRun(t *testing.T) {
	a, win := newTestApp(t, testSettings())
	win.onPoll = func() {
		if win.polls == 3 {
			a.Input().Push(input.ButtonQuit)
		}
	}

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !a.Stopped() {
		t.Error("Expected quit to stop the app")
	}
	if win.Presents != 2 {
		t.Errorf("Expected 2 frames before quit, got %d", win.Presents)
	}
}

func TestRunUntilWindowCloses(t *testing.T) {
	a, win := newTestApp(t, testSettings())
	win.closeAfter = 5

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if win.Presents != 5 {
		t.Errorf("Expected 5 frames, got %d", win.Presents)
	}
}

func TestRunHonoursContext(t *testing.T) {
	a, win := newTestApp(t, testSettings())
	ctx, cancel := context.WithCancel(context.Background())
	win.OnPresent = func(*render.PixelBuffer) error {
		if win.Presents == 2 {
			cancel()
		}
		return nil
	}

	if err := a.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRunReturnsPresentError(t *testing.T) {
	a, win := newTestApp(t, testSettings())
	boom := errors.New("display gone")
	win.OnPresent = func(*render.PixelBuffer) error { return boom }

	if err := a.Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Expected present error, got %v", err)
	}
}

func TestHUDToggle(t *testing.T) {
	defer config.Apply(config.Default())
	config.SetShowHUD(false)

	a, win := newTestApp(t, testSettings())
	if err := a.Step(0); err != nil {
		t.Fatal(err)
	}
	if c := win.Buffer().At565(0, 0); c != terrain.CornflowerBlue {
		t.Fatalf("Expected sky in the corner without HUD, got %#04x", uint16(c))
	}

	a.Input().Push(input.ButtonHUD)
	a.Input().Release(input.ButtonHUD)
	if err := a.Step(0); err != nil {
		t.Fatal(err)
	}
	if !config.GetShowHUD() {
		t.Fatal("Expected HUD to be toggled on")
	}
	if c := win.Buffer().At565(0, 0); c != terrain.Black {
		t.Errorf("Expected HUD background in the corner, got %#04x", uint16(c))
	}
}

func TestNewRejectsBadSettings(t *testing.T) {
	s := testSettings()
	s.Render.Backend = "raytrace"
	field, _ := terrain.Uniform(8, 8, grass, 0)
	win := &fakeWindow{MemorySink: render.NewMemorySink(8, 8)}
	if _, err := New(s, win, input.NewInputManager(), field); err == nil {
		t.Error("Expected unknown backend to be rejected")
	}
}

func TestRenderOptions(t *testing.T) {
	r := config.Default().Render
	r.SkyColor = "#000000"
	r.DepthStepGrowth = 0.5
	r.UseCameraFOV = true

	b, opts, err := RenderOptions(r)
	if err != nil {
		t.Fatal(err)
	}
	if b != render.BackendDepthMarch || opts.Background != terrain.Black || opts.DepthStepGrowth != 0.5 || !opts.UseCameraFOV {
		t.Errorf("unexpected depth options %v %+v", b, opts)
	}

	r.Backend = string(render.BackendColumn)
	r.Workers = 3
	_, opts, err = RenderOptions(r)
	if err != nil {
		t.Fatal(err)
	}
	want := render.DefaultOptions(render.BackendColumn)
	want.Workers = 3
	if opts != want {
		t.Errorf("Expected column defaults plus workers, got %+v", opts)
	}

	r.Backend = string(render.BackendFrustum)
	b, opts, err = RenderOptions(r)
	if err != nil {
		t.Fatal(err)
	}
	if b != render.BackendFrustum || opts != render.DefaultOptions(render.BackendFrustum) {
		t.Errorf("Expected frustum defaults, got %v %+v", b, opts)
	}
}

func TestFrustumBackendRuns(t *testing.T) {
	s := testSettings()
	s.Render.Backend = "frustum"
	a, win := newTestApp(t, s)
	if err := a.Step(0); err != nil {
		t.Fatal(err)
	}
	if a.Renderer().Name() != "frustum" || win.Presents != 1 {
		t.Errorf("Expected one frustum frame, got %q with %d presents", a.Renderer().Name(), win.Presents)
	}
	// the camera starts at the display centre
	if c := win.Buffer().At565(32, 32); c != terrain.White {
		t.Errorf("Expected camera pixel at the centre, got %#04x", uint16(c))
	}
}

func TestLoadFieldGenerated(t *testing.T) {
	m := config.Default().Map
	m.Source = config.MapSourceGenerated
	m.Width, m.Height = 32, 16
	f, err := LoadField(m)
	if err != nil {
		t.Fatal(err)
	}
	if f.Width() != 32 || f.Height() != 16 {
		t.Errorf("Expected 32x16 field, got %dx%d", f.Width(), f.Height())
	}

	m.Source = "ftp"
	if _, err := LoadField(m); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestFPSLimiterCapsFrameRate(t *testing.T) {
	limit := 0
	l := NewFPSLimiter(func() int { return limit })
	start := time.Now()
	l.Wait()
	if time.Since(start) > 50*time.Millisecond {
		t.Error("Expected uncapped Wait to return immediately")
	}

	limit = 100
	start = time.Now()
	for i := 0; i < 3; i++ {
		l.Wait()
	}
	if d := time.Since(start); d < 25*time.Millisecond {
		t.Errorf("Expected 3 frames at 100 FPS to take ~30ms, took %v", d)
	}
}

func TestFPSLimiterResyncsAfterHitch(t *testing.T) {
	l := NewFPSLimiter(func() int { return 100 })
	l.Wait()

	// a frame much longer than the 10ms period must not be followed by a
	// burst of catch-up frames
	time.Sleep(50 * time.Millisecond)
	l.Wait()
	start := time.Now()
	l.Wait()
	if d := time.Since(start); d < 5*time.Millisecond {
		t.Errorf("Expected a full period after a hitch, waited %v", d)
	}
}

func TestAppFollowsRuntimeFPSLimit(t *testing.T) {
	defer config.Apply(config.Default())

	a, win := newTestApp(t, testSettings())
	win.closeAfter = 3
	config.SetFPSLimit(50)

	start := time.Now()
	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if d := time.Since(start); d < 40*time.Millisecond {
		t.Errorf("Expected 3 frames at 50 FPS to take ~60ms, took %v", d)
	}
}
