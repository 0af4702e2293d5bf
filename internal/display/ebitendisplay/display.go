// Package ebitendisplay presents frames in an ebiten window. Ebiten owns the
// main loop, so the app's frame function is driven from Game.Update.
package ebitendisplay

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"voxel-flyer/internal/config"
	"voxel-flyer/internal/input"
	"voxel-flyer/internal/profiling"
	"voxel-flyer/internal/render"
)

type Display struct {
	settings config.DisplaySettings
	keys     *input.KeyMap[ebiten.Key]

	buf   *render.PixelBuffer
	rgba  []byte
	image *ebiten.Image

	scratch []ebiten.Key
}

// DefaultBindings binds arrows and A/D to rotation, Escape/Q to quit and
// H to the HUD.
func DefaultBindings(km *input.KeyMap[ebiten.Key]) {
	km.Bind(ebiten.KeyArrowLeft, input.ButtonLeft)
	km.Bind(ebiten.KeyA, input.ButtonLeft)
	km.Bind(ebiten.KeyArrowRight, input.ButtonRight)
	km.Bind(ebiten.KeyD, input.ButtonRight)
	km.Bind(ebiten.KeyEscape, input.ButtonQuit)
	km.Bind(ebiten.KeyQ, input.ButtonQuit)
	km.Bind(ebiten.KeyH, input.ButtonHUD)
}

func New(s config.DisplaySettings, im *input.InputManager) *Display {
	d := &Display{
		settings: s,
		keys:     input.NewKeyMap[ebiten.Key](im),
		buf:      render.NewPixelBuffer(s.Width, s.Height),
	}
	DefaultBindings(d.keys)
	return d
}

func (d *Display) Buffer() *render.PixelBuffer { return d.buf }

// Present converts the frame to RGBA; the next Draw uploads it.
func (d *Display) Present() error {
	defer profiling.Track("ebiten.Convert")()
	d.rgba = d.buf.RGBA(d.rgba)
	return nil
}

// PollEvents forwards this tick's key edges. Only valid inside Update.
func (d *Display) PollEvents() {
	d.scratch = inpututil.AppendJustPressedKeys(d.scratch[:0])
	for _, k := range d.scratch {
		d.keys.HandleKey(k, true)
	}
	d.scratch = inpututil.AppendJustReleasedKeys(d.scratch[:0])
	for _, k := range d.scratch {
		d.keys.HandleKey(k, false)
	}
}

func (d *Display) ShouldClose() bool { return ebiten.IsWindowBeingClosed() }

// Run opens the window and calls frame once per tick until frame returns
// an error or the window closes. Returning ebiten.Termination from frame
// ends the loop without error.
func (d *Display) Run(frame func() error) error {
	ebiten.SetWindowSize(d.settings.Width*d.settings.Scale, d.settings.Height*d.settings.Scale)
	ebiten.SetWindowTitle(d.settings.Title)
	ebiten.SetWindowClosingHandled(true)

	if limit := config.GetFPSLimit(); limit > 0 {
		ebiten.SetTPS(limit)
	} else {
		ebiten.SetTPS(ebiten.SyncWithFPS)
		ebiten.SetVsyncEnabled(false)
	}
	return ebiten.RunGame(&game{display: d, frame: frame})
}

type game struct {
	display *Display
	frame   func() error
}

func (g *game) Update() error {
	if g.display.ShouldClose() {
		return ebiten.Termination
	}
	return g.frame()
}

func (g *game) Draw(screen *ebiten.Image) {
	d := g.display
	if d.rgba == nil {
		return
	}
	if d.image == nil {
		d.image = ebiten.NewImage(d.buf.Width(), d.buf.Height())
	}
	d.image.WritePixels(d.rgba)
	screen.DrawImage(d.image, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.display.buf.Width(), g.display.buf.Height()
}
