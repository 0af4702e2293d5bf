// Package termdisplay draws frames in a terminal with tcell, two pixels per
// character cell using the upper half block.
package termdisplay

import (
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"voxel-flyer/internal/input"
	"voxel-flyer/internal/profiling"
	"voxel-flyer/internal/render"
	"voxel-flyer/internal/terrain"
)

const halfBlock = '▀'

type Display struct {
	screen tcell.Screen
	keys   *input.KeyMap[tcell.Key]
	runes  *input.KeyMap[rune]
	buf    *render.PixelBuffer

	closed atomic.Bool
	done   chan struct{}
}

// DefaultBindings binds arrows and a/d to rotation, Escape, Ctrl-C and q to
// quit, and h to the HUD.
func DefaultBindings(keys *input.KeyMap[tcell.Key], runes *input.KeyMap[rune]) {
	keys.Bind(tcell.KeyLeft, input.ButtonLeft)
	keys.Bind(tcell.KeyRight, input.ButtonRight)
	keys.Bind(tcell.KeyEscape, input.ButtonQuit)
	keys.Bind(tcell.KeyCtrlC, input.ButtonQuit)
	runes.Bind('a', input.ButtonLeft)
	runes.Bind('d', input.ButtonRight)
	runes.Bind('q', input.ButtonQuit)
	runes.Bind('h', input.ButtonHUD)
}

// New takes over an initialised screen. The frame is sized to the screen at
// this moment: one pixel per column, two per row.
func New(screen tcell.Screen, im *input.InputManager) *Display {
	cols, rows := screen.Size()
	d := &Display{
		screen: screen,
		keys:   input.NewKeyMap[tcell.Key](im),
		runes:  input.NewKeyMap[rune](im),
		buf:    render.NewPixelBuffer(max(cols, 1), max(rows*2, 2)),
		done:   make(chan struct{}),
	}
	DefaultBindings(d.keys, d.runes)

	screen.HideCursor()
	screen.Clear()
	go d.pollLoop()
	return d
}

// pollLoop feeds terminal key events to the InputManager. Terminals report
// presses only, so every key is a tap.
func (d *Display) pollLoop() {
	defer close(d.done)
	for {
		ev := d.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyRune {
				d.runes.HandleTap(ev.Rune())
			} else {
				d.keys.HandleTap(ev.Key())
			}
		case *tcell.EventResize:
			d.screen.Sync()
		}
	}
}

func (d *Display) Buffer() *render.PixelBuffer { return d.buf }

func (d *Display) Present() error {
	defer profiling.Track("term.Show")()
	w, h := d.buf.Width(), d.buf.Height()
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			top := d.buf.At565(x, y)
			bottom := top
			if y+1 < h {
				bottom = d.buf.At565(x, y+1)
			}
			style := tcell.StyleDefault.Foreground(cellColor(top)).Background(cellColor(bottom))
			d.screen.SetContent(x, y/2, halfBlock, nil, style)
		}
	}
	d.screen.Show()
	return nil
}

func cellColor(c terrain.Color565) tcell.Color {
	r, g, b := c.RGB()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// PollEvents is a no-op; key events arrive on the poll goroutine.
func (d *Display) PollEvents() {}

func (d *Display) ShouldClose() bool { return d.closed.Load() }

// Close restores the terminal and waits for the poll goroutine to exit.
func (d *Display) Close() {
	if d.closed.Swap(true) {
		return
	}
	d.screen.Fini()
	<-d.done
}
