// Package hud draws the heading/FPS overlay straight into a frame buffer.
package hud

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const padding = 2

var (
	face       font.Face = basicfont.Face7x13
	foreground           = image.NewUniform(color.White)
	background           = image.NewUniform(color.Black)
)

// Stats is what the overlay shows for one frame.
type Stats struct {
	Heading  float64
	FPS      int
	Backend  string
	Position image.Point
}

// Lines formats s into the overlay text, top to bottom.
func Lines(s Stats) []string {
	return []string{
		fmt.Sprintf("HDG %05.1f", s.Heading),
		fmt.Sprintf("FPS %d", s.FPS),
		fmt.Sprintf("%s %d,%d", s.Backend, s.Position.X, s.Position.Y),
	}
}

// Draw paints the overlay into the top-left corner of dst and returns the
// rectangle it covered. Text is clipped to dst's bounds.
func Draw(dst draw.Image, s Stats) image.Rectangle {
	lines := Lines(s)
	m := face.Metrics()
	lineHeight := m.Height.Ceil()
	ascent := m.Ascent.Ceil()

	width := 0
	for _, l := range lines {
		if w := font.MeasureString(face, l).Ceil(); w > width {
			width = w
		}
	}

	origin := dst.Bounds().Min
	box := image.Rect(0, 0, width+2*padding, len(lines)*lineHeight+2*padding).Add(origin)
	box = box.Intersect(dst.Bounds())
	draw.Draw(dst, box, background, image.Point{}, draw.Src)

	d := &font.Drawer{Dst: dst, Src: foreground, Face: face}
	for i, l := range lines {
		d.Dot = fixed.P(origin.X+padding, origin.Y+padding+ascent+i*lineHeight)
		d.DrawString(l)
	}
	return box
}
