package render

import (
	"image"
	"image/color"

	"voxel-flyer/internal/terrain"
)

// BytesPerPixel matches the RGB565 encoding of the color map
const BytesPerPixel = 2

// PixelBuffer is a row-major RGB565 frame, two big-endian bytes per pixel.
// It implements draw.Image so overlays can use the image/draw ecosystem.
type PixelBuffer struct {
	width, height int
	Pix           []byte
}

func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		width:  width,
		height: height,
		Pix:    make([]byte, width*height*BytesPerPixel),
	}
}

func (b *PixelBuffer) Width() int  { return b.width }
func (b *PixelBuffer) Height() int { return b.height }

func (b *PixelBuffer) ColorModel() color.Model { return terrain.Color565Model }

func (b *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

func (b *PixelBuffer) offset(x, y int) int {
	return (y*b.width + x) * BytesPerPixel
}

// Set565 writes one pixel. Coordinates must be in bounds.
func (b *PixelBuffer) Set565(x, y int, c terrain.Color565) {
	i := b.offset(x, y)
	b.Pix[i], b.Pix[i+1] = c.Bytes()
}

// At565 reads one pixel. Coordinates must be in bounds.
func (b *PixelBuffer) At565(x, y int) terrain.Color565 {
	i := b.offset(x, y)
	return terrain.Color565(uint16(b.Pix[i])<<8 | uint16(b.Pix[i+1]))
}

func (b *PixelBuffer) At(x, y int) color.Color {
	if !image.Pt(x, y).In(b.Bounds()) {
		return terrain.Black
	}
	return b.At565(x, y)
}

func (b *PixelBuffer) Set(x, y int, c color.Color) {
	if !image.Pt(x, y).In(b.Bounds()) {
		return
	}
	b.Set565(x, y, terrain.Color565Model.Convert(c).(terrain.Color565))
}

// Fill paints the whole frame with c
func (b *PixelBuffer) Fill(c terrain.Color565) {
	if len(b.Pix) == 0 {
		return
	}
	b.Pix[0], b.Pix[1] = c.Bytes()
	// double the filled prefix until the buffer is full
	for n := BytesPerPixel; n < len(b.Pix); n *= 2 {
		copy(b.Pix[n:], b.Pix[:n])
	}
}

// Clear paints the frame black
func (b *PixelBuffer) Clear() {
	clear(b.Pix)
}

// RGBA converts the frame to 8-bit RGBA for presenters that need it.
// dst is reused when it has the right length.
func (b *PixelBuffer) RGBA(dst []byte) []byte {
	n := b.width * b.height * 4
	if len(dst) != n {
		dst = make([]byte, n)
	}
	for i, j := 0, 0; i < len(b.Pix); i, j = i+BytesPerPixel, j+4 {
		c := terrain.Color565(uint16(b.Pix[i])<<8 | uint16(b.Pix[i+1]))
		dst[j], dst[j+1], dst[j+2] = c.RGB()
		dst[j+3] = 0xFF
	}
	return dst
}

// MemorySink is a Sink that keeps the frame in memory and counts presents.
// Headless capture and tests render into it.
type MemorySink struct {
	buf      *PixelBuffer
	Presents int
	// OnPresent, when set, is called with the finished frame
	OnPresent func(*PixelBuffer) error
}

func NewMemorySink(width, height int) *MemorySink {
	return &MemorySink{buf: NewPixelBuffer(width, height)}
}

func (s *MemorySink) Buffer() *PixelBuffer { return s.buf }

func (s *MemorySink) Present() error {
	s.Presents++
	if s.OnPresent != nil {
		return s.OnPresent(s.buf)
	}
	return nil
}
