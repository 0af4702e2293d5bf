package terrain

import "image/color"

// Color565 is a 16-bit packed RGB color, 5 bits red, 6 green, 5 blue.
type Color565 uint16

// RGB565 packs 8-bit channels, dropping the low bits.
func RGB565(r, g, b uint8) Color565 {
	return Color565(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// RGB expands back to 8-bit channels, replicating high bits into the low ones.
func (c Color565) RGB() (r, g, b uint8) {
	r5 := uint8(c>>11) & 0x1F
	g6 := uint8(c>>5) & 0x3F
	b5 := uint8(c) & 0x1F
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// RGBA implements color.Color.
func (c Color565) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.RGB()
	r = uint32(r8)
	r |= r << 8
	g = uint32(g8)
	g |= g << 8
	b = uint32(b8)
	b |= b << 8
	return r, g, b, 0xFFFF
}

// Bytes returns the big-endian byte pair stored in pixel buffers.
func (c Color565) Bytes() (hi, lo byte) {
	return byte(c >> 8), byte(c)
}

// Color565Model converts any color to Color565.
var Color565Model = color.ModelFunc(func(c color.Color) color.Color {
	if c565, ok := c.(Color565); ok {
		return c565
	}
	r, g, b, _ := c.RGBA()
	return RGB565(uint8(r>>8), uint8(g>>8), uint8(b>>8))
})

// Common colors.
var (
	Black          = RGB565(0, 0, 0)
	White          = RGB565(255, 255, 255)
	CornflowerBlue = RGB565(100, 149, 237)
)
