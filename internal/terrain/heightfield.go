package terrain

import (
	"errors"
	"fmt"
	"image"
)

var (
	ErrEmptyMap          = errors.New("map has zero width or height")
	ErrDimensionMismatch = errors.New("color and height map dimensions differ")
)

// HeightField is a co-indexed color and elevation grid addressed toroidally.
// It is immutable once built.
type HeightField struct {
	width, height int
	colors        []Color565
	heights       []uint8
}

// New builds a height field from row-major grids of width*height samples.
func New(width, height int, colors []Color565, heights []uint8) (*HeightField, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyMap
	}
	n := width * height
	if len(colors) != n || len(heights) != n {
		return nil, fmt.Errorf("%w: want %d samples, have %d colors and %d heights",
			ErrDimensionMismatch, n, len(colors), len(heights))
	}
	return &HeightField{
		width:   width,
		height:  height,
		colors:  colors,
		heights: heights,
	}, nil
}

// Uniform builds a height field where every sample has the same color and elevation.
func Uniform(width, height int, c Color565, h uint8) (*HeightField, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyMap
	}
	colors := make([]Color565, width*height)
	heights := make([]uint8, width*height)
	for i := range colors {
		colors[i] = c
		heights[i] = h
	}
	return New(width, height, colors, heights)
}

func (f *HeightField) Width() int  { return f.width }
func (f *HeightField) Height() int { return f.height }

// Wrap maps c into [0, dim) the way repeated add/subtract of dim would.
func Wrap(c, dim int) int {
	c %= dim
	if c < 0 {
		c += dim
	}
	return c
}

// Normalize wraps a map-space point onto the torus.
func (f *HeightField) Normalize(p image.Point) image.Point {
	return image.Point{X: Wrap(p.X, f.width), Y: Wrap(p.Y, f.height)}
}

// ColorAt expects a point already passed through Normalize.
func (f *HeightField) ColorAt(p image.Point) Color565 {
	return f.colors[p.Y*f.width+p.X]
}

// HeightAt expects a point already passed through Normalize.
func (f *HeightField) HeightAt(p image.Point) uint8 {
	return f.heights[p.Y*f.width+p.X]
}
