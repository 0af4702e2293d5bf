package terrain

import "math"

// Deterministic tileable value noise. Lattice coordinates are wrapped by the
// lattice period of each octave so the result repeats exactly at the map edge.

const (
	baseCells   = 4
	octaves     = 5
	persistence = 0.5
	seaLevel    = 56
)

type band struct {
	top       uint8
	low, high [3]uint8
}

// Elevation bands from the sea floor up, each shaded from low to high.
var bands = []band{
	{top: seaLevel, low: [3]uint8{20, 50, 120}, high: [3]uint8{40, 90, 170}},
	{top: 70, low: [3]uint8{194, 178, 128}, high: [3]uint8{214, 200, 150}},
	{top: 150, low: [3]uint8{40, 110, 40}, high: [3]uint8{90, 150, 60}},
	{top: 210, low: [3]uint8{110, 100, 90}, high: [3]uint8{150, 140, 130}},
	{top: 255, low: [3]uint8{220, 220, 225}, high: [3]uint8{255, 255, 255}},
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func hash2(x, y int64, seed int64) uint64 {
	// SplitMix64 style integer hash
	v := uint64(x) + (uint64(y) << 1) + uint64(seed)*0x9E3779B97F4A7C15
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

func latticeValue(x, y int64, seed int64) float64 {
	h := hash2(x, y, seed)
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

// periodicNoise samples value noise on a lattice of cellsX by cellsY cells
// that wraps around; u and v are in lattice units.
func periodicNoise(u, v float64, cellsX, cellsY int, seed int64) float64 {
	x0 := math.Floor(u)
	y0 := math.Floor(v)
	fx := fade(u - x0)
	fy := fade(v - y0)

	ix0 := int64(Wrap(int(x0), cellsX))
	iy0 := int64(Wrap(int(y0), cellsY))
	ix1 := int64(Wrap(int(x0)+1, cellsX))
	iy1 := int64(Wrap(int(y0)+1, cellsY))

	v00 := latticeValue(ix0, iy0, seed)
	v10 := latticeValue(ix1, iy0, seed)
	v01 := latticeValue(ix0, iy1, seed)
	v11 := latticeValue(ix1, iy1, seed)

	return lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fy)
}

// elevation returns a [0,1] octave sum at map position (x, y).
func elevation(x, y, width, height int, seed int64) float64 {
	amplitude := 1.0
	cells := baseCells
	sum := 0.0
	norm := 0.0
	for i := range octaves {
		u := float64(x) * float64(cells) / float64(width)
		v := float64(y) * float64(cells) / float64(height)
		sum += periodicNoise(u, v, cells, cells, seed+int64(i*131)) * amplitude
		norm += amplitude
		amplitude *= persistence
		cells *= 2
	}
	return sum / norm
}

// Generate builds a tileable height field with a color map shaded by
// elevation band. Water is flattened to sea level.
func Generate(width, height int, seed int64) (*HeightField, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyMap
	}
	colors := make([]Color565, width*height)
	heights := make([]uint8, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			e := elevation(x, y, width, height, seed)
			// stretch the mid-range; octave sums cluster around 0.5
			e = math.Min(1, math.Max(0, (e-0.5)*1.8+0.5))
			h := uint8(e * 255)

			i := y*width + x
			colors[i] = shade(h)
			if h < seaLevel {
				h = seaLevel
			}
			heights[i] = h
		}
	}
	return New(width, height, colors, heights)
}

func shade(h uint8) Color565 {
	var bottom uint8
	for _, b := range bands {
		if h <= b.top {
			t := 0.0
			if b.top > bottom {
				t = float64(h-bottom) / float64(b.top-bottom)
			}
			return RGB565(
				uint8(lerp(float64(b.low[0]), float64(b.high[0]), t)),
				uint8(lerp(float64(b.low[1]), float64(b.high[1]), t)),
				uint8(lerp(float64(b.low[2]), float64(b.high[2]), t)),
			)
		}
		bottom = b.top
	}
	return White
}
