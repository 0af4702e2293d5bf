package terrain

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"log"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
)

const (
	colorMapFormat  = "24-bit BMP or PNG color map"
	heightMapFormat = "8-bit grayscale BMP or PNG height map"
)

// Load decodes a color map and a height map from disk. Both images must have
// the same dimensions. Any failure is returned wrapped; callers treat it as fatal.
func Load(colorPath, heightPath string) (*HeightField, error) {
	colorImg, err := decodeFile(colorPath, colorMapFormat)
	if err != nil {
		return nil, err
	}
	heightImg, err := decodeFile(heightPath, heightMapFormat)
	if err != nil {
		return nil, err
	}

	cb, hb := colorImg.Bounds(), heightImg.Bounds()
	if cb.Dx() != hb.Dx() || cb.Dy() != hb.Dy() {
		log.Printf("Map size mismatch: %s is %dx%d, %s is %dx%d",
			colorPath, cb.Dx(), cb.Dy(), heightPath, hb.Dx(), hb.Dy())
		return nil, fmt.Errorf("%w: %s is %dx%d, %s is %dx%d", ErrDimensionMismatch,
			colorPath, cb.Dx(), cb.Dy(), heightPath, hb.Dx(), hb.Dy())
	}

	field, err := New(cb.Dx(), cb.Dy(), toColor565(colorImg), toGray8(heightImg))
	if err != nil {
		return nil, fmt.Errorf("failed to build map from %s: %w", colorPath, err)
	}
	log.Printf("Loaded map %dx%d from %s and %s", field.width, field.height, colorPath, heightPath)
	return field, nil
}

// LoadDir loads colorName and heightName relative to dir.
func LoadDir(dir, colorName, heightName string) (*HeightField, error) {
	return Load(filepath.Join(dir, colorName), filepath.Join(dir, heightName))
}

func decodeFile(path, format string) (image.Image, error) {
	log.Printf("Attempting to load bitmap file: %s", path)

	f, err := os.Open(path)
	if err != nil {
		log.Printf("Failed to load %s: the file should be a %s", path, format)
		return nil, fmt.Errorf("failed to open map file %s: %w", path, err)
	}
	defer f.Close()

	img, kind, err := image.Decode(f)
	if err != nil {
		log.Printf("Failed to load %s: the file should be a %s", path, format)
		return nil, fmt.Errorf("failed to decode map file %s as %s: %w", path, format, err)
	}
	log.Printf("Decoded %s as %s (%T)", path, kind, img.ColorModel())
	return img, nil
}

func toColor565(img image.Image) []Color565 {
	b := img.Bounds()
	out := make([]Color565, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out = append(out, Color565Model.Convert(img.At(x, y)).(Color565))
		}
	}
	return out
}

func toGray8(img image.Image) []uint8 {
	b := img.Bounds()
	out := make([]uint8, 0, b.Dx()*b.Dy())
	if g, ok := img.(*image.Gray); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := g.Pix[g.PixOffset(b.Min.X, y):g.PixOffset(b.Max.X, y)]
			out = append(out, row...)
		}
		return out
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out = append(out, color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y)
		}
	}
	return out
}
