package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Darker pixels map to denser glyphs.
const shades = " .:-=+*#%@"

// printDigit renders one sample's pixel vector (values in [0, 1]) as a
// side x side block of ASCII shading on stdout.
func printDigit(pixels []float64, side int) {
	for y := 0; y < side; y++ {
		line := make([]byte, side)
		for x := 0; x < side; x++ {
			v := pixels[y*side+x]
			if v < 0 {
				v = 0
			}
			if v > 1 {
				v = 1
			}
			line[x] = shades[int(v*float64(len(shades)-1))]
		}
		fmt.Println(string(line))
	}
}

// savePNG writes one sample's pixel vector as a grayscale PNG. The pixels
// are staged through a tensor shaped side x side before rasterizing.
func savePNG(pixels []float64, side int, path string) error {
	backing := make([]float32, len(pixels))
	for i, v := range pixels {
		backing[i] = float32(v)
	}
	t := tensor.New(tensor.Of(tensor.Float32), tensor.WithShape(side, side), tensor.WithBacking(backing))

	img := image.NewGray(image.Rect(0, 0, side, side))
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			v, err := t.At(y, x)
			if err != nil {
				return errors.Wrapf(err, "render: tensor at (%d,%d)", y, x)
			}
			img.SetGray(x, y, color.Gray{Y: uint8(v.(float32) * 255.0)})
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "render: create %s", path)
	}
	defer file.Close()
	if err := png.Encode(file, img); err != nil {
		return errors.Wrapf(err, "render: encode %s", path)
	}
	return nil
}
