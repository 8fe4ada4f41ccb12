package detection

import (
	"image"
	"image/color"
	"image/draw"
)

func blankImage(width, height int) *image.RGBA {
	return solidImage(width, height, color.White)
}

func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

// paintCheckerboard fills r with a one-pixel checkerboard of two gray levels.
func paintCheckerboard(img *image.RGBA, r image.Rectangle, low, high uint8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			v := low
			if (x+y)%2 == 0 {
				v = high
			}
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
}

func checkerboard(width, height int, low, high uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	paintCheckerboard(img, img.Bounds(), low, high)
	return img
}
