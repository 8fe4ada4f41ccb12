package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/fcolor"
	"github.com/disintegration/imaging"
)

// smoothKernel is the 3x3 smoothing filter used as the reference image for
// sharpness adjustment. It is normalized by its sum (13) at convolution time.
var smoothKernel = [9]float64{
	1, 1, 1,
	1, 5, 1,
	1, 1, 1,
}

// Enhancer normalizes a profile picture candidate onto a fixed square canvas.
//
// The zero value is not usable; start from DefaultEnhancer or fill every
// field.
type Enhancer struct {
	// Size is the side length of the square output canvas in pixels.
	Size int

	// Background fills the canvas around the resized crop.
	Background color.Color

	// Contrast is the contrast factor. 1.0 leaves the image unchanged,
	// values above 1.0 push pixels away from the mean gray level.
	Contrast float64

	// Sharpness is the sharpness factor. 1.0 leaves the image unchanged,
	// values above 1.0 push pixels away from a smoothed copy.
	Sharpness float64
}

// DefaultEnhancer returns the enhancer used for profile pictures: a 300x300
// white canvas with a mild 1.1 contrast and sharpness boost.
func DefaultEnhancer() Enhancer {
	return Enhancer{
		Size:       300,
		Background: color.White,
		Contrast:   1.1,
		Sharpness:  1.1,
	}
}

// Enhance normalizes crop and never fails: if normalization cannot be
// performed, the crop is returned unchanged.
func (e Enhancer) Enhance(crop image.Image) image.Image {
	out, err := e.Normalize(crop)
	if err != nil {
		return crop
	}
	return out
}

// Normalize resizes crop onto the enhancer's canvas and applies the contrast
// and sharpness adjustments.
//
// # Steps
//
//  1. Downscale with Lanczos resampling, preserving aspect ratio, so neither
//     side exceeds Size. Crops that already fit are not upscaled.
//  2. Paste the result centered on a fresh Size x Size canvas filled with
//     Background.
//  3. Apply the contrast factor, then the sharpness factor.
//
// The output is always exactly Size x Size. A recovered panic from any step is
// returned as an error.
func (e Enhancer) Normalize(crop image.Image) (out *image.NRGBA, err error) {
	if e.Size <= 0 {
		return nil, fmt.Errorf("invalid canvas size %d", e.Size)
	}
	if crop == nil || crop.Bounds().Empty() {
		return nil, errors.New("empty crop")
	}

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("enhance: %v", r)
		}
	}()

	bg := e.Background
	if bg == nil {
		bg = color.White
	}

	fitted := imaging.Fit(crop, e.Size, e.Size, imaging.Lanczos)
	canvas := imaging.New(e.Size, e.Size, bg)
	canvas = imaging.PasteCenter(canvas, fitted)

	adjusted := AdjustContrast(canvas, e.Contrast)
	adjusted = AdjustSharpness(adjusted, e.Sharpness)

	return imaging.Clone(adjusted), nil
}

// AdjustContrast scales every channel's distance from the image's mean gray
// level by factor.
//
// A factor of 1.0 returns an equivalent image, 0.0 returns a solid gray image
// at the mean level. Results are clamped to 0-255; alpha is preserved.
func AdjustContrast(img image.Image, factor float64) *image.RGBA {
	mean := math.Floor(MeanIntensity(img) + 0.5)

	return adjust.Apply(img, func(c color.RGBA) color.RGBA {
		return color.RGBA{
			R: lerp8(mean, float64(c.R), factor),
			G: lerp8(mean, float64(c.G), factor),
			B: lerp8(mean, float64(c.B), factor),
			A: c.A,
		}
	})
}

// AdjustSharpness scales every pixel's distance from a 3x3 smoothed copy of
// the image by factor.
//
// A factor of 1.0 returns an equivalent image, 0.0 returns the smoothed copy,
// values above 1.0 sharpen. Results are clamped; alpha is preserved.
func AdjustSharpness(img image.Image, factor float64) *image.RGBA {
	smoothed := imaging.Convolve3x3(img, smoothKernel, &imaging.ConvolveOptions{Normalize: true})

	return blend.Blend(smoothed, img, func(degenerate, src fcolor.RGBAF64) fcolor.RGBAF64 {
		return fcolor.RGBAF64{
			R: clampUnit(degenerate.R + factor*(src.R-degenerate.R)),
			G: clampUnit(degenerate.G + factor*(src.G-degenerate.G)),
			B: clampUnit(degenerate.B + factor*(src.B-degenerate.B)),
			A: src.A,
		}
	})
}

func lerp8(from, to, factor float64) uint8 {
	v := from + factor*(to-from)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
