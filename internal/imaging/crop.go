package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrEmptyRegion is returned when a crop rectangle has no area.
var ErrEmptyRegion = errors.New("invalid crop region: x0 must be < x1, y0 must be < y1")

// Crop extracts a rectangular region from an image.
//
// The rectangle is relative to the image's top-left corner. It must lie fully
// inside the image and have a positive width and height; the check mirrors
// what a caller would expect from slicing a pixel buffer, so no clipping is
// performed.
//
// The returned image always has its origin at (0,0).
func Crop(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	if r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y {
		return nil, ErrEmptyRegion
	}

	bounds := img.Bounds()
	abs := r.Add(bounds.Min)
	if !abs.In(bounds) {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, 0, 0, bounds.Dx(), bounds.Dy())
	}

	return imaging.Crop(img, abs), nil
}
