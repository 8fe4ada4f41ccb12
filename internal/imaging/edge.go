package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// findEdgesKernel is the classic 3x3 "find edges" Laplacian: eight times the
// centre pixel minus its eight neighbours.
var findEdgesKernel = [9]float64{
	-1, -1, -1,
	-1, 8, -1,
	-1, -1, -1,
}

// FindEdges converts an image to luminance and applies the 3x3 find-edges
// filter.
//
// Parameters:
//   - img: Source image (color or grayscale).
//
// Returns a grayscale image (stored as NRGBA with equal R, G and B channels)
// of the same size as the input. Uniform interiors map to 0; sharp transitions
// map towards 255.
//
// # Algorithm
//
//  1. Grayscale conversion: RGB -> luminance using ITU-R BT.601 weights
//  2. Convolution with the find-edges kernel:
//
//     -1 -1 -1
//     -1  8 -1
//     -1 -1 -1
//
//  3. Negative responses clamp to 0, responses above 255 clamp to 255
//  4. The outermost row and column keep their luminance unfiltered
//
// Step 4 matches the usual raster-tool behaviour for 3x3 filters: border
// pixels are copied, not filtered, so a bright uniform crop still has a small
// positive mean that grows as the crop gets smaller. Images narrower or
// shorter than 3 pixels are all border.
func FindEdges(img image.Image) *image.NRGBA {
	gray := imaging.Grayscale(img)
	edges := imaging.Convolve3x3(gray, findEdgesKernel, nil)
	copyBorder(edges, gray)
	return edges
}

// copyBorder copies the outermost pixels of src into dst. Both images share
// the same size and a (0,0) origin.
func copyBorder(dst, src *image.NRGBA) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	for y := 0; y < h; y++ {
		step := w - 1
		if y == 0 || y == h-1 || step < 1 {
			step = 1
		}
		for x := 0; x < w; x += step {
			i := dst.PixOffset(x, y)
			j := src.PixOffset(x, y)
			copy(dst.Pix[i:i+4], src.Pix[j:j+4])
		}
	}
}

// MeanIntensity returns the mean luminance of an image in the range 0-255.
//
// For the single-channel output of FindEdges this is the mean edge-pixel
// intensity. Color images are reduced with the same BT.601 weights used for
// grayscale conversion. An empty image has a mean of 0.
func MeanIntensity(img image.Image) float64 {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 0
	}

	var sum float64
	if n, ok := img.(*image.NRGBA); ok {
		for y := 0; y < bounds.Dy(); y++ {
			off := n.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			row := n.Pix[off : off+bounds.Dx()*4]
			for i := 0; i < len(row); i += 4 {
				sum += luminance(float64(row[i]), float64(row[i+1]), float64(row[i+2]))
			}
		}
		return sum / float64(total)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			sum += luminance(float64(r>>8), float64(g>>8), float64(b>>8))
		}
	}
	return sum / float64(total)
}

// EdgeIntensity is FindEdges followed by MeanIntensity.
func EdgeIntensity(img image.Image) float64 {
	return MeanIntensity(FindEdges(img))
}

func luminance(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}
