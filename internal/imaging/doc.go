// Package imaging provides the pixel-level operations used by the profile
// picture extractor.
//
// This package implements the primitives the extraction pipeline composes:
// bounds-checked cropping, a 3x3 edge filter with mean intensity measurement,
// PNG persistence, a debug overlay that outlines scored candidate regions, and
// the Enhancer that normalizes a selected crop onto a fixed square canvas.
// All operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Coordinate System
//
// Rectangles are image.Rectangle values relative to the top-left corner of
// the source image:
//   - Min is inclusive (top-left)
//   - Max is exclusive (bottom-right)
//   - Width = Max.X - Min.X, Height = Max.Y - Min.Y
//
// Sources whose Bounds().Min is not (0,0) are handled by translating the
// rectangle before cropping.
//
// # Thread Safety
//
// Every function in this package is stateless and returns a freshly allocated
// image. Calls can run concurrently on different images, and on the same image
// as long as no caller mutates it.
//
// # Luminance
//
// Grayscale conversion uses ITU-R BT.601 weights (0.299*R + 0.587*G + 0.114*B),
// the same weights used for single-channel "L" images by common raster tools,
// so edge intensities are comparable with values measured elsewhere.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Rectangles outside the image bounds
//   - Empty rectangles (zero width or height)
//   - File I/O errors while writing PNG files
//
// The Enhancer is the exception: it is best-effort and falls back to returning
// its input unchanged.
package imaging
