// Package render rasterizes PDF pages.
//
// The pipeline depends on the Rasterizer interface; Fitz is the production
// implementation backed by MuPDF through go-fitz.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/gen2brain/go-fitz"
)

// DefaultDPI is the resolution used for page previews and region scoring.
const DefaultDPI = 200

// ErrNoImage is returned when a document opens but yields no page image.
var ErrNoImage = errors.New("document produced no page image")

// Rasterizer renders the first page of a PDF file.
type Rasterizer interface {
	Render(ctx context.Context, pdfPath string, dpi float64) (image.Image, error)
}

// Fitz renders pages with MuPDF. The zero value is ready to use and safe for
// concurrent calls; each call opens its own document.
type Fitz struct{}

// NewFitz returns a MuPDF-backed rasterizer.
func NewFitz() *Fitz {
	return &Fitz{}
}

// Render opens pdfPath and renders page 1 at the given resolution.
//
// # Errors
//
//   - Returns ctx.Err() if the context is done before rendering starts
//   - Returns error if the file cannot be opened as a document
//   - Returns ErrNoImage if the document has no pages
//   - Returns error if MuPDF fails to render the page
func (f *Fitz) Render(ctx context.Context, pdfPath string, dpi float64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if dpi <= 0 {
		return nil, fmt.Errorf("invalid resolution: %g dpi", dpi)
	}
	if _, err := os.Stat(pdfPath); err != nil {
		return nil, fmt.Errorf("failed to stat document: %w", err)
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, ErrNoImage
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := doc.ImageDPI(0, dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to render page 1: %w", err)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, ErrNoImage
	}
	return img, nil
}
