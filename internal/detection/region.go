package detection

import (
	"fmt"
	"image"
)

// RegionName identifies one of the fixed candidate regions.
type RegionName string

const (
	// TopRight is the upper right corner of the page. It is also the
	// fallback region.
	TopRight RegionName = "top_right"

	// TopLeft is the upper left corner of the page.
	TopLeft RegionName = "top_left"

	// CenterRight is a band along the right edge, below the top margin.
	CenterRight RegionName = "center_right"
)

// CandidateRegion is a named rectangle in page pixel coordinates.
type CandidateRegion struct {
	Name RegionName      `json:"name"`
	Box  image.Rectangle `json:"box"`
}

// FractionBox is a rectangle expressed as fractions of page width and height.
type FractionBox struct {
	X0 float64 `yaml:"x0" json:"x0"`
	Y0 float64 `yaml:"y0" json:"y0"`
	X1 float64 `yaml:"x1" json:"x1"`
	Y1 float64 `yaml:"y1" json:"y1"`
}

// Layout defines where the candidate regions sit on a page.
type Layout struct {
	// TopAreaRatio is the fraction of page height covered by the top regions.
	TopAreaRatio float64

	// RightAreaRatio is the fraction of page width covered by the top-right region.
	RightAreaRatio float64

	// LeftAreaRatio is the fraction of page width covered by the top-left region.
	LeftAreaRatio float64

	// CenterRight is the center-right region as page fractions.
	CenterRight FractionBox
}

// DefaultLayout returns the standard candidate layout: 35% wide top corners
// covering 40% of the page height, and a center-right box spanning 70%-100% of
// the width and 10%-50% of the height.
func DefaultLayout() Layout {
	return Layout{
		TopAreaRatio:   0.4,
		RightAreaRatio: 0.35,
		LeftAreaRatio:  0.35,
		CenterRight:    FractionBox{X0: 0.7, Y0: 0.1, X1: 1.0, Y1: 0.5},
	}
}

// Regions computes the candidate rectangles for a page of the given size, in
// evaluation order: top-right, top-left, center-right.
//
// Fractional coordinates are truncated towards zero. Rectangles may be empty
// for very small pages; scoring treats an empty candidate as a fault.
func (l Layout) Regions(width, height int) []CandidateRegion {
	w := float64(width)
	h := float64(height)
	top := int(h * l.TopAreaRatio)

	return []CandidateRegion{
		{
			Name: TopRight,
			Box:  rect(int(w*(1-l.RightAreaRatio)), 0, width, top),
		},
		{
			Name: TopLeft,
			Box:  rect(0, 0, int(w*l.LeftAreaRatio), top),
		},
		{
			Name: CenterRight,
			Box: rect(
				int(w*l.CenterRight.X0),
				int(h*l.CenterRight.Y0),
				int(w*l.CenterRight.X1),
				int(h*l.CenterRight.Y1),
			),
		},
	}
}

// Validate checks that every ratio is a usable page fraction.
func (l Layout) Validate() error {
	ratios := []struct {
		name string
		v    float64
	}{
		{"top_area_ratio", l.TopAreaRatio},
		{"right_area_ratio", l.RightAreaRatio},
		{"left_area_ratio", l.LeftAreaRatio},
	}
	for _, r := range ratios {
		if r.v <= 0 || r.v > 1 {
			return fmt.Errorf("%s must be in (0, 1], got %g", r.name, r.v)
		}
	}

	c := l.CenterRight
	if c.X0 < 0 || c.Y0 < 0 || c.X1 > 1 || c.Y1 > 1 || c.X0 >= c.X1 || c.Y0 >= c.Y1 {
		return fmt.Errorf("center_right box must satisfy 0 <= x0 < x1 <= 1 and 0 <= y0 < y1 <= 1, got %+v", c)
	}
	return nil
}

// rect builds a rectangle without image.Rect's canonicalization, so an
// inverted or degenerate box stays empty instead of being flipped.
func rect(x0, y0, x1, y1 int) image.Rectangle {
	return image.Rectangle{Min: image.Pt(x0, y0), Max: image.Pt(x1, y1)}
}
