package imaging

import (
	"image"
	"image/color"
	"image/draw"
)

// Outline is a rectangle to draw on a debug overlay.
type Outline struct {
	// Rect is the rectangle to outline, relative to the image's top-left corner.
	Rect image.Rectangle

	// Label is drawn inside the top-left corner of Rect. Only digits, '.',
	// '-' and ',' are rendered; other characters leave a gap.
	Label string

	// Color is used for the border and the label background.
	Color color.Color
}

// Overlay returns a copy of img with each outline drawn on top of it.
//
// Borders are thickness pixels wide and drawn inside the rectangle so they
// stay visible for rectangles touching the image edge. Labels use a small
// built-in pixel font magnified by scale, which keeps them legible on
// full-page renders without a font dependency.
func Overlay(img image.Image, outlines []Outline, thickness, scale int) *image.RGBA {
	bounds := img.Bounds()
	result := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	if thickness < 1 {
		thickness = 1
	}
	if scale < 1 {
		scale = 1
	}

	for _, o := range outlines {
		r := o.Rect.Intersect(result.Bounds())
		if r.Empty() {
			continue
		}
		c := o.Color
		if c == nil {
			c = color.RGBA{255, 0, 0, 255}
		}
		src := image.NewUniform(c)

		t := thickness
		if t > r.Dx()/2 {
			t = max(r.Dx()/2, 1)
		}
		if t > r.Dy()/2 {
			t = max(r.Dy()/2, 1)
		}
		draw.Draw(result, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), src, image.Point{}, draw.Over)
		draw.Draw(result, image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), src, image.Point{}, draw.Over)
		draw.Draw(result, image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y), src, image.Point{}, draw.Over)
		draw.Draw(result, image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y), src, image.Point{}, draw.Over)

		if o.Label != "" {
			drawLabel(result, r.Min.X+t+scale, r.Min.Y+t+scale, o.Label, scale, color.RGBA{255, 255, 255, 255}, c)
		}
	}

	return result
}

// glyphs is a 3x5 pixel font for the characters a score label needs.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
	'.': {"000", "000", "000", "000", "010"},
	'-': {"000", "000", "111", "000", "000"},
}

// drawLabel draws text at (x, y) with every font pixel magnified to a
// scale x scale block, on a filled background box.
func drawLabel(img *image.RGBA, x, y int, text string, scale int, fg, bg color.Color) {
	charWidth := 4 * scale
	labelWidth := len(text)*charWidth + scale
	labelHeight := 7 * scale

	box := image.Rect(x-scale, y-scale, x+labelWidth, y+labelHeight).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Src)

	fgSrc := image.NewUniform(fg)
	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				px := cx + col*scale
				py := y + row*scale
				cell := image.Rect(px, py, px+scale, py+scale).Intersect(img.Bounds())
				draw.Draw(img, cell, fgSrc, image.Point{}, draw.Src)
			}
		}
		cx += charWidth
	}
}
