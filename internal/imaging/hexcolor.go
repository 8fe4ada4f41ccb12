package imaging

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseHexColor parses a hex color string like "#FFFFFF" or "#FFF" into an
// opaque color. Any other length or a non-hex digit is an error.
func ParseHexColor(hex string) (color.NRGBA, error) {
	if hex == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if (len(hex) != 4 && len(hex) != 7) || hex[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: want #RGB or #RRGGBB", hex)
	}
	for _, r := range hex[1:] {
		if !isHexDigit(r) {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %q is not a hex digit", hex, r)
		}
	}

	// colorful.Hex stops scanning early, so the form is checked above
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

func isHexDigit(r rune) bool {
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}
