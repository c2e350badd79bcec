package model

import (
	"fmt"
	"strconv"
)

// Color is a 24-bit RGB value
type Color uint32

// DefaultColor is the color every cell starts with (white)
const DefaultColor Color = 0xFFFFFF

// MaxColor is the largest representable color
const MaxColor Color = 0xFFFFFF

// ParseColor parses the canonical "#RRGGBB" form (hex digits in either case)
func ParseColor(s string) (Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	for i := 1; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color(v), nil
}

// MustParseColor is ParseColor for constants known to be valid
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the upper-case "#RRGGBB" form
func (c Color) Hex() string {
	return fmt.Sprintf("#%06X", uint32(c&MaxColor))
}

// String implements fmt.Stringer
func (c Color) String() string {
	return c.Hex()
}

// RGB splits the color into its channels
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
