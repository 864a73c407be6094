package core

import (
	"fmt"
	"image/color"
)

// MaxChannel is the top of the displayable per-channel range
const MaxChannel = 255.0

// Color is an RGB triple on the 0..255 scale. Values may leave the
// displayable range while contributions are being accumulated; use Clamp
// or ToRGBA before presenting a color.
type Color struct {
	R, G, B float64
}

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Add returns the channel-wise sum of two colors (unclamped)
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Multiply returns the color scaled by a scalar (unclamped)
func (c Color) Multiply(scalar float64) Color {
	return Color{c.R * scalar, c.G * scalar, c.B * scalar}
}

// Clamp saturates every channel into [0, 255]
func (c Color) Clamp() Color {
	return Color{
		R: clampChannel(c.R),
		G: clampChannel(c.G),
		B: clampChannel(c.B),
	}
}

// ToRGBA converts the color to an opaque color.RGBA, saturating (never
// wrapping) out-of-range channels. Fractions are truncated.
func (c Color) ToRGBA() color.RGBA {
	clamped := c.Clamp()
	return color.RGBA{
		R: uint8(clamped.R),
		G: uint8(clamped.G),
		B: uint8(clamped.B),
		A: 255,
	}
}

// Hex returns the color as a #rrggbb string
func (c Color) Hex() string {
	rgba := c.ToRGBA()
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

func clampChannel(v float64) float64 {
	return max(0, min(MaxChannel, v))
}
