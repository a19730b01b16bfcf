package ui

// Color is a 24-bit RGB terminal color.
type Color struct {
	R, G, B uint8
}

// Transparent is the sentinel meaning "inherit the terminal's default
// background". It is (0,0,1) rather than pure black so the two can never be
// confused; compare against it with ==, never by visual distance.
var Transparent = Color{R: 0, G: 0, B: 1}

// IsTransparent reports whether c is the transparent sentinel.
func (c Color) IsTransparent() bool {
	return c == Transparent
}

// RGB builds a color from its channels.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Hex builds a color from a 0xRRGGBB value.
func Hex(v uint32) Color {
	return Color{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

// Common colors used by the default theme.
var (
	Black   = RGB(0, 0, 0)
	White   = RGB(229, 229, 229)
	Silver  = RGB(160, 160, 160)
	Gray    = RGB(96, 96, 96)
	Red     = RGB(204, 70, 70)
	Green   = RGB(80, 180, 100)
	Yellow  = RGB(214, 182, 86)
	Blue    = RGB(84, 128, 214)
	Magenta = RGB(176, 100, 204)
	Cyan    = RGB(80, 190, 190)
)
