// Copyright © 2026 Quadrille contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/ansi.go
// Summary: ECMA-48 escape sequence fragments and allocation-free formatting.

package term

// Pre-allocated sequence fragments; hot-path formatting appends to these
// rather than calling fmt.
var (
	csi      = []byte("\x1b[")
	csiReset = []byte("\x1b[0m")
	csiClear = []byte("\x1b[2J")
	csiHome  = []byte("\x1b[H")

	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")

	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")

	// SGR mouse reporting (press/release with decimal coordinates).
	csiMouseEnable  = []byte("\x1b[?1000h\x1b[?1006h")
	csiMouseDisable = []byte("\x1b[?1006l\x1b[?1000l")

	csiFgRGB     = []byte("\x1b[38;2;")
	csiBgRGB     = []byte("\x1b[48;2;")
	csiDefaultFg = []byte("\x1b[39m")
	csiDefaultBg = []byte("\x1b[49m")
)

// appendInt appends a non-negative integer without allocation.
// Terminal values are small (cell coordinates, color channels).
func appendInt(b []byte, n int) []byte {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		return append(b, byte('0'+n))
	}
	if n < 100 {
		return append(b, byte('0'+n/10), byte('0'+n%10))
	}
	if n < 1000 {
		return append(b, byte('0'+n/100), byte('0'+n/10%10), byte('0'+n%10))
	}
	var scratch [10]byte
	i := len(scratch)
	for n > 0 {
		i--
		scratch[i] = byte('0' + n%10)
		n /= 10
	}
	return append(b, scratch[i:]...)
}

// formatCursorPos renders the CUP sequence for a 0-indexed cell position.
func formatCursorPos(x, y int) string {
	b := make([]byte, 0, 16)
	b = append(b, csi...)
	b = appendInt(b, y+1)
	b = append(b, ';')
	b = appendInt(b, x+1)
	b = append(b, 'H')
	return string(b)
}

// formatRGB renders a 24-bit SGR color sequence; prefix selects fg or bg.
func formatRGB(prefix []byte, r, g, b uint8) string {
	out := make([]byte, 0, 24)
	out = append(out, prefix...)
	out = appendInt(out, int(r))
	out = append(out, ';')
	out = appendInt(out, int(g))
	out = append(out, ';')
	out = appendInt(out, int(b))
	out = append(out, 'm')
	return string(out)
}
