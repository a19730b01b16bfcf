// Copyright © 2026 Quadrille contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/seqcache.go
// Summary: Memoization of frequently emitted escape sequence strings.

package term

import "github.com/quadrille-tui/quadrille/ui"

// maxCursorCacheEntries caps the cursor-position cache so arbitrarily large
// terminals cannot grow it without bound; past the cap positions are
// formatted uncached.
const maxCursorCacheEntries = 1000

type cursorKey struct {
	x, y int
}

// seqCache memoizes generated escape strings. Color caches are effectively
// bounded by a UI's palette; the cursor cache is explicitly capped.
type seqCache struct {
	fg     map[ui.Color]string
	bg     map[ui.Color]string
	cursor map[cursorKey]string
}

func newSeqCache() *seqCache {
	return &seqCache{
		fg:     make(map[ui.Color]string),
		bg:     make(map[ui.Color]string),
		cursor: make(map[cursorKey]string),
	}
}

func (c *seqCache) fgSeq(col ui.Color) string {
	if s, ok := c.fg[col]; ok {
		return s
	}
	s := formatRGB(csiFgRGB, col.R, col.G, col.B)
	c.fg[col] = s
	return s
}

// bgSeq returns the background sequence; the transparent sentinel maps to
// "reset to terminal default", never to an RGB value.
func (c *seqCache) bgSeq(col ui.Color) string {
	if col.IsTransparent() {
		return string(csiDefaultBg)
	}
	if s, ok := c.bg[col]; ok {
		return s
	}
	s := formatRGB(csiBgRGB, col.R, col.G, col.B)
	c.bg[col] = s
	return s
}

func (c *seqCache) cursorSeq(x, y int) string {
	key := cursorKey{x: x, y: y}
	if s, ok := c.cursor[key]; ok {
		return s
	}
	s := formatCursorPos(x, y)
	if len(c.cursor) < maxCursorCacheEntries {
		c.cursor[key] = s
	}
	return s
}
