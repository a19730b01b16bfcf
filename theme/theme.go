// Copyright © 2026 Quadrille contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: theme/theme.go
// Summary: Named color palettes resolved from the active config theme.

package theme

import (
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/quadrille-tui/quadrille/config"
	"github.com/quadrille-tui/quadrille/ui"
)

// Theme resolves palette keys to colors. Missing keys fall back to the
// caller-supplied default so widgets degrade instead of failing.
type Theme struct {
	name   string
	colors map[string]ui.Color
}

var (
	mu     sync.Mutex
	cached *Theme
)

// Get returns the theme named by the config's activeTheme key. The parsed
// palette is cached until Reload.
func Get() *Theme {
	mu.Lock()
	defer mu.Unlock()
	if cached == nil {
		cached = load()
	}
	return cached
}

// Reload discards the cached palette so the next Get re-reads config.
func Reload() {
	mu.Lock()
	cached = nil
	mu.Unlock()
}

// Name returns the active theme name.
func (t *Theme) Name() string {
	return t.name
}

// GetColor returns the color for key, or fallback when the palette does not
// define it.
func (t *Theme) GetColor(key string, fallback ui.Color) ui.Color {
	if t == nil {
		return fallback
	}
	if c, ok := t.colors[key]; ok {
		return c
	}
	return fallback
}

func load() *Theme {
	cfg := config.Get()
	name := cfg.GetString("", "activeTheme", "midnight")

	t := &Theme{name: name, colors: make(map[string]ui.Color)}
	palette := cfg.Section("theme")
	if palette == nil {
		return t
	}
	raw, ok := palette[name].(map[string]interface{})
	if !ok {
		log.Printf("Theme: No palette %q in config, using fallbacks", name)
		return t
	}
	for key, val := range raw {
		hex, ok := val.(string)
		if !ok {
			continue
		}
		c, err := ParseHex(hex)
		if err != nil {
			log.Printf("Theme: Bad color %q for %s.%s: %v", hex, name, key, err)
			continue
		}
		t.colors[key] = c
	}
	return t
}

// ParseHex parses a #rrggbb color string.
func ParseHex(s string) (ui.Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return ui.Color{}, strconv.ErrSyntax
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return ui.Color{}, err
	}
	return ui.RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}
