// Copyright © 2026 Quadrille contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package theme

import (
	"testing"

	"github.com/quadrille-tui/quadrille/config"
	"github.com/quadrille-tui/quadrille/ui"
)

func TestGetColorFromPalette(t *testing.T) {
	t.Setenv("QUADRILLE_CONFIG_DIR", t.TempDir())
	config.Set(config.Config{
		"activeTheme": "test",
		"theme": map[string]interface{}{
			"test": map[string]interface{}{
				"fg": "#ff0080",
			},
		},
	})
	Reload()

	tm := Get()
	if tm.Name() != "test" {
		t.Fatalf("expected theme test, got %q", tm.Name())
	}
	got := tm.GetColor("fg", ui.Black)
	want := ui.RGB(0xff, 0x00, 0x80)
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestGetColorFallback(t *testing.T) {
	t.Setenv("QUADRILLE_CONFIG_DIR", t.TempDir())
	config.Set(config.Config{"activeTheme": "missing"})
	Reload()

	fallback := ui.RGB(1, 2, 3)
	if got := Get().GetColor("fg", fallback); got != fallback {
		t.Fatalf("expected fallback, got %v", got)
	}
}

func TestParseHex(t *testing.T) {
	if _, err := ParseHex("nope"); err == nil {
		t.Fatalf("expected error for malformed color")
	}
	c, err := ParseHex("#1e2030")
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	if c != ui.RGB(0x1e, 0x20, 0x30) {
		t.Fatalf("unexpected color %v", c)
	}
}
