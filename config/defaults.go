// Copyright © 2026 Quadrille contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for the configuration file.

package config

func applyDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("", Section{
		"activeTheme": "midnight",
	})
	cfg.RegisterDefaults("frame", Section{
		"fps":         60,
		"budget_mode": false,
		"max_events":  50,
	})
	cfg.RegisterDefaults("input", Section{
		"mouse":      true,
		"alt_screen": true,
	})
	cfg.RegisterDefaults("trace", Section{
		"enabled": false,
		"path":    "",
	})
}
