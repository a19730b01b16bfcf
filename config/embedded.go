// Copyright © 2026 Quadrille contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/embedded.go
// Summary: Loads and caches parsed defaults from the embedded JSON file.
// The embedded JSON in defaults/ is the single source of truth.

package config

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/quadrille-tui/quadrille/defaults"
)

var (
	embeddedOnce sync.Once
	embedded     Config
	embeddedErr  error
)

// embeddedDefaultConfig returns the parsed defaults from embedded JSON.
// The result is cached after the first call.
func embeddedDefaultConfig() Config {
	embeddedOnce.Do(func() {
		data, err := defaults.SystemConfig()
		if err != nil {
			embeddedErr = err
			return
		}
		var cfg Config
		if err := json.Unmarshal(data, &cfg); err != nil {
			embeddedErr = err
			return
		}
		embedded = cfg
	})
	if embeddedErr != nil {
		log.Printf("Config: Failed to load embedded defaults: %v", embeddedErr)
		return nil
	}
	return Clone(embedded)
}
