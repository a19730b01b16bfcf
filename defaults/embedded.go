// Copyright © 2026 Quadrille contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: defaults/embedded.go
// Summary: Embedded default configuration files.

package defaults

import "embed"

//go:embed quadrille.json
var fs embed.FS

// SystemConfig returns the embedded default config JSON.
func SystemConfig() ([]byte, error) {
	return fs.ReadFile("quadrille.json")
}
