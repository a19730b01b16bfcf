// Copyright © 2026 Quadrille contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/paths.go
// Summary: Path helpers for quadrille configuration.

package config

import (
	"os"
	"path/filepath"
)

func configRoot() (string, error) {
	if override := os.Getenv("QUADRILLE_CONFIG_DIR"); override != "" {
		return override, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "quadrille"), nil
}

func configPath() (string, error) {
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, configName), nil
}
