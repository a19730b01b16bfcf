// Copyright © 2026 Quadrille contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/types.go
// Summary: Typed accessors and copy helpers for config store data.

package config

import "strconv"

// asSection normalizes raw section data. Decoded JSON arrives as
// map[string]interface{}, defaults registered from code arrive as Section.
func asSection(raw interface{}) Section {
	switch v := raw.(type) {
	case Section:
		return v
	case map[string]interface{}:
		return Section(v)
	}
	return nil
}

// Section returns the named section, or nil if missing. The empty name
// addresses top-level keys.
func (c Config) Section(name string) Section {
	if c == nil {
		return nil
	}
	if name == "" {
		return Section(c)
	}
	return asSection(c[name])
}

// RegisterDefaults fills in missing keys without overwriting existing ones.
func (c Config) RegisterDefaults(name string, defaults Section) {
	if c == nil || defaults == nil {
		return
	}
	section := c.Section(name)
	if section == nil {
		section = make(Section, len(defaults))
		c[name] = section
	}
	for key, value := range defaults {
		if _, ok := section[key]; !ok {
			section[key] = value
		}
	}
}

// GetString returns the string at section/key, or the fallback.
func (c Config) GetString(name, key, fallback string) string {
	if s, ok := c.Section(name)[key].(string); ok {
		return s
	}
	return fallback
}

// GetInt returns the integer at section/key, or the fallback. JSON numbers
// decode as float64 and registered defaults as int; both are accepted, as is
// a numeric string from a hand-edited file.
func (c Config) GetInt(name, key string, fallback int) int {
	switch v := c.Section(name)[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// GetBool returns the boolean at section/key, or the fallback.
func (c Config) GetBool(name, key string, fallback bool) bool {
	switch v := c.Section(name)[key].(type) {
	case bool:
		return v
	case string:
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// Clone copies the config with each section copied, so the store can hand
// out the current config without sharing mutable section maps.
func Clone(cfg Config) Config {
	if cfg == nil {
		return nil
	}
	out := make(Config, len(cfg))
	for name, raw := range cfg {
		if s := asSection(raw); s != nil {
			copied := make(Section, len(s))
			for key, value := range s {
				copied[key] = value
			}
			out[name] = copied
			continue
		}
		out[name] = raw
	}
	return out
}
