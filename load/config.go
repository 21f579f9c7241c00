// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package load

// config.go holds the small, named heuristics tables the legacy RWX
// content relies on. These are observable compatibility hacks for
// specific content authored against a particular viewer's quirks, so
// they are kept in one auditable table rather than scattered string
// matches, and can be disabled independently of the rest of the loader.

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaskPolarity selects how a mask's grayscale value maps to alpha.
type MaskPolarity int

const (
	// PolarityWhiteOpaque is the default: white -> opaque, black -> transparent.
	PolarityWhiteOpaque MaskPolarity = iota
	// PolarityInverted is white -> transparent, black -> opaque.
	PolarityInverted
)

// HeuristicsConfig is the named-heuristics feature flag table (spec.md
// §9 Design Notes, "string-typed heuristics for bed/tree/leaves/masks").
// It is loaded from YAML so content packs can audit and override it
// without a code change.
type HeuristicsConfig struct {
	// Enabled gates the whole table; when false every mask uses
	// PolarityWhiteOpaque regardless of MaskPolarityTokens.
	Enabled bool `yaml:"enabled"`

	// MaskPolarityTokens lists substrings that, when found in a mask's
	// name (case-insensitive), mark that mask as inverted polarity.
	MaskPolarityTokens []string `yaml:"mask_polarity_tokens"`
}

// DefaultHeuristics is the baked-in table of legacy content names known
// to carry inverted mask polarity.
func DefaultHeuristics() *HeuristicsConfig {
	return &HeuristicsConfig{
		Enabled: true,
		MaskPolarityTokens: []string{
			"leaves", "leaf", "tree", "bed", "hair",
		},
	}
}

// LoadHeuristics reads a HeuristicsConfig from a YAML file. A missing
// file is not an error: DefaultHeuristics is returned instead, since the
// table is an optional override, not a required asset.
func LoadHeuristics(path string) (*HeuristicsConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultHeuristics(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load heuristics %s: %w", path, err)
	}
	cfg := &HeuristicsConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse heuristics %s: %w", path, err)
	}
	return cfg, nil
}

// Polarity returns the mask polarity for a mask named maskName.
func (c *HeuristicsConfig) Polarity(maskName string) MaskPolarity {
	if c == nil || !c.Enabled {
		return PolarityWhiteOpaque
	}
	lower := strings.ToLower(maskName)
	for _, token := range c.MaskPolarityTokens {
		if strings.Contains(lower, strings.ToLower(token)) {
			return PolarityInverted
		}
	}
	return PolarityWhiteOpaque
}

// ServerConfig is the ambient configuration for one object server: its
// base URL, an optional archive password, and the worker-pool size used
// by the Scene Assembler's preload_models (spec.md §4.8, bounded 2-8).
type ServerConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	Workers  int    `yaml:"workers"`
}

// Normalize clamps Workers into the documented [2,8] range and defaults
// it to 4 when unset.
func (s *ServerConfig) Normalize() {
	switch {
	case s.Workers == 0:
		s.Workers = 4
	case s.Workers < 2:
		s.Workers = 2
	case s.Workers > 8:
		s.Workers = 8
	}
}
