// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package load

import "testing"

// go test -run Polarity
func TestPolarityHeuristic(t *testing.T) {
	cfg := DefaultHeuristics()
	tests := []struct {
		name string
		want MaskPolarity
	}{
		{"oak_leaves_mask.bmp", PolarityInverted},
		{"Tree_Bark_Mask.bmp", PolarityInverted},
		{"brick_mask.bmp", PolarityWhiteOpaque},
	}
	for _, tt := range tests {
		if got := cfg.Polarity(tt.name); got != tt.want {
			t.Errorf("Polarity(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// go test -run PolarityDisabled
func TestPolarityDisabledAlwaysWhiteOpaque(t *testing.T) {
	cfg := DefaultHeuristics()
	cfg.Enabled = false
	if got := cfg.Polarity("leaves_mask.bmp"); got != PolarityWhiteOpaque {
		t.Errorf("expected disabled table to ignore tokens, got %v", got)
	}
}

// go test -run LoadHeuristicsMissing
func TestLoadHeuristicsMissingFileReturnsDefault(t *testing.T) {
	cfg, err := LoadHeuristics("/nonexistent/path/heuristics.yaml")
	if err != nil {
		t.Fatalf("expected missing file to fall back to defaults, got error: %v", err)
	}
	if !cfg.Enabled || len(cfg.MaskPolarityTokens) == 0 {
		t.Error("expected default heuristics table")
	}
}

// go test -run NormalizeWorkers
func TestServerConfigNormalizeWorkers(t *testing.T) {
	tests := []struct {
		in, want int
	}{{0, 4}, {1, 2}, {5, 5}, {20, 8}}
	for _, tt := range tests {
		s := &ServerConfig{Workers: tt.in}
		s.Normalize()
		if s.Workers != tt.want {
			t.Errorf("Normalize(%d) = %d, want %d", tt.in, s.Workers, tt.want)
		}
	}
}
