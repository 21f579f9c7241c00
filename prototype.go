// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rwx

import "strings"

// prototype.go is the Prototype Engine (§4.7): protobegin/protoend
// captures a named run of directive lines verbatim without executing
// them, and protoinstance replays that captured text later, under
// whatever transform/material is active at the instance site. Grounded
// on the same capture-then-replay shape the Parser already uses for
// line buffering, generalized to store multiple named definitions.
//
// OQ3 (recorded in DESIGN.md): whether a captured prototype contains
// its own `transform` directive is pre-scanned once at protoend capture
// time and cached as HasTransform, rather than re-scanned by substring
// match on every protoinstance replay.
type PrototypeDef struct {
	Name         string
	Lines        []string
	HasTransform bool
}

// PrototypeTable holds every prototype defined so far, keyed by
// lower-cased name (RWX identifiers are case-insensitive in practice,
// matching the directive regexes' (?i) flag).
type PrototypeTable struct {
	defs map[string]*PrototypeDef
}

// NewPrototypeTable returns an empty table.
func NewPrototypeTable() *PrototypeTable {
	return &PrototypeTable{defs: map[string]*PrototypeDef{}}
}

// Define captures lines under name, overwriting any earlier definition
// of the same name (later protobegin wins, matching last-directive-wins
// elsewhere in the grammar).
func (t *PrototypeTable) Define(name string, lines []string) *PrototypeDef {
	def := &PrototypeDef{Name: name, Lines: lines}
	for _, line := range lines {
		if reTransform.MatchString(strings.TrimSpace(line)) {
			def.HasTransform = true
			break
		}
	}
	t.defs[strings.ToLower(name)] = def
	return def
}

// Lookup returns the prototype named name, if any.
func (t *PrototypeTable) Lookup(name string) (*PrototypeDef, bool) {
	def, ok := t.defs[strings.ToLower(name)]
	return def, ok
}
