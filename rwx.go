// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package rwx parses RenderWare Script (.rwx) model text into a scene
// graph of Nodes carrying Meshes and Materials, converting RWX's
// right-handed coordinate space into the host engine's left-handed
// display space along the way.
//
// A model is parsed with NewParser and Parse:
//
//	p := rwx.NewParser(rwx.NewNode("model"))
//	if err := p.Parse(r); err != nil {
//		// only a read failure from r reaches here; malformed RWX lines
//		// are recorded as warnings and otherwise skipped.
//	}
//	root := p.Context().Root
//	for _, warning := range p.Context().Warnings {
//		log.Println(warning)
//	}
//
// SceneAssembler builds on top of the load subpackage's Cache and
// TextureLoader to fetch, cache, and parse whole archives of named
// models from a remote object server.
package rwx
