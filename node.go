// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rwx

import "github.com/rwxscene/rwxscene/math/lin"

// Node is a point of view (location plus orientation) in a parent-child
// transform hierarchy, the same two-field Loc/Rot shape as the teacher's
// pov, generalized from an engine scene-graph part (which also carries
// render/body/sound/form fields out of this package's scope) down to
// what a parsed RWX model actually needs: a name, a local mesh, and
// children.
type Node struct {
	Name  string   // Object name, from a `name` directive; "" if unset.
	Loc   *lin.V3  // Location relative to the parent.
	Rot   *lin.Q   // Orientation relative to the parent.
	Scale *lin.V3  // Non-uniform scale relative to the parent.
	Mesh  *Mesh    // This node's own geometry, or nil.
	Tag   int      // Optional integer tag; no directive sets it, so parsed nodes carry 0.

	Children []*Node // Child nodes, in definition order.
}

// NewNode returns a Node at the identity transform with unit scale.
func NewNode(name string) *Node {
	return &Node{
		Name:  name,
		Loc:   &lin.V3{},
		Rot:   lin.NewQI(),
		Scale: &lin.V3{X: 1, Y: 1, Z: 1},
	}
}

// AddChild appends child to n's children and returns it.
func (n *Node) AddChild(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// Set assigns n's local transform from a decomposed position,
// rotation, and scale.
func (n *Node) Set(pos *lin.V3, rot *lin.Q, scale *lin.V3) {
	n.Loc.X, n.Loc.Y, n.Loc.Z = pos.X, pos.Y, pos.Z
	n.Rot.Set(rot)
	n.Scale.X, n.Scale.Y, n.Scale.Z = scale.X, scale.Y, scale.Z
}

// Walk calls fn for n and every descendant, depth-first, pre-order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Clone returns a deep copy of n and its subtree, with its own Mesh
// copy: SceneAssembler hands every caller an independent Clone of a
// cached prefab. Prototype replay does not use Clone; each
// protoinstance re-runs the captured lines into a new node.
func (n *Node) Clone() *Node {
	clone := &Node{
		Name:  n.Name,
		Loc:   &lin.V3{X: n.Loc.X, Y: n.Loc.Y, Z: n.Loc.Z},
		Rot:   &lin.Q{X: n.Rot.X, Y: n.Rot.Y, Z: n.Rot.Z, W: n.Rot.W},
		Scale: &lin.V3{X: n.Scale.X, Y: n.Scale.Y, Z: n.Scale.Z},
		Tag:   n.Tag,
	}
	if n.Mesh != nil {
		clone.Mesh = n.Mesh.Clone()
	}
	for _, child := range n.Children {
		clone.Children = append(clone.Children, child.Clone())
	}
	return clone
}
