// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rwx

import "github.com/rwxscene/rwxscene/math/lin"

// Context is the single mutable object carried through parsing one RWX
// stream (§3 "Parse Context"): current transform, current material, the
// open mesh, the object hierarchy cursor, and the four LIFO transform
// stacks §3/§4.6 name (clump, scratch transformbegin/end, joint, and
// object). The RWX grammar binds these as: clumpbegin/clumpend push and
// pop the clump transform and descend/ascend the object hierarchy
// cursor; transformbegin/transformend push and pop the scratch stack
// without touching the clump transform. The joint and object stacks
// are included for structural completeness; no directive in the subset
// implemented here drives either of them (protoinstance nests through
// EnterClump/ExitClump, not the object stack).
type Context struct {
	Mesh     *MeshBuilder
	Material Material

	Transform *lin.M4 // current clump transform.
	Scratch   *lin.M4 // current transformbegin/end scratch transform.
	Joint     *lin.M4 // current joint transform.
	Object    *lin.M4 // current object-stack transform (no directive sets it).

	transformStack []*lin.M4
	scratchStack   []*lin.M4
	jointStack     []*lin.M4
	objectStack    []*lin.M4

	materialStack []Material

	Root    *Node   // the model's root node.
	current *Node   // object hierarchy cursor.
	cursors []*Node // LIFO of cursor positions, one per open clumpbegin.

	Warnings []string // recoverable parse warnings (§7); never fatal.
}

// NewContext returns a fresh Context rooted at root, all stacks empty,
// all transforms identity, and the default material active.
func NewContext(root *Node) *Context {
	return &Context{
		Mesh:      NewMeshBuilder(),
		Material:  DefaultMaterial(),
		Transform: lin.NewM4I(),
		Scratch:   lin.NewM4I(),
		Joint:     lin.NewM4I(),
		Object:    lin.NewM4I(),
		Root:      root,
		current:   root,
	}
}

// Warn records a recoverable condition without aborting the parse.
func (c *Context) Warn(msg string) { c.Warnings = append(c.Warnings, msg) }

// Current returns the object hierarchy cursor: the node new geometry
// and child clumps attach to.
func (c *Context) Current() *Node { return c.current }

// --- transform stacks -------------------------------------------------

// PushTransform saves the clump transform and leaves it unchanged, so a
// caller can modify it and later restore the saved value.
func (c *Context) PushTransform() {
	c.transformStack = append(c.transformStack, cloneM4(c.Transform))
}

// PopTransform restores the most recently pushed clump transform. An
// unmatched pop resets to identity and logs a warning (§7 "unmatched
// *end").
func (c *Context) PopTransform() {
	if n := len(c.transformStack); n > 0 {
		c.Transform = c.transformStack[n-1]
		c.transformStack = c.transformStack[:n-1]
		return
	}
	c.Transform = lin.NewM4I()
	c.Warn("unmatched transform end: reset to identity")
}

// PushScratch/PopScratch back transformbegin/transformend.
func (c *Context) PushScratch() {
	c.scratchStack = append(c.scratchStack, cloneM4(c.Scratch))
}
func (c *Context) PopScratch() {
	if n := len(c.scratchStack); n > 0 {
		c.Scratch = c.scratchStack[n-1]
		c.scratchStack = c.scratchStack[:n-1]
		return
	}
	c.Scratch = lin.NewM4I()
	c.Warn("unmatched transformend: reset to identity")
}

// PushJoint/PopJoint back joint-scoped transforms.
func (c *Context) PushJoint() {
	c.jointStack = append(c.jointStack, cloneM4(c.Joint))
}
func (c *Context) PopJoint() {
	if n := len(c.jointStack); n > 0 {
		c.Joint = c.jointStack[n-1]
		c.jointStack = c.jointStack[:n-1]
		return
	}
	c.Joint = lin.NewM4I()
	c.Warn("unmatched joint end: reset to identity")
}

// PushObject/PopObject save and restore the object-stack transform; no
// directive handler calls them.
func (c *Context) PushObject() {
	c.objectStack = append(c.objectStack, cloneM4(c.Object))
}
func (c *Context) PopObject() {
	if n := len(c.objectStack); n > 0 {
		c.Object = c.objectStack[n-1]
		c.objectStack = c.objectStack[:n-1]
		return
	}
	c.Object = lin.NewM4I()
	c.Warn("unmatched object end: reset to identity")
}

// StacksEmpty reports whether every transform and material stack has
// been fully unwound (testable property 5: "after parsing a
// well-formed model, every stack... is empty").
func (c *Context) StacksEmpty() bool {
	return len(c.transformStack) == 0 && len(c.scratchStack) == 0 &&
		len(c.jointStack) == 0 && len(c.objectStack) == 0 &&
		len(c.materialStack) == 0 && len(c.cursors) == 0
}

// Combined returns the clump, scratch, and joint transforms composed in
// that order: Transform * Scratch * Joint.
func (c *Context) Combined() *lin.M4 {
	m := lin.NewM4().Mult(c.Transform, c.Scratch)
	return lin.NewM4().Mult(m, c.Joint)
}

// --- material stack ----------------------------------------------------

// PushMaterial saves the current material (a value copy, since
// Material is a value type) so a subsequent directive can change it and
// later restore the saved state.
func (c *Context) PushMaterial() {
	c.materialStack = append(c.materialStack, c.Material)
}

// PopMaterial restores the most recently pushed material. An unmatched
// pop resets to DefaultMaterial and logs a warning.
func (c *Context) PopMaterial() {
	if n := len(c.materialStack); n > 0 {
		c.Material = c.materialStack[n-1]
		c.materialStack = c.materialStack[:n-1]
		return
	}
	c.Material = DefaultMaterial()
	c.Warn("unmatched material end: reset to default")
}

// --- object hierarchy / clump scope -------------------------------------

// EnterClump commits any geometry accumulated for the current node,
// creates and descends into a new named child clump, and resets the
// mesh builder's one-based vertex numbering scope (spec §3: "indices
// reset at clumpbegin"). The clump transform is pushed as a snapshot
// but left as-is (§4.5 clumpbegin: "leave the current transform as-is
// so following transform directives compose with the accumulated
// state") — translate/rotate/scale/transform directives that follow,
// inside this clump, keep accumulating onto the same running matrix
// rather than starting over from identity. The new child's own
// Loc/Rot/Scale is not set here; that happens at ExitClump, once it is
// known what this clump's own directives actually did.
func (c *Context) EnterClump(name string) *Node {
	c.commitMesh()
	child := NewNode(name)
	c.current.AddChild(child)
	c.cursors = append(c.cursors, c.current)
	c.current = child
	c.PushTransform()
	c.Mesh.ResetClump()
	return child
}

// ExitClump commits the clump's own geometry, bakes the just-closed
// node's local transform, restores the parent's clump transform so a
// following sibling clump starts from the same state this one did, and
// ascends the object hierarchy cursor. An unmatched clumpend resets the
// cursor to the model root and logs a warning.
//
// The local transform is parent⁻¹ * current (§4.5 clumpend), where
// parent is the snapshot EnterClump pushed and current is whatever this
// clump's own directives accumulated onto it — never the pre-directive
// value, so a `clumpbegin / translate x y z / ... / clumpend` idiom
// lands its geometry at the translated location instead of the origin.
func (c *Context) ExitClump() {
	c.bakeAndExitClump(true)
}

// ExitClumpAbsolute bakes the just-closed node's transform directly
// from its own accumulated matrix, ignoring the parent snapshot
// entirely, otherwise behaving exactly like ExitClump. This backs
// §4.7 step 6's "prototype body defines its own absolute frame" case:
// a prototype whose captured lines contain their own `transform`
// directive is placed by that directive's absolute result rather than
// by composing it under the caller's transform.
func (c *Context) ExitClumpAbsolute() {
	c.bakeAndExitClump(false)
}

func (c *Context) bakeAndExitClump(relativeToParent bool) {
	c.commitMesh()

	var parent *lin.M4
	if n := len(c.transformStack); n > 0 {
		parent = c.transformStack[n-1]
		c.transformStack = c.transformStack[:n-1]
	} else {
		parent = lin.NewM4I()
		c.Warn("unmatched transform end: reset to identity")
	}

	final := c.Transform
	if relativeToParent {
		final = localTransform(parent, c.Transform)
	}
	pos, rot, scale, _ := ToDisplayTransform(final)
	c.current.Set(pos, rot, scale)

	c.Transform = parent
	if n := len(c.cursors); n > 0 {
		c.current = c.cursors[n-1]
		c.cursors = c.cursors[:n-1]
	} else {
		c.current = c.Root
		c.Warn("unmatched clumpend: reset object cursor to root")
	}
	c.Mesh.ResetClump()
}

// commitMesh drains the mesh builder and merges any resulting
// sub-meshes onto the current node.
func (c *Context) commitMesh() {
	mesh := c.Mesh.Build()
	if len(mesh.SubMeshes) == 0 {
		return
	}
	if c.current.Mesh == nil {
		c.current.Mesh = mesh
		return
	}
	c.current.Mesh.SubMeshes = append(c.current.Mesh.SubMeshes, mesh.SubMeshes...)
}

// FinishModel commits any geometry left open at the top level. Call
// this once, at `modelend`.
func (c *Context) FinishModel() { c.commitMesh() }

// --- geometry -----------------------------------------------------------

// AddVertex appends a vertex to the current clump scope and returns its
// one-based RWX index.
func (c *Context) AddVertex(v Vertex) int { return c.Mesh.AddVertex(v) }

// AddPolygon submits a primitive under the current material's key,
// tagged with tag (spec §3: "Each [primitive] carries an optional
// integer tag"; 0 means untagged).
func (c *Context) AddPolygon(oneBased []int, tag int) error {
	return c.Mesh.AddPolygon(c.Material.Key(), oneBased, tag)
}

func cloneM4(m *lin.M4) *lin.M4 { return lin.NewM4().Set(m) }
