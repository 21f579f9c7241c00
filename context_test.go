// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rwx

import "testing"

// go test -run StacksEmptyAfterBalanced
func TestContextStacksEmptyAfterBalancedPushPop(t *testing.T) {
	c := NewContext(NewNode("root"))
	c.PushTransform()
	c.PushScratch()
	c.PushJoint()
	c.PushObject()
	c.PushMaterial()
	if c.StacksEmpty() {
		t.Fatal("expected non-empty stacks after pushes")
	}
	c.PopTransform()
	c.PopScratch()
	c.PopJoint()
	c.PopObject()
	c.PopMaterial()
	if !c.StacksEmpty() {
		t.Error("expected all stacks empty after matching pops")
	}
}

// go test -run UnmatchedPop
func TestContextUnmatchedPopResetsAndWarns(t *testing.T) {
	c := NewContext(NewNode("root"))
	c.PopTransform()
	if len(c.Warnings) != 1 {
		t.Fatalf("expected one warning, got %d", len(c.Warnings))
	}
	if c.Transform.Xx != 1 || c.Transform.Yy != 1 || c.Transform.Zz != 1 || c.Transform.Ww != 1 {
		t.Error("expected identity after unmatched pop")
	}
}

// go test -run ClumpLocalVertexScope
func TestClumpLocalVertexScope(t *testing.T) {
	c := NewContext(NewNode("root"))
	c.AddVertex(Vertex{X: 100}) // root-scope vertex 1, unused by the clump below.

	child := c.EnterClump("box")
	c.AddVertex(Vertex{X: 1})
	c.AddVertex(Vertex{X: 2})
	c.AddVertex(Vertex{X: 3})
	if err := c.AddPolygon([]int{1, 2, 3}, 0); err != nil {
		t.Fatalf("AddPolygon: %v", err)
	}
	c.ExitClump()

	if child.Mesh == nil || len(child.Mesh.SubMeshes) != 1 {
		t.Fatalf("expected clump's own mesh, got %+v", child.Mesh)
	}
	if child.Mesh.SubMeshes[0].Vertices[0].X != 1 {
		t.Errorf("expected clump-local vertex 1 to be X=1, got %v", child.Mesh.SubMeshes[0].Vertices[0].X)
	}
}

// go test -run EnterExitClump
func TestEnterExitClumpRestoresObjectCursor(t *testing.T) {
	c := NewContext(NewNode("root"))
	c.EnterClump("a")
	if c.Current().Name != "a" {
		t.Fatalf("expected cursor at 'a', got %q", c.Current().Name)
	}
	c.ExitClump()
	if c.Current() != c.Root {
		t.Error("expected cursor restored to root after ExitClump")
	}
}

// go test -run PushPopMaterial
func TestPushPopMaterialRestoresValue(t *testing.T) {
	c := NewContext(NewNode("root"))
	c.Material.Texture = "brick"
	c.PushMaterial()
	c.Material.Texture = "grass"
	c.PopMaterial()
	if c.Material.Texture != "brick" {
		t.Errorf("expected material restored to 'brick', got %q", c.Material.Texture)
	}
}
