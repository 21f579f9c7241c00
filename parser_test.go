// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rwx

import (
	"strings"
	"testing"
)

func parseString(t *testing.T, src string) *Parser {
	t.Helper()
	p := NewParser(NewNode("root"))
	if err := p.Parse(strings.NewReader(src)); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return p
}

// go test -run CubeQuadEndToEnd
func TestParseCubeQuadEndToEnd(t *testing.T) {
	src := `
modelbegin
clumpbegin
vertex 0 0 0
vertex 1 0 0
vertex 1 1 0
vertex 0 1 0
quad 1 2 3 4
clumpend
modelend
`
	p := parseString(t, src)
	cube := p.Context().Root.Children[0]
	if cube.Mesh == nil || len(cube.Mesh.SubMeshes) != 1 {
		t.Fatalf("expected one sub-mesh, got %+v", cube.Mesh)
	}
	sm := cube.Mesh.SubMeshes[0]
	want := []int{0, 1, 2, 0, 2, 3}
	if len(sm.Indices) != len(want) {
		t.Fatalf("expected %d indices, got %d", len(want), len(sm.Indices))
	}
	for i, idx := range want {
		if sm.Indices[i] != idx {
			t.Errorf("index %d: got %d, want %d", i, sm.Indices[i], idx)
		}
	}
}

// go test -run UVFlip
func TestParseVertexUVFlip(t *testing.T) {
	src := `
modelbegin
clumpbegin
vertex 0 0 0 uv 0.25 0.75
vertex 1 0 0 uv 0 0
vertex 1 1 0 uv 0 0
triangle 1 2 3
clumpend
modelend
`
	p := parseString(t, src)
	node := p.Context().Root.Children[0]
	v := node.Mesh.SubMeshes[0].Vertices[0]
	if v.U != 0.25 || v.V != 0.25 {
		t.Errorf("expected uv (0.25,0.25) after V flip, got (%v,%v)", v.U, v.V)
	}
}

// go test -run ColorChangeSplits
func TestParseColorChangeSplitsSubMesh(t *testing.T) {
	src := `
modelbegin
clumpbegin
vertex 0 0 0
vertex 1 0 0
vertex 1 1 0
vertex 0 1 0
color 1 0 0
triangle 1 2 3
color 0 1 0
triangle 2 3 4
clumpend
modelend
`
	p := parseString(t, src)
	node := p.Context().Root.Children[0]
	if len(node.Mesh.SubMeshes) != 2 {
		t.Fatalf("expected 2 sub-meshes from the color change, got %d", len(node.Mesh.SubMeshes))
	}
}

// go test -run PrototypeInstanceReuse
func TestParsePrototypeInstanceReuseDistinctPlacement(t *testing.T) {
	src := `
modelbegin
protobegin widget
vertex 0 0 0
vertex 1 0 0
vertex 1 1 0
triangle 1 2 3
protoend
clumpbegin
translate 5 0 0
protoinstance widget
clumpend
clumpbegin
translate -5 0 0
protoinstance widget
clumpend
modelend
`
	p := parseString(t, src)
	root := p.Context().Root
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 top-level clumps, got %d", len(root.Children))
	}
	// Each protoinstance's translate lands on the wrapping clump (the
	// node whose own clumpbegin/clumpend bracket it), since the
	// instance itself replays with no transform directive of its own
	// and so bakes to a zero local offset under its immediate parent.
	if root.Children[0].Loc.X == root.Children[1].Loc.X {
		t.Error("expected distinct placements for each prototype instance")
	}
	first := root.Children[0].Children[0]
	second := root.Children[1].Children[0]
	if len(first.Mesh.SubMeshes[0].Vertices) != len(second.Mesh.SubMeshes[0].Vertices) {
		t.Error("expected identical local geometry for both instances")
	}
}

// go test -run OutOfRangeIndex
func TestParseOutOfRangeIndexSkipsPrimitiveOnly(t *testing.T) {
	src := `
modelbegin
clumpbegin
vertex 0 0 0
vertex 1 0 0
triangle 1 2 9
triangle 1 2 1
clumpend
modelend
`
	p := parseString(t, src)
	if len(p.Context().Warnings) == 0 {
		t.Error("expected a warning for the out-of-range index")
	}
	node := p.Context().Root.Children[0]
	if node.Mesh == nil || len(node.Mesh.SubMeshes) != 1 {
		t.Fatalf("expected the valid triangle to still commit, got %+v", node.Mesh)
	}
}

// go test -run UnrecognizedDirective
func TestParseUnrecognizedDirectiveIgnored(t *testing.T) {
	src := `
modelbegin
somefuturedirective 1 2 3
clumpbegin
vertex 0 0 0
clumpend
modelend
`
	p := parseString(t, src)
	if len(p.Context().Root.Children) != 1 {
		t.Error("expected the unrecognized directive to be silently skipped")
	}
}
