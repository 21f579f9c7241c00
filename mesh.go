// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rwx

// Mesh Builder accumulates clump-scoped vertices and indexed primitives,
// partitioning them into sub-meshes whenever the material key changes
// (spec §3 Mesh Commit Key). It is grounded on the teacher's mesh.go
// vertex/index buffer split, generalized from "one mesh, one material"
// to "one mesh, many material-keyed sub-meshes": each sub-mesh owns an
// indexed view into a copy of the clump-scoped vertex buffer rather than
// sharing one buffer across materials.

import "fmt"

// Vertex is a position plus texture coordinates.
type Vertex struct {
	X, Y, Z float64
	U, V    float64
}

// SubMesh is a maximal run of contiguous primitives sharing a material
// key: its own vertex buffer (a copy of just the vertices its indices
// reference) and zero-based triangle indices into that buffer.
type SubMesh struct {
	Key      MaterialKey
	Vertices []Vertex
	Indices  []int // always a multiple of 3: triangles only, post-tessellation.
	Tags     []int // one entry per triangle (len(Tags) == len(Indices)/3); a fan-tessellated quad/polygon repeats its source primitive's tag across every triangle it produced.
}

// Mesh is the finished, immutable geometry of one Node.
type Mesh struct {
	SubMeshes []*SubMesh
}

// Clone returns a deep copy of m.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}
	clone := &Mesh{SubMeshes: make([]*SubMesh, len(m.SubMeshes))}
	for i, sm := range m.SubMeshes {
		vs := make([]Vertex, len(sm.Vertices))
		copy(vs, sm.Vertices)
		is := make([]int, len(sm.Indices))
		copy(is, sm.Indices)
		ts := make([]int, len(sm.Tags))
		copy(ts, sm.Tags)
		clone.SubMeshes[i] = &SubMesh{Key: sm.Key, Vertices: vs, Indices: is, Tags: ts}
	}
	return clone
}

// MeshBuilder accumulates geometry for one clump scope. A fresh
// MeshBuilder, or a call to ResetClump, starts a new one-based vertex
// numbering scope (spec §3: "indices reset at clumpbegin").
type MeshBuilder struct {
	vertices []Vertex // clump-scoped; index 0 is RWX vertex 1.

	openKey  MaterialKey
	openSet  bool
	openIdx  []int // 0-based indices into vertices, for the open key.
	openTags []int // one entry per triangle in openIdx.

	subs []*SubMesh
}

// NewMeshBuilder returns an empty builder.
func NewMeshBuilder() *MeshBuilder { return &MeshBuilder{} }

// AddVertex appends v to the current clump scope and returns its
// one-based RWX index.
func (b *MeshBuilder) AddVertex(v Vertex) int {
	b.vertices = append(b.vertices, v)
	return len(b.vertices)
}

// VertexCount returns the number of vertices defined in the current
// clump scope.
func (b *MeshBuilder) VertexCount() int { return len(b.vertices) }

// ResetClump commits any open sub-mesh and clears the vertex scope, so
// the next one-based index refers to the first vertex defined
// afterward.
func (b *MeshBuilder) ResetClump() {
	b.commitOpen()
	b.vertices = nil
}

// AddPolygon submits a convex n-gon (n>=3), given one-based RWX vertex
// indices, tagged with the material key active when it was parsed plus
// the primitive's own optional integer tag (spec §3: "Each [primitive]
// carries an optional integer tag"; 0 means untagged). The polygon is
// fan-tessellated from its first vertex; tag is repeated across every
// triangle the tessellation produces. Out-of-range indices abort the
// whole primitive without affecting the open mesh (spec §3 invariant,
// §7 "index out of range -> primitive skipped").
func (b *MeshBuilder) AddPolygon(key MaterialKey, oneBased []int, tag int) error {
	if len(oneBased) < 3 {
		return fmt.Errorf("mesh: polygon needs at least 3 indices, got %d", len(oneBased))
	}
	zeroBased := make([]int, len(oneBased))
	for i, idx := range oneBased {
		zb := idx - 1
		if zb < 0 || zb >= len(b.vertices) {
			return fmt.Errorf("mesh: index %d out of range [1,%d]", idx, len(b.vertices))
		}
		zeroBased[i] = zb
	}

	b.setKey(key)
	for i := 1; i < len(zeroBased)-1; i++ {
		b.openIdx = append(b.openIdx, zeroBased[0], zeroBased[i], zeroBased[i+1])
		b.openTags = append(b.openTags, tag)
	}
	return nil
}

func (b *MeshBuilder) setKey(key MaterialKey) {
	if !b.openSet {
		b.openKey = key
		b.openSet = true
		return
	}
	if key != b.openKey {
		b.commitOpen()
		b.openKey = key
	}
}

// commitOpen flushes the open index run into a new SubMesh, copying out
// only the vertices it references and remapping indices to that
// sub-mesh-local buffer.
func (b *MeshBuilder) commitOpen() {
	if len(b.openIdx) == 0 {
		return
	}
	remap := make(map[int]int, len(b.openIdx))
	var subVerts []Vertex
	subIdx := make([]int, len(b.openIdx))
	for i, vi := range b.openIdx {
		local, ok := remap[vi]
		if !ok {
			local = len(subVerts)
			subVerts = append(subVerts, b.vertices[vi])
			remap[vi] = local
		}
		subIdx[i] = local
	}
	tags := make([]int, len(b.openTags))
	copy(tags, b.openTags)
	b.subs = append(b.subs, &SubMesh{Key: b.openKey, Vertices: subVerts, Indices: subIdx, Tags: tags})
	b.openIdx = nil
	b.openTags = nil
}

// Build commits any open sub-mesh and drains every sub-mesh accumulated
// since the last Build, returning them as a Mesh. The builder continues
// to be used afterward — Build is how a clump's geometry is detached
// from the running accumulator at a clump boundary.
func (b *MeshBuilder) Build() *Mesh {
	b.commitOpen()
	subs := b.subs
	b.subs = nil
	return &Mesh{SubMeshes: subs}
}

// Stats reports the builder's current vertex count, committed sub-mesh
// count, and total committed index count — a test accessor, not part of
// the embedding contract.
func (b *MeshBuilder) Stats() (vertices, subMeshes, indices int) {
	indices = 0
	for _, sm := range b.subs {
		indices += len(sm.Indices)
	}
	return len(b.vertices), len(b.subs), indices
}
