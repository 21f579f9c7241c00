// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import "math"

// decompose.go extracts position, rotation, and scale from a general 4x4
// transform matrix. The rest of this package only ever builds transforms
// directly as T{Loc, Rot}; Decompose exists for callers, like a scene
// importer, that receive an already-composed matrix and need node-local
// position/rotation/scale out of it.

// detEpsilon bounds how close to singular the upper 3x3 of a matrix can be
// before Decompose gives up on extracting a rotation and scale from it.
const detEpsilon = 1e-12

// Sanitize replaces any non-finite (NaN or +/-Inf) element of m with the
// corresponding element of the 4x4 identity matrix. The updated matrix m
// is returned.
func (m *M4) Sanitize() *M4 {
	fix := func(v, identity float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return identity
		}
		return v
	}
	m.Xx, m.Xy, m.Xz, m.Xw = fix(m.Xx, 1), fix(m.Xy, 0), fix(m.Xz, 0), fix(m.Xw, 0)
	m.Yx, m.Yy, m.Yz, m.Yw = fix(m.Yx, 0), fix(m.Yy, 1), fix(m.Yz, 0), fix(m.Yw, 0)
	m.Zx, m.Zy, m.Zz, m.Zw = fix(m.Zx, 0), fix(m.Zy, 0), fix(m.Zz, 1), fix(m.Zw, 0)
	m.Wx, m.Wy, m.Wz, m.Ww = fix(m.Wx, 0), fix(m.Wy, 0), fix(m.Wz, 0), fix(m.Ww, 1)
	return m
}

// Decompose extracts the position, rotation, and non-uniform scale from m
// under the convention that translation lives in the last column (Xw, Yw,
// Zw) and the upper-left 3x3 columns are the transformed basis vectors.
//
// If the upper-left 3x3 has a non-finite or near-zero determinant, ok is
// false and Decompose falls back to position-only: pos is still read from
// m's translation column, rot is identity, and scale is (1,1,1). m is not
// modified; call Sanitize first if m may already contain non-finite
// elements from upstream arithmetic.
func (m *M4) Decompose() (pos *V3, rot *Q, scale *V3, ok bool) {
	pos = &V3{X: m.Xw, Y: m.Yw, Z: m.Zw}

	upper := &M3{
		Xx: m.Xx, Xy: m.Xy, Xz: m.Xz,
		Yx: m.Yx, Yy: m.Yy, Yz: m.Yz,
		Zx: m.Zx, Zy: m.Zy, Zz: m.Zz,
	}
	det := upper.Det()
	if math.IsNaN(det) || math.IsInf(det, 0) || math.Abs(det) < detEpsilon {
		return pos, NewQI(), &V3{X: 1, Y: 1, Z: 1}, false
	}

	col0 := &V3{X: m.Xx, Y: m.Yx, Z: m.Zx}
	col1 := &V3{X: m.Xy, Y: m.Yy, Z: m.Zy}
	col2 := &V3{X: m.Xz, Y: m.Yz, Z: m.Zz}
	scale = &V3{X: col0.Len(), Y: col1.Len(), Z: col2.Len()}
	if det < 0 {
		// Keep the extracted rotation proper (determinant +1) by folding
		// the sign flip into scale.X rather than the rotation matrix.
		scale.X = -scale.X
	}
	col0.Div(scale.X)
	col1.Div(scale.Y)
	col2.Div(scale.Z)

	rotM := &M3{
		Xx: col0.X, Xy: col1.X, Xz: col2.X,
		Yx: col0.Y, Yy: col1.Y, Yz: col2.Y,
		Zx: col0.Z, Zy: col1.Z, Zz: col2.Z,
	}
	rot = NewQ().SetM(rotM).Unit()
	return pos, rot, scale, true
}
