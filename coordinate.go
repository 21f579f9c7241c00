// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rwx

import "github.com/rwxscene/rwxscene/math/lin"

// coordinate.go converts RWX's right-handed coordinate space to the
// host engine's left-handed display space, and composes a node's local
// transform the way the RWX parser accumulates translate/rotate/scale
// directives (§4.6, translation at positions 3, 7, 11 of a row-major
// 4x4 — math/lin.M4's Xw/Yw/Zw fields). This is the opposite convention
// from the teacher's own TranslateTM/TranslateMT, which place
// translation in the last row (Wx/Wy/Wz): those are not reused here.
// M4.Mult itself is plain row-by-column arithmetic and is convention
// agnostic, so it is reused as-is for composition.

// reflect is R = diag(-1, 1, 1, 1): mirrors the X axis.
var reflect = &lin.M4{Xx: -1, Yy: 1, Zz: 1, Ww: 1}

// ComposeTRS builds the local transform matrix for a translate/rotate/
// scale sequence: T * R * S applied to identity (testable property 4).
// Translation lands at Xw, Yw, Zw; rotation and scale occupy the upper
// 3x3, with scale applied to R's columns so that scale is local to the
// rotated axes.
func ComposeTRS(pos *lin.V3, rot *lin.Q, scale *lin.V3) *lin.M4 {
	m := lin.NewM4().SetQ(rot)
	m.Xx, m.Yx, m.Zx = m.Xx*scale.X, m.Yx*scale.X, m.Zx*scale.X
	m.Xy, m.Yy, m.Zy = m.Xy*scale.Y, m.Yy*scale.Y, m.Zy*scale.Y
	m.Xz, m.Yz, m.Zz = m.Xz*scale.Z, m.Yz*scale.Z, m.Zz*scale.Z
	m.Xw, m.Yw, m.Zw = pos.X, pos.Y, pos.Z
	return m
}

// ToDisplaySpace converts m from RWX's right-handed space to the host
// engine's left-handed display space via M' = R * M * R. Applying it
// twice is the identity (testable property 7: R*(R*M*R)*R = M, since
// R*R = I), and on a translation-only matrix it negates only the X
// component, per §9's degenerate-matrix fallback rule.
func ToDisplaySpace(m *lin.M4) *lin.M4 {
	left := lin.NewM4().Mult(reflect, m)
	return lin.NewM4().Mult(left, reflect)
}

// ToDisplayTransform converts m to display space, sanitizes any
// non-finite elements, and decomposes the result into position,
// rotation, and scale (§4.6, §7 "degenerate matrix" handling). ok is
// false when the upper-left 3x3 is singular even after sanitization;
// pos is still meaningful in that case, since ToDisplaySpace's
// reflection has already been folded into it.
func ToDisplayTransform(m *lin.M4) (pos *lin.V3, rot *lin.Q, scale *lin.V3, ok bool) {
	converted := ToDisplaySpace(m)
	converted.Sanitize()
	return converted.Decompose()
}

// localTransform returns parent⁻¹ * current: the transform current
// holds relative to parent (§4.5 clumpend, "compute a local-only
// transform as parent⁻¹ · current"). Both matrices are assumed to carry
// the plain affine shape this package ever builds (upper-left 3x3
// rotation/scale, translation at Xw/Yw/Zw, bottom row (0,0,0,1)); if
// parent's upper-left 3x3 is singular, its inverse falls back to
// identity (lin.M3.Inv leaves its receiver untouched on a singular
// input, so the receiver is pre-seeded with identity) rather than
// propagating garbage.
func localTransform(parent, current *lin.M4) *lin.M4 {
	parentUpper := &lin.M3{
		Xx: parent.Xx, Xy: parent.Xy, Xz: parent.Xz,
		Yx: parent.Yx, Yy: parent.Yy, Yz: parent.Yz,
		Zx: parent.Zx, Zy: parent.Zy, Zz: parent.Zz,
	}
	inv := lin.NewM3I()
	inv.Inv(parentUpper)

	currentUpper := &lin.M3{
		Xx: current.Xx, Xy: current.Xy, Xz: current.Xz,
		Yx: current.Yx, Yy: current.Yy, Yz: current.Yz,
		Zx: current.Zx, Zy: current.Zy, Zz: current.Zz,
	}
	localUpper := lin.NewM3().Mult(inv, currentUpper)

	diff := &lin.V3{X: current.Xw - parent.Xw, Y: current.Yw - parent.Yw, Z: current.Zw - parent.Zw}
	localT := &lin.V3{}
	localT.MultMv(inv, diff)

	return &lin.M4{
		Xx: localUpper.Xx, Xy: localUpper.Xy, Xz: localUpper.Xz, Xw: localT.X,
		Yx: localUpper.Yx, Yy: localUpper.Yy, Yz: localUpper.Yz, Yw: localT.Y,
		Zx: localUpper.Zx, Zy: localUpper.Zy, Zz: localUpper.Zz, Zw: localT.Z,
		Ww: 1,
	}
}
