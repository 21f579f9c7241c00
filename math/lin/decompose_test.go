// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import (
	"math"
	"testing"
)

func TestDecomposeIdentity(t *testing.T) {
	m := NewM4I()
	pos, rot, scale, ok := m.Decompose()
	if !ok {
		t.Fatal("expected identity to decompose cleanly")
	}
	if !pos.Aeq(&V3{0, 0, 0}) {
		t.Errorf(format, pos.Dump(), (&V3{0, 0, 0}).Dump())
	}
	if !rot.Aeq(QI) {
		t.Errorf(format, rot.Dump(), QI.Dump())
	}
	if !scale.Aeq(&V3{1, 1, 1}) {
		t.Errorf(format, scale.Dump(), (&V3{1, 1, 1}).Dump())
	}
}

func TestDecomposeTranslationOnly(t *testing.T) {
	m := NewM4I()
	m.Xw, m.Yw, m.Zw = 3, -4, 5
	pos, _, _, ok := m.Decompose()
	if !ok {
		t.Fatal("expected translation-only matrix to decompose cleanly")
	}
	if !pos.Aeq(&V3{3, -4, 5}) {
		t.Errorf(format, pos.Dump(), (&V3{3, -4, 5}).Dump())
	}
}

func TestDecomposeNegativeDeterminant(t *testing.T) {
	m := NewM4I()
	m.Xx = -1 // mirror the X axis: determinant becomes negative.
	_, rot, scale, ok := m.Decompose()
	if !ok {
		t.Fatal("expected mirrored matrix to decompose")
	}
	if scale.X >= 0 {
		t.Errorf("expected scale.X to be negated, got %v", scale.X)
	}
	// The extracted rotation should still be the identity: the mirror
	// was folded entirely into scale.X, not into the rotation.
	if !rot.Aeq(QI) {
		t.Errorf(format, rot.Dump(), QI.Dump())
	}
}

func TestDecomposeSingularFallsBack(t *testing.T) {
	m := &M4{} // all zero: singular upper 3x3.
	m.Xw, m.Yw, m.Zw = 1, 2, 3
	pos, rot, scale, ok := m.Decompose()
	if ok {
		t.Fatal("expected singular matrix to report ok=false")
	}
	if !pos.Aeq(&V3{1, 2, 3}) {
		t.Errorf(format, pos.Dump(), (&V3{1, 2, 3}).Dump())
	}
	if !rot.Aeq(QI) || !scale.Aeq(&V3{1, 1, 1}) {
		t.Error("expected identity rotation and unit scale fallback")
	}
}

func TestSanitizeNonFinite(t *testing.T) {
	m := NewM4I()
	m.Xx = math.NaN()
	m.Zw = math.Inf(1)
	m.Sanitize()
	if m.Xx != 1 || m.Zw != 0 {
		t.Errorf("expected non-finite entries replaced by identity values, got Xx=%v Zw=%v", m.Xx, m.Zw)
	}
}
