// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rwx

import (
	"testing"

	"github.com/rwxscene/rwxscene/math/lin"
)

// go test -run Involution
func TestToDisplaySpaceInvolution(t *testing.T) {
	m := lin.NewM4I()
	m.Xw, m.Yw, m.Zw = 3, 4, 5
	once := ToDisplaySpace(m)
	twice := ToDisplaySpace(once)
	if !twice.Aeq(m) {
		t.Errorf("expected R*(R*M*R)*R = M, got %+v", *twice)
	}
}

// go test -run TranslationOnlyNegatesX
func TestToDisplaySpaceTranslationOnlyNegatesX(t *testing.T) {
	m := lin.NewM4I()
	m.Xw, m.Yw, m.Zw = 1, 2, 3
	converted := ToDisplaySpace(m)
	if converted.Xw != -1 || converted.Yw != 2 || converted.Zw != 3 {
		t.Errorf("expected (-1,2,3), got (%v,%v,%v)", converted.Xw, converted.Yw, converted.Zw)
	}
}

// go test -run CubeVertexPositions
func TestCubeVertexPositionsAfterConversion(t *testing.T) {
	// A model-space vertex is just a point; converting its position
	// under display-space rules is equivalent to converting the
	// translation-only matrix that places it there.
	positions := []*lin.V3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
	}
	want := []*lin.V3{
		{X: 0, Y: 0, Z: 0},
		{X: -1, Y: 0, Z: 0},
	}
	for i, p := range positions {
		m := lin.NewM4I()
		m.Xw, m.Yw, m.Zw = p.X, p.Y, p.Z
		converted := ToDisplaySpace(m)
		if converted.Xw != want[i].X || converted.Yw != want[i].Y || converted.Zw != want[i].Z {
			t.Errorf("vertex %d: got (%v,%v,%v), want (%v,%v,%v)",
				i, converted.Xw, converted.Yw, converted.Zw, want[i].X, want[i].Y, want[i].Z)
		}
	}
}

// go test -run ComposeTRSIdentity
func TestComposeTRSIdentityWhenUnset(t *testing.T) {
	m := ComposeTRS(&lin.V3{}, lin.NewQI(), &lin.V3{X: 1, Y: 1, Z: 1})
	if !m.Aeq(lin.NewM4I()) {
		t.Errorf("expected identity, got %+v", *m)
	}
}

// go test -run LocalTransform
func TestLocalTransformRecoversTranslationDelta(t *testing.T) {
	parent := lin.NewM4I()
	parent.Xw, parent.Yw, parent.Zw = 5, 0, 0
	current := lin.NewM4I()
	current.Xw, current.Yw, current.Zw = 8, 1, 0
	local := localTransform(parent, current)
	if local.Xw != 3 || local.Yw != 1 || local.Zw != 0 {
		t.Errorf("expected local offset (3,1,0), got (%v,%v,%v)", local.Xw, local.Yw, local.Zw)
	}
}

// go test -run LocalTransformFallsBack
func TestLocalTransformFallsBackOnSingularParent(t *testing.T) {
	parent := &lin.M4{} // all-zero upper 3x3: singular.
	current := lin.NewM4I()
	current.Xw, current.Yw, current.Zw = 2, 3, 4
	local := localTransform(parent, current)
	if local.Xx != 1 || local.Yy != 1 || local.Zz != 1 {
		t.Error("expected identity-inverse fallback to leave current's upper 3x3 intact")
	}
	if local.Xw != 2 || local.Yw != 3 || local.Zw != 4 {
		t.Errorf("expected translation unaffected by identity fallback, got (%v,%v,%v)", local.Xw, local.Yw, local.Zw)
	}
}

// go test -run ToDisplayTransformSanitizes
func TestToDisplayTransformSanitizesSingular(t *testing.T) {
	m := &lin.M4{} // all-zero upper 3x3: m33 is effectively 0, singular.
	m.Xw, m.Yw, m.Zw = 5, 0, 0
	pos, rot, scale, ok := ToDisplayTransform(m)
	if ok {
		t.Fatal("expected singular matrix to report ok=false")
	}
	if pos.X != -5 {
		t.Errorf("expected translation-only fallback to negate X, got %v", pos.X)
	}
	if !rot.Aeq(lin.QI) || !scale.Aeq(&lin.V3{X: 1, Y: 1, Z: 1}) {
		t.Error("expected identity rotation and unit scale fallback")
	}
}
