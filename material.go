// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rwx

// Material is the current surface state carried by the Parse Context: a
// value type so assignment (push/pop, clone-on-write) copies rather than
// aliases, matching the teacher's rgb/material value semantics.
type Material struct {
	Color   RGB     // Base diffuse color.
	Opacity float32 // Alpha, 0..1.

	Ambient  float32 // Ambient reflectance scalar.
	Diffuse  float32 // Diffuse reflectance scalar.
	Specular float32 // Specular reflectance scalar.

	Texture string // Color texture name; "" if unset.
	Mask    string // Mask texture name; "" if unset.
	Normal  string // Normal-map texture name; "" if unset.
	SpecMap string // Specular-map texture name; "" if unset.

	Mode MaterialMode // none, null, or double.

	LightSampling    LightSampling    // facet or vertex.
	GeometrySampling GeometrySampling // pointcloud, wireframe, or solid.

	TextureModes TextureModeSet // lit / foreshorten / filter flags.
	Tint         bool           // Tint-enabled bit.

	Tag int // Value of the most recent standalone `tag` directive; primitives take their tag from their own `tag n` clause, not from this field.
}

// RGB holds color information where each field is expected to contain a
// value from 0.0 to 1.0, matching the teacher's rgb convention.
//     black := RGB{0, 0, 0}     white := RGB{1, 1, 1}
//     red   := RGB{1, 0, 0}     gray  := RGB{0.5, 0.5, 0.5}
type RGB struct {
	R, G, B float32
}

// isUnset returns true if all of the colors are zero.
func (c RGB) isUnset() bool { return c.R == 0 && c.G == 0 && c.B == 0 }

// MaterialMode selects how a surface responds to the current light
// model. None and Null are kept as distinct values (§9 OQ2 in the
// accompanying design notes): both replace, rather than subtract from,
// the current mode.
type MaterialMode int

const (
	ModeNone MaterialMode = iota
	ModeNull
	ModeDouble
)

// LightSampling selects per-facet or per-vertex lighting.
type LightSampling int

const (
	SampleFacet LightSampling = iota
	SampleVertex
)

// GeometrySampling selects how a primitive's geometry is rasterized.
type GeometrySampling int

const (
	GeometrySolid GeometrySampling = iota
	GeometryWireframe
	GeometryPointcloud
)

// TextureModeSet is a bit set of texture-mode flags.
type TextureModeSet uint8

const (
	TextureLit TextureModeSet = 1 << iota
	TextureForeshorten
	TextureFilter
)

// DefaultMaterial is the parser's initial surface state: opaque white,
// full reflectance, no textures.
func DefaultMaterial() Material {
	return Material{
		Color:            RGB{1, 1, 1},
		Opacity:          1,
		Ambient:          1,
		Diffuse:          1,
		Specular:         0,
		Mode:             ModeNone,
		LightSampling:    SampleFacet,
		GeometrySampling: GeometrySolid,
		TextureModes:     TextureLit,
	}
}

// Key returns the Mesh Commit Key tuple this material contributes:
// (color, texture, mask, mode, light-sampling, geometry-sampling,
// texture-mode set). Two contiguous primitives with an equal Key belong
// to the same sub-mesh, so a color change starts a new sub-mesh.
func (m Material) Key() MaterialKey {
	return MaterialKey{
		Color:            m.Color,
		Texture:          m.Texture,
		Mask:             m.Mask,
		Mode:             m.Mode,
		LightSampling:    m.LightSampling,
		GeometrySampling: m.GeometrySampling,
		TextureModes:     m.TextureModes,
	}
}

// MaterialKey is the comparable identity a sub-mesh is partitioned by.
type MaterialKey struct {
	Color            RGB
	Texture          string
	Mask             string
	Mode             MaterialMode
	LightSampling    LightSampling
	GeometrySampling GeometrySampling
	TextureModes     TextureModeSet
}
