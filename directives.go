// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rwx

// directives.go is the RWX Directive Parser's dispatch table (§4.5): a
// fixed, ordered set of directive regexes tried one at a time against
// each line, generalized from load/obj.go's switch-on-first-token
// dispatch to RWX's larger directive set. The first pattern to match
// wins; a line that matches nothing is silently ignored (§7
// "unrecognized RWX directive -> silently ignored (forward-compat)").

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rwxscene/rwxscene/math/lin"
)

const numPattern = `[-+]?(?:[0-9]*\.[0-9]+|[0-9]+\.?)(?:[eE][-+]?[0-9]+)?`

func numGroup() string { return `\s+(` + numPattern + `)` }

var (
	reModelBegin     = regexp.MustCompile(`(?i)^modelbegin\s*$`)
	reModelEnd       = regexp.MustCompile(`(?i)^modelend\s*$`)
	reClumpBegin     = regexp.MustCompile(`(?i)^clumpbegin\s*(\S*)\s*$`)
	reClumpEnd       = regexp.MustCompile(`(?i)^clumpend\s*$`)
	reProtoBegin     = regexp.MustCompile(`(?i)^protobegin\s+(\S+)\s*$`)
	reProtoEnd       = regexp.MustCompile(`(?i)^protoend\s*$`)
	reProtoInstance  = regexp.MustCompile(`(?i)^protoinstance\s+(\S+)\s*$`)
	reVertex         = regexp.MustCompile(`(?i)^vertex` + numGroup() + numGroup() + numGroup() + `(?:\s+uv` + numGroup() + numGroup() + `)?\s*$`)
	reTriangle       = regexp.MustCompile(`(?i)^triangle\s+(\d+)\s+(\d+)\s+(\d+)(?:\s+tag\s+(-?\d+))?\s*$`)
	reQuad           = regexp.MustCompile(`(?i)^quad\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)(?:\s+tag\s+(-?\d+))?\s*$`)
	rePolygon        = regexp.MustCompile(`(?i)^polygon\s+(\d+)\s+(.+)$`)
	reTransform      = regexp.MustCompile(`(?i)^transform\s+(.+)$`)
	reTranslate      = regexp.MustCompile(`(?i)^translate` + numGroup() + numGroup() + numGroup() + `\s*$`)
	reRotate         = regexp.MustCompile(`(?i)^rotate` + numGroup() + numGroup() + numGroup() + numGroup() + `\s*$`)
	reScale          = regexp.MustCompile(`(?i)^scale` + numGroup() + numGroup() + numGroup() + `\s*$`)
	reTransformBegin = regexp.MustCompile(`(?i)^transformbegin\s*$`)
	reTransformEnd   = regexp.MustCompile(`(?i)^transformend\s*$`)
	reColor          = regexp.MustCompile(`(?i)^color` + numGroup() + numGroup() + numGroup() + `\s*$`)
	reOpacity        = regexp.MustCompile(`(?i)^opacity` + numGroup() + `\s*$`)
	reSurface        = regexp.MustCompile(`(?i)^surface` + numGroup() + numGroup() + numGroup() + `\s*$`)
	reAmbient        = regexp.MustCompile(`(?i)^ambient` + numGroup() + `\s*$`)
	reDiffuse        = regexp.MustCompile(`(?i)^diffuse` + numGroup() + `\s*$`)
	reSpecular       = regexp.MustCompile(`(?i)^specular` + numGroup() + `\s*$`)
	reTexture        = regexp.MustCompile(`(?i)^texture\s+(\S+)(?:\s+mask\s+(\S+))?(?:\s+normal\s+(\S+))?(?:\s+specular\s+(\S+))?\s*$`)
	reTextureMode    = regexp.MustCompile(`(?i)^texturemode\s+(.+)$`)
	reMaterialMode   = regexp.MustCompile(`(?i)^materialmode\s+(\S+)\s*$`)
	reLightSampling  = regexp.MustCompile(`(?i)^lightsampling\s+(\S+)\s*$`)
	reGeomSampling   = regexp.MustCompile(`(?i)^geometrysampling\s+(\S+)\s*$`)
	reTag            = regexp.MustCompile(`(?i)^tag\s+(-?\d+)\s*$`)
	reName           = regexp.MustCompile(`(?i)^name\s+(\S+)\s*$`)
)

// directiveTable is the ordered, linear try-match chain. Order rarely
// matters since the patterns are mutually exclusive, but protobegin is
// kept ahead of the identifier-shaped single-token directives.
type directive struct {
	re      *regexp.Regexp
	handler func(p *Parser, m []string)
}

var directiveTable = []directive{
	{reModelBegin, func(p *Parser, m []string) {}},
	{reModelEnd, func(p *Parser, m []string) { p.ctx.FinishModel() }},
	{reProtoBegin, func(p *Parser, m []string) { p.beginCapture(m[1]) }},
	{reProtoEnd, func(p *Parser, m []string) { p.ctx.Warn("unmatched protoend") }},
	{reProtoInstance, func(p *Parser, m []string) { p.replayPrototype(m[1]) }},
	{reClumpBegin, func(p *Parser, m []string) { p.ctx.EnterClump(m[1]) }},
	{reClumpEnd, func(p *Parser, m []string) { p.ctx.ExitClump() }},
	{reVertex, handleVertex},
	{reTriangle, handleTriangle},
	{reQuad, handleQuad},
	{rePolygon, handlePolygon},
	{reTransform, handleTransform},
	{reTranslate, handleTranslate},
	{reRotate, handleRotate},
	{reScale, handleScale},
	{reTransformBegin, func(p *Parser, m []string) { p.ctx.PushScratch() }},
	{reTransformEnd, func(p *Parser, m []string) { p.ctx.PopScratch() }},
	{reColor, handleColor},
	{reOpacity, handleOpacity},
	{reSurface, handleSurface},
	{reAmbient, handleAmbient},
	{reDiffuse, handleDiffuse},
	{reSpecular, handleSpecular},
	{reTexture, handleTexture},
	{reTextureMode, handleTextureMode},
	{reMaterialMode, handleMaterialMode},
	{reLightSampling, handleLightSampling},
	{reGeomSampling, handleGeomSampling},
	{reTag, handleTag},
	{reName, handleName},
}

func parseFloat(p *Parser, s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.ctx.Warn("malformed numeric token " + strconv.Quote(s))
		return 0
	}
	return v
}

func handleVertex(p *Parser, m []string) {
	v := Vertex{X: parseFloat(p, m[1]), Y: parseFloat(p, m[2]), Z: parseFloat(p, m[3])}
	if m[4] != "" || m[5] != "" {
		u := parseFloat(p, m[4])
		vv := parseFloat(p, m[5])
		v.U = u
		v.V = 1 - vv // the legacy mask/texture V axis is inverted relative to ours.
	}
	p.ctx.AddVertex(v)
}

func parseIndices(p *Parser, tokens []string) []int {
	idx := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			p.ctx.Warn("malformed index token " + strconv.Quote(tok))
			return nil
		}
		idx = append(idx, n)
	}
	return idx
}

// parseTag parses an optional trailing `[tag n]` capture group (spec §3:
// "Each [primitive] carries an optional integer tag"), defaulting to 0
// when the clause is absent.
func parseTag(p *Parser, token string) int {
	if token == "" {
		return 0
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		p.ctx.Warn("malformed tag value " + strconv.Quote(token))
		return 0
	}
	return n
}

func handleTriangle(p *Parser, m []string) {
	idx := parseIndices(p, m[1:4])
	if idx == nil {
		return
	}
	if err := p.ctx.AddPolygon(idx, parseTag(p, m[4])); err != nil {
		p.ctx.Warn(err.Error())
	}
}

func handleQuad(p *Parser, m []string) {
	idx := parseIndices(p, m[1:5])
	if idx == nil {
		return
	}
	if err := p.ctx.AddPolygon(idx, parseTag(p, m[5])); err != nil {
		p.ctx.Warn(err.Error())
	}
}

func handlePolygon(p *Parser, m []string) {
	tokens := strings.Fields(m[2])
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 3 || n > len(tokens) {
		p.ctx.Warn("malformed polygon directive")
		return
	}
	idx := parseIndices(p, tokens[:n])
	if idx == nil {
		return
	}
	tag := 0
	if rest := tokens[n:]; len(rest) > 0 {
		if len(rest) == 2 && strings.EqualFold(rest[0], "tag") {
			tag = parseTag(p, rest[1])
		} else {
			p.ctx.Warn("malformed polygon directive")
			return
		}
	}
	if err := p.ctx.AddPolygon(idx, tag); err != nil {
		p.ctx.Warn(err.Error())
	}
}

func handleTransform(p *Parser, m []string) {
	tokens := strings.Fields(m[1])
	if len(tokens) != 16 {
		p.ctx.Warn("transform directive needs 16 elements")
		return
	}
	vals := make([]float64, 16)
	for i, tok := range tokens {
		vals[i] = parseFloat(p, tok)
	}
	mtx := &lin.M4{
		Xx: vals[0], Xy: vals[1], Xz: vals[2], Xw: vals[3],
		Yx: vals[4], Yy: vals[5], Yz: vals[6], Yw: vals[7],
		Zx: vals[8], Zy: vals[9], Zz: vals[10], Zw: vals[11],
		Wx: vals[12], Wy: vals[13], Wz: vals[14], Ww: vals[15],
	}
	p.ctx.Transform = mtx
}

func handleTranslate(p *Parser, m []string) {
	x, y, z := parseFloat(p, m[1]), parseFloat(p, m[2]), parseFloat(p, m[3])
	p.ctx.Transform = lin.NewM4().Mult(p.ctx.Transform, translationM4(x, y, z))
}

func handleRotate(p *Parser, m []string) {
	x, y, z, deg := parseFloat(p, m[1]), parseFloat(p, m[2]), parseFloat(p, m[3]), parseFloat(p, m[4])
	q := lin.NewQ().SetAa(x, y, z, lin.Rad(deg))
	rot := lin.NewM4().SetQ(q)
	p.ctx.Transform = lin.NewM4().Mult(p.ctx.Transform, rot)
}

func handleScale(p *Parser, m []string) {
	x, y, z := parseFloat(p, m[1]), parseFloat(p, m[2]), parseFloat(p, m[3])
	p.ctx.Transform = lin.NewM4().Mult(p.ctx.Transform, scaleM4(x, y, z))
}

func handleColor(p *Parser, m []string) {
	p.ctx.Material.Color = RGB{float32(parseFloat(p, m[1])), float32(parseFloat(p, m[2])), float32(parseFloat(p, m[3]))}
}

func handleOpacity(p *Parser, m []string) { p.ctx.Material.Opacity = float32(parseFloat(p, m[1])) }

func handleSurface(p *Parser, m []string) {
	p.ctx.Material.Ambient = float32(parseFloat(p, m[1]))
	p.ctx.Material.Diffuse = float32(parseFloat(p, m[2]))
	p.ctx.Material.Specular = float32(parseFloat(p, m[3]))
}

func handleAmbient(p *Parser, m []string)  { p.ctx.Material.Ambient = float32(parseFloat(p, m[1])) }
func handleDiffuse(p *Parser, m []string)  { p.ctx.Material.Diffuse = float32(parseFloat(p, m[1])) }
func handleSpecular(p *Parser, m []string) { p.ctx.Material.Specular = float32(parseFloat(p, m[1])) }

// handleTexture applies a `texture <name> [mask <n>] [normal <n>]
// [specular <n>]` directive. All four map slots are reset on every
// texture directive, then set from whichever optional clauses are
// present (an absent clause's capture group is "", which is exactly
// the reset state) — a later `texture` directive with fewer clauses
// never leaves a stale mask/normal/specular from an earlier one. The
// literal token `null` clears whichever slot it names.
func handleTexture(p *Parser, m []string) {
	p.ctx.Material.Texture = mapNull(m[1])
	p.ctx.Material.Mask = mapNull(m[2])
	p.ctx.Material.Normal = mapNull(m[3])
	p.ctx.Material.SpecMap = mapNull(m[4])
}

func mapNull(token string) string {
	if strings.EqualFold(token, "null") {
		return ""
	}
	return token
}

func handleTextureMode(p *Parser, m []string) {
	var modes TextureModeSet
	for _, tok := range strings.Fields(m[1]) {
		switch strings.ToLower(tok) {
		case "lit":
			modes |= TextureLit
		case "foreshorten":
			modes |= TextureForeshorten
		case "filter":
			modes |= TextureFilter
		case "null":
			modes = 0
		default:
			p.ctx.Warn("unrecognized texturemode token " + strconv.Quote(tok))
		}
	}
	p.ctx.Material.TextureModes = modes
}

func handleMaterialMode(p *Parser, m []string) {
	switch strings.ToLower(m[1]) {
	case "none":
		p.ctx.Material.Mode = ModeNone
	case "null":
		p.ctx.Material.Mode = ModeNull
	case "double":
		p.ctx.Material.Mode = ModeDouble
	default:
		p.ctx.Warn("unrecognized materialmode " + strconv.Quote(m[1]))
	}
}

func handleLightSampling(p *Parser, m []string) {
	switch strings.ToLower(m[1]) {
	case "facet":
		p.ctx.Material.LightSampling = SampleFacet
	case "vertex":
		p.ctx.Material.LightSampling = SampleVertex
	default:
		p.ctx.Warn("unrecognized lightsampling " + strconv.Quote(m[1]))
	}
}

func handleGeomSampling(p *Parser, m []string) {
	switch strings.ToLower(m[1]) {
	case "solid":
		p.ctx.Material.GeometrySampling = GeometrySolid
	case "wireframe":
		p.ctx.Material.GeometrySampling = GeometryWireframe
	case "pointcloud":
		p.ctx.Material.GeometrySampling = GeometryPointcloud
	default:
		p.ctx.Warn("unrecognized geometrysampling " + strconv.Quote(m[1]))
	}
}

func handleTag(p *Parser, m []string) {
	n, err := strconv.Atoi(m[1])
	if err != nil {
		p.ctx.Warn("malformed tag value " + strconv.Quote(m[1]))
		return
	}
	p.ctx.Material.Tag = n
}

func handleName(p *Parser, m []string) { p.ctx.Current().Name = m[1] }

func translationM4(x, y, z float64) *lin.M4 {
	m := lin.NewM4I()
	m.Xw, m.Yw, m.Zw = x, y, z
	return m
}

func scaleM4(x, y, z float64) *lin.M4 {
	m := lin.NewM4I()
	m.Xx, m.Yy, m.Zz = x, y, z
	return m
}
