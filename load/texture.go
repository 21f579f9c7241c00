// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package load

// texture.go resolves a texture name to a pixel buffer through the
// cache/archive/fallback chain and composes mask textures onto the
// color buffer's alpha channel. Grounded on loader.go's
// cache-probe-then-import shape: "a loaded texture [is] returned
// immediately if it is cached. Otherwise the texture is returned after
// it is loaded."

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

func init() {
	// Register the host image loader's bmp support so image.Decode picks
	// it up for anything the custom BMP Decoder does not need to handle
	// (the mask/orientation variants below are still reached explicitly).
	image.RegisterFormat("bmp", "BM", bmp.Decode, bmp.DecodeConfig)
}

// extCandidates lists the extension toggles the Texture Loader tries
// against a per-server archive, in priority order, per spec.md §4.3.
var extCandidates = []string{".jpg", ".JPG", ".jpeg", ".png", ".bmp", ".BMP"}

// textureKey identifies a cached decoded pixel buffer: the same name
// decodes to a different buffer depending on whether it is being used
// double-sided (spec.md §3 "texture pixel buffers are cached per
// object-server by (name, double-sided-flag)").
type textureKey struct {
	server      string
	name        string
	doubleSided bool
}

// TextureLoader resolves texture names to pixel buffers through the
// cache → archive → direct-GET fallback chain described in spec.md
// §4.3, decoding with the host image loader first and the BMP Decoder
// as a fallback, and caches the result per (server, name, double-sided).
type TextureLoader struct {
	cache      *Cache
	fetcher    Fetcher
	heuristics *HeuristicsConfig

	mu     sync.Mutex
	images map[textureKey]*Bitmap
}

// NewTextureLoader returns a loader backed by cache for archive lookups
// and fetcher for direct HTTP fallback. A nil heuristics uses
// DefaultHeuristics.
func NewTextureLoader(cache *Cache, fetcher Fetcher, heuristics *HeuristicsConfig) *TextureLoader {
	if fetcher == nil {
		fetcher = NewHTTPFetcher()
	}
	if heuristics == nil {
		heuristics = DefaultHeuristics()
	}
	return &TextureLoader{
		cache:      cache,
		fetcher:    fetcher,
		heuristics: heuristics,
		images:     map[textureKey]*Bitmap{},
	}
}

// normalizeName strips a leading path, leaving the basename (extension
// included) in its original case (archive entries are matched
// case-insensitively downstream).
func normalizeName(name string) string {
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func basenameNoExt(name string) string {
	name = normalizeName(name)
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i]
	}
	return name
}

// Load resolves name to a decoded pixel buffer for server, trying the
// cache, then the per-server texture archive, then a direct GET.
func (l *TextureLoader) Load(ctx context.Context, server, name string, doubleSided bool) (*Bitmap, error) {
	name = normalizeName(name)
	key := textureKey{server: server, name: name, doubleSided: doubleSided}

	l.mu.Lock()
	if cached, ok := l.images[key]; ok {
		l.mu.Unlock()
		return cached, nil
	}
	l.mu.Unlock()

	img, err := l.resolve(ctx, server, name)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.images[key] = img
	l.mu.Unlock()
	return img, nil
}

func (l *TextureLoader) resolve(ctx context.Context, server, name string) (*Bitmap, error) {
	stem := basenameNoExt(name)

	if data, ext, ok := l.fromArchive(ctx, server, stem); ok {
		return decodeBitmap(data, ext)
	}

	data, ext, err := l.fromDirectGet(ctx, server, name)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", name, err)
	}
	return decodeBitmap(data, ext)
}

// fromArchive downloads <stem>.zip from the server's textures/ path and
// tries read_entry with every extension candidate plus the bare
// basename, per spec.md §4.3 step 3.
func (l *TextureLoader) fromArchive(ctx context.Context, server, stem string) (data []byte, ext string, ok bool) {
	if l.cache == nil {
		return nil, "", false
	}
	archivePath, err := l.cache.FetchTexture(ctx, server, stem+".zip")
	if err != nil {
		return nil, "", false
	}
	h, err := OpenArchive(archivePath, l.cache.passwords[server])
	if err != nil {
		return nil, "", false
	}
	defer h.Close()

	candidates := append([]string{stem}, withExts(stem, extCandidates)...)
	for _, candidate := range candidates {
		if b, err := h.ReadEntry(candidate); err == nil && b != nil {
			return b, extOf(candidate), true
		}
	}
	return nil, "", false
}

func withExts(stem string, exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		out = append(out, stem+ext)
	}
	return out
}

func extOf(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return strings.ToLower(name[i:])
	}
	return ""
}

// fromDirectGet falls back to a direct HTTP GET of <name> from the
// server's textures/ path (spec.md §4.3 step 4).
func (l *TextureLoader) fromDirectGet(ctx context.Context, server, name string) ([]byte, string, error) {
	remote := fmt.Sprintf("%s/textures/%s", strings.TrimRight(server, "/"), name)
	data, err := l.fetcher.Fetch(ctx, remote)
	if err != nil {
		return nil, "", err
	}
	return data, extOf(name), nil
}

// decodeBitmap tries the host image loader first; on failure, and only
// when ext is a bmp variant, falls back to the BMP Decoder (spec.md
// §4.3 step 5).
func decodeBitmap(data []byte, ext string) (*Bitmap, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return fromImage(img), nil
	}
	if ext == ".bmp" || ext == ".BMP" {
		return DecodePlain(data)
	}
	return nil, fmt.Errorf("no decoder for extension %q", ext)
}

// fromImage converts a decoded image.Image into the package's Bitmap
// representation.
func fromImage(img image.Image) *Bitmap {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := &Bitmap{W: w, H: h, Pix: make([]byte, w*h*4)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			o := (y*w + x) * 4
			out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = byte(r>>8), byte(g>>8), byte(bl>>8), byte(a>>8)
		}
	}
	return out
}

// ComposeMask produces a combined RGBA buffer from a color texture and
// a grayscale mask: the mask is bilinearly resized to color's
// dimensions when they differ, flipped vertically once (the legacy
// mask origin is inverted relative to its color counterpart), then
// sampled as the alpha channel, subject to the named polarity
// heuristic for maskName.
func (l *TextureLoader) ComposeMask(color, mask *Bitmap, maskName string) *Bitmap {
	resized := mask
	if mask.W != color.W || mask.H != color.H {
		resized = resizeBilinear(mask, color.W, color.H)
	}
	flipped := resized.flipVertical()

	inverted := l.heuristics.Polarity(maskName) == PolarityInverted
	out := &Bitmap{W: color.W, H: color.H, Pix: make([]byte, len(color.Pix))}
	copy(out.Pix, color.Pix)
	for i := 0; i < color.W*color.H; i++ {
		gray := flipped.Pix[i*4] // grayscale: R==G==B by construction.
		alpha := gray
		if inverted {
			alpha = 255 - gray
		}
		out.Pix[i*4+3] = alpha
	}
	return out
}

// resizeBilinear scales a Bitmap to (w,h) using golang.org/x/image/draw's
// bilinear scaler.
func resizeBilinear(b *Bitmap, w, h int) *Bitmap {
	src := &bitmapImage{b}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return fromImage(dst)
}

// bitmapImage adapts a Bitmap to image.Image so it can be handed to
// golang.org/x/image/draw.
type bitmapImage struct{ b *Bitmap }

func (i *bitmapImage) ColorModel() color.Model { return color.NRGBAModel }
func (i *bitmapImage) Bounds() image.Rectangle { return image.Rect(0, 0, i.b.W, i.b.H) }
func (i *bitmapImage) At(x, y int) color.Color {
	o := (y*i.b.W + x) * 4
	return color.NRGBA{R: i.b.Pix[o], G: i.b.Pix[o+1], B: i.b.Pix[o+2], A: i.b.Pix[o+3]}
}
