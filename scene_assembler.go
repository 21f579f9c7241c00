// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rwx

// scene_assembler.go is the top-level embedding surface (§4.8, §6): it
// ties the Cache, the RWX Directive Parser, and the TextureLoader
// together into the handful of operations a host application calls —
// load a named model from a remote object server or a local archive,
// list what an archive offers, preload a batch of models with bounded
// concurrency, resolve a material's texture, and clear the cache.
// Grounded on the teacher's loader.go, which wires the same
// cache-probe-then-import shape ("returns a loaded texture immediately
// if it is cached... otherwise the texture is returned after it is
// loaded") around a worker-bounded asset pipeline.

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/rwxscene/rwxscene/load"
)

type prefabKey struct {
	server string
	model  string
}

// SceneAssembler is the embedding interface's concrete implementation:
// a model prefab cache on top of a Cache and a TextureLoader.
type SceneAssembler struct {
	cache    *load.Cache
	textures *load.TextureLoader

	mu      sync.Mutex
	prefabs map[prefabKey]*Node
}

// NewSceneAssembler wires a Cache and a TextureLoader into an
// assembler. Either may be nil if the caller only needs the other half
// of the pipeline (eg: geometry-only tooling with no texture loads).
func NewSceneAssembler(cache *load.Cache, textures *load.TextureLoader) *SceneAssembler {
	return &SceneAssembler{cache: cache, textures: textures, prefabs: map[prefabKey]*Node{}}
}

// LoadFromRemote fetches model's archive from server (via the Cache,
// downloading only on a cache miss), parses it, and returns a fresh
// instance. The parsed prefab is cached in memory keyed by
// (server, lowercased model name) so repeated instantiation of the same
// model skips re-parsing; every caller still gets an independent Node
// tree (Clone), since callers mutate Loc/Rot/Scale per instance.
func (a *SceneAssembler) LoadFromRemote(ctx context.Context, server, model string) (*Node, error) {
	key := prefabKey{server: server, model: strings.ToLower(model)}

	a.mu.Lock()
	if prefab, ok := a.prefabs[key]; ok {
		a.mu.Unlock()
		return prefab.Clone(), nil
	}
	a.mu.Unlock()

	path, err := a.cache.FetchModel(ctx, server, model)
	if err != nil {
		return nil, fmt.Errorf("scene: load_from_remote %s/%s: %w", server, model, err)
	}
	prefab, err := a.LoadFromLocalArchive(path, model)
	if err != nil {
		return nil, err
	}

	// Insert-once per key: a concurrent load that finished first keeps
	// its prefab, and this result is discarded.
	a.mu.Lock()
	if existing, ok := a.prefabs[key]; ok {
		prefab = existing
	} else {
		a.prefabs[key] = prefab
	}
	a.mu.Unlock()
	return prefab.Clone(), nil
}

// LoadFromLocalArchive opens the zip archive at path, fuzzy-resolves
// model to one of its entries, parses it, and returns the resulting
// scene graph. Unlike LoadFromRemote this never touches the prefab
// cache: it is the building block both LoadFromRemote and tooling that
// already has a local archive on disk can call directly.
func (a *SceneAssembler) LoadFromLocalArchive(path, model string) (*Node, error) {
	handle, err := load.OpenArchive(path, "")
	if err != nil {
		return nil, fmt.Errorf("scene: load_from_local_archive %s: %w", path, err)
	}
	defer handle.Close()

	data, err := handle.ReadEntry(model)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s from %s: %w", model, path, err)
	}
	if data == nil {
		return nil, fmt.Errorf("scene: model %q not found in archive %s", model, path)
	}

	p := NewParser(NewNode(model))
	if err := p.Parse(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", model, err)
	}
	return p.Context().Root, nil
}

// ListModelsInArchive opens the zip archive at path and lists its .rwx
// model entries (§6 list_models_in_archive).
func (a *SceneAssembler) ListModelsInArchive(path string) ([]string, error) {
	handle, err := load.OpenArchive(path, "")
	if err != nil {
		return nil, fmt.Errorf("scene: list_models_in_archive %s: %w", path, err)
	}
	defer handle.Close()
	return handle.ListModels(), nil
}

// Progress reports preload_models batch progress.
type Progress struct {
	Completed int
	Total     int
}

// PreloadModels fetches and parses every named model from server with
// bounded concurrency (cfg.Workers, clamped to [2,8] by Normalize),
// reporting progress after each completion. report may be nil. The
// first model to fail a fetch-or-parse cancels the remaining work and
// its error is returned; models already in flight still finish before
// PreloadModels returns.
func (a *SceneAssembler) PreloadModels(ctx context.Context, server string, models []string, cfg *load.ServerConfig, report func(Progress)) error {
	cfg.Normalize()
	total := len(models)
	var completed int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, model := range models {
		model := model
		g.Go(func() error {
			_, err := a.LoadFromRemote(gctx, server, model)
			n := atomic.AddInt32(&completed, 1)
			if report != nil {
				report(Progress{Completed: int(n), Total: total})
			}
			return err
		})
	}
	return g.Wait()
}

// ClearCache evicts one server's cached archives, or the whole cache
// root when server is "" (§6 clear_cache).
func (a *SceneAssembler) ClearCache(server string) error {
	return a.cache.Clear(server)
}

// ResolveTexture loads and, if the material references a mask,
// composes the Bitmap a renderer would bind for mat. Returns nil, nil
// when mat has no texture reference.
func (a *SceneAssembler) ResolveTexture(ctx context.Context, server string, mat Material) (*load.Bitmap, error) {
	if mat.Texture == "" {
		return nil, nil
	}
	doubleSided := mat.Mode == ModeDouble
	color, err := a.textures.Load(ctx, server, mat.Texture, doubleSided)
	if err != nil {
		return nil, fmt.Errorf("scene: resolve texture %s: %w", mat.Texture, err)
	}
	if mat.Mask == "" {
		return color, nil
	}
	mask, err := a.textures.Load(ctx, server, mat.Mask, doubleSided)
	if err != nil {
		return nil, fmt.Errorf("scene: resolve mask %s: %w", mat.Mask, err)
	}
	return a.textures.ComposeMask(color, mask, mat.Mask), nil
}
