// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package load fetches disk based data that will be used to build RWX
// scenes: zipped model and texture archives, BMP textures, and a small
// amount of YAML configuration. Data is loaded directly from a local
// on-disk cache that is populated, the first time it is needed, from a
// remote HTTP object server.
//
// Package load is provided as part of an RWX scene loading pipeline.
package load

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Cache is the content-addressed local store of downloaded model and
// texture archives described in spec.md §4.1. Existence of the target
// local file is authoritative: Cache never revalidates, checks a TTL, or
// verifies a checksum. Invalidation is external (Clear, or deleting the
// directory by hand).
type Cache struct {
	root      string
	fetcher   Fetcher
	passwords map[string]string // server -> password, set by SetPassword.
}

// NewCache returns a Cache rooted at dir. A nil fetcher uses
// NewHTTPFetcher.
func NewCache(dir string, fetcher Fetcher) *Cache {
	if fetcher == nil {
		fetcher = NewHTTPFetcher()
	}
	return &Cache{root: dir, fetcher: fetcher, passwords: map[string]string{}}
}

// SetPassword configures a server password. Model and texture URLs for
// that server are suffixed with password=<url-encoded> and, if a primary
// archive reader cannot open an entry, the cache falls back to a
// password-aware reader for the same file (see zip_password.go).
func (c *Cache) SetPassword(server, password string) { c.passwords[server] = password }

// forbidden maps filesystem-hostile characters to '-', matching the
// Windows/macOS/Linux forbidden-character superset named in spec.md §4.1.
var forbidden = strings.NewReplacer(
	"/", "-", "\\", "-", ":", "-", "?", "-", "*", "-",
	"\"", "-", "<", "-", ">", "-", "|", "-",
)

func sanitize(name string) string { return forbidden.Replace(name) }

// sanitizeServer turns a server URL into a filesystem-safe directory
// name: the protocol prefix is stripped, forbidden characters are
// replaced, and any trailing '-' left over from a trailing slash is
// trimmed.
func sanitizeServer(server string) string {
	s := strings.TrimPrefix(server, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = sanitize(s)
	return strings.TrimRight(s, "-")
}

func (c *Cache) serverDir(server string) string {
	return filepath.Join(c.root, sanitizeServer(server))
}

func (c *Cache) modelPath(server, name string) string {
	return filepath.Join(c.serverDir(server), "models", sanitize(name)+".zip")
}

func (c *Cache) texturePath(server, name string) string {
	return filepath.Join(c.serverDir(server), "textures", sanitize(name))
}

// withPassword appends password=<url-encoded> to rawURL via '?' or '&',
// whichever the URL does not already contain, when server has a password
// configured.
func withPassword(rawURL, server string, passwords map[string]string) string {
	pw, ok := passwords[server]
	if !ok || pw == "" {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + "password=" + url.QueryEscape(pw)
}

// FetchModel returns the local path to <server>/models/<name>.zip,
// downloading it first if it is not already cached.
func (c *Cache) FetchModel(ctx context.Context, server, name string) (string, error) {
	local := c.modelPath(server, name)
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}
	remote := fmt.Sprintf("%s/models/%s.zip", strings.TrimRight(server, "/"), url.PathEscape(name))
	remote = withPassword(remote, server, c.passwords)
	return local, c.download(ctx, remote, local)
}

// FetchTexture returns the local path to <server>/textures/<name>,
// downloading it first if it is not already cached. The cached file may
// be a texture zip archive or a raw image; callers distinguish by
// attempting OpenArchive first.
func (c *Cache) FetchTexture(ctx context.Context, server, name string) (string, error) {
	local := c.texturePath(server, name)
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}
	remote := fmt.Sprintf("%s/textures/%s", strings.TrimRight(server, "/"), url.PathEscape(name))
	remote = withPassword(remote, server, c.passwords)
	return local, c.download(ctx, remote, local)
}

func (c *Cache) download(ctx context.Context, remote, local string) error {
	data, err := c.fetcher.Fetch(ctx, remote)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
		return fmt.Errorf("cache: create dir for %s: %w", local, err)
	}
	if err := os.WriteFile(local, data, 0o644); err != nil {
		return fmt.Errorf("cache: write %s: %w", local, err)
	}
	return nil
}

// Clear removes the cached archives for one server, or the whole cache
// root when server is "".
func (c *Cache) Clear(server string) error {
	if server == "" {
		return os.RemoveAll(c.root)
	}
	return os.RemoveAll(c.serverDir(server))
}

// passwordReader is implemented either by zip_password.go (build tag
// "pass") or, by default, by zip_password_stub.go: encrypted archives
// simply report their entries as unreadable and ReadEntry falls back to
// "none".
type passwordReader interface {
	readEntry(name string) ([]byte, error)
}

// Handle is an opened archive ready for fuzzy entry lookup (§4.1
// open_archive/read_entry/list_entries).
type Handle struct {
	path     string
	reader   *zip.ReadCloser
	password string // password configured for this handle's server, if any.
	secure   passwordReader
}

// OpenArchive opens the zip archive at path. password may be empty; it
// is only used lazily, the first time ReadEntry needs the fallback
// reader.
func OpenArchive(path, password string) (*Handle, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open_archive %s: %w", path, err)
	}
	return &Handle{path: path, reader: r, password: password}, nil
}

// Close releases the archive's file handle.
func (h *Handle) Close() error {
	if h.reader != nil {
		return h.reader.Close()
	}
	return nil
}

// ListEntries returns every entry name in the archive, in enumeration
// order.
func (h *Handle) ListEntries() []string {
	names := make([]string, 0, len(h.reader.File))
	for _, f := range h.reader.File {
		names = append(names, f.Name)
	}
	return names
}

// ListModels filters ListEntries down to names ending in .rwx or .RWX,
// the §6 embedding interface's list_models_in_archive.
func (h *Handle) ListModels() []string {
	var names []string
	for _, name := range h.ListEntries() {
		if lower := strings.ToLower(name); strings.HasSuffix(lower, ".rwx") {
			names = append(names, name)
		}
	}
	return names
}

// ReadEntry resolves name against the archive's entries using fuzzy
// matching (spec.md §4.1): exact match; URL-percent-decoded match;
// case-insensitive basename match; case-insensitive
// basename-without-extension match. The first rule to produce a hit
// wins; ties within a rule are broken by archive enumeration order. A
// nil, nil result means no entry matched — a "none", not an error.
func (h *Handle) ReadEntry(name string) ([]byte, error) {
	if f := matchZipEntry(h.reader.File, name); f != nil {
		rc, err := f.Open()
		if err == nil {
			defer rc.Close()
			return io.ReadAll(rc)
		}
		// Fall through to the password-aware reader below: the primary
		// reader could not open this entry (eg: it is encrypted).
	}
	secure, err := h.passwordReader()
	if err != nil {
		return nil, nil // no password configured, or it could not be opened: none.
	}
	return secure.readEntry(name)
}

func (h *Handle) passwordReader() (passwordReader, error) {
	if h.secure != nil {
		return h.secure, nil
	}
	if h.password == "" {
		return nil, fmt.Errorf("no password configured")
	}
	secure, err := newPasswordReader(h.path, h.password)
	if err != nil {
		return nil, err
	}
	h.secure = secure
	return secure, nil
}

func matchZipEntry(files []*zip.File, name string) *zip.File {
	if f := findExactEntry(files, name); f != nil {
		return f
	}
	if decoded, err := url.QueryUnescape(name); err == nil && decoded != name {
		if f := findExactEntry(files, decoded); f != nil {
			return f
		}
	}
	lowerName := strings.ToLower(name)
	for _, f := range files {
		if strings.ToLower(path.Base(f.Name)) == lowerName {
			return f
		}
	}
	stem := strings.ToLower(stripExt(name))
	for _, f := range files {
		if strings.ToLower(stripExt(path.Base(f.Name))) == stem {
			return f
		}
	}
	return nil
}

func findExactEntry(files []*zip.File, name string) *zip.File {
	for _, f := range files {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func stripExt(name string) string {
	if i := strings.LastIndex(name, "."); i != -1 {
		return name[:i]
	}
	return name
}
