// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package load

// fetch.go is the byte-fetching primitive the Archive Cache and Texture
// Loader build on. Concrete HTTP transport is explicitly an external
// collaborator of this package (the object server, the world client that
// queries it, and the wire protocol belong to the embedding application)
// so only a small interface and a thin stdlib default live here.

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher retrieves the bytes at a URL. Implementations are expected to
// return a non-nil error for any non-2xx response.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// NewHTTPFetcher returns the default Fetcher, a thin wrapper over
// net/http with a bounded client timeout.
func NewHTTPFetcher() Fetcher {
	return &httpFetcher{client: &http.Client{Timeout: 30 * time.Second}}
}

// httpFetcher implements Fetcher using net/http.
type httpFetcher struct {
	client *http.Client
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: bad request %s: %w", url, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch: %s: status %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch: reading %s: %w", url, err)
	}
	return data, nil
}
