// Copyright © 2013-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

//go:build !pass

package load

import "fmt"

func newPasswordReader(path, password string) (passwordReader, error) {
	return nil, fmt.Errorf("encrypted archive support not built (rebuild with -tags pass)")
}
