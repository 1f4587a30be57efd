// Copyright 2025 The Overflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package atomicfile replaces a file's contents through a temporary file
// and a rename, so an interrupted run never leaves a half-written file
// behind. The rewriter uses it when writing rewritten source in place.
//
// The temporary file is created in the destination's directory: rename is
// only atomic within one file system, and the destination directory is
// the one place guaranteed to be on it.
package atomicfile

import (
	"os"
	"path/filepath"
)

// Write writes data to the file named by name, replacing any previous
// contents in one rename. The file ends up with the given permissions,
// subject to umask for a file that did not exist before.
func Write(name string, data []byte, perm os.FileMode) (err error) {
	dir, base := filepath.Split(name)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	// CreateTemp opens with 0600; match the destination's mode before the
	// rename makes the file visible.
	if err = tmp.Chmod(perm); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}
