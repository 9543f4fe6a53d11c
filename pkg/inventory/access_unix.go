/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

//go:build unix

package inventory

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// readable reports whether path is a regular file the process may read.
func readable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	return unix.Access(path, unix.R_OK) == nil
}

// writable reports whether path can be replaced: the file itself (when present) and its
// directory must both be writable, because saves go through a rename.
func writable(path string) bool {
	if info, err := os.Stat(path); err == nil {
		if !info.Mode().IsRegular() || unix.Access(path, unix.W_OK) != nil {
			return false
		}
	}

	return unix.Access(filepath.Dir(path), unix.W_OK|unix.X_OK) == nil
}
