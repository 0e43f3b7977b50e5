// Copyright 2026 Northern.tech AS
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package firmware

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// ArtifactStore is the per-device, version-indexed directory tree of
// compiled firmware binaries. All writes go through Promote; every path is
// a pure function of the device name and version.
type ArtifactStore struct {
	// Base is the root directory of the store
	Base string
}

// NewArtifactStore returns an artifact store rooted at base
func NewArtifactStore(base string) *ArtifactStore {
	return &ArtifactStore{Base: base}
}

// DeviceDir returns the directory holding all versions of a device
func (s *ArtifactStore) DeviceDir(deviceName string) string {
	return filepath.Join(s.Base, deviceName)
}

// ArtifactPath returns the on-disk path of one firmware version
func (s *ArtifactStore) ArtifactPath(deviceName string, version int) string {
	return filepath.Join(s.DeviceDir(deviceName), strconv.Itoa(version)+".bin")
}

// FolderPath returns the device's firmware folder as exposed to callers.
// Only the store directory's name enters the public path, so an absolute
// Base never leaks the filesystem location to devices.
func (s *ArtifactStore) FolderPath(deviceName string) string {
	return "/" + path.Join(filepath.Base(filepath.Clean(s.Base)), deviceName)
}

// RelativePath returns the artifact path as exposed to devices
func (s *ArtifactStore) RelativePath(deviceName string, version int) string {
	return s.FolderPath(deviceName) + "/" + strconv.Itoa(version) + ".bin"
}

// HasArtifact reports whether the binary for a version exists
func (s *ArtifactStore) HasArtifact(deviceName string, version int) bool {
	info, err := os.Stat(s.ArtifactPath(deviceName, version))
	return err == nil && info.Mode().IsRegular()
}

// Promote copies a verified build output into the store and returns the
// hex-encoded SHA-256 of the binary. The source file is left in place; the
// caller owns the workspace cleanup.
func (s *ArtifactStore) Promote(src, deviceName string, version int) (string, error) {
	if err := os.MkdirAll(s.DeviceDir(deviceName), 0755); err != nil {
		return "", errors.Wrap(err, "failed to create the device artifact directory")
	}

	in, err := os.Open(src)
	if err != nil {
		return "", errors.Wrap(err, "failed to open the build artifact")
	}
	defer in.Close()

	dst := s.ArtifactPath(deviceName, version)
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", errors.Wrap(err, "failed to create the artifact file")
	}

	digest := sha256.New()
	_, err = io.Copy(io.MultiWriter(out, digest), in)
	if err == nil {
		err = out.Sync()
	}
	if errClose := out.Close(); errClose != nil && err == nil {
		err = errClose
	}
	if err != nil {
		os.Remove(dst)
		return "", errors.Wrap(err, "failed to copy the artifact into the store")
	}

	return hex.EncodeToString(digest.Sum(nil)), nil
}

// RemoveDevice removes the whole per-device directory. An absent directory
// is not an error.
func (s *ArtifactStore) RemoveDevice(deviceName string) error {
	return os.RemoveAll(s.DeviceDir(deviceName))
}
