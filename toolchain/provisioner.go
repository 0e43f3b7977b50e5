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

// Package toolchain installs and resolves the external firmware compiler
// (arduino-cli) and the vendor core packages for the boards in the fleet.
package toolchain

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/mendersoftware/go-lib-micro/log"
	"github.com/pkg/errors"
)

// DefaultDownloadBaseURL is where pinned compiler releases are fetched from
const DefaultDownloadBaseURL = "https://downloads.arduino.cc/arduino-cli"

// archives is the per-OS download table for the pinned compiler version
var archives = map[string]string{
	"linux":   "Linux_64bit.tar.gz",
	"darwin":  "macOS_64bit.tar.gz",
	"windows": "Windows_64bit.zip",
}

// Provisioner ensures the compiler binary and board support packages exist
// locally. All operations are idempotent; repeated calls after success are
// no-ops.
type Provisioner struct {
	// ToolsDir is where downloaded compiler releases are unpacked
	ToolsDir string
	// Version is the pinned compiler version
	Version string
	// Client is the HTTP client used for downloads
	Client *http.Client
	// DownloadBaseURL is the release mirror to download from
	DownloadBaseURL string

	mutex sync.Mutex
}

// New returns a Provisioner for the given tools directory and compiler
// version
func New(toolsDir, version string) *Provisioner {
	return &Provisioner{
		ToolsDir:        toolsDir,
		Version:         version,
		Client:          http.DefaultClient,
		DownloadBaseURL: DefaultDownloadBaseURL,
	}
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "arduino-cli.exe"
	}
	return "arduino-cli"
}

func (p *Provisioner) binaryPath() string {
	return filepath.Join(p.ToolsDir, binaryName())
}

// lookupCompiler returns the compiler path if it is already installed. A
// system-wide binary on PATH wins over the local tools directory so
// container images with a preinstalled compiler skip the download.
func (p *Provisioner) lookupCompiler() (string, error) {
	if path, err := exec.LookPath(binaryName()); err == nil {
		return path, nil
	}
	local := p.binaryPath()
	if info, err := os.Stat(local); err == nil && info.Mode().IsRegular() {
		return local, nil
	}
	return "", errors.New("toolchain: compiler not installed")
}

// Compiler implements firmware.Toolchain
func (p *Provisioner) Compiler(ctx context.Context) (string, error) {
	return p.EnsureCompiler(ctx)
}

// EnsureCompiler checks for the compiler and downloads the pinned release
// when it is absent, returning the binary path
func (p *Provisioner) EnsureCompiler(ctx context.Context) (string, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if path, err := p.lookupCompiler(); err == nil {
		return path, nil
	}
	l := log.FromContext(ctx)

	archive, ok := archives[runtime.GOOS]
	if !ok {
		return "", errors.Errorf(
			"toolchain: no compiler release for %s", runtime.GOOS)
	}
	url := fmt.Sprintf("%s/arduino-cli_%s_%s",
		p.DownloadBaseURL, p.Version, archive)

	if err := os.MkdirAll(p.ToolsDir, 0755); err != nil {
		return "", errors.Wrap(err, "toolchain: failed to create the tools directory")
	}

	archivePath := filepath.Join(p.ToolsDir, "arduino-cli-download"+archiveExt(archive))
	l.Infof("downloading compiler %s from %s", p.Version, url)
	if err := p.download(ctx, url, archivePath); err != nil {
		return "", err
	}
	defer os.Remove(archivePath)

	var err error
	if strings.HasSuffix(archivePath, ".zip") {
		err = extractZip(archivePath, p.ToolsDir)
	} else {
		err = extractTarGz(archivePath, p.ToolsDir)
	}
	if err != nil {
		return "", errors.Wrap(err, "toolchain: failed to extract the compiler archive")
	}

	binary := p.binaryPath()
	if err := os.Chmod(binary, 0755); err != nil {
		return "", errors.Wrap(err, "toolchain: failed to make the compiler executable")
	}
	l.Infof("compiler %s installed at %s", p.Version, binary)
	return binary, nil
}

// EnsureBoardSupport refreshes the package index and installs the vendor
// core for the board. Core installs are idempotent at the tool level, so
// an install failure is treated as already-installed and only logged.
func (p *Provisioner) EnsureBoardSupport(ctx context.Context, board string) error {
	compiler, err := p.EnsureCompiler(ctx)
	if err != nil {
		return err
	}
	l := log.FromContext(ctx)
	core := CoreFromBoard(board)

	cmd := exec.CommandContext(ctx, compiler, "core", "update-index")
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err,
			"toolchain: failed to update the core index: %s",
			strings.TrimSpace(string(out)))
	}

	cmd = exec.CommandContext(ctx, compiler, "core", "install", core)
	if out, err := cmd.CombinedOutput(); err != nil {
		l.Warnf("core %s install reported an error (already installed?): %s: %s",
			core, err, strings.TrimSpace(string(out)))
		return nil
	}
	l.Infof("core %s is ready", core)
	return nil
}

// CoreFromBoard derives the vendor core package id from a fully-qualified
// board name, e.g. esp32:esp32:esp32c3 -> esp32:esp32
func CoreFromBoard(board string) string {
	parts := strings.SplitN(board, ":", 3)
	if len(parts) < 2 {
		return board
	}
	return parts[0] + ":" + parts[1]
}

func archiveExt(archive string) string {
	if strings.HasSuffix(archive, ".zip") {
		return ".zip"
	}
	return ".tar.gz"
}

func (p *Provisioner) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "toolchain: invalid download request")
	}
	rsp, err := p.Client.Do(req)
	if err != nil {
		return errors.Wrap(err, "toolchain: failed to download the compiler")
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		return errors.Errorf(
			"toolchain: compiler download returned status %d", rsp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrap(err, "toolchain: failed to create the archive file")
	}
	_, err = io.Copy(out, rsp.Body)
	if errClose := out.Close(); errClose != nil && err == nil {
		err = errClose
	}
	if err != nil {
		os.Remove(dest)
		return errors.Wrap(err, "toolchain: failed to write the archive")
	}
	return nil
}
