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
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mendersoftware/go-lib-micro/log"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	// DefaultBuildTimeout bounds one compiler invocation
	DefaultBuildTimeout = 120 * time.Second

	// stderrTailSize limits how much compiler output a BuildError carries
	stderrTailSize = 4096
)

// Toolchain resolves the external compiler binary for the pipeline and
// prepares the libraries a sketch depends on
type Toolchain interface {
	// Compiler ensures the compiler is installed and returns its path
	Compiler(ctx context.Context) (string, error)
	// EnsureLibraries installs the third-party libraries the sketch
	// includes; failures are benign
	EnsureLibraries(ctx context.Context, source string) error
}

// BuildError is a failed compilation: non-zero exit, timeout or missing
// output artifact. It is an ordinary, per-request failure, never fatal to
// the service.
type BuildError struct {
	Reason string
	Stderr string
}

func (e *BuildError) Error() string {
	if e.Stderr == "" {
		return e.Reason
	}
	return e.Reason + ": " + e.Stderr
}

// Result describes one successfully promoted firmware build
type Result struct {
	Version  int
	Path     string
	Checksum string
}

// Builder runs one firmware compilation end to end: workspace setup,
// compiler invocation, artifact selection and promotion into the store.
type Builder struct {
	store     *ArtifactStore
	toolchain Toolchain
	timeout   time.Duration
	tempDir   string
}

// NewBuilder returns a Builder promoting into store and compiling with the
// given toolchain
func NewBuilder(store *ArtifactStore, toolchain Toolchain, timeout time.Duration) *Builder {
	if timeout <= 0 {
		timeout = DefaultBuildTimeout
	}
	return &Builder{
		store:     store,
		toolchain: toolchain,
		timeout:   timeout,
		tempDir:   os.TempDir(),
	}
}

// Build compiles the placeholder-substituted source for the board and
// promotes the binary as <store>/<deviceName>/<version>.bin. The workspace
// is removed on success and failure alike; the store is only touched after
// a verified successful build.
func (b *Builder) Build(
	ctx context.Context,
	source, deviceName, board string,
	version int,
) (*Result, error) {
	l := log.FromContext(ctx)

	compiler, err := b.toolchain.Compiler(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "compiler unavailable")
	}

	if err := b.toolchain.EnsureLibraries(ctx, source); err != nil {
		l.Warnf("library provisioning failed: %s", err)
	}

	// The compiler requires the sketch directory and its main source file
	// to share a name.
	sketch := fmt.Sprintf("%s_v%d", deviceName, version)
	workspace := filepath.Join(b.tempDir, sketch)
	if err := os.MkdirAll(workspace, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create the build workspace")
	}
	defer func() {
		if err := os.RemoveAll(workspace); err != nil {
			l.Warnf("failed to remove the build workspace %s: %s",
				workspace, err)
		}
	}()

	sketchFile := filepath.Join(workspace, sketch+".ino")
	if err := os.WriteFile(sketchFile, []byte(source), 0644); err != nil {
		return nil, errors.Wrap(err, "failed to write the sketch")
	}

	outputDir := filepath.Join(workspace, "output")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create the output directory")
	}

	fqbn, properties := expandBoard(board)
	args := []string{"compile", "--fqbn", fqbn}
	args = append(args, properties...)
	args = append(args, "--output-dir", outputDir, sketchFile)

	l.Infof("building firmware version %d for device %s (%s)",
		version, deviceName, fqbn)
	if err := b.compile(ctx, compiler, args); err != nil {
		return nil, err
	}

	artifact, err := selectArtifact(outputDir)
	if err != nil {
		return nil, err
	}

	checksum, err := b.store.Promote(artifact, deviceName, version)
	if err != nil {
		return nil, err
	}

	return &Result{
		Version:  version,
		Path:     b.store.RelativePath(deviceName, version),
		Checksum: checksum,
	}, nil
}

// compile runs the compiler as a bounded sub-process. The process runs in
// its own group so the timeout kill also reaches its children.
func (b *Builder) compile(ctx context.Context, compiler string, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.Command(compiler, args...)
	cmd.Stderr = &stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "failed to start the compiler")
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
		<-done
		return &BuildError{
			Reason: fmt.Sprintf("build timed out after %s", b.timeout),
			Stderr: stderrTail(stderr.Bytes()),
		}
	case err := <-done:
		if err != nil {
			return &BuildError{
				Reason: "compiler exited with an error",
				Stderr: stderrTail(stderr.Bytes()),
			}
		}
	}
	return nil
}

// selectArtifact picks the produced firmware binary, skipping the
// bootloader and partition-table auxiliary artifacts
func selectArtifact(outputDir string) (string, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return "", errors.Wrap(err, "failed to scan the build output")
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".bin") ||
			strings.Contains(name, "bootloader") ||
			strings.Contains(name, "partitions") {
			continue
		}
		return filepath.Join(outputDir, name), nil
	}
	return "", &BuildError{Reason: "no firmware binary in the build output"}
}

// expandBoard maps a board to the fully-optioned FQBN (and extra build
// properties) used for OTA-capable images: the min_spiffs partition scheme
// leaves room for two application slots.
func expandBoard(board string) (string, []string) {
	switch {
	case strings.Contains(board, "esp32c3"):
		return "esp32:esp32:esp32c3:CDCOnBoot=cdc,PartitionScheme=min_spiffs," +
			"CPUFreq=160,FlashMode=dio,FlashFreq=80,FlashSize=4M," +
			"UploadSpeed=921600,DebugLevel=none,EraseFlash=none", nil
	case strings.Contains(board, "esp32cam"):
		return "esp32:esp32:esp32cam:PartitionScheme=min_spiffs,CPUFreq=240," +
			"FlashMode=qio,FlashFreq=80,DebugLevel=none,EraseFlash=none", nil
	case strings.Contains(board, "esp32"):
		return board, []string{
			"--build-property", "build.partitions=min_spiffs",
			"--build-property", "build.flash_mode=dio",
			"--build-property", "build.flash_freq=80m",
		}
	}
	return board, nil
}

func stderrTail(buf []byte) string {
	if len(buf) > stderrTailSize {
		buf = buf[len(buf)-stderrTailSize:]
	}
	return strings.TrimSpace(string(buf))
}
