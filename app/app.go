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

package app

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"

	"github.com/mendersoftware/go-lib-micro/log"
	"github.com/pkg/errors"

	"github.com/mendersoftware/devicefirmware/firmware"
	"github.com/mendersoftware/devicefirmware/model"
	"github.com/mendersoftware/devicefirmware/store"
	"github.com/mendersoftware/devicefirmware/utils"
)

// App errors
var (
	ErrDeviceNotFound      = errors.New("device not found")
	ErrDuplicateDeviceName = errors.New("device name already exists")
	ErrInvalidDeviceKey    = errors.New("invalid device key")
	ErrVersionNotFound     = errors.New("firmware version not found")
)

// Builder compiles one firmware version and promotes it into the artifact
// store
//
//go:generate ../utils/mockgen.sh
type Builder interface {
	Build(ctx context.Context, source, deviceName, board string,
		version int) (*firmware.Result, error)
}

// Provisioner prepares the external build toolchain
//
//go:generate ../utils/mockgen.sh
type Provisioner interface {
	EnsureCompiler(ctx context.Context) (string, error)
	EnsureBoardSupport(ctx context.Context, board string) error
}

// App interface describes app objects
//
//nolint:lll
//go:generate ../utils/mockgen.sh
type App interface {
	HealthCheck(ctx context.Context) error
	ProvisionToolchain(ctx context.Context) error
	CreateDevice(ctx context.Context, req model.NewDeviceRequest) (*model.Device, error)
	GetDevice(ctx context.Context, deviceID int64) (*model.Device, error)
	ListDevices(ctx context.Context, page, perPage int64) ([]model.Device, error)
	UpdateFirmware(ctx context.Context, deviceID int64, req model.UpdateFirmwareRequest) (*model.VersionInfo, error)
	DeleteDevice(ctx context.Context, deviceID int64) error
	CheckVersion(ctx context.Context, deviceID int64, key string) (*model.VersionInfo, error)
	ReportStatus(ctx context.Context, report model.StatusReport) error
	DownloadArtifact(ctx context.Context, deviceID int64, key string, version int) (string, error)
}

// app is an app object
type app struct {
	store       store.DataStore
	artifacts   *firmware.ArtifactStore
	builder     Builder
	provisioner Provisioner
	// buildLocks serializes version allocation per device id: the lock is
	// held across the whole read latest_version, build, write
	// latest_version+1 sequence.
	buildLocks *utils.KeyedMutex
}

// New initializes a new devicefirmware App
func New(
	ds store.DataStore,
	artifacts *firmware.ArtifactStore,
	builder Builder,
	provisioner Provisioner,
) App {
	return &app{
		store:       ds,
		artifacts:   artifacts,
		builder:     builder,
		provisioner: provisioner,
		buildLocks:  utils.NewKeyedMutex(),
	}
}

// HealthCheck performs a health check and returns an error if it fails
func (a *app) HealthCheck(ctx context.Context) error {
	return a.store.Ping(ctx)
}

// ProvisionToolchain installs the compiler and the core packages for every
// board type already present in the fleet, so the first build does not pay
// the download cost. Core installs run one at a time: they all write the
// compiler's shared data directory and the tool does no locking of its own.
func (a *app) ProvisionToolchain(ctx context.Context) error {
	if _, err := a.provisioner.EnsureCompiler(ctx); err != nil {
		return err
	}
	boards, err := a.store.ListBoards(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to list the fleet's board types")
	}
	for _, board := range boards {
		if err := a.provisioner.EnsureBoardSupport(ctx, board); err != nil {
			return err
		}
	}
	return nil
}

// CreateDevice registers a device and builds firmware version 1.
// Registration is all-or-nothing: a build failure deletes the just-inserted
// row and surfaces the build error.
func (a *app) CreateDevice(
	ctx context.Context,
	req model.NewDeviceRequest,
) (*model.Device, error) {
	l := log.FromContext(ctx)

	existing, err := a.store.GetDeviceByName(ctx, req.Name)
	if err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrDuplicateDeviceName
	}

	key, err := generateDeviceKey()
	if err != nil {
		return nil, err
	}

	device := &model.Device{
		Name:               req.Name,
		Board:              req.Board,
		Key:                key,
		Status:             model.DeviceStatusOffline,
		LatestVersion:      1,
		CurrVersion:        1,
		TotalVersions:      1,
		FirmwareFolderPath: a.artifacts.FolderPath(req.Name),
	}
	if err := a.store.InsertDevice(ctx, device); err != nil {
		if err == store.ErrDuplicateDeviceName {
			return nil, ErrDuplicateDeviceName
		}
		return nil, err
	}

	if err := a.provisioner.EnsureBoardSupport(ctx, req.Board); err != nil {
		l.Warnf("board support provisioning failed for %s: %s", req.Board, err)
	}

	source := model.RenderTemplate(req.SourceTemplate, key, device.ID, 1)
	result, err := a.builder.Build(ctx, source, req.Name, req.Board, 1)
	if err != nil {
		if errDelete := a.store.DeleteDevice(ctx, device.ID); errDelete != nil {
			l.Errorf("failed to roll back device %d after a failed build: %s",
				device.ID, errDelete)
		}
		return nil, err
	}

	device.LatestChecksum = result.Checksum
	if err := a.store.SetDeviceChecksum(ctx, device.ID, result.Checksum); err != nil {
		l.Warnf("failed to record the artifact checksum for device %d: %s",
			device.ID, err)
	}

	return device, nil
}

// GetDevice returns a device
func (a *app) GetDevice(ctx context.Context, deviceID int64) (*model.Device, error) {
	device, err := a.store.GetDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	} else if device == nil {
		return nil, ErrDeviceNotFound
	}
	return device, nil
}

// ListDevices returns a page of device records
func (a *app) ListDevices(ctx context.Context, page, perPage int64) ([]model.Device, error) {
	return a.store.ListDevices(ctx, page, perPage)
}

// UpdateFirmware builds version latest_version+1 for the device. On
// failure the device record is left completely unchanged.
func (a *app) UpdateFirmware(
	ctx context.Context,
	deviceID int64,
	req model.UpdateFirmwareRequest,
) (*model.VersionInfo, error) {
	a.buildLocks.Lock(deviceID)
	defer a.buildLocks.Unlock(deviceID)

	device, err := a.store.GetDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	} else if device == nil {
		return nil, ErrDeviceNotFound
	}

	newVersion := device.LatestVersion + 1
	source := model.RenderTemplate(req.SourceTemplate, device.Key,
		device.ID, newVersion)

	result, err := a.builder.Build(ctx, source, device.Name, device.Board,
		newVersion)
	if err != nil {
		return nil, err
	}

	err = a.store.SetDeviceVersion(ctx, deviceID,
		device.LatestVersion, newVersion, result.Checksum)
	if err != nil {
		return nil, err
	}

	return &model.VersionInfo{
		Version:      newVersion,
		FirmwarePath: result.Path,
		Checksum:     result.Checksum,
	}, nil
}

// DeleteDevice removes the device's artifact directory and its record. The
// directory removal is best effort: failures are logged and do not block
// the deletion.
func (a *app) DeleteDevice(ctx context.Context, deviceID int64) error {
	device, err := a.store.GetDevice(ctx, deviceID)
	if err != nil {
		return err
	} else if device == nil {
		return ErrDeviceNotFound
	}

	if err := a.artifacts.RemoveDevice(device.Name); err != nil {
		log.FromContext(ctx).Warnf(
			"failed to remove the artifact directory for device %s: %s",
			device.Name, err)
	}

	if err := a.store.DeleteDevice(ctx, deviceID); err != nil {
		if err == store.ErrDeviceNotFound {
			return ErrDeviceNotFound
		}
		return err
	}
	return nil
}

// CheckVersion answers a device's OTA poll with the latest built version
func (a *app) CheckVersion(
	ctx context.Context,
	deviceID int64,
	key string,
) (*model.VersionInfo, error) {
	device, err := a.authenticate(ctx, deviceID, key)
	if err != nil {
		return nil, err
	}
	return &model.VersionInfo{
		Version: device.LatestVersion,
		FirmwarePath: a.artifacts.RelativePath(device.Name,
			device.LatestVersion),
		Checksum: device.LatestChecksum,
	}, nil
}

// ReportStatus applies a device-reported status transition
func (a *app) ReportStatus(ctx context.Context, report model.StatusReport) error {
	if _, err := a.authenticate(ctx, report.DeviceID, report.Key); err != nil {
		return err
	}
	if err := a.store.SetDeviceStatus(ctx, report.DeviceID, report.Status); err != nil {
		if err == store.ErrDeviceNotFound {
			return ErrDeviceNotFound
		}
		return err
	}
	return nil
}

// DownloadArtifact resolves the on-disk path of a built firmware version
// for an authenticated device
func (a *app) DownloadArtifact(
	ctx context.Context,
	deviceID int64,
	key string,
	version int,
) (string, error) {
	device, err := a.authenticate(ctx, deviceID, key)
	if err != nil {
		return "", err
	}
	if version <= 0 {
		version = device.LatestVersion
	}
	if !a.artifacts.HasArtifact(device.Name, version) {
		return "", ErrVersionNotFound
	}
	return a.artifacts.ArtifactPath(device.Name, version), nil
}

// authenticate loads the device and verifies the caller-supplied key.
// Existence is checked before the key so an unknown id is a not-found, and
// the comparison is constant time.
func (a *app) authenticate(
	ctx context.Context,
	deviceID int64,
	key string,
) (*model.Device, error) {
	device, err := a.store.GetDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	} else if device == nil {
		return nil, ErrDeviceNotFound
	}
	if subtle.ConstantTimeCompare([]byte(device.Key), []byte(key)) != 1 {
		return nil, ErrInvalidDeviceKey
	}
	return device, nil
}

// generateDeviceKey returns the 256-bit hex-encoded device secret
func generateDeviceKey() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Wrap(err, "failed to generate the device key")
	}
	return hex.EncodeToString(raw), nil
}
