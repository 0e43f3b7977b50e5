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
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app_mocks "github.com/mendersoftware/devicefirmware/app/mocks"
	"github.com/mendersoftware/devicefirmware/firmware"
	"github.com/mendersoftware/devicefirmware/model"
	"github.com/mendersoftware/devicefirmware/store"
	store_mocks "github.com/mendersoftware/devicefirmware/store/mocks"
)

const testTemplate = "// [KEY] [ID]\n#define VERSION [VERSION]\nvoid loop() {}"

func TestHealthCheck(t *testing.T) {
	err := errors.New("connection refused")

	ds := store_mocks.NewDataStore(t)
	ds.On("Ping", mock.Anything).Return(err)

	a := New(ds, firmware.NewArtifactStore(t.TempDir()), nil, nil)
	assert.Equal(t, err, a.HealthCheck(context.Background()))
}

func TestCreateDevice(t *testing.T) {
	req := model.NewDeviceRequest{
		Name:           "gate-1",
		Board:          model.BoardESP32C3,
		SourceTemplate: testTemplate,
	}

	ds := store_mocks.NewDataStore(t)
	ds.On("GetDeviceByName", mock.Anything, "gate-1").
		Return(nil, nil)
	ds.On("InsertDevice", mock.Anything, mock.AnythingOfType("*model.Device")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.Device).ID = 5
		}).
		Return(nil)
	ds.On("SetDeviceChecksum", mock.Anything, int64(5), "cafe").
		Return(nil)

	prov := app_mocks.NewProvisioner(t)
	prov.On("EnsureBoardSupport", mock.Anything, model.BoardESP32C3).
		Return(nil)

	builder := app_mocks.NewBuilder(t)
	builder.On("Build", mock.Anything,
		mock.MatchedBy(func(source string) bool {
			return !strings.Contains(source, model.PlaceholderKey) &&
				!strings.Contains(source, model.PlaceholderVersion) &&
				strings.Contains(source, " 5\n")
		}),
		"gate-1", model.BoardESP32C3, 1).
		Return(&firmware.Result{
			Version:  1,
			Path:     "/firmware_versions/gate-1/1.bin",
			Checksum: "cafe",
		}, nil)

	artifacts := firmware.NewArtifactStore("firmware_versions")
	a := New(ds, artifacts, builder, prov)

	device, err := a.CreateDevice(context.Background(), req)
	require.NoError(t, err)

	assert.EqualValues(t, 5, device.ID)
	assert.Equal(t, model.DeviceStatusOffline, device.Status)
	assert.Equal(t, 1, device.LatestVersion)
	assert.Equal(t, 1, device.CurrVersion)
	assert.Equal(t, 1, device.TotalVersions)
	assert.Equal(t, "/firmware_versions/gate-1", device.FirmwareFolderPath)
	assert.Equal(t, "cafe", device.LatestChecksum)
	assert.Len(t, device.Key, 64)
	_, err = strconv.ParseUint(device.Key[:16], 16, 64)
	assert.NoError(t, err, "device key must be hex-encoded")
}

func TestCreateDeviceDuplicateName(t *testing.T) {
	ds := store_mocks.NewDataStore(t)
	ds.On("GetDeviceByName", mock.Anything, "gate-1").
		Return(&model.Device{ID: 1, Name: "gate-1"}, nil)

	a := New(ds, firmware.NewArtifactStore(t.TempDir()),
		app_mocks.NewBuilder(t), app_mocks.NewProvisioner(t))

	_, err := a.CreateDevice(context.Background(), model.NewDeviceRequest{
		Name:           "gate-1",
		Board:          model.BoardESP32C3,
		SourceTemplate: testTemplate,
	})
	assert.Equal(t, ErrDuplicateDeviceName, err)
}

func TestCreateDeviceBuildFailureRollsBack(t *testing.T) {
	buildErr := &firmware.BuildError{Reason: "compiler exited with an error"}

	ds := store_mocks.NewDataStore(t)
	ds.On("GetDeviceByName", mock.Anything, "gate-1").
		Return(nil, nil)
	ds.On("InsertDevice", mock.Anything, mock.AnythingOfType("*model.Device")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.Device).ID = 7
		}).
		Return(nil)
	ds.On("DeleteDevice", mock.Anything, int64(7)).
		Return(nil)

	prov := app_mocks.NewProvisioner(t)
	prov.On("EnsureBoardSupport", mock.Anything, model.BoardESP32C3).
		Return(nil)

	builder := app_mocks.NewBuilder(t)
	builder.On("Build", mock.Anything, mock.AnythingOfType("string"),
		"gate-1", model.BoardESP32C3, 1).
		Return(nil, buildErr)

	a := New(ds, firmware.NewArtifactStore(t.TempDir()), builder, prov)

	_, err := a.CreateDevice(context.Background(), model.NewDeviceRequest{
		Name:           "gate-1",
		Board:          model.BoardESP32C3,
		SourceTemplate: testTemplate,
	})
	assert.Equal(t, buildErr, errors.Cause(err))
	ds.AssertNotCalled(t, "SetDeviceChecksum",
		mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateFirmware(t *testing.T) {
	device := &model.Device{
		ID:            5,
		Name:          "gate-1",
		Board:         model.BoardESP32C3,
		Key:           "secret",
		LatestVersion: 3,
	}

	ds := store_mocks.NewDataStore(t)
	ds.On("GetDevice", mock.Anything, int64(5)).
		Return(device, nil)
	ds.On("SetDeviceVersion", mock.Anything, int64(5), 3, 4, "beef").
		Return(nil)

	builder := app_mocks.NewBuilder(t)
	builder.On("Build", mock.Anything,
		mock.MatchedBy(func(source string) bool {
			return strings.Contains(source, "VERSION 4")
		}),
		"gate-1", model.BoardESP32C3, 4).
		Return(&firmware.Result{
			Version:  4,
			Path:     "/firmware_versions/gate-1/4.bin",
			Checksum: "beef",
		}, nil)

	a := New(ds, firmware.NewArtifactStore(t.TempDir()), builder,
		app_mocks.NewProvisioner(t))

	info, err := a.UpdateFirmware(context.Background(), 5,
		model.UpdateFirmwareRequest{SourceTemplate: testTemplate})
	require.NoError(t, err)
	assert.Equal(t, 4, info.Version)
	assert.Equal(t, "/firmware_versions/gate-1/4.bin", info.FirmwarePath)
	assert.Equal(t, "beef", info.Checksum)
}

func TestUpdateFirmwareBuildFailure(t *testing.T) {
	ds := store_mocks.NewDataStore(t)
	ds.On("GetDevice", mock.Anything, int64(5)).
		Return(&model.Device{
			ID:            5,
			Name:          "gate-1",
			Board:         model.BoardESP32C3,
			LatestVersion: 3,
		}, nil)

	builder := app_mocks.NewBuilder(t)
	builder.On("Build", mock.Anything, mock.AnythingOfType("string"),
		"gate-1", model.BoardESP32C3, 4).
		Return(nil, &firmware.BuildError{Reason: "build timed out after 2m0s"})

	a := New(ds, firmware.NewArtifactStore(t.TempDir()), builder,
		app_mocks.NewProvisioner(t))

	_, err := a.UpdateFirmware(context.Background(), 5,
		model.UpdateFirmwareRequest{SourceTemplate: testTemplate})
	assert.Error(t, err)
	ds.AssertNotCalled(t, "SetDeviceVersion", mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateFirmwareConcurrent(t *testing.T) {
	const workers = 4

	// the store state a real mongo instance would hold: reads and the
	// guarded version bump go through one mutex, exactly like the
	// document-level atomicity of the underlying update
	var mu sync.Mutex
	latest := 1
	observed := []int{}

	ds := store_mocks.NewDataStore(t)
	ds.On("GetDevice", mock.Anything, int64(5)).
		Return(func(ctx context.Context, deviceID int64) *model.Device {
			mu.Lock()
			defer mu.Unlock()
			return &model.Device{
				ID:            5,
				Name:          "gate-1",
				Board:         model.BoardESP32C3,
				Key:           "secret",
				LatestVersion: latest,
			}
		}, nil)
	ds.On("SetDeviceVersion", mock.Anything, int64(5),
		mock.AnythingOfType("int"), mock.AnythingOfType("int"), "cafe").
		Return(func(ctx context.Context, deviceID int64,
			fromVersion, toVersion int, checksum string) error {
			mu.Lock()
			defer mu.Unlock()
			if fromVersion != latest {
				return store.ErrVersionConflict
			}
			observed = append(observed, fromVersion)
			latest = toVersion
			return nil
		})

	builder := app_mocks.NewBuilder(t)
	builder.On("Build", mock.Anything, mock.AnythingOfType("string"),
		"gate-1", model.BoardESP32C3, mock.AnythingOfType("int")).
		Return(func(ctx context.Context, source, deviceName, board string,
			version int) *firmware.Result {
			// widen the read-build-write window
			time.Sleep(time.Millisecond)
			return &firmware.Result{
				Version:  version,
				Path:     "/firmware_versions/gate-1/" + strconv.Itoa(version) + ".bin",
				Checksum: "cafe",
			}
		}, nil)

	a := New(ds, firmware.NewArtifactStore(t.TempDir()), builder,
		app_mocks.NewProvisioner(t))

	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			_, err := a.UpdateFirmware(context.Background(), 5,
				model.UpdateFirmwareRequest{SourceTemplate: testTemplate})
			errs <- err
		}()
	}
	for i := 0; i < workers; i++ {
		assert.NoError(t, <-errs)
	}

	// every call observed a distinct version and the counter advanced by
	// exactly the number of calls
	assert.Equal(t, []int{1, 2, 3, 4}, observed)
	assert.Equal(t, workers+1, latest)
}

func TestUpdateFirmwareDeviceNotFound(t *testing.T) {
	ds := store_mocks.NewDataStore(t)
	ds.On("GetDevice", mock.Anything, int64(404)).
		Return(nil, nil)

	a := New(ds, firmware.NewArtifactStore(t.TempDir()),
		app_mocks.NewBuilder(t), app_mocks.NewProvisioner(t))

	_, err := a.UpdateFirmware(context.Background(), 404,
		model.UpdateFirmwareRequest{SourceTemplate: testTemplate})
	assert.Equal(t, ErrDeviceNotFound, err)
}

func TestCheckVersion(t *testing.T) {
	device := &model.Device{
		ID:             5,
		Name:           "gate-1",
		Key:            "secret",
		LatestVersion:  3,
		LatestChecksum: "cafe",
	}

	testCases := []struct {
		Name string

		DeviceID int64
		Key      string
		Device   *model.Device

		Info *model.VersionInfo
		Err  error
	}{
		{
			Name:     "ok",
			DeviceID: 5,
			Key:      "secret",
			Device:   device,
			Info: &model.VersionInfo{
				Version:      3,
				FirmwarePath: "/firmware_versions/gate-1/3.bin",
				Checksum:     "cafe",
			},
		},
		{
			Name:     "ko, wrong key",
			DeviceID: 5,
			Key:      "guessed",
			Device:   device,
			Err:      ErrInvalidDeviceKey,
		},
		{
			Name:     "ko, unknown device",
			DeviceID: 404,
			Key:      "secret",
			Err:      ErrDeviceNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			ds := store_mocks.NewDataStore(t)
			ds.On("GetDevice", mock.Anything, tc.DeviceID).
				Return(tc.Device, nil)

			a := New(ds, firmware.NewArtifactStore("firmware_versions"),
				nil, nil)

			info, err := a.CheckVersion(context.Background(),
				tc.DeviceID, tc.Key)
			if tc.Err != nil {
				assert.Equal(t, tc.Err, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.Info, info)
			}
		})
	}
}

func TestReportStatus(t *testing.T) {
	ds := store_mocks.NewDataStore(t)
	ds.On("GetDevice", mock.Anything, int64(5)).
		Return(&model.Device{ID: 5, Key: "secret"}, nil)
	ds.On("SetDeviceStatus", mock.Anything, int64(5),
		model.DeviceStatusUpdated).
		Return(nil)

	a := New(ds, firmware.NewArtifactStore(t.TempDir()), nil, nil)

	err := a.ReportStatus(context.Background(), model.StatusReport{
		DeviceID: 5,
		Key:      "secret",
		Status:   model.DeviceStatusUpdated,
	})
	assert.NoError(t, err)
}

func TestReportStatusWrongKey(t *testing.T) {
	ds := store_mocks.NewDataStore(t)
	ds.On("GetDevice", mock.Anything, int64(5)).
		Return(&model.Device{ID: 5, Key: "secret"}, nil)

	a := New(ds, firmware.NewArtifactStore(t.TempDir()), nil, nil)

	err := a.ReportStatus(context.Background(), model.StatusReport{
		DeviceID: 5,
		Key:      "guessed",
		Status:   model.DeviceStatusRunning,
	})
	assert.Equal(t, ErrInvalidDeviceKey, err)
	ds.AssertNotCalled(t, "SetDeviceStatus",
		mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteDevice(t *testing.T) {
	artifacts := firmware.NewArtifactStore(t.TempDir())
	src := filepath.Join(t.TempDir(), "1.bin")
	require.NoError(t, os.WriteFile(src, []byte("image"), 0644))
	_, err := artifacts.Promote(src, "gate-1", 1)
	require.NoError(t, err)

	ds := store_mocks.NewDataStore(t)
	ds.On("GetDevice", mock.Anything, int64(5)).
		Return(&model.Device{ID: 5, Name: "gate-1"}, nil)
	ds.On("DeleteDevice", mock.Anything, int64(5)).
		Return(nil)

	a := New(ds, artifacts, nil, nil)

	err = a.DeleteDevice(context.Background(), 5)
	assert.NoError(t, err)
	assert.False(t, artifacts.HasArtifact("gate-1", 1))
}

func TestDeleteDeviceNotFound(t *testing.T) {
	ds := store_mocks.NewDataStore(t)
	ds.On("GetDevice", mock.Anything, int64(404)).
		Return(nil, nil)

	a := New(ds, firmware.NewArtifactStore(t.TempDir()), nil, nil)
	assert.Equal(t, ErrDeviceNotFound,
		a.DeleteDevice(context.Background(), 404))
}

func TestDeleteDeviceRace(t *testing.T) {
	ds := store_mocks.NewDataStore(t)
	ds.On("GetDevice", mock.Anything, int64(5)).
		Return(&model.Device{ID: 5, Name: "gate-1"}, nil)
	ds.On("DeleteDevice", mock.Anything, int64(5)).
		Return(store.ErrDeviceNotFound)

	a := New(ds, firmware.NewArtifactStore(t.TempDir()), nil, nil)
	assert.Equal(t, ErrDeviceNotFound,
		a.DeleteDevice(context.Background(), 5))
}

func TestDownloadArtifact(t *testing.T) {
	artifacts := firmware.NewArtifactStore(t.TempDir())
	src := filepath.Join(t.TempDir(), "3.bin")
	require.NoError(t, os.WriteFile(src, []byte("image"), 0644))
	_, err := artifacts.Promote(src, "gate-1", 3)
	require.NoError(t, err)

	ds := store_mocks.NewDataStore(t)
	ds.On("GetDevice", mock.Anything, int64(5)).
		Return(&model.Device{
			ID:            5,
			Name:          "gate-1",
			Key:           "secret",
			LatestVersion: 3,
		}, nil)

	a := New(ds, artifacts, nil, nil)

	// explicit version
	path, err := a.DownloadArtifact(context.Background(), 5, "secret", 3)
	assert.NoError(t, err)
	assert.Equal(t, artifacts.ArtifactPath("gate-1", 3), path)

	// version 0 resolves to the latest
	path, err = a.DownloadArtifact(context.Background(), 5, "secret", 0)
	assert.NoError(t, err)
	assert.Equal(t, artifacts.ArtifactPath("gate-1", 3), path)

	// never-built version
	_, err = a.DownloadArtifact(context.Background(), 5, "secret", 9)
	assert.Equal(t, ErrVersionNotFound, err)

	// wrong key
	_, err = a.DownloadArtifact(context.Background(), 5, "guessed", 3)
	assert.Equal(t, ErrInvalidDeviceKey, err)
}

func TestProvisionToolchain(t *testing.T) {
	ds := store_mocks.NewDataStore(t)
	ds.On("ListBoards", mock.Anything).
		Return([]string{model.BoardESP32C3, model.BoardESP32CAM}, nil)

	prov := app_mocks.NewProvisioner(t)
	prov.On("EnsureCompiler", mock.Anything).
		Return("/tools/arduino-cli", nil)
	prov.On("EnsureBoardSupport", mock.Anything, model.BoardESP32C3).
		Return(nil)
	prov.On("EnsureBoardSupport", mock.Anything, model.BoardESP32CAM).
		Return(nil)

	a := New(ds, firmware.NewArtifactStore(t.TempDir()), nil, prov)
	assert.NoError(t, a.ProvisionToolchain(context.Background()))
}

func TestProvisionToolchainBoardFailure(t *testing.T) {
	ds := store_mocks.NewDataStore(t)
	ds.On("ListBoards", mock.Anything).
		Return([]string{model.BoardESP32C3, model.BoardESP32CAM}, nil)

	// installs run one at a time; a failure stops the pass before the
	// next board is touched
	prov := app_mocks.NewProvisioner(t)
	prov.On("EnsureCompiler", mock.Anything).
		Return("/tools/arduino-cli", nil)
	prov.On("EnsureBoardSupport", mock.Anything, model.BoardESP32C3).
		Return(errors.New("index download failed"))

	a := New(ds, firmware.NewArtifactStore(t.TempDir()), nil, prov)
	err := a.ProvisionToolchain(context.Background())
	assert.EqualError(t, err, "index download failed")
	prov.AssertNotCalled(t, "EnsureBoardSupport",
		mock.Anything, model.BoardESP32CAM)
}

func TestProvisionToolchainCompilerError(t *testing.T) {
	err := errors.New("download failed")

	prov := app_mocks.NewProvisioner(t)
	prov.On("EnsureCompiler", mock.Anything).
		Return("", err)

	ds := store_mocks.NewDataStore(t)
	a := New(ds, firmware.NewArtifactStore(t.TempDir()), nil, prov)
	assert.Equal(t, err, a.ProvisionToolchain(context.Background()))
	ds.AssertNotCalled(t, "ListBoards", mock.Anything)
}
