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

package store

import (
	"context"
	"errors"

	"github.com/mendersoftware/devicefirmware/model"
)

// DataStore interface for DataStore services
//
//nolint:lll - skip line length check for interface declaration.
//go:generate ../utils/mockgen.sh
type DataStore interface {
	Ping(ctx context.Context) error
	// InsertDevice allocates the device id from the sequence and inserts
	// the row; returns ErrDuplicateDeviceName when the name is taken.
	InsertDevice(ctx context.Context, device *model.Device) error
	// GetDevice returns the device, or nil when the id is unknown.
	GetDevice(ctx context.Context, deviceID int64) (*model.Device, error)
	GetDeviceByName(ctx context.Context, name string) (*model.Device, error)
	ListDevices(ctx context.Context, page, perPage int64) ([]model.Device, error)
	// ListBoards returns the distinct board types of all registered devices.
	ListBoards(ctx context.Context) ([]string, error)
	// SetDeviceVersion bumps latest_version from fromVersion to toVersion
	// and increments total_versions; returns ErrVersionConflict when the
	// stored latest_version no longer equals fromVersion.
	SetDeviceVersion(ctx context.Context, deviceID int64, fromVersion, toVersion int, checksum string) error
	// SetDeviceChecksum records the checksum of the most recently
	// promoted artifact without touching the version counters.
	SetDeviceChecksum(ctx context.Context, deviceID int64, checksum string) error
	// SetDeviceStatus persists a reported status; a transition into the
	// updated status also sets curr_version to latest_version.
	SetDeviceStatus(ctx context.Context, deviceID int64, status string) error
	DeleteDevice(ctx context.Context, deviceID int64) error
	Close() error
}

var (
	ErrDeviceNotFound      = errors.New("store: device not found")
	ErrDuplicateDeviceName = errors.New("store: device name already exists")
	ErrVersionConflict     = errors.New("store: device version out of date")
)
