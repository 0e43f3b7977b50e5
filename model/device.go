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

package model

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Values for the device status attribute. Status transitions are driven
// entirely by the statuses devices report over the OTA endpoint; OFFLINE is
// assigned at creation and never reported back into.
const (
	DeviceStatusOffline  = "OFFLINE"
	DeviceStatusRunning  = "RUNNING"
	DeviceStatusUpdating = "UPDATING"
	DeviceStatusUpdated  = "UPDATED"
)

// Supported hardware targets (arduino-cli fully-qualified board names)
const (
	BoardESP32C3  = "esp32:esp32:esp32c3"
	BoardESP32CAM = "esp32:esp32:esp32cam"
)

var deviceNameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,100}$`)

// Device represents a registered device and its firmware version counters
type Device struct {
	ID                 int64     `json:"id" bson:"_id"`
	Name               string    `json:"name" bson:"name"`
	Board              string    `json:"board" bson:"board"`
	Key                string    `json:"key" bson:"key"`
	Status             string    `json:"status" bson:"status"`
	LatestVersion      int       `json:"latest_version" bson:"latest_version"`
	CurrVersion        int       `json:"curr_version" bson:"curr_version"`
	TotalVersions      int       `json:"total_versions" bson:"total_versions"`
	FirmwareFolderPath string    `json:"firmware_folder_path" bson:"firmware_folder_path"`
	LatestChecksum     string    `json:"latest_checksum,omitempty" bson:"latest_checksum,omitempty"`
	CreatedTs          time.Time `json:"created_ts" bson:"created_ts,omitempty"`
	UpdatedTs          time.Time `json:"updated_ts" bson:"updated_ts,omitempty"`
}

// NewDeviceRequest is the payload for registering a device
type NewDeviceRequest struct {
	Name           string `json:"name"`
	Board          string `json:"board"`
	SourceTemplate string `json:"source_template"`
}

func (req NewDeviceRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required,
			validation.Match(deviceNameRegex)),
		validation.Field(&req.Board, validation.Required,
			validation.In(BoardESP32C3, BoardESP32CAM)),
		validation.Field(&req.SourceTemplate, validation.Required,
			validation.By(validateTemplate)),
	)
}

// UpdateFirmwareRequest is the payload for building a new firmware version
type UpdateFirmwareRequest struct {
	SourceTemplate string `json:"source_template"`
}

func (req UpdateFirmwareRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.SourceTemplate, validation.Required,
			validation.By(validateTemplate)),
	)
}

// StatusReport is the payload devices POST to report a status transition
type StatusReport struct {
	DeviceID int64  `json:"device_id"`
	Status   string `json:"status"`
	Key      string `json:"key"`
}

func (req StatusReport) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.DeviceID, validation.Required),
		validation.Field(&req.Status, validation.Required,
			validation.In(
				DeviceStatusOffline,
				DeviceStatusRunning,
				DeviceStatusUpdating,
				DeviceStatusUpdated,
			)),
		validation.Field(&req.Key, validation.Required),
	)
}
