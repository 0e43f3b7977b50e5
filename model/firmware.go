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
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Placeholder tokens every accepted source template must contain. They are
// substituted with the device key, numeric id and target version number
// before the source is handed to the build pipeline.
const (
	PlaceholderKey     = "[KEY]"
	PlaceholderID      = "[ID]"
	PlaceholderVersion = "[VERSION]"
)

var placeholders = []string{
	PlaceholderKey,
	PlaceholderID,
	PlaceholderVersion,
}

// VersionInfo is the answer to a firmware version query
type VersionInfo struct {
	Version      int    `json:"version"`
	FirmwarePath string `json:"firmware_path"`
	Checksum     string `json:"checksum,omitempty"`
}

func validateTemplate(value interface{}) error {
	tpl, _ := value.(string)
	for _, token := range placeholders {
		if !strings.Contains(tpl, token) {
			return errors.Errorf(
				"source template is missing the %s placeholder", token)
		}
	}
	return nil
}

// RenderTemplate substitutes the placeholder tokens with the device's key,
// id and the target version number
func RenderTemplate(tpl, key string, deviceID int64, version int) string {
	source := strings.ReplaceAll(tpl, PlaceholderKey, key)
	source = strings.ReplaceAll(source, PlaceholderID,
		strconv.FormatInt(deviceID, 10))
	return strings.ReplaceAll(source, PlaceholderVersion,
		strconv.Itoa(version))
}
