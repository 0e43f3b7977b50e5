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

package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/mendersoftware/devicefirmware/app"
	"github.com/mendersoftware/devicefirmware/model"
)

// DeviceController contains the OTA end-points polled by the devices
// themselves, authenticated with the per-device key
type DeviceController struct {
	app app.App
}

// NewDeviceController returns a new DeviceController
func NewDeviceController(app app.App) *DeviceController {
	return &DeviceController{app: app}
}

// CheckVersion responds to GET /check-version?device_id=...&key=...
func (h DeviceController) CheckVersion(c *gin.Context) {
	deviceID, key, ok := deviceCredentials(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	info, err := h.app.CheckVersion(ctx, deviceID, key)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// ReportStatus responds to POST /status
func (h DeviceController) ReportStatus(c *gin.Context) {
	rawData, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "bad request",
		})
		return
	}

	report := model.StatusReport{}
	if err = json.Unmarshal(rawData, &report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": errors.Wrap(err, "invalid payload").Error(),
		})
		return
	}
	if err = report.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	if err = h.app.ReportStatus(ctx, report); err != nil {
		abortWithError(c, err)
		return
	}
	c.Writer.WriteHeader(http.StatusNoContent)
}

// DownloadFirmware responds to GET /firmware?device_id=...&key=...&version=...
// streaming the requested firmware binary. Without a version parameter the
// latest version is served.
func (h DeviceController) DownloadFirmware(c *gin.Context) {
	deviceID, key, ok := deviceCredentials(c)
	if !ok {
		return
	}
	version := 0
	if v := c.Query("version"); v != "" {
		var err error
		version, err = strconv.Atoi(v)
		if err != nil || version <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "version must be a positive integer",
			})
			return
		}
	}

	ctx := c.Request.Context()
	path, err := h.app.DownloadArtifact(ctx, deviceID, key, version)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Header("Content-Type", "application/octet-stream")
	c.File(path)
}

// deviceCredentials pulls device_id and key from the query string
func deviceCredentials(c *gin.Context) (int64, string, bool) {
	deviceID, err := strconv.ParseInt(c.Query("device_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "device_id must be a number",
		})
		return 0, "", false
	}
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "key is empty",
		})
		return 0, "", false
	}
	return deviceID, key, true
}
