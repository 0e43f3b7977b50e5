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

const (
	defaultPerPage = 20
	maxPerPage     = 500
)

// ManagementController contains the operator-facing end-points
type ManagementController struct {
	app app.App
}

// NewManagementController returns a new ManagementController
func NewManagementController(app app.App) *ManagementController {
	return &ManagementController{app: app}
}

// CreateDevice responds to POST /devices
func (h ManagementController) CreateDevice(c *gin.Context) {
	rawData, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "bad request",
		})
		return
	}

	req := model.NewDeviceRequest{}
	if err = json.Unmarshal(rawData, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": errors.Wrap(err, "invalid payload").Error(),
		})
		return
	}
	if err = req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	device, err := h.app.CreateDevice(ctx, req)
	if err != nil {
		abortWithError(c, errors.Wrap(err, "error registering the device"))
		return
	}
	c.JSON(http.StatusCreated, device)
}

// UpdateFirmware responds to PUT /devices/:deviceId/firmware
func (h ManagementController) UpdateFirmware(c *gin.Context) {
	deviceID, ok := devicePathID(c)
	if !ok {
		return
	}

	rawData, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "bad request",
		})
		return
	}

	req := model.UpdateFirmwareRequest{}
	if err = json.Unmarshal(rawData, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": errors.Wrap(err, "invalid payload").Error(),
		})
		return
	}
	if err = req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	info, err := h.app.UpdateFirmware(ctx, deviceID, req)
	if err != nil {
		abortWithError(c, errors.Wrap(err, "error updating the firmware"))
		return
	}
	c.JSON(http.StatusOK, info)
}

// GetDevice responds to GET /devices/:deviceId
func (h ManagementController) GetDevice(c *gin.Context) {
	deviceID, ok := devicePathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	device, err := h.app.GetDevice(ctx, deviceID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

// ListDevices responds to GET /devices
func (h ManagementController) ListDevices(c *gin.Context) {
	page, err := pageParam(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}
	perPage, err := pageParam(c, "per_page", defaultPerPage)
	if err != nil || perPage > maxPerPage {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid per_page parameter",
		})
		return
	}

	ctx := c.Request.Context()
	devices, err := h.app.ListDevices(ctx, page, perPage)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

// DeleteDevice responds to DELETE /devices/:deviceId
func (h ManagementController) DeleteDevice(c *gin.Context) {
	deviceID, ok := devicePathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.app.DeleteDevice(ctx, deviceID); err != nil {
		abortWithError(c, errors.Wrap(err, "error deleting the device"))
		return
	}
	c.Writer.WriteHeader(http.StatusNoContent)
}

func devicePathID(c *gin.Context) (int64, bool) {
	deviceID, err := strconv.ParseInt(c.Param("deviceId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "device id must be a number",
		})
		return 0, false
	}
	return deviceID, true
}

func pageParam(c *gin.Context, name string, defaultValue int64) (int64, error) {
	value := c.Query(name)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil || parsed < 1 {
		return 0, errors.Errorf("invalid %s parameter", name)
	}
	return parsed, nil
}
