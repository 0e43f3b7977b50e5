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
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mendersoftware/go-lib-micro/accesslog"
	"github.com/mendersoftware/go-lib-micro/requestid"

	"github.com/mendersoftware/devicefirmware/app"
)

// API URL used by the HTTP router
const (
	APIURLDevices    = "/api/devices/v1/devicefirmware"
	APIURLInternal   = "/api/internal/v1/devicefirmware"
	APIURLManagement = "/api/management/v1/devicefirmware"

	APIURLDevicesCheckVersion = APIURLDevices + "/check-version"
	APIURLDevicesStatus       = APIURLDevices + "/status"
	APIURLDevicesFirmware     = APIURLDevices + "/firmware"

	APIURLInternalAlive  = APIURLInternal + "/alive"
	APIURLInternalHealth = APIURLInternal + "/health"

	APIURLManagementDevices        = APIURLManagement + "/devices"
	APIURLManagementDevice         = APIURLManagement + "/devices/:deviceId"
	APIURLManagementDeviceFirmware = APIURLManagement + "/devices/:deviceId/firmware"
)

// NewRouter returns the gin router
func NewRouter(app app.App) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	gin.DisableConsoleColor()

	router := gin.New()
	router.Use(accesslog.Middleware())
	router.Use(gin.Recovery())
	router.Use(requestid.Middleware())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowCredentials: true,
		AllowHeaders: []string{
			"Accept",
			"Allow",
			"Content-Type",
			"Origin",
			"Authorization",
			"Accept-Encoding",
			"Access-Control-Request-Headers",
			"Header-Access-Control-Request",
		},
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		ExposeHeaders: []string{
			"Location",
			"Link",
		},
		MaxAge: time.Hour * 12,
	}))

	status := NewStatusController(app)
	router.GET(APIURLInternalAlive, status.Alive)
	router.GET(APIURLInternalHealth, status.Health)

	device := NewDeviceController(app)
	router.GET(APIURLDevicesCheckVersion, device.CheckVersion)
	router.POST(APIURLDevicesStatus, device.ReportStatus)
	router.GET(APIURLDevicesFirmware, device.DownloadFirmware)

	management := NewManagementController(app)
	router.POST(APIURLManagementDevices, management.CreateDevice)
	router.GET(APIURLManagementDevices, management.ListDevices)
	router.GET(APIURLManagementDevice, management.GetDevice)
	router.PUT(APIURLManagementDeviceFirmware, management.UpdateFirmware)
	router.DELETE(APIURLManagementDevice, management.DeleteDevice)

	return router, nil
}
