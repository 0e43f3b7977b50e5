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
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mendersoftware/devicefirmware/app"
	app_mocks "github.com/mendersoftware/devicefirmware/app/mocks"
	"github.com/mendersoftware/devicefirmware/firmware"
	"github.com/mendersoftware/devicefirmware/model"
)

const testTemplate = "// [KEY] [ID]\\n#define VERSION [VERSION]"

func TestManagementCreateDevice(t *testing.T) {
	testCases := []struct {
		Name string

		Body string
		App  func(t *testing.T) *app_mocks.App

		HTTPStatus int
	}{
		{
			Name: "ok",
			Body: `{"name":"gate-1","board":"esp32:esp32:esp32c3",` +
				`"source_template":"` + testTemplate + `"}`,
			App: func(t *testing.T) *app_mocks.App {
				a := app_mocks.NewApp(t)
				a.On("CreateDevice", mock.Anything,
					mock.AnythingOfType("model.NewDeviceRequest")).
					Return(&model.Device{
						ID:     5,
						Name:   "gate-1",
						Board:  model.BoardESP32C3,
						Status: model.DeviceStatusOffline,
					}, nil)
				return a
			},
			HTTPStatus: http.StatusCreated,
		},
		{
			Name:       "ko, malformed payload",
			Body:       `{"name":`,
			HTTPStatus: http.StatusBadRequest,
		},
		{
			Name: "ko, unsupported board",
			Body: `{"name":"gate-1","board":"atmega:avr:uno",` +
				`"source_template":"` + testTemplate + `"}`,
			HTTPStatus: http.StatusBadRequest,
		},
		{
			Name: "ko, template without placeholders",
			Body: `{"name":"gate-1","board":"esp32:esp32:esp32c3",` +
				`"source_template":"void loop() {}"}`,
			HTTPStatus: http.StatusBadRequest,
		},
		{
			Name: "ko, duplicate name",
			Body: `{"name":"gate-1","board":"esp32:esp32:esp32c3",` +
				`"source_template":"` + testTemplate + `"}`,
			App: func(t *testing.T) *app_mocks.App {
				a := app_mocks.NewApp(t)
				a.On("CreateDevice", mock.Anything, mock.Anything).
					Return(nil, app.ErrDuplicateDeviceName)
				return a
			},
			HTTPStatus: http.StatusConflict,
		},
		{
			Name: "ko, build failure",
			Body: `{"name":"gate-1","board":"esp32:esp32:esp32c3",` +
				`"source_template":"` + testTemplate + `"}`,
			App: func(t *testing.T) *app_mocks.App {
				a := app_mocks.NewApp(t)
				a.On("CreateDevice", mock.Anything, mock.Anything).
					Return(nil, &firmware.BuildError{
						Reason: "compiler exited with an error",
						Stderr: "gate-1_v1.ino:1:1: error",
					})
				return a
			},
			HTTPStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			var a *app_mocks.App
			if tc.App != nil {
				a = tc.App(t)
			}
			router, _ := NewRouter(a)
			req, _ := http.NewRequest(http.MethodPost,
				APIURLManagementDevices, strings.NewReader(tc.Body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.HTTPStatus, w.Code)
		})
	}
}

func TestManagementUpdateFirmware(t *testing.T) {
	testCases := []struct {
		Name string

		URL  string
		Body string
		App  func(t *testing.T) *app_mocks.App

		HTTPStatus int
		RspBody    string
	}{
		{
			Name: "ok",
			URL:  APIURLManagement + "/devices/5/firmware",
			Body: `{"source_template":"` + testTemplate + `"}`,
			App: func(t *testing.T) *app_mocks.App {
				a := app_mocks.NewApp(t)
				a.On("UpdateFirmware", mock.Anything, int64(5),
					mock.AnythingOfType("model.UpdateFirmwareRequest")).
					Return(&model.VersionInfo{
						Version:      4,
						FirmwarePath: "/firmware_versions/gate-1/4.bin",
						Checksum:     "beef",
					}, nil)
				return a
			},
			HTTPStatus: http.StatusOK,
			RspBody: `{"version":4,` +
				`"firmware_path":"/firmware_versions/gate-1/4.bin",` +
				`"checksum":"beef"}`,
		},
		{
			Name:       "ko, device id not a number",
			URL:        APIURLManagement + "/devices/gate-1/firmware",
			Body:       `{"source_template":"` + testTemplate + `"}`,
			HTTPStatus: http.StatusBadRequest,
		},
		{
			Name:       "ko, template without placeholders",
			URL:        APIURLManagement + "/devices/5/firmware",
			Body:       `{"source_template":"void loop() {}"}`,
			HTTPStatus: http.StatusBadRequest,
		},
		{
			Name: "ko, unknown device",
			URL:  APIURLManagement + "/devices/404/firmware",
			Body: `{"source_template":"` + testTemplate + `"}`,
			App: func(t *testing.T) *app_mocks.App {
				a := app_mocks.NewApp(t)
				a.On("UpdateFirmware", mock.Anything, int64(404),
					mock.Anything).
					Return(nil, app.ErrDeviceNotFound)
				return a
			},
			HTTPStatus: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			var a *app_mocks.App
			if tc.App != nil {
				a = tc.App(t)
			}
			router, _ := NewRouter(a)
			req, _ := http.NewRequest(http.MethodPut, tc.URL,
				strings.NewReader(tc.Body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.HTTPStatus, w.Code)
			if tc.RspBody != "" {
				assert.JSONEq(t, tc.RspBody, w.Body.String())
			}
		})
	}
}

func TestManagementGetDevice(t *testing.T) {
	a := app_mocks.NewApp(t)
	a.On("GetDevice", mock.Anything, int64(5)).
		Return(&model.Device{
			ID:     5,
			Name:   "gate-1",
			Board:  model.BoardESP32C3,
			Status: model.DeviceStatusRunning,
		}, nil)

	router, _ := NewRouter(a)
	req, _ := http.NewRequest(http.MethodGet,
		APIURLManagement+"/devices/5", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var device model.Device
	err := json.Unmarshal(w.Body.Bytes(), &device)
	assert.NoError(t, err)
	assert.EqualValues(t, 5, device.ID)
	assert.Equal(t, "gate-1", device.Name)
}

func TestManagementGetDeviceNotFound(t *testing.T) {
	a := app_mocks.NewApp(t)
	a.On("GetDevice", mock.Anything, int64(404)).
		Return(nil, app.ErrDeviceNotFound)

	router, _ := NewRouter(a)
	req, _ := http.NewRequest(http.MethodGet,
		APIURLManagement+"/devices/404", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestManagementListDevices(t *testing.T) {
	testCases := []struct {
		Name string

		URL string
		App func(t *testing.T) *app_mocks.App

		HTTPStatus int
	}{
		{
			Name: "ok, defaults",
			URL:  APIURLManagementDevices,
			App: func(t *testing.T) *app_mocks.App {
				a := app_mocks.NewApp(t)
				a.On("ListDevices", mock.Anything, int64(1), int64(20)).
					Return([]model.Device{{ID: 5, Name: "gate-1"}}, nil)
				return a
			},
			HTTPStatus: http.StatusOK,
		},
		{
			Name: "ok, explicit page",
			URL:  APIURLManagementDevices + "?page=3&per_page=50",
			App: func(t *testing.T) *app_mocks.App {
				a := app_mocks.NewApp(t)
				a.On("ListDevices", mock.Anything, int64(3), int64(50)).
					Return([]model.Device{}, nil)
				return a
			},
			HTTPStatus: http.StatusOK,
		},
		{
			Name:       "ko, page not a number",
			URL:        APIURLManagementDevices + "?page=one",
			HTTPStatus: http.StatusBadRequest,
		},
		{
			Name:       "ko, per_page over the cap",
			URL:        APIURLManagementDevices + "?per_page=1000",
			HTTPStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			var a *app_mocks.App
			if tc.App != nil {
				a = tc.App(t)
			}
			router, _ := NewRouter(a)
			req, _ := http.NewRequest(http.MethodGet, tc.URL, nil)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.HTTPStatus, w.Code)
		})
	}
}

func TestManagementDeleteDevice(t *testing.T) {
	a := app_mocks.NewApp(t)
	a.On("DeleteDevice", mock.Anything, int64(5)).
		Return(nil)

	router, _ := NewRouter(a)
	req, _ := http.NewRequest(http.MethodDelete,
		APIURLManagement+"/devices/5", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestManagementDeleteDeviceNotFound(t *testing.T) {
	a := app_mocks.NewApp(t)
	a.On("DeleteDevice", mock.Anything, int64(404)).
		Return(app.ErrDeviceNotFound)

	router, _ := NewRouter(a)
	req, _ := http.NewRequest(http.MethodDelete,
		APIURLManagement+"/devices/404", nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
