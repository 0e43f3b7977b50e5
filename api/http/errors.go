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

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/mendersoftware/devicefirmware/app"
)

// abortWithError renders an app error with its status code: unknown device
// or version is a 404, a key mismatch a 403, a duplicate name a 409 and
// everything else (including build failures) a 500 carrying enough of the
// underlying error to act on.
func abortWithError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch errors.Cause(err) {
	case app.ErrDeviceNotFound, app.ErrVersionNotFound:
		code = http.StatusNotFound
	case app.ErrInvalidDeviceKey:
		code = http.StatusForbidden
	case app.ErrDuplicateDeviceName:
		code = http.StatusConflict
	}
	c.JSON(code, gin.H{
		"error": err.Error(),
	})
}
