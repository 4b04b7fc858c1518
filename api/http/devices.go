// Copyright 2025 Northern.tech AS
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

	"github.com/mendersoftware/go-lib-micro/log"

	"github.com/mendersoftware/devicecommands/app"
)

// DevicesController container for end-points
type DevicesController struct {
	app app.App
}

// NewDevicesController returns a new DevicesController
func NewDevicesController(app app.App) *DevicesController {
	return &DevicesController{app: app}
}

// Poll responds to GET /devices/:deviceId/commands. The body is the
// dispatched command, or null when the device has nothing to do.
func (h DevicesController) Poll(c *gin.Context) {
	ctx := c.Request.Context()
	deviceID := c.Param("deviceId")

	cmd, err := h.app.PollCommand(ctx, deviceID)
	if app.IsBadRequest(err) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	} else if err != nil {
		log.FromContext(ctx).Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal error",
		})
		return
	}

	if cmd == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, cmd)
}

// Get responds to GET /devices/:deviceId
func (h DevicesController) Get(c *gin.Context) {
	ctx := c.Request.Context()
	deviceID := c.Param("deviceId")

	device, err := h.app.GetDevice(ctx, deviceID)
	if err == app.ErrDeviceNotFound {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	} else if err != nil {
		log.FromContext(ctx).Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal error",
		})
		return
	}

	c.JSON(http.StatusOK, device)
}
