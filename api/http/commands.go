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
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/mendersoftware/go-lib-micro/log"

	"github.com/mendersoftware/devicecommands/app"
	"github.com/mendersoftware/devicecommands/model"
)

// CommandsController container for end-points
type CommandsController struct {
	app app.App
}

// NewCommandsController returns a new CommandsController
func NewCommandsController(app app.App) *CommandsController {
	return &CommandsController{app: app}
}

// Create responds to POST /commands
func (h CommandsController) Create(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.FromContext(ctx)

	rawData, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "bad request",
		})
		return
	}

	// unknown properties are rejected
	req := &model.NewCommand{}
	dec := json.NewDecoder(bytes.NewReader(rawData))
	dec.DisallowUnknownFields()
	if err = dec.Decode(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": errors.Wrap(err, "invalid payload").Error(),
		})
		return
	}

	cmd, err := h.app.CreateCommand(ctx, req)
	if app.IsBadRequest(err) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	} else if err != nil {
		l.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal error",
		})
		return
	}

	c.Header("Location", "/commands/"+cmd.ID)
	c.JSON(http.StatusCreated, cmd)
}

// Get responds to GET /commands/:commandId
func (h CommandsController) Get(c *gin.Context) {
	ctx := c.Request.Context()
	commandID := c.Param("commandId")

	cmd, err := h.app.GetCommand(ctx, commandID)
	if err == app.ErrCommandNotFound {
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

	c.JSON(http.StatusOK, cmd)
}
