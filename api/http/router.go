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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mendersoftware/go-lib-micro/accesslog"
	"github.com/mendersoftware/go-lib-micro/requestid"

	"github.com/mendersoftware/devicecommands/app"
	"github.com/mendersoftware/devicecommands/metrics"
)

// API URL used by the HTTP router
const (
	APIURLCommands   = "/commands"
	APIURLCommandsID = "/commands/:commandId"

	APIURLDevicesID         = "/devices/:deviceId"
	APIURLDevicesIDCommands = "/devices/:deviceId/commands"

	APIURLInternal       = "/api/internal/v1/devicecommands"
	APIURLInternalAlive  = APIURLInternal + "/alive"
	APIURLInternalHealth = APIURLInternal + "/health"

	APIURLMetrics = "/metrics"
)

// RouterConfig holds the optional router settings
type RouterConfig struct {
	// AllowedOrigins restricts the CORS origins; empty allows all.
	AllowedOrigins []string
}

// NewRouter returns the gin router
func NewRouter(
	app app.App,
	config ...RouterConfig,
) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	gin.DisableConsoleColor()

	var conf RouterConfig
	for _, c := range config {
		if len(c.AllowedOrigins) > 0 {
			conf.AllowedOrigins = c.AllowedOrigins
		}
	}

	router := gin.New()
	router.Use(accesslog.Middleware())
	router.Use(gin.Recovery())
	router.Use(requestid.Middleware())
	router.Use(cors.New(corsConfig(conf.AllowedOrigins)))

	status := NewStatusController(app)
	router.GET(APIURLInternalAlive, status.Alive)
	router.GET(APIURLInternalHealth, status.Health)

	commands := NewCommandsController(app)
	router.POST(APIURLCommands, commands.Create)
	router.GET(APIURLCommandsID, commands.Get)

	devices := NewDevicesController(app)
	router.GET(APIURLDevicesIDCommands, devices.Poll)
	router.GET(APIURLDevicesID, devices.Get)

	router.GET(APIURLMetrics, gin.WrapH(metrics.Handler()))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "not found",
		})
	})

	return router, nil
}
