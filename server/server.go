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

package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/mendersoftware/go-lib-micro/config"
	"github.com/mendersoftware/go-lib-micro/log"
	"github.com/pkg/errors"

	api "github.com/mendersoftware/devicecommands/api/http"
	"github.com/mendersoftware/devicecommands/app"
	"github.com/mendersoftware/devicecommands/client/nats"
	dconfig "github.com/mendersoftware/devicecommands/config"
	"github.com/mendersoftware/devicecommands/metrics"
	"github.com/mendersoftware/devicecommands/store"
	"github.com/mendersoftware/devicecommands/sweeper"
)

// AppConfig reads the lifecycle thresholds from the configuration
func AppConfig(conf config.Reader) app.Config {
	return app.Config{
		DeviceOfflineThreshold: time.Duration(
			conf.GetInt(dconfig.SettingDeviceOfflineMinutes)) * time.Minute,
		CommandExpiryThreshold: time.Duration(
			conf.GetInt(dconfig.SettingCommandExpireMinutes)) * time.Minute,
	}
}

// SweepInterval reads the sweeper period from the configuration
func SweepInterval(conf config.Reader) time.Duration {
	return time.Duration(conf.GetInt(dconfig.SettingSweepIntervalSeconds)) * time.Second
}

// AllowedOrigins parses the comma or space separated CORS origins
func AllowedOrigins(conf config.Reader) []string {
	return strings.Fields(strings.ReplaceAll(
		conf.GetString(dconfig.SettingCORSAllowedOrigins), ",", " "))
}

// ConnectNATS returns a nats client when nats_uri is set, nil otherwise
func ConnectNATS(conf config.Reader) (nats.Client, error) {
	uri := conf.GetString(dconfig.SettingNatsURI)
	if uri == "" {
		return nil, nil
	}
	nc, err := nats.NewClientWithDefaults(uri)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to nats")
	}
	return nc, nil
}

// InitAndRun initializes the server and runs it
func InitAndRun(conf config.Reader, dataStore store.DataStore) error {
	ctx, cancelSweeper := context.WithCancel(context.Background())
	defer cancelSweeper()

	log.Setup(conf.GetBool(dconfig.SettingDebugLog))
	l := log.FromContext(ctx)

	metrics.Init()

	nc, err := ConnectNATS(conf)
	if err != nil {
		return err
	} else if nc != nil {
		defer nc.Close()
	} else {
		l.Info("nats_uri not set, lifecycle events are disabled")
	}

	commandsApp := app.New(dataStore, nc, AppConfig(conf))

	sweep := sweeper.New(commandsApp, SweepInterval(conf))
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		sweep.Run(ctx)
	}()
	l.Infof("sweeper running every %s", sweep.Interval())

	var listen = conf.GetString(dconfig.SettingListen)
	router, err := api.NewRouter(commandsApp, api.RouterConfig{
		AllowedOrigins: AllowedOrigins(conf),
	})
	if err != nil {
		l.Fatal(err)
	}
	srv := &http.Server{
		Addr:    listen,
		Handler: router,
	}

	go func() {
		l.Infof("listening on %s", listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, unix.SIGINT, unix.SIGTERM)
	<-quit

	l.Info("Shutdown Server ...")

	cancelSweeper()
	<-sweepDone

	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxWithTimeout); err != nil {
		l.Fatal("Server Shutdown: ", err)
	}

	return nil
}
