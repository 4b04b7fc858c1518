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

package app

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/mendersoftware/devicecommands/client/nats"
	"github.com/mendersoftware/devicecommands/model"
	"github.com/mendersoftware/devicecommands/store"
	"github.com/mendersoftware/devicecommands/utils"
)

// Default thresholds used when the configuration leaves them unset
const (
	DefaultDeviceOfflineThreshold = 5 * time.Minute
	DefaultCommandExpiryThreshold = 10 * time.Minute
)

// App errors
var (
	ErrDuplicateCommand = errors.New("an identical command is already pending for this device")
	ErrCommandNotFound  = errors.New("command not found")
	ErrDeviceNotFound   = errors.New("device not found")
)

// ValidationError is returned when a command request is malformed or its
// value is out of range.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsBadRequest reports whether err is a rejection the client can correct
func IsBadRequest(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr) || errors.Is(err, ErrDuplicateCommand)
}

// App interface describes app objects
//
//nolint:lll
//go:generate ../utils/mockgen.sh
type App interface {
	HealthCheck(ctx context.Context) error
	CreateCommand(ctx context.Context, req *model.NewCommand) (*model.Command, error)
	GetCommand(ctx context.Context, commandID string) (*model.Command, error)
	PollCommand(ctx context.Context, deviceID string) (*model.Command, error)
	GetDevice(ctx context.Context, deviceID string) (*model.Device, error)
	MarkOfflineDevices(ctx context.Context) (int, error)
	ExpirePendingCommands(ctx context.Context) (int, error)
}

// app is an app object
type app struct {
	store store.DataStore
	nats  nats.Client
	Config
}

type Config struct {
	// DeviceOfflineThreshold is the silence after which an online device
	// is marked offline.
	DeviceOfflineThreshold time.Duration
	// CommandExpiryThreshold is the age after which a pending command
	// expires.
	CommandExpiryThreshold time.Duration
	Clock                  utils.Clock
}

// New initializes a new device commands App. The nats client is optional;
// when nil no lifecycle events are published.
func New(ds store.DataStore, nc nats.Client, config ...Config) App {
	conf := Config{
		DeviceOfflineThreshold: DefaultDeviceOfflineThreshold,
		CommandExpiryThreshold: DefaultCommandExpiryThreshold,
		Clock:                  utils.RealClock{},
	}
	for _, cfgIn := range config {
		if cfgIn.DeviceOfflineThreshold > 0 {
			conf.DeviceOfflineThreshold = cfgIn.DeviceOfflineThreshold
		}
		if cfgIn.CommandExpiryThreshold > 0 {
			conf.CommandExpiryThreshold = cfgIn.CommandExpiryThreshold
		}
		if cfgIn.Clock != nil {
			conf.Clock = cfgIn.Clock
		}
	}
	return &app{
		store:  ds,
		nats:   nc,
		Config: conf,
	}
}

// HealthCheck performs a health check and returns an error if it fails
func (a *app) HealthCheck(ctx context.Context) error {
	return a.store.Ping(ctx)
}

// GetCommand returns a command
func (a *app) GetCommand(ctx context.Context, commandID string) (*model.Command, error) {
	cmd, err := a.store.GetCommand(ctx, commandID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get command")
	} else if cmd == nil {
		return nil, ErrCommandNotFound
	}
	return cmd, nil
}

// GetDevice returns a device
func (a *app) GetDevice(ctx context.Context, deviceID string) (*model.Device, error) {
	device, err := a.store.GetDevice(ctx, deviceID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get device")
	} else if device == nil {
		return nil, ErrDeviceNotFound
	}
	return device, nil
}

// now truncates to milliseconds, the resolution every store keeps
func (a *app) now() time.Time {
	return a.Clock.Now().UTC().Truncate(time.Millisecond)
}
