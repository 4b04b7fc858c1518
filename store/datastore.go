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

package store

import (
	"context"
	"errors"
	"time"

	"github.com/mendersoftware/devicecommands/model"
)

// DataStore interface for DataStore services
//
// Status writes are conditional: UpdateCommandStatus only applies when the
// command is still in the expected status and SetDeviceOffline only when the
// device is online and has not pinged after the cutoff. Both report whether
// the write took place.
//
//nolint:lll - skip line length check for interface declaration.
//go:generate ../utils/mockgen.sh
type DataStore interface {
	Ping(ctx context.Context) error
	InsertCommand(ctx context.Context, cmd *model.Command) error
	GetCommand(ctx context.Context, commandID string) (*model.Command, error)
	FindCommand(ctx context.Context, filter model.CommandFilter) (*model.Command, error)
	ListCommands(ctx context.Context, filter model.CommandFilter) ([]model.Command, error)
	UpdateCommandStatus(ctx context.Context, commandID string, from, to model.CommandStatus) (bool, error)
	UpsertDevicePing(ctx context.Context, deviceID string, ts time.Time) error
	GetDevice(ctx context.Context, deviceID string) (*model.Device, error)
	ListDevices(ctx context.Context, filter model.DeviceFilter) ([]model.Device, error)
	SetDeviceOffline(ctx context.Context, deviceID string, cutoff time.Time) (bool, error)
	Close() error
}

var (
	// ErrDuplicatePendingCommand is returned by InsertCommand when a pending
	// command with the same device, type and value already exists.
	ErrDuplicatePendingCommand = errors.New("store: duplicate pending command")
)
