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

// Package memory implements an in-process DataStore. Records are kept in
// insertion order, so "first match" is the oldest record.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mendersoftware/devicecommands/model"
	"github.com/mendersoftware/devicecommands/store"
)

// DataStoreMemory is a DataStore backed by slices guarded by a mutex
type DataStoreMemory struct {
	mu       sync.RWMutex
	commands []model.Command
	devices  []model.Device
}

var _ store.DataStore = &DataStoreMemory{}

// NewDataStore returns an empty in-memory data store
func NewDataStore() *DataStoreMemory {
	return &DataStoreMemory{}
}

// Ping always succeeds
func (db *DataStoreMemory) Ping(ctx context.Context) error {
	return ctx.Err()
}

// InsertCommand appends a command
func (db *DataStoreMemory) InsertCommand(ctx context.Context, cmd *model.Command) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if cmd.Status == model.CommandStatusPending {
		for _, existing := range db.commands {
			if existing.Status == model.CommandStatusPending && existing.SameAs(*cmd) {
				return store.ErrDuplicatePendingCommand
			}
		}
	}
	db.commands = append(db.commands, *cmd)
	return nil
}

// GetCommand returns a command by id or nil if it does not exist
func (db *DataStoreMemory) GetCommand(ctx context.Context, commandID string) (*model.Command, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if i := db.commandIndex(commandID); i >= 0 {
		cmd := db.commands[i]
		return &cmd, nil
	}
	return nil, nil
}

// FindCommand returns the first command matching the filter
func (db *DataStoreMemory) FindCommand(
	ctx context.Context,
	filter model.CommandFilter,
) (*model.Command, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, cmd := range db.commands {
		if filter.Match(cmd) {
			found := cmd
			return &found, nil
		}
	}
	return nil, nil
}

// ListCommands returns every command matching the filter
func (db *DataStoreMemory) ListCommands(
	ctx context.Context,
	filter model.CommandFilter,
) ([]model.Command, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	res := []model.Command{}
	for _, cmd := range db.commands {
		if filter.Match(cmd) {
			res = append(res, cmd)
		}
	}
	return res, nil
}

// UpdateCommandStatus sets the status of a command currently in status from
func (db *DataStoreMemory) UpdateCommandStatus(
	ctx context.Context,
	commandID string,
	from, to model.CommandStatus,
) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	i := db.commandIndex(commandID)
	if i < 0 || db.commands[i].Status != from {
		return false, nil
	}
	db.commands[i].Status = to
	return true, nil
}

// UpsertDevicePing marks the device online as of ts, registering it if needed
func (db *DataStoreMemory) UpsertDevicePing(ctx context.Context, deviceID string, ts time.Time) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if i := db.deviceIndex(deviceID); i >= 0 {
		db.devices[i].Status = model.DeviceStatusOnline
		db.devices[i].LastPingAt = ts
		return nil
	}
	db.devices = append(db.devices, model.Device{
		ID:          deviceID,
		Status:      model.DeviceStatusOnline,
		LastPingAt:  ts,
		CurrentStat: map[string]interface{}{},
	})
	return nil
}

// GetDevice returns a device by id or nil if it does not exist
func (db *DataStoreMemory) GetDevice(ctx context.Context, deviceID string) (*model.Device, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if i := db.deviceIndex(deviceID); i >= 0 {
		dev := db.devices[i]
		return &dev, nil
	}
	return nil, nil
}

// ListDevices returns every device matching the filter
func (db *DataStoreMemory) ListDevices(
	ctx context.Context,
	filter model.DeviceFilter,
) ([]model.Device, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	res := []model.Device{}
	for _, dev := range db.devices {
		if filter.Match(dev) {
			res = append(res, dev)
		}
	}
	return res, nil
}

// SetDeviceOffline flips an online device whose last ping is not after cutoff
func (db *DataStoreMemory) SetDeviceOffline(
	ctx context.Context,
	deviceID string,
	cutoff time.Time,
) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	i := db.deviceIndex(deviceID)
	if i < 0 {
		return false, nil
	}
	dev := &db.devices[i]
	if dev.Status != model.DeviceStatusOnline || dev.LastPingAt.After(cutoff) {
		return false, nil
	}
	dev.Status = model.DeviceStatusOffline
	return true, nil
}

// Close is a no-op
func (db *DataStoreMemory) Close() error {
	return nil
}

func (db *DataStoreMemory) commandIndex(commandID string) int {
	for i := range db.commands {
		if db.commands[i].ID == commandID {
			return i
		}
	}
	return -1
}

func (db *DataStoreMemory) deviceIndex(deviceID string) int {
	for i := range db.devices {
		if db.devices[i].ID == deviceID {
			return i
		}
	}
	return -1
}
