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

	"github.com/mendersoftware/go-lib-micro/log"
	"github.com/pkg/errors"

	"github.com/mendersoftware/devicecommands/metrics"
	"github.com/mendersoftware/devicecommands/model"
)

// MarkOfflineDevices flips to offline every online device that has not
// polled for at least the offline threshold. A failure on one device does
// not stop the pass.
func (a *app) MarkOfflineDevices(ctx context.Context) (int, error) {
	l := log.FromContext(ctx)
	now := a.now()
	cutoff := now.Add(-a.DeviceOfflineThreshold)

	devices, err := a.store.ListDevices(ctx, model.DeviceFilter{
		Status: model.DeviceStatusOnline,
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to list online devices")
	}

	var (
		marked, failed int
		firstErr       error
	)
	for _, dev := range devices {
		if dev.LastPingAt.After(cutoff) {
			continue
		}
		ok, err := a.store.SetDeviceOffline(ctx, dev.ID, cutoff)
		if err != nil {
			l.Errorf("failed to mark device %s offline: %s", dev.ID, err)
			failed++
			if firstErr == nil {
				firstErr = err
			}
			continue
		} else if !ok {
			continue
		}
		marked++
		l.Infof("device %s is offline, last ping at %s",
			dev.ID, dev.LastPingAt.Format(timeLayout))
		a.publish(ctx, model.Event{
			Type:      model.EventDeviceOffline,
			DeviceID:  dev.ID,
			Status:    string(model.DeviceStatusOffline),
			Timestamp: now,
		})
	}
	metrics.AddDevicesOffline(marked)

	if firstErr != nil {
		return marked, errors.Wrapf(firstErr,
			"failed to mark %d device(s) offline", failed)
	}
	return marked, nil
}

// ExpirePendingCommands moves to expired every pending command older than
// the expiry threshold. Dispatched (in-progress) commands never expire.
func (a *app) ExpirePendingCommands(ctx context.Context) (int, error) {
	l := log.FromContext(ctx)
	now := a.now()
	cutoff := now.Add(-a.CommandExpiryThreshold)

	commands, err := a.store.ListCommands(ctx, model.CommandFilter{
		Status: model.CommandStatusPending,
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to list pending commands")
	}

	var (
		expired, failed int
		firstErr        error
	)
	for i := range commands {
		cmd := &commands[i]
		if cmd.CreatedAt.After(cutoff) {
			continue
		}
		ok, err := a.store.UpdateCommandStatus(ctx, cmd.ID,
			model.CommandStatusPending, model.CommandStatusExpired)
		if err != nil {
			l.Errorf("failed to expire command %s: %s", cmd.ID, err)
			failed++
			if firstErr == nil {
				firstErr = err
			}
			continue
		} else if !ok {
			continue
		}
		cmd.Status = model.CommandStatusExpired
		expired++
		l.F(log.Ctx{
			"command_id": cmd.ID,
			"device_id":  cmd.DeviceID,
		}).Info("command expired")
		a.publish(ctx, model.NewCommandEvent(model.EventCommandExpired, cmd, now))
	}
	metrics.AddCommandsExpired(expired)

	if firstErr != nil {
		return expired, errors.Wrapf(firstErr,
			"failed to expire %d command(s)", failed)
	}
	return expired, nil
}
