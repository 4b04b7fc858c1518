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

// maxClaimAttempts bounds the retries when concurrent polls or the sweeper
// keep winning the pending command found by a poll.
const maxClaimAttempts = 16

// PollCommand records the device check-in and hands it the oldest pending
// command, moving it to in-progress. It returns nil when there is no work.
func (a *app) PollCommand(ctx context.Context, deviceID string) (*model.Command, error) {
	l := log.FromContext(ctx)
	if deviceID == "" {
		return nil, &ValidationError{Err: errors.New("device ID cannot be blank")}
	}

	now := a.now()
	if err := a.store.UpsertDevicePing(ctx, deviceID, now); err != nil {
		return nil, errors.Wrap(err, "failed to update device liveness")
	}
	metrics.IncDevicePoll()

	filter := model.CommandFilter{
		DeviceID: deviceID,
		Status:   model.CommandStatusPending,
	}
	for attempt := 0; attempt < maxClaimAttempts; attempt++ {
		cmd, err := a.store.FindCommand(ctx, filter)
		if err != nil {
			return nil, errors.Wrap(err, "failed to look up pending commands")
		} else if cmd == nil {
			return nil, nil
		}

		ok, err := a.store.UpdateCommandStatus(ctx, cmd.ID,
			model.CommandStatusPending, model.CommandStatusInProgress)
		if err != nil {
			return nil, errors.Wrap(err, "failed to dispatch command")
		} else if !ok {
			l.Debugf("command %s changed status concurrently", cmd.ID)
			continue
		}
		cmd.Status = model.CommandStatusInProgress

		l.F(log.Ctx{
			"command_id": cmd.ID,
			"device_id":  deviceID,
		}).Info("command dispatched")
		metrics.IncCommandDispatched()
		a.publish(ctx, model.NewCommandEvent(model.EventCommandDispatched, cmd, now))
		return cmd, nil
	}
	l.Warnf("device %s: gave up claiming a pending command after %d attempts",
		deviceID, maxClaimAttempts)
	return nil, nil
}
