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

	"github.com/google/uuid"
	"github.com/mendersoftware/go-lib-micro/log"
	"github.com/pkg/errors"

	"github.com/mendersoftware/devicecommands/metrics"
	"github.com/mendersoftware/devicecommands/model"
	"github.com/mendersoftware/devicecommands/store"
)

// CreateCommand validates and admits a new pending command
func (a *app) CreateCommand(
	ctx context.Context,
	req *model.NewCommand,
) (*model.Command, error) {
	l := log.FromContext(ctx)
	if req == nil {
		return nil, &ValidationError{Err: errors.New("empty command request")}
	}
	if err := req.Validate(); err != nil {
		metrics.IncCommandRejected(metrics.RejectValidation)
		return nil, &ValidationError{Err: err}
	}
	value, err := model.ParseValue(req.Type, req.Value)
	if err != nil {
		metrics.IncCommandRejected(metrics.RejectValidation)
		return nil, &ValidationError{Err: err}
	}
	cmd := &model.Command{
		DeviceID: req.DeviceID,
		Type:     req.Type,
		Value:    value,
		Status:   model.CommandStatusPending,
	}

	pending, err := a.store.ListCommands(ctx, model.CommandFilter{
		DeviceID: cmd.DeviceID,
		Status:   model.CommandStatusPending,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to look up pending commands")
	}
	for _, existing := range pending {
		if existing.SameAs(*cmd) {
			metrics.IncCommandRejected(metrics.RejectDuplicate)
			return nil, ErrDuplicateCommand
		}
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate command ID")
	}
	cmd.ID = id.String()
	cmd.CreatedAt = a.now()

	err = a.store.InsertCommand(ctx, cmd)
	if err == store.ErrDuplicatePendingCommand {
		metrics.IncCommandRejected(metrics.RejectDuplicate)
		return nil, ErrDuplicateCommand
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to store command")
	}

	l.F(log.Ctx{
		"command_id": cmd.ID,
		"device_id":  cmd.DeviceID,
	}).Infof("command %s %s admitted", cmd.Type, cmd.Value.Key())
	metrics.IncCommandCreated()
	a.publish(ctx, model.NewCommandEvent(model.EventCommandCreated, cmd, cmd.CreatedAt))

	return cmd, nil
}
