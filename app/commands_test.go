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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mendersoftware/devicecommands/model"
	"github.com/mendersoftware/devicecommands/store"
	store_mocks "github.com/mendersoftware/devicecommands/store/mocks"
)

func TestCreateCommandValidation(t *testing.T) {
	testCases := []struct {
		Name  string
		Type  model.CommandType
		Value string
		OK    bool
	}{
		{Name: "power on", Type: model.CommandTypePower, Value: `"on"`, OK: true},
		{Name: "power off", Type: model.CommandTypePower, Value: `"off"`, OK: true},
		{Name: "power standby", Type: model.CommandTypePower, Value: `"standby"`},
		{Name: "power numeric", Type: model.CommandTypePower, Value: `1`},
		{Name: "power empty string", Type: model.CommandTypePower, Value: `""`},
		{Name: "temperature 16", Type: model.CommandTypeTemperature, Value: `16`, OK: true},
		{Name: "temperature 23", Type: model.CommandTypeTemperature, Value: `23`, OK: true},
		{Name: "temperature 30", Type: model.CommandTypeTemperature, Value: `30`, OK: true},
		{Name: "temperature 15", Type: model.CommandTypeTemperature, Value: `15`},
		{Name: "temperature 31", Type: model.CommandTypeTemperature, Value: `31`},
		{Name: "temperature 20.5", Type: model.CommandTypeTemperature, Value: `20.5`},
		{Name: "temperature -20", Type: model.CommandTypeTemperature, Value: `-20`},
		{Name: "temperature 0", Type: model.CommandTypeTemperature, Value: `0`},
		{Name: "temperature 0.0", Type: model.CommandTypeTemperature, Value: `0.0`},
		{Name: "temperature -0", Type: model.CommandTypeTemperature, Value: `-0`},
		{Name: "mode passthrough", Type: model.CommandTypeMode, Value: `"cool"`, OK: true},
		{Name: "fan speed passthrough", Type: model.CommandTypeFanSpeed, Value: `"auto"`, OK: true},
		{Name: "timer passthrough", Type: model.CommandTypeTimer, Value: `{"minutes":90}`, OK: true},
		{Name: "unknown type", Type: "swing", Value: `"on"`},
		{Name: "missing value", Type: model.CommandTypeMode, Value: `null`},
		{Name: "mode empty string", Type: model.CommandTypeMode, Value: `""`},
		{Name: "fan speed empty string", Type: model.CommandTypeFanSpeed, Value: `""`},
		{Name: "timer empty string", Type: model.CommandTypeTimer, Value: `""`},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			ctx := context.Background()
			app, ds, clock := newTestApp(t)

			cmd, err := app.CreateCommand(ctx, newCommandRequest("d1", tc.Type, tc.Value))
			all, _ := ds.ListCommands(ctx, model.CommandFilter{})
			if !tc.OK {
				var verr *ValidationError
				assert.True(t, errors.As(err, &verr), "expected a validation error")
				assert.True(t, IsBadRequest(err))
				assert.Nil(t, cmd)
				assert.Empty(t, all)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, cmd.ID)
			assert.Equal(t, "d1", cmd.DeviceID)
			assert.Equal(t, tc.Type, cmd.Type)
			assert.Equal(t, model.CommandStatusPending, cmd.Status)
			assert.Equal(t, 0, cmd.RetryCount)
			assert.Equal(t, clock.Now(), cmd.CreatedAt)
			assert.Len(t, all, 1)
		})
	}
}

func TestCreateCommandEmptyDevice(t *testing.T) {
	app, _, _ := newTestApp(t)
	_, err := app.CreateCommand(context.Background(),
		newCommandRequest("", model.CommandTypePower, `"on"`))
	assert.True(t, IsBadRequest(err))
	assert.EqualError(t, err, "deviceId: cannot be blank.")

	_, err = app.CreateCommand(context.Background(), nil)
	assert.True(t, IsBadRequest(err))
}

func TestCreateCommandDuplicate(t *testing.T) {
	ctx := context.Background()
	app, _, clock := newTestApp(t)

	first, err := app.CreateCommand(ctx, newCommandRequest("d1", model.CommandTypePower, `"on"`))
	require.NoError(t, err)

	_, err = app.CreateCommand(ctx, newCommandRequest("d1", model.CommandTypePower, `"on"`))
	assert.Equal(t, ErrDuplicateCommand, err)
	assert.True(t, IsBadRequest(err))

	// different device, value or type are not duplicates
	_, err = app.CreateCommand(ctx, newCommandRequest("d2", model.CommandTypePower, `"on"`))
	assert.NoError(t, err)
	_, err = app.CreateCommand(ctx, newCommandRequest("d1", model.CommandTypePower, `"off"`))
	assert.NoError(t, err)
	_, err = app.CreateCommand(ctx, newCommandRequest("d1", model.CommandTypeMode, `"on"`))
	assert.NoError(t, err)

	// once dispatched, the same command may be queued again
	dispatched, err := app.PollCommand(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, dispatched.ID)
	_, err = app.CreateCommand(ctx, newCommandRequest("d1", model.CommandTypePower, `"on"`))
	assert.NoError(t, err)

	// once expired, the same command may be queued again
	clock.Advance(testConfig.CommandExpiryThreshold)
	n, err := app.ExpirePendingCommands(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	_, err = app.CreateCommand(ctx, newCommandRequest("d2", model.CommandTypePower, `"on"`))
	assert.NoError(t, err)
}

func TestCreateCommandDuplicateTemperature(t *testing.T) {
	ctx := context.Background()
	app, _, _ := newTestApp(t)

	_, err := app.CreateCommand(ctx, newCommandRequest("d1", model.CommandTypeTemperature, `24`))
	require.NoError(t, err)
	_, err = app.CreateCommand(ctx, newCommandRequest("d1", model.CommandTypeTemperature, `24.0`))
	assert.Equal(t, ErrDuplicateCommand, err)
}

func TestCreateCommandStore(t *testing.T) {
	pendingFilter := model.CommandFilter{
		DeviceID: "d1",
		Status:   model.CommandStatusPending,
	}
	testCases := []struct {
		Name string

		ListResult []model.Command
		ListError  error
		InsertErr  error
		NoInsert   bool

		Error      error
		BadRequest bool
	}{{
		Name: "ok",
	}, {
		Name: "duplicate in pending list",
		ListResult: []model.Command{{
			ID:       "existing",
			DeviceID: "d1",
			Type:     model.CommandTypePower,
			Value:    model.PowerOn,
			Status:   model.CommandStatusPending,
		}},
		NoInsert:   true,
		Error:      ErrDuplicateCommand,
		BadRequest: true,
	}, {
		Name:       "duplicate detected by the store",
		InsertErr:  store.ErrDuplicatePendingCommand,
		Error:      ErrDuplicateCommand,
		BadRequest: true,
	}, {
		Name:      "error listing",
		ListError: errors.New("io error"),
		NoInsert:  true,
		Error:     errors.New("failed to look up pending commands: io error"),
	}, {
		Name:      "error inserting",
		InsertErr: errors.New("io error"),
		Error:     errors.New("failed to store command: io error"),
	}}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			ds := &store_mocks.DataStore{}
			ds.On("ListCommands", mock.Anything, pendingFilter).
				Return(tc.ListResult, tc.ListError)
			if !tc.NoInsert {
				ds.On("InsertCommand", mock.Anything,
					mock.MatchedBy(func(cmd *model.Command) bool {
						return cmd.ID != "" &&
							cmd.Status == model.CommandStatusPending &&
							cmd.Value == model.PowerOn
					}),
				).Return(tc.InsertErr)
			}

			app := New(ds, nil)
			cmd, err := app.CreateCommand(context.Background(),
				newCommandRequest("d1", model.CommandTypePower, `"on"`))
			if tc.Error != nil {
				assert.EqualError(t, err, tc.Error.Error())
				assert.Equal(t, tc.BadRequest, IsBadRequest(err))
				assert.Nil(t, cmd)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, cmd)
			}
			ds.AssertExpectations(t)
		})
	}
}

func TestCreateCommandRejectionWritesNothing(t *testing.T) {
	ds := &store_mocks.DataStore{}
	app := New(ds, nil)

	_, err := app.CreateCommand(context.Background(),
		newCommandRequest("d1", model.CommandTypeTemperature, `31`))
	assert.True(t, IsBadRequest(err))

	// no expectation was set: any store call would have panicked
	ds.AssertExpectations(t)
}

func TestNowIsUTC(t *testing.T) {
	clock := newTestClock()
	clock.now = clock.now.In(time.FixedZone("KST", 9*60*60)).Add(1500 * time.Microsecond)
	app := New(nil, nil, Config{Clock: clock}).(*app)
	now := app.now()
	assert.Equal(t, time.UTC, now.Location())
	assert.Equal(t, 1*time.Millisecond, time.Duration(now.Nanosecond()))
}
