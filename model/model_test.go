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

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	testCases := []struct {
		Name  string
		Type  CommandType
		Raw   string
		Value Value
		Error bool
	}{
		{Name: "power on", Type: CommandTypePower, Raw: `"on"`, Value: PowerOn},
		{Name: "power off", Type: CommandTypePower, Raw: `"off"`, Value: PowerOff},
		{Name: "power upper case", Type: CommandTypePower, Raw: `"ON"`, Error: true},
		{Name: "power boolean", Type: CommandTypePower, Raw: `true`, Error: true},
		{Name: "power empty string", Type: CommandTypePower, Raw: `""`, Error: true},
		{Name: "temperature lower bound", Type: CommandTypeTemperature, Raw: `16`,
			Value: TemperatureValue(16)},
		{Name: "temperature upper bound", Type: CommandTypeTemperature, Raw: `30`,
			Value: TemperatureValue(30)},
		{Name: "temperature integral float", Type: CommandTypeTemperature, Raw: `25.0`,
			Value: TemperatureValue(25)},
		{Name: "temperature too low", Type: CommandTypeTemperature, Raw: `15`, Error: true},
		{Name: "temperature too high", Type: CommandTypeTemperature, Raw: `31`, Error: true},
		{Name: "temperature fraction", Type: CommandTypeTemperature, Raw: `20.5`, Error: true},
		{Name: "temperature string", Type: CommandTypeTemperature, Raw: `"25"`, Error: true},
		{Name: "temperature zero", Type: CommandTypeTemperature, Raw: `0`, Error: true},
		{Name: "temperature zero float", Type: CommandTypeTemperature, Raw: `0.0`, Error: true},
		{Name: "temperature negative zero", Type: CommandTypeTemperature, Raw: `-0`, Error: true},
		{Name: "mode passthrough", Type: CommandTypeMode, Raw: `"cool"`,
			Value: RawValue{Kind: CommandTypeMode, Data: json.RawMessage(`"cool"`)}},
		{Name: "timer object is compacted", Type: CommandTypeTimer, Raw: `{ "minutes" : 30 }`,
			Value: RawValue{Kind: CommandTypeTimer, Data: json.RawMessage(`{"minutes":30}`)}},
		{Name: "fan speed number", Type: CommandTypeFanSpeed, Raw: `3`,
			Value: RawValue{Kind: CommandTypeFanSpeed, Data: json.RawMessage(`3`)}},
		{Name: "null value", Type: CommandTypeMode, Raw: `null`, Error: true},
		{Name: "mode empty string", Type: CommandTypeMode, Raw: `""`, Error: true},
		{Name: "fan speed empty string", Type: CommandTypeFanSpeed, Raw: ` "" `, Error: true},
		{Name: "timer empty string", Type: CommandTypeTimer, Raw: `""`, Error: true},
		{Name: "missing value", Type: CommandTypePower, Raw: ``, Error: true},
		{Name: "unknown type", Type: CommandType("swing"), Raw: `1`, Error: true},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			value, err := ParseValue(tc.Type, json.RawMessage(tc.Raw))
			if tc.Error {
				assert.Error(t, err)
				assert.Nil(t, value)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Value, value)
			assert.Equal(t, tc.Type, value.CommandType())
		})
	}
}

func TestValueKey(t *testing.T) {
	assert.Equal(t, `"on"`, PowerOn.Key())
	assert.Equal(t, `25`, TemperatureValue(25).Key())

	a, err := ParseValue(CommandTypeTimer, json.RawMessage(`{"minutes": 30}`))
	require.NoError(t, err)
	b, err := ParseValue(CommandTypeTimer, json.RawMessage(`{"minutes":30}`))
	require.NoError(t, err)
	assert.Equal(t, a.Key(), b.Key())

	// a string "25" and the number 25 are different payloads
	c, err := ParseValue(CommandTypeMode, json.RawMessage(`"25"`))
	require.NoError(t, err)
	assert.NotEqual(t, TemperatureValue(25).Key(), c.Key())
}

func TestNewCommandValidate(t *testing.T) {
	testCases := []struct {
		Name    string
		Command NewCommand
		Error   string
	}{{
		Name: "ok",
		Command: NewCommand{
			DeviceID: "d1",
			Type:     CommandTypePower,
			Value:    json.RawMessage(`"on"`),
		},
	}, {
		Name: "missing device id",
		Command: NewCommand{
			Type:  CommandTypePower,
			Value: json.RawMessage(`"on"`),
		},
		Error: "deviceId: cannot be blank.",
	}, {
		Name: "unknown type",
		Command: NewCommand{
			DeviceID: "d1",
			Type:     "swing",
			Value:    json.RawMessage(`"on"`),
		},
		Error: "type: must be one of power, temperature, mode, fanSpeed, timer.",
	}, {
		Name: "null value",
		Command: NewCommand{
			DeviceID: "d1",
			Type:     CommandTypeMode,
			Value:    json.RawMessage(`null`),
		},
		Error: "value: cannot be blank.",
	}, {
		Name: "empty string value",
		Command: NewCommand{
			DeviceID: "d1",
			Type:     CommandTypeTimer,
			Value:    json.RawMessage(`""`),
		},
		Error: "value: cannot be blank.",
	}}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			err := tc.Command.Validate()
			if tc.Error != "" {
				assert.EqualError(t, err, tc.Error)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCommandJSON(t *testing.T) {
	createdAt := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	cmd := Command{
		ID:        "c1",
		DeviceID:  "d1",
		Type:      CommandTypeTemperature,
		Value:     TemperatureValue(22),
		Status:    CommandStatusPending,
		CreatedAt: createdAt,
	}
	b, err := json.Marshal(cmd)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "c1",
		"deviceId": "d1",
		"type": "temperature",
		"value": 22,
		"status": "pending",
		"retryCount": 0,
		"createdAt": "2025-07-01T12:00:00Z"
	}`, string(b))

	var decoded Command
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, cmd, decoded)
}

func TestCommandSameAs(t *testing.T) {
	base := Command{DeviceID: "d1", Type: CommandTypePower, Value: PowerOn}
	assert.True(t, base.SameAs(Command{
		DeviceID: "d1", Type: CommandTypePower, Value: PowerOn,
		Status: CommandStatusInProgress,
	}))
	assert.False(t, base.SameAs(Command{DeviceID: "d2", Type: CommandTypePower, Value: PowerOn}))
	assert.False(t, base.SameAs(Command{DeviceID: "d1", Type: CommandTypePower, Value: PowerOff}))
	assert.False(t, base.SameAs(Command{
		DeviceID: "d1", Type: CommandTypeMode,
		Value: RawValue{Kind: CommandTypeMode, Data: json.RawMessage(`"on"`)},
	}))
}

func TestCommandStatusTerminal(t *testing.T) {
	assert.False(t, CommandStatusPending.Terminal())
	assert.False(t, CommandStatusInProgress.Terminal())
	assert.True(t, CommandStatusSuccess.Terminal())
	assert.True(t, CommandStatusFailure.Terminal())
	assert.True(t, CommandStatusExpired.Terminal())
}

func TestEventSubject(t *testing.T) {
	cmd := &Command{ID: "c1", DeviceID: "ac-01", Status: CommandStatusPending}
	ev := NewCommandEvent(EventCommandCreated, cmd, time.Unix(0, 0))
	assert.Equal(t, "devicecommands.device.ac-01", ev.Subject())
	assert.Equal(t, "pending", ev.Status)
	assert.Equal(t, "c1", ev.CommandID)
}
