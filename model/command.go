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
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CommandType enumerates the kinds of control instructions
type CommandType string

const (
	CommandTypePower       CommandType = "power"
	CommandTypeTemperature CommandType = "temperature"
	CommandTypeMode        CommandType = "mode"
	CommandTypeFanSpeed    CommandType = "fanSpeed"
	CommandTypeTimer       CommandType = "timer"
)

// CommandTypes lists every recognized command type
var CommandTypes = []CommandType{
	CommandTypePower,
	CommandTypeTemperature,
	CommandTypeMode,
	CommandTypeFanSpeed,
	CommandTypeTimer,
}

// Valid reports whether t is one of the recognized command types
func (t CommandType) Valid() bool {
	for _, known := range CommandTypes {
		if t == known {
			return true
		}
	}
	return false
}

// CommandStatus is the lifecycle state of a command
type CommandStatus string

// Values for the command status attribute
const (
	CommandStatusPending    CommandStatus = "pending"
	CommandStatusInProgress CommandStatus = "in-progress"
	CommandStatusSuccess    CommandStatus = "success"
	CommandStatusFailure    CommandStatus = "failure"
	CommandStatusExpired    CommandStatus = "expired"
)

// Terminal reports whether no component transitions out of the status
func (s CommandStatus) Terminal() bool {
	switch s {
	case CommandStatusSuccess, CommandStatusFailure, CommandStatusExpired:
		return true
	}
	return false
}

// Command is one control instruction targeted at a device
type Command struct {
	ID         string        `json:"id"`
	DeviceID   string        `json:"deviceId"`
	Type       CommandType   `json:"type"`
	Value      Value         `json:"value"`
	Status     CommandStatus `json:"status"`
	RetryCount int           `json:"retryCount"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// SameAs reports whether both commands target the same device with the same
// type and payload.
func (c Command) SameAs(other Command) bool {
	if c.DeviceID != other.DeviceID || c.Type != other.Type {
		return false
	}
	if c.Value == nil || other.Value == nil {
		return c.Value == other.Value
	}
	return c.Value.Key() == other.Value.Key()
}

type commandJSON struct {
	ID         string          `json:"id"`
	DeviceID   string          `json:"deviceId"`
	Type       CommandType     `json:"type"`
	Value      json.RawMessage `json:"value"`
	Status     CommandStatus   `json:"status"`
	RetryCount int             `json:"retryCount"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// UnmarshalJSON decodes the value payload into the variant matching the
// command type.
func (c *Command) UnmarshalJSON(b []byte) error {
	var aux commandJSON
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	value, err := ParseValue(aux.Type, aux.Value)
	if err != nil {
		return err
	}
	*c = Command{
		ID:         aux.ID,
		DeviceID:   aux.DeviceID,
		Type:       aux.Type,
		Value:      value,
		Status:     aux.Status,
		RetryCount: aux.RetryCount,
		CreatedAt:  aux.CreatedAt,
	}
	return nil
}

// NewCommand is the request to admit a new command
type NewCommand struct {
	DeviceID string          `json:"deviceId"`
	Type     CommandType     `json:"type"`
	Value    json.RawMessage `json:"value"`
}

var errUnknownCommandType = validation.NewError(
	"validation_unknown_command_type",
	"must be one of power, temperature, mode, fanSpeed, timer",
)

// Validate checks the request shape; the value payload itself is checked by
// ParseValue.
func (c NewCommand) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DeviceID, validation.Required),
		validation.Field(&c.Type, validation.Required,
			validation.By(func(interface{}) error {
				if !c.Type.Valid() {
					return errUnknownCommandType
				}
				return nil
			})),
		validation.Field(&c.Value, validation.By(func(interface{}) error {
			if isBlankJSON(c.Value) {
				return validation.ErrRequired
			}
			return nil
		})),
	)
}

// CommandFilter selects commands from the store; zero fields match anything
type CommandFilter struct {
	DeviceID string
	Status   CommandStatus
}

// Match reports whether cmd satisfies the filter
func (f CommandFilter) Match(cmd Command) bool {
	if f.DeviceID != "" && cmd.DeviceID != f.DeviceID {
		return false
	}
	if f.Status != "" && cmd.Status != f.Status {
		return false
	}
	return true
}
