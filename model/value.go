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
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
)

// Temperature bounds, inclusive
const (
	TemperatureMin = 16
	TemperatureMax = 30
)

// Value is the payload of a command. Each command type has its own variant.
type Value interface {
	CommandType() CommandType
	// Key returns the canonical JSON text of the payload; two payloads
	// are the same iff their keys are equal.
	Key() string
}

// PowerValue is the payload of a power command
type PowerValue string

const (
	PowerOn  PowerValue = "on"
	PowerOff PowerValue = "off"
)

func (PowerValue) CommandType() CommandType { return CommandTypePower }

func (v PowerValue) Key() string { return strconv.Quote(string(v)) }

// TemperatureValue is the target temperature in degrees Celsius
type TemperatureValue int

func (TemperatureValue) CommandType() CommandType { return CommandTypeTemperature }

func (v TemperatureValue) Key() string { return strconv.Itoa(int(v)) }

// RawValue carries the payload of the command types the server does not
// interpret (mode, fanSpeed, timer).
type RawValue struct {
	Kind CommandType
	Data json.RawMessage
}

func (v RawValue) CommandType() CommandType { return v.Kind }

func (v RawValue) Key() string { return string(v.Data) }

// MarshalJSON writes the payload as received
func (v RawValue) MarshalJSON() ([]byte, error) {
	if len(v.Data) == 0 {
		return []byte("null"), nil
	}
	return v.Data, nil
}

var (
	errValueRequired = errors.New("value: cannot be blank")
	errPowerValue    = errors.New("value: power must be either on or off")
	errTemperature   = errors.Errorf(
		"value: temperature must be an integer between %d and %d",
		TemperatureMin, TemperatureMax,
	)
)

// ParseValue decodes and validates the raw JSON payload of a command of the
// given type.
func ParseValue(t CommandType, raw json.RawMessage) (Value, error) {
	if isBlankJSON(raw) {
		return nil, errValueRequired
	}
	switch t {
	case CommandTypePower:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errPowerValue
		}
		err := validation.Validate(s,
			validation.Required,
			validation.In(string(PowerOn), string(PowerOff)),
		)
		if err != nil {
			return nil, errPowerValue
		}
		return PowerValue(s), nil

	case CommandTypeTemperature:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, errTemperature
		}
		// range checked directly: ozzo threshold rules skip zero values
		if f != math.Trunc(f) || f < TemperatureMin || f > TemperatureMax {
			return nil, errTemperature
		}
		return TemperatureValue(int(f)), nil

	case CommandTypeMode, CommandTypeFanSpeed, CommandTypeTimer:
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return nil, errors.Wrap(err, "value: malformed JSON")
		}
		return RawValue{Kind: t, Data: buf.Bytes()}, nil

	default:
		return nil, errors.Errorf("type: unknown command type %q", t)
	}
}

// isBlankJSON reports a missing value: no payload, null or the empty string
func isBlankJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 ||
		bytes.Equal(trimmed, []byte("null")) ||
		bytes.Equal(trimmed, []byte(`""`))
}
