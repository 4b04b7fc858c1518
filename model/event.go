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
	"strings"
	"time"
)

// EventType names a lifecycle transition
type EventType string

// Values for the event type attribute
const (
	EventCommandCreated    EventType = "command.created"
	EventCommandDispatched EventType = "command.dispatched"
	EventCommandExpired    EventType = "command.expired"
	EventDeviceOffline     EventType = "device.offline"
)

// SubjectPrefix is the root of every NATS subject published by the service
const SubjectPrefix = "devicecommands"

// GetDeviceSubject returns the subject carrying the events of one device
func GetDeviceSubject(deviceID string) string {
	return strings.Join([]string{
		SubjectPrefix,
		"device",
		deviceID,
	}, ".")
}

// Event notifies listeners about a command or device transition
type Event struct {
	Type      EventType `msgpack:"type"`
	DeviceID  string    `msgpack:"device_id"`
	CommandID string    `msgpack:"command_id,omitempty"`
	Status    string    `msgpack:"status"`
	Timestamp time.Time `msgpack:"ts"`
}

// Subject returns the subject the event is published on
func (e Event) Subject() string {
	return GetDeviceSubject(e.DeviceID)
}

// NewCommandEvent returns the event describing cmd in its current status
func NewCommandEvent(typ EventType, cmd *Command, ts time.Time) Event {
	return Event{
		Type:      typ,
		DeviceID:  cmd.DeviceID,
		CommandID: cmd.ID,
		Status:    string(cmd.Status),
		Timestamp: ts,
	}
}
