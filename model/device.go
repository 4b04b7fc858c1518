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

import "time"

// DeviceStatus is the liveness state of a device
type DeviceStatus string

// Values for the device status attribute
const (
	DeviceStatusOnline  DeviceStatus = "online"
	DeviceStatusOffline DeviceStatus = "offline"
)

// Device represents a polling endpoint and its liveness
type Device struct {
	ID          string                 `json:"id"`
	Status      DeviceStatus           `json:"status"`
	LastPingAt  time.Time              `json:"lastPingAt"`
	CurrentStat map[string]interface{} `json:"currentStat"`
}

// DeviceFilter selects devices from the store; zero fields match anything
type DeviceFilter struct {
	Status DeviceStatus
}

// Match reports whether dev satisfies the filter
func (f DeviceFilter) Match(dev Device) bool {
	return f.Status == "" || dev.Status == f.Status
}
