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
	"time"

	"github.com/mendersoftware/go-lib-micro/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/mendersoftware/devicecommands/model"
)

const timeLayout = time.RFC3339

// publish sends a lifecycle event on a best-effort basis
func (a *app) publish(ctx context.Context, event model.Event) {
	if a.nats == nil {
		return
	}
	l := log.FromContext(ctx)
	data, err := msgpack.Marshal(event)
	if err != nil {
		l.Warnf("failed to encode %s event: %s", event.Type, err)
		return
	}
	if err := a.nats.Publish(event.Subject(), data); err != nil {
		l.Warnf("failed to publish %s event for device %s: %s",
			event.Type, event.DeviceID, err)
	}
}
