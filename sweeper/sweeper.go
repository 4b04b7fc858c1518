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

package sweeper

import (
	"context"
	"time"

	"github.com/mendersoftware/go-lib-micro/log"

	"github.com/mendersoftware/devicecommands/metrics"
)

const DefaultInterval = time.Minute

// Passes is the subset of the application the sweeper drives.
type Passes interface {
	MarkOfflineDevices(ctx context.Context) (int, error)
	ExpirePendingCommands(ctx context.Context) (int, error)
}

// Sweeper periodically marks silent devices offline and expires stale
// pending commands.
type Sweeper struct {
	passes   Passes
	interval time.Duration
}

func New(passes Passes, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{
		passes:   passes,
		interval: interval,
	}
}

func (s *Sweeper) Interval() time.Duration {
	return s.interval
}

// RunOnce runs the device pass followed by the command pass. The command
// pass runs even when the device pass fails; the first error is returned.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	l := log.FromContext(ctx)

	start := time.Now()
	offline, errDevices := s.passes.MarkOfflineDevices(ctx)
	metrics.ObserveSweep(metrics.PassDevices, errDevices, time.Since(start))
	if errDevices != nil {
		l.Errorf("sweep: device pass failed: %s", errDevices)
	}

	start = time.Now()
	expired, errCommands := s.passes.ExpirePendingCommands(ctx)
	metrics.ObserveSweep(metrics.PassCommands, errCommands, time.Since(start))
	if errCommands != nil {
		l.Errorf("sweep: command pass failed: %s", errCommands)
	}

	if offline > 0 || expired > 0 {
		l.Infof("sweep: %d device(s) marked offline, %d command(s) expired",
			offline, expired)
	} else {
		l.Debug("sweep: nothing to do")
	}

	if errDevices != nil {
		return errDevices
	}
	return errCommands
}

// Run sweeps on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.RunOnce(ctx)
		}
	}
}
