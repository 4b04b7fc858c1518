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

package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "devicecommands_"

	ResultSuccess = "success"
	ResultError   = "error"

	// Reasons for rejecting a command
	RejectValidation = "validation"
	RejectDuplicate  = "duplicate"

	// Sweep passes
	PassDevices  = "devices"
	PassCommands = "commands"
)

var (
	registerOnce sync.Once

	commandsCreated    prometheus.Counter
	commandsRejected   *prometheus.CounterVec
	commandsDispatched prometheus.Counter
	commandsExpired    prometheus.Counter

	devicePolls    prometheus.Counter
	devicesOffline prometheus.Counter

	sweepLatency *prometheus.HistogramVec
)

// Init registers the metrics with the default registry. Recording helpers
// are no-ops until Init is called.
func Init() {
	registerOnce.Do(func() {
		commandsCreated = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "commands_created_total",
			Help: "Total commands admitted",
		})
		commandsRejected = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "commands_rejected_total",
				Help: "Total commands rejected by reason",
			},
			[]string{"reason"},
		)
		commandsDispatched = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "commands_dispatched_total",
			Help: "Total commands handed to a polling device",
		})
		commandsExpired = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "commands_expired_total",
			Help: "Total pending commands expired by the sweeper",
		})
		devicePolls = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "device_polls_total",
			Help: "Total device polls",
		})
		devicesOffline = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "devices_offline_total",
			Help: "Total devices marked offline by the sweeper",
		})
		sweepLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "sweep_latency_seconds",
				Help:    "Sweep pass duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"pass", "result"},
		)

		prometheus.MustRegister(
			commandsCreated,
			commandsRejected,
			commandsDispatched,
			commandsExpired,
			devicePolls,
			devicesOffline,
			sweepLatency,
		)
	})
}

// Handler serves the registered metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

// IncCommandCreated increments the admitted command counter.
func IncCommandCreated() {
	if commandsCreated != nil {
		commandsCreated.Inc()
	}
}

// IncCommandRejected increments the rejected command counter.
func IncCommandRejected(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	if commandsRejected != nil {
		commandsRejected.WithLabelValues(reason).Inc()
	}
}

// IncCommandDispatched increments the dispatched command counter.
func IncCommandDispatched() {
	if commandsDispatched != nil {
		commandsDispatched.Inc()
	}
}

// AddCommandsExpired adds n to the expired command counter.
func AddCommandsExpired(n int) {
	if commandsExpired != nil && n > 0 {
		commandsExpired.Add(float64(n))
	}
}

// IncDevicePoll increments the device poll counter.
func IncDevicePoll() {
	if devicePolls != nil {
		devicePolls.Inc()
	}
}

// AddDevicesOffline adds n to the offline device counter.
func AddDevicesOffline(n int) {
	if devicesOffline != nil && n > 0 {
		devicesOffline.Add(float64(n))
	}
}

// ObserveSweep records the duration and result of one sweep pass.
func ObserveSweep(pass string, err error, duration time.Duration) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	if sweepLatency != nil {
		sweepLatency.WithLabelValues(pass, result).Observe(duration.Seconds())
	}
}
