// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for command execution metrics.
const (
	StatusSuccess      = "success"
	StatusCanceled     = "canceled"
	StatusParseError   = "parse_error"
	StatusExecuteError = "execute_error"
	StatusRateLimited  = "rate_limited"
)

// CommandExecutions is the counter for command executions.
// Use RegisterMetrics to register this with a Prometheus registry.
var CommandExecutions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cmdbind_command_executions_total",
		Help: "Total number of command executions",
	},
	[]string{"command", "status"},
)

// CommandDuration is the histogram for command execution duration.
// Use RegisterMetrics to register this with a Prometheus registry.
var CommandDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "cmdbind_command_duration_seconds",
		Help:    "Command execution duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"command"},
)

// ParseFaults counts rejected input by fault code.
// Use RegisterMetrics to register this with a Prometheus registry.
var ParseFaults = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cmdbind_command_parse_faults_total",
		Help: "Total number of command inputs rejected by the binder, by fault code",
	},
	[]string{"code"},
)

// RegisterMetrics registers command package metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(CommandExecutions)
	reg.MustRegister(CommandDuration)
	reg.MustRegister(ParseFaults)
}

// RecordCommandExecution increments the execution counter.
func RecordCommandExecution(command, status string) {
	CommandExecutions.WithLabelValues(command, status).Inc()
}

// RecordCommandDuration records how long a command took, from lookup to return.
func RecordCommandDuration(command string, duration time.Duration) {
	CommandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordParseFault increments the parse fault counter for code.
func RecordParseFault(code string) {
	ParseFaults.WithLabelValues(code).Inc()
}
