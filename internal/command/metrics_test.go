// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterMetrics(reg)

	RecordCommandExecution("metrics:registered", StatusSuccess)

	count, err := testutil.GatherAndCount(reg, "cmdbind_command_executions_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 1)

	assert.Panics(t, func() { RegisterMetrics(reg) }, "double registration panics")
}

func TestRecordCommandExecution(t *testing.T) {
	before := testutil.ToFloat64(CommandExecutions.WithLabelValues("metrics:exec", StatusCanceled))
	RecordCommandExecution("metrics:exec", StatusCanceled)
	RecordCommandExecution("metrics:exec", StatusCanceled)
	assert.InDelta(t, before+2, testutil.ToFloat64(CommandExecutions.WithLabelValues("metrics:exec", StatusCanceled)), 0.001)
}

func TestRecordCommandDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cmdbind_command_duration_seconds",
		Help:    "Command execution duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"command"})
	reg.MustRegister(h)

	old := CommandDuration
	CommandDuration = h
	t.Cleanup(func() { CommandDuration = old })

	RecordCommandDuration("metrics:slow", 250*time.Millisecond)

	expected := `
# HELP cmdbind_command_duration_seconds Command execution duration in seconds
# TYPE cmdbind_command_duration_seconds histogram
cmdbind_command_duration_seconds_bucket{command="metrics:slow",le="0.005"} 0
cmdbind_command_duration_seconds_bucket{command="metrics:slow",le="0.01"} 0
cmdbind_command_duration_seconds_bucket{command="metrics:slow",le="0.025"} 0
cmdbind_command_duration_seconds_bucket{command="metrics:slow",le="0.05"} 0
cmdbind_command_duration_seconds_bucket{command="metrics:slow",le="0.1"} 0
cmdbind_command_duration_seconds_bucket{command="metrics:slow",le="0.25"} 1
cmdbind_command_duration_seconds_bucket{command="metrics:slow",le="0.5"} 1
cmdbind_command_duration_seconds_bucket{command="metrics:slow",le="1"} 1
cmdbind_command_duration_seconds_bucket{command="metrics:slow",le="2.5"} 1
cmdbind_command_duration_seconds_bucket{command="metrics:slow",le="5"} 1
cmdbind_command_duration_seconds_bucket{command="metrics:slow",le="10"} 1
cmdbind_command_duration_seconds_bucket{command="metrics:slow",le="+Inf"} 1
cmdbind_command_duration_seconds_sum{command="metrics:slow"} 0.25
cmdbind_command_duration_seconds_count{command="metrics:slow"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "cmdbind_command_duration_seconds"))
}

func TestMetricsRecorder(t *testing.T) {
	t.Run("maps outcomes to statuses", func(t *testing.T) {
		tests := []struct {
			outcome Outcome
			want    string
		}{
			{OutcomeDone, StatusSuccess},
			{OutcomeCanceled, StatusCanceled},
			{OutcomeParseFault, StatusParseError},
			{OutcomeHandlerFault, StatusExecuteError},
		}
		for _, tt := range tests {
			rec := newMetricsRecorder()
			rec.setOutcome(tt.outcome, ErrMissingArgument("x"))
			assert.Equal(t, tt.want, rec.status, tt.outcome.String())
		}
	})

	t.Run("counts parse faults by code", func(t *testing.T) {
		before := testutil.ToFloat64(ParseFaults.WithLabelValues(CodeTooManyArguments))
		rec := newMetricsRecorder()
		rec.setOutcome(OutcomeParseFault, ErrTooManyArguments("x"))
		assert.InDelta(t, before+1, testutil.ToFloat64(ParseFaults.WithLabelValues(CodeTooManyArguments)), 0.001)
	})

	t.Run("skips unresolved commands", func(t *testing.T) {
		series := testutil.CollectAndCount(CommandExecutions)
		rec := newMetricsRecorder()
		rec.setStatus(StatusSuccess)
		rec.record()
		assert.Equal(t, series, testutil.CollectAndCount(CommandExecutions))
	})
}
