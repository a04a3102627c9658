// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package command

import "time"

// metricsRecorder collects the labels of a single dispatch and records them
// once when the dispatch returns.
type metricsRecorder struct {
	startTime time.Time
	command   string
	status    string
}

func newMetricsRecorder() *metricsRecorder {
	return &metricsRecorder{startTime: time.Now()}
}

func (m *metricsRecorder) setCommand(name string) {
	m.command = name
}

func (m *metricsRecorder) setStatus(status string) {
	m.status = status
}

// setOutcome maps an invocation outcome to a status, counting parse faults
// by code.
func (m *metricsRecorder) setOutcome(outcome Outcome, err error) {
	switch outcome {
	case OutcomeDone:
		m.status = StatusSuccess
	case OutcomeCanceled:
		m.status = StatusCanceled
	case OutcomeParseFault:
		m.status = StatusParseError
		RecordParseFault(FaultCode(err))
	case OutcomeHandlerFault:
		m.status = StatusExecuteError
	}
}

// record writes the collected metrics. Lines that never resolved to a
// command are not recorded, to keep label cardinality bounded.
func (m *metricsRecorder) record() {
	if m.command == "" {
		return
	}
	RecordCommandExecution(m.command, m.status)
	RecordCommandDuration(m.command, time.Since(m.startTime))
}
