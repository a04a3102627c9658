// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/holomush/cmdbind/internal/command"
)

// mockSender is a mock for command.Sender.
type mockSender struct {
	mock.Mock
}

func (m *mockSender) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *mockSender) IsPlayer() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *mockSender) SendMessage(msg string) {
	m.Called(msg)
}

var _ command.Sender = (*mockSender)(nil)

func TestWhoamiHandler_UsesInjectedSender(t *testing.T) {
	reg := newCoreRegistry(t)

	sender := new(mockSender)
	sender.On("Name").Return("dana").Maybe()
	sender.On("IsPlayer").Return(true).Maybe()
	sender.On("SendMessage", "You are dana (player).").Return().Once()

	require.NoError(t, reg.Invoke(context.Background(), sender, "whoami", ""))
	sender.AssertExpectations(t)
}

func TestSumHandler_SendsOneMessage(t *testing.T) {
	reg := newCoreRegistry(t)

	sender := new(mockSender)
	sender.On("Name").Return(command.ConsoleName).Maybe()
	sender.On("IsPlayer").Return(false).Maybe()
	sender.On("SendMessage", "10").Return().Once()

	require.NoError(t, reg.Invoke(context.Background(), sender, "sum", "1 2 3 4"))
	sender.AssertExpectations(t)
	sender.AssertNumberOfCalls(t, "SendMessage", 1)
}
