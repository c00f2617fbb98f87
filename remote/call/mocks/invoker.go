package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/robbyt/go-logiclet/remote/call"
)

// Invoker is a mock implementation of call.Invoker for testing purposes.
type Invoker struct {
	mock.Mock
}

// Invoke is a mock implementation of the Invoke method.
func (m *Invoker) Invoke(ctx context.Context, req *call.Request) (*call.Result, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*call.Result)
	return res, args.Error(1)
}

// Release is a mock implementation of the Release method.
func (m *Invoker) Release() error {
	args := m.Called()
	return args.Error(0)
}

// Call is a call.Call backed by a mock Invoker.
type Call struct {
	*call.Base
	Invoker *Invoker
}

// NewCall creates a Call whose transport is a fresh mock Invoker.
func NewCall() *Call {
	inv := &Invoker{}
	return &Call{Base: call.NewBase("mock", inv), Invoker: inv}
}
