// Package mocks provides testify mocks for the jsonrpc package.
package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of jsonrpc.Client.
type Client struct {
	mock.Mock
}

// Fetch provides a mock function with given fields: ctx, method, params
func (m *Client) Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	args := []any{ctx, method}
	args = append(args, params...)
	ret := m.Called(args...)

	var r0 json.RawMessage
	if rf, ok := ret.Get(0).(func(context.Context, string, ...any) json.RawMessage); ok {
		r0 = rf(ctx, method, params...)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(json.RawMessage)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, ...any) error); ok {
		r1 = rf(ctx, method, params...)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewClient creates a new instance of Client. It also registers a cleanup
// function to assert the mocks expectations.
func NewClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *Client {
	m := &Client{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
