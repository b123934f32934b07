package cli

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gabapcia/waveportal/internal/portal"
	"github.com/gabapcia/waveportal/internal/txcoord"
	"github.com/gabapcia/waveportal/internal/wavefeed"
)

// ServiceMock is a mock implementation of portal.Service.
type ServiceMock struct {
	mock.Mock
}

var _ portal.Service = (*ServiceMock)(nil)

func (m *ServiceMock) Start(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *ServiceMock) Connect(ctx context.Context) (string, error) {
	ret := m.Called(ctx)
	return ret.String(0), ret.Error(1)
}

func (m *ServiceMock) Send(ctx context.Context, message string) (txcoord.Outcome, error) {
	ret := m.Called(ctx, message)
	return ret.Get(0).(txcoord.Outcome), ret.Error(1)
}

func (m *ServiceMock) Address() (string, bool) {
	ret := m.Called()
	return ret.String(0), ret.Bool(1)
}

func (m *ServiceMock) HasProvider() bool {
	return m.Called().Bool(0)
}

func (m *ServiceMock) Waves() []wavefeed.Record {
	return m.Called().Get(0).([]wavefeed.Record)
}

func (m *ServiceMock) TotalWaves(ctx context.Context) (uint64, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(uint64), ret.Error(1)
}

func (m *ServiceMock) Close() {
	m.Called()
}

func NewServiceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *ServiceMock {
	m := &ServiceMock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
