package walletsession

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// ProviderMock is a mock implementation of Provider.
type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) Accounts(ctx context.Context) ([]string, error) {
	ret := m.Called(ctx)

	accounts, _ := ret.Get(0).([]string)
	return accounts, ret.Error(1)
}

func (m *ProviderMock) RequestAccounts(ctx context.Context) ([]string, error) {
	ret := m.Called(ctx)

	accounts, _ := ret.Get(0).([]string)
	return accounts, ret.Error(1)
}

// NewProviderMock creates a ProviderMock that asserts its expectations on cleanup.
func NewProviderMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *ProviderMock {
	m := &ProviderMock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
