package portal

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gabapcia/waveportal/internal/pkg/types"
	"github.com/gabapcia/waveportal/internal/txcoord"
	"github.com/gabapcia/waveportal/internal/wavecontract"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// WalletMock is a mock implementation of Wallet.
type WalletMock struct {
	mock.Mock
}

func (m *WalletMock) Address() (string, bool) {
	ret := m.Called()
	return ret.String(0), ret.Bool(1)
}

func (m *WalletMock) HasProvider() bool {
	return m.Called().Bool(0)
}

func (m *WalletMock) TryReconnect(ctx context.Context) string {
	return m.Called(ctx).String(0)
}

func (m *WalletMock) Connect(ctx context.Context) (string, error) {
	ret := m.Called(ctx)
	return ret.String(0), ret.Error(1)
}

func NewWalletMock(t testingT) *WalletMock {
	m := &WalletMock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// ContractMock is a mock implementation of Contract.
type ContractMock struct {
	mock.Mock
}

func (m *ContractMock) ReadHistory(ctx context.Context) (wavecontract.History, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(wavecontract.History), ret.Error(1)
}

func (m *ContractMock) ReadTotalCount(ctx context.Context) (uint64, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(uint64), ret.Error(1)
}

func NewContractMock(t testingT) *ContractMock {
	m := &ContractMock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// SubscriptionMock is a mock implementation of Subscription.
type SubscriptionMock struct {
	mock.Mock
}

func (m *SubscriptionMock) Start(ctx context.Context, fromHeight types.Hex) error {
	return m.Called(ctx, fromHeight).Error(0)
}

func (m *SubscriptionMock) Stop() {
	m.Called()
}

func (m *SubscriptionMock) Active() bool {
	return m.Called().Bool(0)
}

func NewSubscriptionMock(t testingT) *SubscriptionMock {
	m := &SubscriptionMock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// SenderMock is a mock implementation of Sender.
type SenderMock struct {
	mock.Mock
}

func (m *SenderMock) Send(ctx context.Context, message string) (txcoord.Outcome, error) {
	ret := m.Called(ctx, message)
	return ret.Get(0).(txcoord.Outcome), ret.Error(1)
}

func NewSenderMock(t testingT) *SenderMock {
	m := &SenderMock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
