package txcoord

import (
	"context"
	"math/big"

	"github.com/stretchr/testify/mock"

	"github.com/gabapcia/waveportal/internal/wavecontract"
)

// ContractMock is a mock implementation of Contract.
type ContractMock struct {
	mock.Mock
}

func (m *ContractMock) ReadTotalCount(ctx context.Context) (uint64, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(uint64), ret.Error(1)
}

func (m *ContractMock) ReadBalance(ctx context.Context) (*big.Int, error) {
	ret := m.Called(ctx)

	balance, _ := ret.Get(0).(*big.Int)
	return balance, ret.Error(1)
}

func (m *ContractMock) SubmitWave(ctx context.Context, message string) (wavecontract.TxHandle, error) {
	ret := m.Called(ctx, message)
	return ret.Get(0).(wavecontract.TxHandle), ret.Error(1)
}

func (m *ContractMock) AwaitConfirmation(ctx context.Context, handle wavecontract.TxHandle) (wavecontract.Receipt, error) {
	ret := m.Called(ctx, handle)
	return ret.Get(0).(wavecontract.Receipt), ret.Error(1)
}

// NewContractMock creates a ContractMock that asserts its expectations on cleanup.
func NewContractMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *ContractMock {
	m := &ContractMock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

type staticSigner string

func (s staticSigner) Address() (string, bool) {
	return string(s), s != ""
}
