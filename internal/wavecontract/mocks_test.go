package wavecontract

import (
	"context"
	"math/big"

	"github.com/stretchr/testify/mock"

	"github.com/gabapcia/waveportal/internal/pkg/types"
)

// ContractMock is a mock implementation of Contract.
type ContractMock struct {
	mock.Mock
}

func (m *ContractMock) BlockNumber(ctx context.Context) (types.Hex, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(types.Hex), ret.Error(1)
}

func (m *ContractMock) GetAllWaves(ctx context.Context, from string, height types.Hex) ([]Wave, error) {
	ret := m.Called(ctx, from, height)

	waves, _ := ret.Get(0).([]Wave)
	return waves, ret.Error(1)
}

func (m *ContractMock) GetTotalWaves(ctx context.Context, from string) (uint64, error) {
	ret := m.Called(ctx, from)
	return ret.Get(0).(uint64), ret.Error(1)
}

func (m *ContractMock) Balance(ctx context.Context) (*big.Int, error) {
	ret := m.Called(ctx)

	balance, _ := ret.Get(0).(*big.Int)
	return balance, ret.Error(1)
}

func (m *ContractMock) SendWave(ctx context.Context, from, message string, gasLimit uint64) (string, error) {
	ret := m.Called(ctx, from, message, gasLimit)
	return ret.String(0), ret.Error(1)
}

func (m *ContractMock) WaitMined(ctx context.Context, txHash string) (Receipt, error) {
	ret := m.Called(ctx, txHash)
	return ret.Get(0).(Receipt), ret.Error(1)
}

func (m *ContractMock) WatchNewWave(ctx context.Context, fromHeight types.Hex) (<-chan WaveEvent, error) {
	ret := m.Called(ctx, fromHeight)

	if rf, ok := ret.Get(0).(func(context.Context, types.Hex) <-chan WaveEvent); ok {
		return rf(ctx, fromHeight), ret.Error(1)
	}

	events, _ := ret.Get(0).(<-chan WaveEvent)
	return events, ret.Error(1)
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

// staticSigner is a fixed Signer.
type staticSigner string

func (s staticSigner) Address() (string, bool) {
	return string(s), s != ""
}
