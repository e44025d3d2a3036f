package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camuig/upbit-trader/internal/ai"
	"github.com/camuig/upbit-trader/internal/config"
	"github.com/camuig/upbit-trader/internal/logger"
	"github.com/camuig/upbit-trader/internal/trading"
	"github.com/camuig/upbit-trader/internal/upbit"
)

type fakeExchange struct {
	buyCalls  []float64
	sellCalls []float64
	orderErr  error

	snapshot    upbit.AccountSnapshot
	snapshotErr error
}

func (f *fakeExchange) BuyMarket(_ context.Context, _ string, krwAmount float64) (*upbit.OrderResult, error) {
	f.buyCalls = append(f.buyCalls, krwAmount)
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return &upbit.OrderResult{UUID: "order-1", Side: "bid"}, nil
}

func (f *fakeExchange) SellMarket(_ context.Context, _ string, volume float64) (*upbit.OrderResult, error) {
	f.sellCalls = append(f.sellCalls, volume)
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return &upbit.OrderResult{UUID: "order-2", Side: "ask"}, nil
}

func (f *fakeExchange) Snapshot(_ context.Context, _ string) (upbit.AccountSnapshot, error) {
	return f.snapshot, f.snapshotErr
}

func newTestExecutor(exchange *fakeExchange) *Executor {
	cfg := &config.Config{}
	cfg.Trading.Market = "KRW-BTC"
	cfg.Trading.MinOrderKRW = 5000
	cfg.Trading.FeeBuffer = 0.0005
	return NewExecutor(exchange, cfg, logger.New("error"))
}

func TestExecuteHoldNeverOrders(t *testing.T) {
	exchange := &fakeExchange{}
	exec := newTestExecutor(exchange)

	result, _ := exec.Execute(context.Background(),
		ai.Decision{Decision: "hold", Percentage: 0, Reason: "sideways"},
		upbit.AccountSnapshot{KRWBalance: 1000000})

	assert.False(t, result.Executed)
	assert.NoError(t, result.Err)
	assert.Empty(t, exchange.buyCalls)
	assert.Empty(t, exchange.sellCalls)
}

func TestExecuteBuySizesWithFeeBuffer(t *testing.T) {
	exchange := &fakeExchange{}
	exec := newTestExecutor(exchange)

	result, _ := exec.Execute(context.Background(),
		ai.Decision{Decision: "buy", Percentage: 50, Reason: "breakout"},
		upbit.AccountSnapshot{KRWBalance: 100000})

	assert.True(t, result.Executed)
	assert.Equal(t, "order-1", result.OrderID)
	require.Len(t, exchange.buyCalls, 1)
	// 100000 * 0.5 * (1 - 0.0005)
	assert.InDelta(t, 49975, exchange.buyCalls[0], 1e-6)
}

func TestExecuteBuyBelowMinNotionalSkips(t *testing.T) {
	exchange := &fakeExchange{}
	exec := newTestExecutor(exchange)

	// 40000 * 0.1 * 0.9995 = 3998 < 5000
	result, _ := exec.Execute(context.Background(),
		ai.Decision{Decision: "buy", Percentage: 10, Reason: "small dip"},
		upbit.AccountSnapshot{KRWBalance: 40000})

	assert.False(t, result.Executed)
	assert.NoError(t, result.Err)
	assert.NotEmpty(t, result.Skipped)
	assert.Empty(t, exchange.buyCalls)
}

func TestExecuteSellAboveMinNotional(t *testing.T) {
	exchange := &fakeExchange{}
	exec := newTestExecutor(exchange)

	// 0.01 * 50% * 100000000 = 500000 > 5000
	result, _ := exec.Execute(context.Background(),
		ai.Decision{Decision: "sell", Percentage: 50, Reason: "rsi overbought"},
		upbit.AccountSnapshot{BTCBalance: 0.01, BTCKRWPrice: 100000000})

	assert.True(t, result.Executed)
	require.Len(t, exchange.sellCalls, 1)
	assert.InDelta(t, 0.005, exchange.sellCalls[0], 1e-12)
}

func TestExecuteSellBelowMinNotionalSkips(t *testing.T) {
	exchange := &fakeExchange{}
	exec := newTestExecutor(exchange)

	// 0.00005 * 100% * 50000000 = 2500 < 5000
	result, _ := exec.Execute(context.Background(),
		ai.Decision{Decision: "sell", Percentage: 100, Reason: "exit"},
		upbit.AccountSnapshot{BTCBalance: 0.00005, BTCKRWPrice: 50000000})

	assert.False(t, result.Executed)
	assert.Empty(t, exchange.sellCalls)
}

func TestExecuteOrderFailureDoesNotPropagate(t *testing.T) {
	exchange := &fakeExchange{orderErr: errors.New("insufficient funds")}
	exec := newTestExecutor(exchange)

	result, _ := exec.Execute(context.Background(),
		ai.Decision{Decision: "buy", Percentage: 100, Reason: "all in"},
		upbit.AccountSnapshot{KRWBalance: 1000000})

	assert.False(t, result.Executed)
	require.Error(t, result.Err)
	assert.ErrorIs(t, result.Err, trading.ErrExecution)
}

func TestExecuteReturnsRefreshedSnapshot(t *testing.T) {
	exchange := &fakeExchange{
		snapshot: upbit.AccountSnapshot{KRWBalance: 1, BTCBalance: 0.02, BTCKRWPrice: 99000000},
	}
	exec := newTestExecutor(exchange)

	_, snap := exec.Execute(context.Background(),
		ai.Decision{Decision: "buy", Percentage: 100, Reason: "x"},
		upbit.AccountSnapshot{KRWBalance: 1000000})

	assert.InDelta(t, 0.02, snap.BTCBalance, 1e-12)
}

func TestExecuteKeepsPreTradeSnapshotWhenRefreshFails(t *testing.T) {
	exchange := &fakeExchange{snapshotErr: errors.New("api down")}
	exec := newTestExecutor(exchange)

	pre := upbit.AccountSnapshot{KRWBalance: 777000}
	_, snap := exec.Execute(context.Background(),
		ai.Decision{Decision: "hold", Percentage: 0, Reason: "x"}, pre)

	assert.Equal(t, pre, snap)
}
