package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camuig/upbit-trader/internal/ai"
	"github.com/camuig/upbit-trader/internal/config"
	"github.com/camuig/upbit-trader/internal/executor"
	"github.com/camuig/upbit-trader/internal/ledger"
	"github.com/camuig/upbit-trader/internal/logger"
	"github.com/camuig/upbit-trader/internal/sentiment"
	"github.com/camuig/upbit-trader/internal/trading"
	"github.com/camuig/upbit-trader/internal/upbit"
)

type fakeMarket struct {
	candleErr    error
	orderBookErr error
}

func (f *fakeMarket) Candles(_ context.Context, market, _ string, count int) ([]upbit.Candle, error) {
	if f.candleErr != nil {
		return nil, f.candleErr
	}
	candles := make([]upbit.Candle, count)
	for i := range candles {
		candles[i] = upbit.Candle{
			Market:    market,
			Timestamp: time.Now().Add(time.Duration(i-count) * time.Hour),
			Close:     100000000,
		}
	}
	return candles, nil
}

func (f *fakeMarket) OrderBook(_ context.Context, _ string) (json.RawMessage, error) {
	if f.orderBookErr != nil {
		return nil, f.orderBookErr
	}
	return json.RawMessage(`[{"market":"KRW-BTC"}]`), nil
}

type fakeAccount struct {
	snap upbit.AccountSnapshot
	err  error
}

func (f *fakeAccount) Snapshot(context.Context, string) (upbit.AccountSnapshot, error) {
	return f.snap, f.err
}

type fakeSentiment struct {
	fngErr  error
	newsErr error
}

func (f *fakeSentiment) FearGreed(context.Context) (json.RawMessage, error) {
	if f.fngErr != nil {
		return nil, f.fngErr
	}
	return json.RawMessage(`{"value":"60"}`), nil
}

func (f *fakeSentiment) News(context.Context) ([]sentiment.Headline, error) {
	if f.newsErr != nil {
		return nil, f.newsErr
	}
	return []sentiment.Headline{{Title: "BTC climbs", Date: "1 hour ago"}}, nil
}

type fakeReflector struct {
	text string
	err  error

	gotRecords []ledger.TradeRecord
}

func (f *fakeReflector) Reflect(_ context.Context, records []ledger.TradeRecord, _ *ai.MarketSnapshot) (string, error) {
	f.gotRecords = records
	return f.text, f.err
}

type fakeEngine struct {
	decision ai.Decision
	err      error

	gotReflection string
}

func (f *fakeEngine) Decide(_ context.Context, _ upbit.AccountSnapshot, _ *ai.MarketSnapshot, reflection string) (ai.Decision, error) {
	f.gotReflection = reflection
	return f.decision, f.err
}

type fakeExecutor struct {
	result executor.Result
	snap   upbit.AccountSnapshot

	calls int
}

func (f *fakeExecutor) Execute(_ context.Context, _ ai.Decision, pre upbit.AccountSnapshot) (executor.Result, upbit.AccountSnapshot) {
	f.calls++
	if f.snap == (upbit.AccountSnapshot{}) {
		return f.result, pre
	}
	return f.result, f.snap
}

type fakeStore struct {
	recent   []ledger.TradeRecord
	appended []*ledger.TradeRecord
}

func (f *fakeStore) Append(rec *ledger.TradeRecord) error {
	f.appended = append(f.appended, rec)
	return nil
}

func (f *fakeStore) Recent(int) ([]ledger.TradeRecord, error) {
	return f.recent, nil
}

type fakeNotifier struct {
	decisions []ai.Decision
	errors    []error
}

func (f *fakeNotifier) NotifyDecision(d ai.Decision, _ executor.Result) { f.decisions = append(f.decisions, d) }
func (f *fakeNotifier) NotifyError(_ string, err error)                { f.errors = append(f.errors, err) }
func (f *fakeNotifier) NotifyStatus(string)                            {}

type fixture struct {
	market    *fakeMarket
	account   *fakeAccount
	sentiment *fakeSentiment
	reflector *fakeReflector
	engine    *fakeEngine
	executor  *fakeExecutor
	store     *fakeStore
	notifier  *fakeNotifier
	scheduler *Scheduler
}

func newFixture() *fixture {
	cfg := &config.Config{}
	cfg.Trading.Market = "KRW-BTC"
	cfg.Trading.Interval = "1h"
	cfg.Trading.ReflectionWindowDays = 7
	cfg.Trading.DailyCandles = 30
	cfg.Trading.HourlyCandles = 24

	f := &fixture{
		market:    &fakeMarket{},
		account:   &fakeAccount{snap: upbit.AccountSnapshot{KRWBalance: 1000000, BTCKRWPrice: 100000000}},
		sentiment: &fakeSentiment{},
		reflector: &fakeReflector{text: "keep positions small"},
		engine:    &fakeEngine{decision: ai.Decision{Decision: "hold", Percentage: 0, Reason: "no edge"}},
		executor:  &fakeExecutor{},
		store:     &fakeStore{},
		notifier:  &fakeNotifier{},
	}
	f.scheduler = New(
		f.market, f.account, f.sentiment, nil,
		f.reflector, f.engine, f.executor, f.store, f.notifier,
		cfg, logger.New("error"),
	)
	return f
}

func TestRunCyclePersistsRecord(t *testing.T) {
	f := newFixture()
	f.engine.decision = ai.Decision{Decision: "buy", Percentage: 30, Reason: "momentum"}
	f.executor.result = executor.Result{Executed: true, OrderID: "order-1"}
	f.executor.snap = upbit.AccountSnapshot{KRWBalance: 700000, BTCBalance: 0.003, BTCKRWPrice: 100000000}

	require.NoError(t, f.scheduler.RunCycle(context.Background()))

	require.Len(t, f.store.appended, 1)
	rec := f.store.appended[0]
	assert.Equal(t, "buy", rec.Decision)
	assert.Equal(t, 30, rec.Percentage)
	assert.Equal(t, "momentum", rec.Reason)
	assert.Equal(t, "keep positions small", rec.Reflection)
	// post-trade balances, not the pre-decision snapshot
	assert.InDelta(t, 700000, rec.KRWBalance, 1e-9)
	assert.InDelta(t, 0.003, rec.BTCBalance, 1e-12)

	require.Len(t, f.notifier.decisions, 1)
}

func TestRunCycleNormalizesPercentageWhenNotExecuted(t *testing.T) {
	f := newFixture()
	f.engine.decision = ai.Decision{Decision: "buy", Percentage: 10, Reason: "small dip"}
	f.executor.result = executor.Result{Executed: false, Skipped: "below minimum notional"}

	require.NoError(t, f.scheduler.RunCycle(context.Background()))

	require.Len(t, f.store.appended, 1)
	assert.Equal(t, "buy", f.store.appended[0].Decision)
	assert.Equal(t, 0, f.store.appended[0].Percentage)
}

func TestRunCycleAbortsOnDecisionFailure(t *testing.T) {
	f := newFixture()
	f.engine.err = fmt.Errorf("%w: bad schema", trading.ErrValidation)

	err := f.scheduler.RunCycle(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, trading.ErrValidation)

	// no order attempted, no record written
	assert.Zero(t, f.executor.calls)
	assert.Empty(t, f.store.appended)
}

func TestRunCycleAbortsOnReflectionFailure(t *testing.T) {
	f := newFixture()
	f.reflector.err = fmt.Errorf("%w: rate limited", trading.ErrInference)

	err := f.scheduler.RunCycle(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, trading.ErrInference)
	assert.Zero(t, f.executor.calls)
	assert.Empty(t, f.store.appended)
}

func TestRunCycleAbortsOnEssentialMarketData(t *testing.T) {
	f := newFixture()
	f.market.candleErr = errors.New("api down")

	require.Error(t, f.scheduler.RunCycle(context.Background()))
	assert.Zero(t, f.executor.calls)
}

func TestRunCycleDegradesOnAuxiliarySignals(t *testing.T) {
	f := newFixture()
	f.market.orderBookErr = errors.New("orderbook down")
	f.sentiment.fngErr = errors.New("fng down")
	f.sentiment.newsErr = errors.New("news down")

	require.NoError(t, f.scheduler.RunCycle(context.Background()))
	require.Len(t, f.store.appended, 1)
}

func TestRunCycleFeedsReflectionIntoDecision(t *testing.T) {
	f := newFixture()
	f.store.recent = []ledger.TradeRecord{{Decision: "buy", KRWBalance: 900000}}

	require.NoError(t, f.scheduler.RunCycle(context.Background()))

	assert.Len(t, f.reflector.gotRecords, 1)
	assert.Equal(t, "keep positions small", f.engine.gotReflection)
}
