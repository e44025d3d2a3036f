package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camuig/upbit-trader/internal/ai"
	"github.com/camuig/upbit-trader/internal/config"
	"github.com/camuig/upbit-trader/internal/executor"
	"github.com/camuig/upbit-trader/internal/indicators"
	"github.com/camuig/upbit-trader/internal/ledger"
	"github.com/camuig/upbit-trader/internal/logger"
	"github.com/camuig/upbit-trader/internal/sentiment"
	"github.com/camuig/upbit-trader/internal/upbit"
)

// Collaborator interfaces, defined here so the cycle can be driven with
// fakes in tests and so no package reaches for ambient globals.

type MarketData interface {
	Candles(ctx context.Context, market, interval string, count int) ([]upbit.Candle, error)
	OrderBook(ctx context.Context, market string) (json.RawMessage, error)
}

type Account interface {
	Snapshot(ctx context.Context, market string) (upbit.AccountSnapshot, error)
}

type SentimentSource interface {
	FearGreed(ctx context.Context) (json.RawMessage, error)
	News(ctx context.Context) ([]sentiment.Headline, error)
}

type ChartCapturer interface {
	Capture(ctx context.Context) ([]byte, error)
}

type Reflector interface {
	Reflect(ctx context.Context, records []ledger.TradeRecord, market *ai.MarketSnapshot) (string, error)
}

type DecisionEngine interface {
	Decide(ctx context.Context, account upbit.AccountSnapshot, market *ai.MarketSnapshot, reflection string) (ai.Decision, error)
}

type OrderExecutor interface {
	Execute(ctx context.Context, d ai.Decision, snap upbit.AccountSnapshot) (executor.Result, upbit.AccountSnapshot)
}

type Store interface {
	Append(rec *ledger.TradeRecord) error
	Recent(windowDays int) ([]ledger.TradeRecord, error)
}

type Notifier interface {
	NotifyDecision(d ai.Decision, res executor.Result)
	NotifyError(scope string, err error)
	NotifyStatus(message string)
}

// Scheduler runs one trading cycle per tick, strictly sequentially:
// fetch, reflect, decide, execute, persist.
type Scheduler struct {
	market    MarketData
	account   Account
	sentiment SentimentSource
	chart     ChartCapturer // nil when chart capture is disabled
	reflector Reflector
	engine    DecisionEngine
	executor  OrderExecutor
	store     Store
	notifier  Notifier
	config    *config.Config
	logger    *logger.Logger
}

func New(
	market MarketData,
	account Account,
	sent SentimentSource,
	chart ChartCapturer,
	reflector Reflector,
	engine DecisionEngine,
	exec OrderExecutor,
	store Store,
	notifier Notifier,
	cfg *config.Config,
	log *logger.Logger,
) *Scheduler {
	return &Scheduler{
		market:    market,
		account:   account,
		sentiment: sent,
		chart:     chart,
		reflector: reflector,
		engine:    engine,
		executor:  exec,
		store:     store,
		notifier:  notifier,
		config:    cfg,
		logger:    log,
	}
}

// Run executes cycles until the context is canceled. Cycles run in the
// loop goroutine itself, so two can never overlap; a tick that fires
// while a slow cycle is still running is drained and skipped.
func (s *Scheduler) Run(ctx context.Context) {
	interval := s.config.TradingInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("scheduler started", "interval", interval.String())

	s.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.cycle(ctx)
			select {
			case <-ticker.C:
				s.logger.Warn("cycle overran its interval, skipping one tick")
			default:
			}
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in trading cycle", "panic", fmt.Sprint(r))
			s.notifier.NotifyError("cycle panic", fmt.Errorf("%v", r))
		}
	}()

	started := time.Now()
	s.logger.Info("starting trading cycle")

	if err := s.RunCycle(ctx); err != nil {
		s.logger.Error("trading cycle aborted", "error", err)
		s.notifier.NotifyError("trading cycle", err)
		return
	}

	s.logger.Info("trading cycle completed", "elapsed", time.Since(started).String())
}

// RunCycle performs exactly one cycle. An error means the cycle aborted
// before any order was placed and no trade record was written.
func (s *Scheduler) RunCycle(ctx context.Context) error {
	marketCode := s.config.Trading.Market

	// Essential collaborators first: balances and candle series. Failure
	// here aborts rather than letting the model guess.
	snap, err := s.account.Snapshot(ctx, marketCode)
	if err != nil {
		return fmt.Errorf("account snapshot: %w", err)
	}

	daily, err := s.market.Candles(ctx, marketCode, upbit.IntervalDay, s.config.Trading.DailyCandles)
	if err != nil {
		return fmt.Errorf("daily candles: %w", err)
	}
	hourly, err := s.market.Candles(ctx, marketCode, upbit.IntervalHourly, s.config.Trading.HourlyCandles)
	if err != nil {
		return fmt.Errorf("hourly candles: %w", err)
	}

	market := &ai.MarketSnapshot{
		Daily:  indicators.Enrich(daily),
		Hourly: indicators.Enrich(hourly),
	}

	// Auxiliary signals degrade gracefully: the prompt notes their absence.
	if orderBook, err := s.market.OrderBook(ctx, marketCode); err != nil {
		s.logger.Warn("order book unavailable, continuing without it", "error", err)
	} else {
		market.OrderBook = orderBook
	}

	if fng, err := s.sentiment.FearGreed(ctx); err != nil {
		s.logger.Warn("fear and greed index unavailable", "error", err)
	} else {
		market.FearGreed = fng
	}

	if news, err := s.sentiment.News(ctx); err != nil {
		s.logger.Warn("news headlines unavailable", "error", err)
	} else {
		market.News = news
	}

	if s.chart != nil {
		if png, err := s.chart.Capture(ctx); err != nil {
			s.logger.Warn("chart capture failed, deciding without image", "error", err)
		} else {
			market.ChartPNG = png
		}
	}

	recent, err := s.store.Recent(s.config.Trading.ReflectionWindowDays)
	if err != nil {
		return fmt.Errorf("recent trades: %w", err)
	}

	reflection, err := s.reflector.Reflect(ctx, recent, market)
	if err != nil {
		return fmt.Errorf("reflection: %w", err)
	}

	decision, err := s.engine.Decide(ctx, snap, market, reflection)
	if err != nil {
		return fmt.Errorf("decision: %w", err)
	}

	// Execution never aborts the cycle: the record is written either way.
	result, postSnap := s.executor.Execute(ctx, decision, snap)

	percentage := decision.Percentage
	if !result.Executed {
		percentage = 0
	}

	rec := &ledger.TradeRecord{
		Decision:       decision.Decision,
		Percentage:     percentage,
		Reason:         decision.Reason,
		BTCBalance:     postSnap.BTCBalance,
		KRWBalance:     postSnap.KRWBalance,
		BTCAvgBuyPrice: postSnap.BTCAvgBuyPrice,
		BTCKRWPrice:    postSnap.BTCKRWPrice,
		Reflection:     reflection,
	}
	if err := s.store.Append(rec); err != nil {
		s.logger.Error("append trade record", "error", err)
		s.notifier.NotifyError("ledger append", err)
	}

	s.notifier.NotifyDecision(decision, result)
	return nil
}
