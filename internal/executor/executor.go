package executor

import (
	"context"
	"fmt"

	"github.com/camuig/upbit-trader/internal/ai"
	"github.com/camuig/upbit-trader/internal/config"
	"github.com/camuig/upbit-trader/internal/ledger"
	"github.com/camuig/upbit-trader/internal/logger"
	"github.com/camuig/upbit-trader/internal/trading"
	"github.com/camuig/upbit-trader/internal/upbit"
)

// Exchange is the slice of the account collaborator the policy needs.
type Exchange interface {
	BuyMarket(ctx context.Context, market string, krwAmount float64) (*upbit.OrderResult, error)
	SellMarket(ctx context.Context, market string, volume float64) (*upbit.OrderResult, error)
	Snapshot(ctx context.Context, market string) (upbit.AccountSnapshot, error)
}

// Result reports what the policy did with a validated decision.
type Result struct {
	Executed bool
	OrderID  string
	Skipped  string // reason when the policy declined without error
	Err      error  // exchange failure, wrapped as trading.ErrExecution
}

// Executor translates a validated decision into at most one market order,
// enforcing the fee buffer and minimum-notional rules.
type Executor struct {
	exchange Exchange
	market   string
	minOrder float64
	fee      float64
	logger   *logger.Logger
}

func NewExecutor(exchange Exchange, cfg *config.Config, log *logger.Logger) *Executor {
	return &Executor{
		exchange: exchange,
		market:   cfg.Trading.Market,
		minOrder: cfg.Trading.MinOrderKRW,
		fee:      cfg.Trading.FeeBuffer,
		logger:   log,
	}
}

// Execute acts on the decision against the given pre-decision snapshot,
// then re-reads balances so the caller records post-trade truth. Exchange
// failures never propagate as errors: they land in Result.Err and the
// cycle still persists its record.
func (e *Executor) Execute(ctx context.Context, d ai.Decision, snap upbit.AccountSnapshot) (Result, upbit.AccountSnapshot) {
	var result Result

	switch d.Decision {
	case ledger.DecisionBuy:
		result = e.executeBuy(ctx, d, snap)
	case ledger.DecisionSell:
		result = e.executeSell(ctx, d, snap)
	case ledger.DecisionHold:
		e.logger.Info("hold decision, no order", "reason", d.Reason)
		result = Result{Skipped: "hold"}
	default:
		// the engine validates decisions; this is a programming error
		result = Result{Err: fmt.Errorf("%w: unexpected decision %q", trading.ErrExecution, d.Decision)}
	}

	// Re-read balances so the ledger reflects the account after the order.
	// On failure keep the pre-decision snapshot rather than losing the row.
	fresh, err := e.exchange.Snapshot(ctx, e.market)
	if err != nil {
		e.logger.Error("post-trade snapshot failed, recording pre-trade balances", "error", err)
		return result, snap
	}
	return result, fresh
}

func (e *Executor) executeBuy(ctx context.Context, d ai.Decision, snap upbit.AccountSnapshot) Result {
	spend := snap.KRWBalance * (float64(d.Percentage) / 100) * (1 - e.fee)
	if spend <= e.minOrder {
		e.logger.Info("buy skipped: below minimum notional",
			"spend", spend, "min_order_krw", e.minOrder, "percentage", d.Percentage)
		return Result{Skipped: "below minimum notional"}
	}

	order, err := e.exchange.BuyMarket(ctx, e.market, spend)
	if err != nil {
		e.logger.Error("market buy failed", "spend", spend, "error", err)
		return Result{Err: fmt.Errorf("%w: market buy: %v", trading.ErrExecution, err)}
	}

	e.logger.Info("market buy executed", "spend", spend, "order_id", order.UUID)
	return Result{Executed: true, OrderID: order.UUID}
}

func (e *Executor) executeSell(ctx context.Context, d ai.Decision, snap upbit.AccountSnapshot) Result {
	amount := snap.BTCBalance * (float64(d.Percentage) / 100)
	notional := amount * snap.BTCKRWPrice
	if notional <= e.minOrder {
		e.logger.Info("sell skipped: below minimum notional",
			"amount", amount, "notional", notional, "min_order_krw", e.minOrder)
		return Result{Skipped: "below minimum notional"}
	}

	order, err := e.exchange.SellMarket(ctx, e.market, amount)
	if err != nil {
		e.logger.Error("market sell failed", "amount", amount, "error", err)
		return Result{Err: fmt.Errorf("%w: market sell: %v", trading.ErrExecution, err)}
	}

	e.logger.Info("market sell executed", "amount", amount, "order_id", order.UUID)
	return Result{Executed: true, OrderID: order.UUID}
}
