package ai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/camuig/upbit-trader/internal/ledger"
	"github.com/camuig/upbit-trader/internal/logger"
	"github.com/camuig/upbit-trader/internal/trading"
)

// Reflector turns the recent ledger window into a natural-language
// critique that is fed back into the next decision's context.
type Reflector struct {
	client Completer
	logger *logger.Logger
}

func NewReflector(client Completer, log *logger.Logger) *Reflector {
	return &Reflector{client: client, logger: log}
}

// Reflect computes performance over the window and asks the model for a
// critique. An empty window is fine (the prompt says so); a failed model
// call is not: the caller must skip trading this cycle.
func (r *Reflector) Reflect(ctx context.Context, records []ledger.TradeRecord, market *MarketSnapshot) (string, error) {
	performance := ledger.Performance(records)

	r.logger.Info("generating reflection", "records", len(records), "performance", performance)

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: reflectionSystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: BuildReflectionPrompt(records, market, performance)},
	}

	text, err := r.client.Complete(ctx, messages, false)
	if err != nil {
		return "", fmt.Errorf("reflect: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: model returned an empty reflection", trading.ErrInference)
	}

	return text, nil
}
