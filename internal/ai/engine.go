package ai

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/camuig/upbit-trader/internal/logger"
	"github.com/camuig/upbit-trader/internal/upbit"
)

// Engine assembles the decision request and validates the structured
// response. This is the one correctness-critical contract boundary:
// nothing past here ever sees unvalidated model output.
type Engine struct {
	client Completer
	logger *logger.Logger
}

func NewEngine(client Completer, log *logger.Logger) *Engine {
	return &Engine{client: client, logger: log}
}

func (e *Engine) Decide(ctx context.Context, account upbit.AccountSnapshot, market *MarketSnapshot, reflection string) (Decision, error) {
	userMessage := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}

	prompt := BuildDecisionPrompt(account, market, reflection)
	if len(market.ChartPNG) > 0 {
		userMessage.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: prompt},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(market.ChartPNG),
				},
			},
		}
	} else {
		userMessage.Content = prompt
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: decisionSystemPrompt},
		userMessage,
	}

	raw, err := e.client.Complete(ctx, messages, true)
	if err != nil {
		return Decision{}, fmt.Errorf("decide: %w", err)
	}

	decision, err := ParseDecision(raw)
	if err != nil {
		e.logger.Error("model decision rejected", "error", err, "raw", raw)
		return Decision{}, err
	}

	e.logger.Info("decision received",
		"decision", decision.Decision,
		"percentage", decision.Percentage,
		"reason", decision.Reason)

	return decision, nil
}
