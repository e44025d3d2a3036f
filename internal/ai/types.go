package ai

import (
	"context"
	"encoding/json"

	openai "github.com/sashabaranov/go-openai"

	"github.com/camuig/upbit-trader/internal/indicators"
	"github.com/camuig/upbit-trader/internal/sentiment"
)

// Decision is the model's trading call, already validated against the
// response schema. Percentage is the share of the balance to commit and
// must be 0 for hold.
type Decision struct {
	Decision   string `json:"decision"` // buy, sell, hold
	Percentage int    `json:"percentage"`
	Reason     string `json:"reason"`
}

// MarketSnapshot bundles everything gathered about the market for one
// cycle. OrderBook and FearGreed stay raw: the core forwards them into
// the prompt without interpreting their structure.
type MarketSnapshot struct {
	Daily     []indicators.EnrichedCandle
	Hourly    []indicators.EnrichedCandle
	OrderBook json.RawMessage
	News      []sentiment.Headline
	FearGreed json.RawMessage
	ChartPNG  []byte
}

// Completer is the inference collaborator. Client implements it; tests
// substitute canned responses.
type Completer interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage, jsonMode bool) (string, error)
}
