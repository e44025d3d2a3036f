package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/camuig/upbit-trader/internal/config"
	"github.com/camuig/upbit-trader/internal/logger"
	"github.com/camuig/upbit-trader/internal/trading"
)

// Client calls the OpenAI chat completion API with a per-request timeout.
type Client struct {
	client *openai.Client
	model  string
	cfg    *config.Config
	logger *logger.Logger
}

func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		client: openai.NewClient(cfg.OpenAI.APIKey),
		model:  cfg.OpenAI.Model,
		cfg:    cfg,
		logger: log,
	}
}

func (c *Client) Complete(ctx context.Context, messages []openai.ChatCompletionMessage, jsonMode bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.OpenAITimeout())
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", trading.MapTimeout(fmt.Errorf("%w: chat completion: %v", trading.ErrInference, err))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: model returned no choices", trading.ErrInference)
	}

	content := resp.Choices[0].Message.Content
	c.logger.Debug("model response", "length", len(content))
	return content, nil
}
