package upbit

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/camuig/upbit-trader/internal/config"
	"github.com/camuig/upbit-trader/internal/logger"
	"github.com/camuig/upbit-trader/internal/trading"
)

const baseURL = "https://api.upbit.com/v1"

// Client talks to the Upbit REST API. It covers the market data the
// decision prompt needs and the account/order calls the executor needs.
type Client struct {
	client    *resty.Client
	accessKey string
	secretKey string
	limiter   *rate.Limiter
	logger    *logger.Logger
}

func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.UpbitTimeout())

	limiter := rate.NewLimiter(rate.Limit(cfg.Upbit.RateLimit), cfg.Upbit.RateLimitBurst)

	return &Client{
		client:    client,
		accessKey: cfg.Upbit.AccessKey,
		secretKey: cfg.Upbit.SecretKey,
		limiter:   limiter,
		logger:    log,
	}
}

// get performs a public GET request with rate limiting.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return trading.MapTimeout(fmt.Errorf("rate limiter wait: %w", err))
	}

	req := c.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		SetResult(result).
		SetError(&apiError{})

	resp, err := req.Get(path)
	if err != nil {
		return trading.MapTimeout(fmt.Errorf("GET %s: %w", path, err))
	}
	if resp.IsError() {
		return apiErrorOf(resp, path)
	}
	return nil
}

// signedRequest performs an authenticated request. Query params are both
// sent and folded into the JWT query hash.
func (c *Client) signedRequest(ctx context.Context, method, path string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return trading.MapTimeout(fmt.Errorf("rate limiter wait: %w", err))
	}

	token, err := c.authToken(params)
	if err != nil {
		return fmt.Errorf("build auth token: %w", err)
	}

	req := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		SetResult(result).
		SetError(&apiError{})

	var resp *resty.Response
	switch method {
	case "GET":
		resp, err = req.SetQueryParamsFromValues(params).Get(path)
	case "POST":
		resp, err = req.SetFormDataFromValues(params).Post(path)
	default:
		return fmt.Errorf("unsupported method %s", method)
	}
	if err != nil {
		return trading.MapTimeout(fmt.Errorf("%s %s: %w", method, path, err))
	}
	if resp.IsError() {
		return apiErrorOf(resp, path)
	}
	return nil
}

func apiErrorOf(resp *resty.Response, path string) error {
	if e, ok := resp.Error().(*apiError); ok && e.Error.Name != "" {
		return fmt.Errorf("upbit %s: %s (%s)", path, e.Error.Message, e.Error.Name)
	}
	return fmt.Errorf("upbit %s: status %d", path, resp.StatusCode())
}
