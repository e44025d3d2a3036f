package sentiment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/camuig/upbit-trader/internal/config"
	"github.com/camuig/upbit-trader/internal/logger"
)

const (
	fearGreedURL = "https://api.alternative.me/fng/"
	serpAPIURL   = "https://serpapi.com/search.json"
	maxHeadlines = 5
)

// Headline is one news item forwarded into the decision prompt.
type Headline struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

// Client fetches the auxiliary sentiment signals. Both calls are
// non-essential: failures degrade the cycle, never abort it.
type Client struct {
	http       *resty.Client
	serpAPIKey string
	logger     *logger.Logger
}

func NewClient(cfg *config.Config, log *logger.Logger) *Client {
	return &Client{
		http:       resty.New().SetTimeout(cfg.SentimentTimeout()),
		serpAPIKey: cfg.Sentiment.SerpAPIKey,
		logger:     log,
	}
}

// FearGreed returns the latest crypto Fear & Greed entry as raw JSON.
// The core forwards it verbatim and never interprets its structure.
func (c *Client) FearGreed(ctx context.Context) (json.RawMessage, error) {
	resp, err := c.http.R().SetContext(ctx).Get(fearGreedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch fear and greed index: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fear and greed index: status %d", resp.StatusCode())
	}

	entry := gjson.GetBytes(resp.Body(), "data.0")
	if !entry.Exists() {
		return nil, fmt.Errorf("fear and greed index: no data entry")
	}
	return json.RawMessage(entry.Raw), nil
}

// News returns the latest Bitcoin headlines from Google News via SerpAPI.
// Returns an empty slice without error when no key is configured.
func (c *Client) News(ctx context.Context) ([]Headline, error) {
	if c.serpAPIKey == "" {
		return nil, nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"engine":  "google_news",
			"q":       "btc",
			"api_key": c.serpAPIKey,
		}).
		Get(serpAPIURL)
	if err != nil {
		return nil, fmt.Errorf("fetch news: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("news search: status %d", resp.StatusCode())
	}

	return ParseHeadlines(resp.Body()), nil
}

// ParseHeadlines extracts up to maxHeadlines title/date pairs from a
// SerpAPI google_news response body.
func ParseHeadlines(body []byte) []Headline {
	headlines := make([]Headline, 0, maxHeadlines)
	gjson.GetBytes(body, "news_results").ForEach(func(_, item gjson.Result) bool {
		headlines = append(headlines, Headline{
			Title: item.Get("title").String(),
			Date:  item.Get("date").String(),
		})
		return len(headlines) < maxHeadlines
	})
	return headlines
}
