package upbit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Intervals accepted by Candles.
const (
	IntervalDay    = "day"
	IntervalHourly = "minute60"
)

// Candles fetches OHLCV bars for a market, oldest first so indicator
// windows can run over them directly. The API serves newest first.
func (c *Client) Candles(ctx context.Context, market, interval string, count int) ([]Candle, error) {
	var path string
	switch interval {
	case IntervalDay:
		path = "/candles/days"
	case IntervalHourly:
		path = "/candles/minutes/60"
	default:
		return nil, fmt.Errorf("unsupported candle interval %q", interval)
	}

	params := url.Values{}
	params.Set("market", market)
	params.Set("count", strconv.Itoa(count))

	var raw []candleResponse
	if err := c.get(ctx, path, params, &raw); err != nil {
		return nil, err
	}

	candles := make([]Candle, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		r := raw[i]
		ts, err := time.Parse("2006-01-02T15:04:05", r.CandleDateTimeUTC)
		if err != nil {
			return nil, fmt.Errorf("parse candle time %q: %w", r.CandleDateTimeUTC, err)
		}
		candles = append(candles, Candle{
			Market:    r.Market,
			Timestamp: ts.UTC(),
			Open:      r.OpeningPrice,
			High:      r.HighPrice,
			Low:       r.LowPrice,
			Close:     r.TradePrice,
			Volume:    r.AccTradeVolume,
		})
	}
	return candles, nil
}

// OrderBook returns the raw order book snapshot. The decision prompt
// forwards it verbatim, so no struct mapping is needed here.
func (c *Client) OrderBook(ctx context.Context, market string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("markets", market)

	var raw json.RawMessage
	if err := c.get(ctx, "/orderbook", params, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// CurrentPrice returns the latest trade price for a market.
func (c *Client) CurrentPrice(ctx context.Context, market string) (float64, error) {
	params := url.Values{}
	params.Set("markets", market)

	var tickers []tickerResponse
	if err := c.get(ctx, "/ticker", params, &tickers); err != nil {
		return 0, err
	}
	if len(tickers) == 0 {
		return 0, fmt.Errorf("no ticker returned for %s", market)
	}
	return tickers[0].TradePrice, nil
}
