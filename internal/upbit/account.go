package upbit

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Balance returns the available balance for a currency ("KRW", "BTC").
func (c *Client) Balance(ctx context.Context, currency string) (float64, error) {
	acct, err := c.findAccount(ctx, currency)
	if err != nil {
		return 0, err
	}
	if acct == nil {
		return 0, nil
	}
	bal, err := strconv.ParseFloat(acct.Balance, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s balance %q: %w", currency, acct.Balance, err)
	}
	return bal, nil
}

// AvgBuyPrice returns the average buy price for a currency, 0 when the
// account holds none of it.
func (c *Client) AvgBuyPrice(ctx context.Context, currency string) (float64, error) {
	acct, err := c.findAccount(ctx, currency)
	if err != nil {
		return 0, err
	}
	if acct == nil || acct.AvgBuyPrice == "" {
		return 0, nil
	}
	price, err := strconv.ParseFloat(acct.AvgBuyPrice, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s avg buy price %q: %w", currency, acct.AvgBuyPrice, err)
	}
	return price, nil
}

// Snapshot reads the full KRW-BTC account and market state in one pass.
func (c *Client) Snapshot(ctx context.Context, market string) (AccountSnapshot, error) {
	var snap AccountSnapshot

	accounts, err := c.accounts(ctx)
	if err != nil {
		return snap, err
	}

	asset := assetOf(market)
	for _, a := range accounts {
		switch a.Currency {
		case "KRW":
			snap.KRWBalance, _ = strconv.ParseFloat(a.Balance, 64)
		case asset:
			snap.BTCBalance, _ = strconv.ParseFloat(a.Balance, 64)
			snap.BTCAvgBuyPrice, _ = strconv.ParseFloat(a.AvgBuyPrice, 64)
		}
	}

	price, err := c.CurrentPrice(ctx, market)
	if err != nil {
		return snap, err
	}
	snap.BTCKRWPrice = price

	return snap, nil
}

// BuyMarket places a market buy spending the given KRW amount.
func (c *Client) BuyMarket(ctx context.Context, market string, krwAmount float64) (*OrderResult, error) {
	params := url.Values{}
	params.Set("market", market)
	params.Set("side", "bid")
	params.Set("ord_type", "price")
	params.Set("price", strconv.FormatFloat(krwAmount, 'f', -1, 64))

	var result OrderResult
	if err := c.signedRequest(ctx, "POST", "/orders", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SellMarket places a market sell of the given asset volume.
func (c *Client) SellMarket(ctx context.Context, market string, volume float64) (*OrderResult, error) {
	params := url.Values{}
	params.Set("market", market)
	params.Set("side", "ask")
	params.Set("ord_type", "market")
	params.Set("volume", strconv.FormatFloat(volume, 'f', 8, 64))

	var result OrderResult
	if err := c.signedRequest(ctx, "POST", "/orders", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) accounts(ctx context.Context) ([]accountResponse, error) {
	var accounts []accountResponse
	if err := c.signedRequest(ctx, "GET", "/accounts", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *Client) findAccount(ctx context.Context, currency string) (*accountResponse, error) {
	accounts, err := c.accounts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].Currency == currency {
			return &accounts[i], nil
		}
	}
	return nil, nil
}

// assetOf extracts the base asset from a market code like "KRW-BTC".
func assetOf(market string) string {
	if i := strings.Index(market, "-"); i >= 0 {
		return market[i+1:]
	}
	return market
}
