package upbit

import "time"

// Candle is one OHLCV bar.
type Candle struct {
	Market    string    `json:"market"`
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// AccountSnapshot is the KRW-BTC account and market state at one instant.
type AccountSnapshot struct {
	KRWBalance     float64 `json:"krw_balance"`
	BTCBalance     float64 `json:"btc_balance"`
	BTCAvgBuyPrice float64 `json:"btc_avg_buy_price"`
	BTCKRWPrice    float64 `json:"btc_krw_price"`
}

// OrderResult is the exchange's response to a placed market order.
type OrderResult struct {
	UUID      string `json:"uuid"`
	Side      string `json:"side"`
	OrdType   string `json:"ord_type"`
	Price     string `json:"price"`
	Volume    string `json:"volume"`
	State     string `json:"state"`
	Market    string `json:"market"`
	CreatedAt string `json:"created_at"`
}

type candleResponse struct {
	Market           string  `json:"market"`
	CandleDateTimeUTC string `json:"candle_date_time_utc"`
	OpeningPrice     float64 `json:"opening_price"`
	HighPrice        float64 `json:"high_price"`
	LowPrice         float64 `json:"low_price"`
	TradePrice       float64 `json:"trade_price"`
	AccTradeVolume   float64 `json:"candle_acc_trade_volume"`
}

type tickerResponse struct {
	Market     string  `json:"market"`
	TradePrice float64 `json:"trade_price"`
}

type accountResponse struct {
	Currency     string `json:"currency"`
	Balance      string `json:"balance"`
	Locked       string `json:"locked"`
	AvgBuyPrice  string `json:"avg_buy_price"`
	UnitCurrency string `json:"unit_currency"`
}

type apiError struct {
	Error struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}
