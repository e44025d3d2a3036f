package indicators

import (
	talib "github.com/markcheno/go-talib"

	"github.com/camuig/upbit-trader/internal/upbit"
)

// EnrichedCandle is an OHLCV bar with the derived columns the decision
// prompt feeds to the model. Indicator values are zero inside the warmup
// window of their lookback period.
type EnrichedCandle struct {
	upbit.Candle

	BBUpper    float64 `json:"bb_upper"`
	BBMiddle   float64 `json:"bb_middle"`
	BBLower    float64 `json:"bb_lower"`
	RSI        float64 `json:"rsi"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	MACDHist   float64 `json:"macd_hist"`
	SMA20      float64 `json:"sma_20"`
	EMA12      float64 `json:"ema_12"`
}

const (
	bbPeriod   = 20
	rsiPeriod  = 14
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
	smaPeriod  = 20
	emaPeriod  = 12
)

// Enrich computes Bollinger Bands, RSI, MACD and moving averages over
// candles ordered oldest first. Series shorter than an indicator's
// lookback simply leave that indicator zeroed.
func Enrich(candles []upbit.Candle) []EnrichedCandle {
	n := len(candles)
	enriched := make([]EnrichedCandle, n)
	for i, c := range candles {
		enriched[i] = EnrichedCandle{Candle: c}
	}
	if n == 0 {
		return enriched
	}

	closes := make([]float64, n)
	for i, c := range candles {
		closes[i] = c.Close
	}

	if n > bbPeriod {
		upper, middle, lower := talib.BBands(closes, bbPeriod, 2, 2, talib.SMA)
		for i := range enriched {
			enriched[i].BBUpper = upper[i]
			enriched[i].BBMiddle = middle[i]
			enriched[i].BBLower = lower[i]
		}
	}

	if n > rsiPeriod {
		rsi := talib.Rsi(closes, rsiPeriod)
		for i := range enriched {
			enriched[i].RSI = rsi[i]
		}
	}

	if n > macdSlow+macdSignal {
		macd, signal, hist := talib.Macd(closes, macdFast, macdSlow, macdSignal)
		for i := range enriched {
			enriched[i].MACD = macd[i]
			enriched[i].MACDSignal = signal[i]
			enriched[i].MACDHist = hist[i]
		}
	}

	if n > smaPeriod {
		sma := talib.Sma(closes, smaPeriod)
		for i := range enriched {
			enriched[i].SMA20 = sma[i]
		}
	}

	if n > emaPeriod {
		ema := talib.Ema(closes, emaPeriod)
		for i := range enriched {
			enriched[i].EMA12 = ema[i]
		}
	}

	return enriched
}
