package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/camuig/upbit-trader/internal/ledger"
	"github.com/camuig/upbit-trader/internal/upbit"
)

const decisionSystemPrompt = `You are an expert in Bitcoin investing. Analyze the provided data including technical indicators, market data, recent news headlines, the Fear and Greed Index, the chart image when present, and the reflection on your own recent trading performance. Decide whether to buy, sell, or hold right now.

Consider:
- Technical indicators and market data (daily and hourly candles)
- Order book pressure
- Recent news headlines and their potential impact on Bitcoin price
- The Fear and Greed Index and its implications
- Your recent trading performance and the lessons in the reflection

Respond with JSON only, exactly in this schema:
{"decision": "buy" | "sell" | "hold", "percentage": <integer 0-100>, "reason": "<rationale>"}

percentage is the share of available balance to commit: 1-100 for buy or sell, always 0 for hold.`

const reflectionSystemPrompt = `You are a trading performance analyst. Given recent trading decisions with their account snapshots, the computed overall performance, and the current market situation, write a short critique: what worked, what did not, and what to do differently next. Keep it under 250 words, plain text, no JSON.`

// BuildDecisionPrompt serializes the account state, market snapshot and
// reflection into the user message for the decision request.
func BuildDecisionPrompt(account upbit.AccountSnapshot, market *MarketSnapshot, reflection string) string {
	var sb strings.Builder

	sb.WriteString("## Current investment status\n")
	sb.WriteString(fmt.Sprintf("KRW balance: %.0f\n", account.KRWBalance))
	sb.WriteString(fmt.Sprintf("BTC balance: %.8f\n", account.BTCBalance))
	sb.WriteString(fmt.Sprintf("BTC average buy price: %.0f KRW\n", account.BTCAvgBuyPrice))
	sb.WriteString(fmt.Sprintf("BTC current price: %.0f KRW\n\n", account.BTCKRWPrice))

	writeJSONSection(&sb, "Daily OHLCV with indicators", market.Daily)
	writeJSONSection(&sb, "Hourly OHLCV with indicators", market.Hourly)

	if len(market.OrderBook) > 0 {
		sb.WriteString("## Orderbook\n")
		sb.Write(market.OrderBook)
		sb.WriteString("\n\n")
	}

	if len(market.News) > 0 {
		writeJSONSection(&sb, "Recent news headlines", market.News)
	} else {
		sb.WriteString("## Recent news headlines\nNo recent headlines available.\n\n")
	}

	if len(market.FearGreed) > 0 {
		sb.WriteString("## Fear and Greed Index\n")
		sb.Write(market.FearGreed)
		sb.WriteString("\n\n")
	} else {
		sb.WriteString("## Fear and Greed Index\nNot available this cycle.\n\n")
	}

	sb.WriteString("## Reflection on recent trading\n")
	if reflection != "" {
		sb.WriteString(reflection)
	} else {
		sb.WriteString("No reflection available yet.")
	}
	sb.WriteString("\n\nDecide now and answer in the required JSON schema.")

	return sb.String()
}

// BuildReflectionPrompt serializes the recent ledger window and market
// snapshot for the performance critique request.
func BuildReflectionPrompt(records []ledger.TradeRecord, market *MarketSnapshot, performance float64) string {
	var sb strings.Builder

	sb.WriteString("## Recent trading decisions (most recent first)\n")
	if len(records) > 0 {
		data, _ := json.Marshal(records)
		sb.Write(data)
		sb.WriteString("\n\n")
	} else {
		sb.WriteString("No prior trading history exists yet. Note the absence of data and suggest a cautious start.\n\n")
	}

	sb.WriteString(fmt.Sprintf("## Overall performance over this window\n%.2f%%\n\n", performance))

	writeJSONSection(&sb, "Current daily candles with indicators", market.Daily)

	if len(market.FearGreed) > 0 {
		sb.WriteString("## Fear and Greed Index\n")
		sb.Write(market.FearGreed)
		sb.WriteString("\n\n")
	}

	if len(market.News) > 0 {
		writeJSONSection(&sb, "Recent news headlines", market.News)
	}

	sb.WriteString("Summarize what worked, what didn't, and concrete improvements for the next decisions.")

	return sb.String()
}

func writeJSONSection(sb *strings.Builder, title string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	sb.WriteString("## ")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.Write(data)
	sb.WriteString("\n\n")
}
