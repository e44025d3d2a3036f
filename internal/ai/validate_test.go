package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camuig/upbit-trader/internal/trading"
)

func TestParseDecisionValid(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected Decision
	}{
		{
			name:     "buy",
			raw:      `{"decision":"buy","percentage":40,"reason":"oversold bounce"}`,
			expected: Decision{Decision: "buy", Percentage: 40, Reason: "oversold bounce"},
		},
		{
			name:     "sell",
			raw:      `{"decision":"sell","percentage":50,"reason":"rsi overbought"}`,
			expected: Decision{Decision: "sell", Percentage: 50, Reason: "rsi overbought"},
		},
		{
			name:     "hold with zero percentage",
			raw:      `{"decision":"hold","percentage":0,"reason":"no edge"}`,
			expected: Decision{Decision: "hold", Percentage: 0, Reason: "no edge"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDecision(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParseDecisionRejected(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{"unknown decision value", `{"decision":"invalid","percentage":50,"reason":"x"}`},
		{"percentage above bounds", `{"decision":"buy","percentage":150,"reason":"x"}`},
		{"negative percentage", `{"decision":"sell","percentage":-1,"reason":"x"}`},
		{"fractional percentage", `{"decision":"buy","percentage":12.5,"reason":"x"}`},
		{"hold with non-zero percentage", `{"decision":"hold","percentage":30,"reason":"x"}`},
		{"missing reason", `{"decision":"buy","percentage":10}`},
		{"missing percentage", `{"decision":"buy","reason":"x"}`},
		{"extra field", `{"decision":"buy","percentage":10,"reason":"x","leverage":5}`},
		{"not json", `buy everything now`},
		{"json array", `[{"decision":"buy","percentage":10,"reason":"x"}]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDecision(tc.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, trading.ErrValidation)
		})
	}
}
