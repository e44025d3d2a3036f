package ledger

import "time"

// Decisions a trade record can carry.
const (
	DecisionBuy  = "buy"
	DecisionSell = "sell"
	DecisionHold = "hold"
)

// TradeRecord is one row per completed decision cycle. Rows are append-only:
// the running system never updates or deletes them.
type TradeRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"timestamp"`

	Decision   string `gorm:"not null" json:"decision"` // buy, sell, hold
	Percentage int    `gorm:"not null" json:"percentage"`
	Reason     string `gorm:"type:text" json:"reason"`

	// Account and market snapshot taken after the cycle's action.
	BTCBalance     float64 `gorm:"column:btc_balance" json:"btc_balance"`
	KRWBalance     float64 `gorm:"column:krw_balance" json:"krw_balance"`
	BTCAvgBuyPrice float64 `gorm:"column:btc_avg_buy_price" json:"btc_avg_buy_price"`
	BTCKRWPrice    float64 `gorm:"column:btc_krw_price" json:"btc_krw_price"`

	// Critique generated before this cycle's decision. Empty on the very
	// first cycle, when no history exists yet.
	Reflection string `gorm:"type:text" json:"reflection"`
}

func (TradeRecord) TableName() string {
	return "trades"
}

// Value is the portfolio value of the snapshot in KRW.
func (r TradeRecord) Value() float64 {
	return r.KRWBalance + r.BTCBalance*r.BTCKRWPrice
}
