package ledger

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/camuig/upbit-trader/internal/trading"
)

// ErrEmpty is returned by Latest when no trades have been recorded yet.
var ErrEmpty = errors.New("ledger is empty")

// Store persists trade records. Append-only; callers never mutate rows.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Append writes a new trade record. The store assigns ID and timestamp.
func (s *Store) Append(rec *TradeRecord) error {
	if rec.Decision != DecisionBuy && rec.Decision != DecisionSell && rec.Decision != DecisionHold {
		return fmt.Errorf("%w: invalid decision %q", trading.ErrStorage, rec.Decision)
	}
	if err := s.db.Create(rec).Error; err != nil {
		return fmt.Errorf("%w: append trade: %v", trading.ErrStorage, err)
	}
	return nil
}

// Recent returns records from the last windowDays, most recent first.
// The result is empty, never nil, when nothing matches.
func (s *Store) Recent(windowDays int) ([]TradeRecord, error) {
	cutoff := time.Now().AddDate(0, 0, -windowDays)

	records := make([]TradeRecord, 0)
	err := s.db.Where("created_at >= ?", cutoff).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("%w: recent trades: %v", trading.ErrStorage, err)
	}
	return records, nil
}

// Latest returns the most recent record, or ErrEmpty.
func (s *Store) Latest() (*TradeRecord, error) {
	var rec TradeRecord
	err := s.db.Order("created_at DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("%w: latest trade: %v", trading.ErrStorage, err)
	}
	return &rec, nil
}
