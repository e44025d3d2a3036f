package ledger

// Performance measures portfolio value drift across a window of records
// ordered most-recent-first, as a percentage of the oldest snapshot's value.
// It is a coarse health signal, not per-trade profit attribution.
func Performance(records []TradeRecord) float64 {
	if len(records) == 0 {
		return 0
	}

	newest := records[0]
	oldest := records[len(records)-1]

	initial := oldest.Value()
	if initial == 0 {
		// a zero-valued starting snapshot carries no meaningful change
		return 0
	}

	return (newest.Value() - initial) / initial * 100
}
