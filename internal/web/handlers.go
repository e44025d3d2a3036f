package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/camuig/upbit-trader/internal/ledger"
)

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 30)

	records, err := s.store.Recent(days)
	if err != nil {
		s.logger.Error("recent trades for dashboard", "error", err)
		http.Error(w, "failed to load trades", http.StatusInternalServerError)
		return
	}

	writeJSON(w, records)
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7)

	records, err := s.store.Recent(days)
	if err != nil {
		s.logger.Error("recent trades for performance", "error", err)
		http.Error(w, "failed to load trades", http.StatusInternalServerError)
		return
	}

	resp := struct {
		WindowDays  int     `json:"window_days"`
		Trades      int     `json:"trades"`
		Performance float64 `json:"performance_pct"`
	}{
		WindowDays:  days,
		Trades:      len(records),
		Performance: ledger.Performance(records),
	}
	writeJSON(w, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}
