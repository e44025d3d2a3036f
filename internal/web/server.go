package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/camuig/upbit-trader/internal/config"
	"github.com/camuig/upbit-trader/internal/ledger"
	"github.com/camuig/upbit-trader/internal/logger"
)

// Server exposes the trade history over HTTP for dashboards.
type Server struct {
	httpServer *http.Server
	store      *ledger.Store
	config     *config.Config
	logger     *logger.Logger
}

func NewServer(store *ledger.Store, cfg *config.Config, log *logger.Logger) *Server {
	s := &Server{
		store:  store,
		config: cfg,
		logger: log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/trades", s.handleTrades)
	mux.HandleFunc("/api/performance", s.handlePerformance)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Web.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	s.logger.Info("web server starting", "port", s.config.Web.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
