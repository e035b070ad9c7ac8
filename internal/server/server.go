// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/soltrack/internal/service"
	"github.com/rovshanmuradov/soltrack/internal/stats"
)

// Server exposes the aggregation payloads as a JSON HTTP API for the
// external presentation layer.
type Server struct {
	svc           *service.Service
	defaultWallet string
	mux           *http.ServeMux
	server        *http.Server
	logger        *zap.Logger
}

// New configures all routes. defaultWallet is used when no wallet query
// parameter is supplied; it is the only place the default lives.
func New(addr, defaultWallet string, svc *service.Service, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		svc:           svc,
		defaultWallet: defaultWallet,
		mux:           mux,
		logger:        logger.Named("http"),
		server: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/pnl/daily", s.analysisHandler(func(a *service.Analysis) any {
		return stats.DailyPnl(a.Swaps)
	}))
	mux.HandleFunc("/api/activity/hourly", s.analysisHandler(func(a *service.Analysis) any {
		return stats.HourlyActivity(a.Swaps)
	}))
	mux.HandleFunc("/api/activity/sessions", s.analysisHandler(func(a *service.Analysis) any {
		return stats.SessionStats(a.Swaps)
	}))
	mux.HandleFunc("/api/breakdown/orders", s.analysisHandler(func(a *service.Analysis) any {
		return stats.OrderBreakdown(a.Swaps)
	}))
	mux.HandleFunc("/api/breakdown/fees", s.analysisHandler(func(a *service.Analysis) any {
		return stats.FeeComposition(a.Swaps)
	}))
	mux.HandleFunc("/api/transactions", s.analysisHandler(func(a *service.Analysis) any {
		return a.Swaps
	}))
	mux.HandleFunc("/api/portfolio/history", s.handleHistory)

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// wallet picks the request wallet, falling back to the configured
// demonstration wallet, and validates it as a base58 public key.
func (s *Server) wallet(r *http.Request) (string, bool) {
	wallet := r.URL.Query().Get("wallet")
	if wallet == "" {
		wallet = s.defaultWallet
	}
	if _, err := solana.PublicKeyFromBase58(wallet); err != nil {
		return "", false
	}
	return wallet, true
}

func (s *Server) analysisHandler(payload func(a *service.Analysis) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wallet, ok := s.wallet(r)
		if !ok {
			s.writeError(w, http.StatusBadRequest, "invalid wallet address")
			return
		}

		analysis, err := s.svc.Analyze(r.Context(), wallet)
		if err != nil {
			s.logger.Error("analysis failed",
				zap.String("wallet", wallet),
				zap.String("path", r.URL.Path),
				zap.Error(err))
			s.writeError(w, http.StatusBadGateway, "upstream data unavailable")
			return
		}
		s.writeJSON(w, payload(analysis))
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	wallet, ok := s.wallet(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}

	analysis, err := s.svc.Analyze(r.Context(), wallet)
	if err != nil {
		s.logger.Error("summary failed", zap.String("wallet", wallet), zap.Error(err))
		s.writeError(w, http.StatusBadGateway, "upstream data unavailable")
		return
	}
	s.writeJSON(w, s.svc.Summarize(r.Context(), analysis))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	wallet, ok := s.wallet(r)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}

	// Net worth anchors the simulated fallback series; a failed position
	// fetch degrades to zero, it never fails the widget.
	_, netWorth, err := s.svc.Positions(r.Context(), wallet)
	if err != nil {
		s.logger.Warn("net worth unavailable for history anchor",
			zap.String("wallet", wallet),
			zap.Error(err))
	}
	s.writeJSON(w, s.svc.PortfolioHistory(r.Context(), wallet, netWorth))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
