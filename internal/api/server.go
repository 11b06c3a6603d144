// Package api is the thin HTTP surface over the lake: request parsing,
// ETag handling and response shaping only. All real work happens in the
// lake, quant and meta packages.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/isMxy0934/PandaAlpha/internal/lake"
	"github.com/isMxy0934/PandaAlpha/internal/meta"
)

// Server serves the PandaAlpha HTTP API.
type Server struct {
	reader *lake.Reader
	wm     *lake.WatermarkLedger
	meta   *meta.Store
	log    *slog.Logger
	http   *http.Server
}

// NewServer builds the API server on the given port.
func NewServer(port int, reader *lake.Reader, wm *lake.WatermarkLedger, metaStore *meta.Store, log *slog.Logger) *Server {
	s := &Server{reader: reader, wm: wm, meta: metaStore, log: log}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/prices", s.handlePrices).Methods(http.MethodGet)
	r.HandleFunc("/api/metrics", s.handleMetrics).Methods(http.MethodGet)
	r.HandleFunc("/api/daily_basic", s.handleDailyBasic).Methods(http.MethodGet)
	r.HandleFunc("/api/watchlist", s.handleGetWatchlist).Methods(http.MethodGet)
	r.HandleFunc("/api/watchlist", s.handlePutWatchlist).Methods(http.MethodPut, http.MethodPost)
	r.HandleFunc("/api/fails", s.handleFails).Methods(http.MethodGet)

	s.http = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving requests until Shutdown or a fatal error.
func (s *Server) ListenAndServe() error {
	s.log.Info("api listening", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
