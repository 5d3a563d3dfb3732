// Package server exposes the bot's HTTP surface: the Telegram webhook
// endpoint and a health check for the hosting platform's liveness probe.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// UpdateHandler receives Telegram webhook requests.
type UpdateHandler interface {
	HandleWebhook(w http.ResponseWriter, r *http.Request)
	PendingCount() int
}

// Server is the bot's HTTP listener.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

type healthResponse struct {
	Status             string `json:"status"`
	PendingActionCount int    `json:"pending_action_count"`
}

// New builds the HTTP server with the webhook and health routes.
func New(port int, bot UpdateHandler, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(healthResponse{
			Status:             "ok",
			PendingActionCount: bot.PendingCount(),
		})
	})

	mux.HandleFunc("/webhook", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		bot.HandleWebhook(w, r)
	})

	// Keep-alive pings from the hosting platform land on the root.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "attendance-bot")
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
