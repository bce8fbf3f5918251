// internal/server/server.go

// Package server exposes the chat pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wealth-assistant/internal/chat/orchestrator"
	apperrors "wealth-assistant/internal/common/errors"
	"wealth-assistant/internal/common/logger"
	"wealth-assistant/internal/common/observability"
)

// Pinger covers the backing connections the health endpoint checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server owns the HTTP surface: the chat endpoint, health and metrics.
type Server struct {
	orchestrator *orchestrator.Orchestrator
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
	obs          *observability.Observability
	pingers      map[string]Pinger
}

func New(o *orchestrator.Orchestrator, log logger.Logger, obs *observability.Observability, pingers map[string]Pinger) *Server {
	return &Server{
		orchestrator: o,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log.WithFields(map[string]interface{}{"component": "server"}),
		obs:          obs,
		pingers:      pingers,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
	Processed bool   `json:"processed"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
			Error:     "Method not allowed",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:     "Message is required and must be a non-empty string",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	start := time.Now()
	answer, err := s.orchestrator.ProcessTurn(r.Context(), req.Message)
	if err != nil {
		s.recordTurn(r.Context(), start, "error")
		status, message := s.errorHandler.HandleTurnError(uuid.New().String(), err)
		writeJSON(w, status, errorResponse{
			Error:     message,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	s.recordTurn(r.Context(), start, "ok")

	writeJSON(w, http.StatusOK, chatResponse{
		Response:  answer,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Processed: true,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(s.pingers))
	for name, p := range s.pingers {
		if err := p.Ping(ctx); err != nil {
			checks[name] = "down"
			status = http.StatusServiceUnavailable
			s.logger.Warn("health check failed", map[string]interface{}{
				"dependency": name,
				"error":      err.Error(),
			})
			continue
		}
		checks[name] = "up"
	}

	writeJSON(w, status, map[string]interface{}{
		"status":    httpStatusWord(status),
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) recordTurn(ctx context.Context, start time.Time, outcome string) {
	if s.obs == nil {
		return
	}
	s.obs.RecordTurnProcessed(ctx, outcome)
	s.obs.RecordTurnDuration(ctx, time.Since(start), outcome)
}

func httpStatusWord(status int) string {
	if status == http.StatusOK {
		return "ok"
	}
	return "degraded"
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
