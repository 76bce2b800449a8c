// Package server exposes the assistant over HTTP: the chat endpoint, health
// and Prometheus metrics, with request-id and CORS middleware.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "urja-assistant/internal/common/errors"
	"urja-assistant/internal/common/logger"
	"urja-assistant/internal/models"
)

// Responder is the routing pipeline behind the chat endpoint.
type Responder interface {
	Respond(ctx context.Context, userInput string) models.Envelope
}

type Server struct {
	responder Responder
	logger    logger.Logger
	router    *mux.Router
}

func New(responder Responder, log logger.Logger) *Server {
	s := &Server{
		responder: responder,
		logger:    log.With(map[string]interface{}{"component": "http"}),
	}

	r := mux.NewRouter()
	r.Use(s.requestID, s.cors)
	r.HandleFunc("/get", s.handleChat).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	msg := strings.TrimSpace(r.URL.Query().Get("msg"))
	if msg == "" {
		writeJSON(w, http.StatusBadRequest,
			models.Err(apperrors.CodeEmptyRequest, "Empty request", "", nil))
		return
	}

	s.logger.Info("request received", map[string]interface{}{
		"msg":       msg,
		"requestId": r.Header.Get("X-Request-Id"),
	})

	env := s.responder.Respond(r.Context(), msg)
	status := http.StatusOK
	if !env.OK {
		status = http.StatusBadRequest
		if env.Error != nil {
			if env.Error.Code == apperrors.CodeInternal {
				status = http.StatusInternalServerError
			}
			fields := map[string]interface{}{
				"code":      string(env.Error.Code),
				"category":  apperrors.Category(env.Error.Code),
				"requestId": r.Header.Get("X-Request-Id"),
			}
			if apperrors.UserFacing(env.Error.Code) {
				s.logger.Debug("request rejected", fields)
			} else {
				s.logger.Warn("request failed", fields)
			}
		}
	}
	writeJSON(w, status, env)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestID tags every request, propagating a caller-supplied id when given.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
			r.Header.Set("X-Request-Id", id)
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
