// Package server exposes the chat service over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/christlutheran/kbchat/pkg/repository"
	"github.com/christlutheran/kbchat/pkg/usecase/answer"
	"github.com/christlutheran/kbchat/pkg/utils/logging"
	"github.com/google/uuid"
)

// Asker answers one question. Satisfied by answer.UseCase; a fake is
// injected in tests.
type Asker interface {
	Ask(ctx context.Context, input answer.Input) (*answer.Output, error)
}

// Server handles the inbound HTTP surface: a health/status endpoint with a
// manual cache-bust hook, and the chat endpoint.
type Server struct {
	asker   Asker
	corpus  *repository.Corpus
	version string
}

// NewInput contains the collaborators for a new Server. Asker may be nil
// when the upstream credential is missing; chat requests then fail with a
// configuration error while the health endpoint keeps working.
type NewInput struct {
	Asker   Asker
	Corpus  *repository.Corpus
	Version string
}

func New(input NewInput) *Server {
	return &Server{
		asker:   input.Asker,
		corpus:  input.Corpus,
		version: input.Version,
	}
}

// Handler returns the routed handler with request logging attached.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	return s.withLogging(mux)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleStatus(w, r)
	case http.MethodPost:
		s.handleAsk(w, r)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// statusRecorder captures the response code for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()

		logger := logging.From(r.Context()).With("requestID", requestID)
		ctx := logging.With(r.Context(), logger)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String())
	})
}
