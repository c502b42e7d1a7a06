// Package api - Thin HTTP layer over the check engine.
// The API is ONLY responsible for: input ingestion, engine invocation, output serialization.
// The API NEVER performs tariff logic.
package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"tariffcheck/core/engine"
	"tariffcheck/core/output"
	"tariffcheck/internal/errors"
	"tariffcheck/internal/logging"
)

// Server is the API server
type Server struct {
	engine  *engine.Engine
	version string
	router  chi.Router
	log     *zap.Logger
}

// NewServer creates a new API server around an engine
func NewServer(e *engine.Engine, version string) *Server {
	s := &Server{engine: e, version: version, log: logging.Named("http")}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Post("/check", s.handleCheck)
	r.Get("/rules", s.handleRules)
	r.Delete("/cache", s.handleCacheReset)
	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	s.router = r
	return s
}

// handleCheck handles POST /check
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	result, err := s.engine.Check(r.Context(), req.Observation())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, output.NewCheckResponse(result))
}

// handleRules handles GET /rules
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	table := s.engine.Table()
	if table == nil {
		s.writeDomainError(w, errors.NotFound("rule table", s.engine.Resolver().Source().Name()))
		return
	}
	rows := table.Summaries()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"table": table.Name,
		"rules": rows,
		"count": len(rows),
	})
}

// handleCacheReset handles DELETE /cache
func (s *Server) handleCacheReset(w http.ResponseWriter, r *http.Request) {
	cache := s.engine.Resolver().Cache()
	if cache == nil {
		s.writeDomainError(w, errors.NotFound("cache", "disabled"))
		return
	}
	cache.Clear()
	writeJSON(w, http.StatusOK, cache.Stats())
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}
	if cache := s.engine.Resolver().Cache(); cache != nil {
		body["cache"] = cache.Stats()
	}
	writeJSON(w, http.StatusOK, body)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": s.version,
		"engine":  "tariffcheck",
		"source":  s.engine.Resolver().Source().Name(),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeDomainError maps typed errors to status codes. Untyped errors are internal.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var de *errors.Error
	if !stderrors.As(err, &de) {
		de = errors.Internal("check failed", err)
	}

	status := http.StatusInternalServerError
	switch de.Type {
	case errors.TypeInput:
		status = http.StatusBadRequest
	case errors.TypeNotFound:
		status = http.StatusNotFound
	case errors.TypeSource:
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		s.log.Warn("request failed", zap.String("type", string(de.Type)), zap.Error(err))
	}
	writeError(w, status, string(de.Type), de.Error())
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// requestIDMiddleware propagates X-Request-ID, generating a UUID when absent.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if rid == "" {
			rid = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("request_id", w.Header().Get("X-Request-ID")),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe starts the server
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
