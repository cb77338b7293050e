package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-simulator/internal/fetch"
	"github.com/jonathan/interview-simulator/internal/server/ratelimit"
	"github.com/jonathan/interview-simulator/internal/wizard"
)

// Importer fills the setup form from a job posting URL.
type Importer interface {
	Import(ctx context.Context, url string) (*fetch.Posting, error)
}

// Config holds server configuration
type Config struct {
	Addr string
	// RateLimit nil means the limits from the environment.
	RateLimit       *ratelimit.Config
	ShutdownTimeout time.Duration
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	wizard      *wizard.Wizard
	importer    Importer
	rateLimiter *ratelimit.Limiter
	log         *zap.Logger

	// tickInterval paces countdown events.
	tickInterval time.Duration
	shutdown     time.Duration
}

// New creates a new server instance. importer may be nil, which disables
// the job page import endpoint.
func New(cfg Config, w *wizard.Wizard, importer Importer, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	rl := cfg.RateLimit
	if rl == nil {
		rl = ratelimit.LoadConfig(nil)
	}
	shutdown := cfg.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = 30 * time.Second
	}

	s := &Server{
		wizard:       w,
		importer:     importer,
		rateLimiter:  ratelimit.NewLimiter(rl),
		log:          log,
		tickInterval: time.Second,
		shutdown:     shutdown,
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	// Navigation
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /credential", s.handleCredentialPage)
	mux.HandleFunc("GET /setup", s.handleSetupPage)
	mux.HandleFunc("GET /mcq", s.handleRoundPage)
	mux.HandleFunc("GET /coding", s.handleRoundPage)
	mux.HandleFunc("GET /system-design", s.handleRoundPage)
	mux.HandleFunc("GET /hr", s.handleRoundPage)
	mux.HandleFunc("GET /results", s.handleRoundPage)
	mux.HandleFunc("GET /results/report.txt", s.handleReportDownload)
	mux.HandleFunc("/", s.handleNotFound)

	// Session
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("PUT /api/credential", s.handleSetCredential)
	mux.HandleFunc("DELETE /api/credential", s.handleClearCredential)
	mux.HandleFunc("PUT /api/theme", s.handleSetTheme)
	mux.HandleFunc("POST /api/setup", s.handleSubmitSetup)
	mux.HandleFunc("POST /api/setup/import", s.handleImportSetup)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("POST /api/prefetch", s.handlePrefetch)

	// Rounds
	mux.HandleFunc("GET /api/rounds/mcq", s.handleMCQ)
	mux.HandleFunc("PUT /api/rounds/mcq/answers/{index}", s.handleAnswerMCQ)
	mux.HandleFunc("POST /api/rounds/mcq/submit", s.handleSubmitMCQ)
	mux.HandleFunc("GET /api/rounds/coding", s.handleCoding)
	mux.HandleFunc("PUT /api/rounds/coding", s.handleUpdateCode)
	mux.HandleFunc("POST /api/rounds/coding/submit", s.handleSubmitCoding)
	mux.HandleFunc("GET /api/rounds/system-design", s.handleSystemDesign)
	mux.HandleFunc("PUT /api/rounds/system-design", s.handleUpdateSystemDesign)
	mux.HandleFunc("POST /api/rounds/system-design/submit", s.handleSubmitSystemDesign)
	mux.HandleFunc("GET /api/rounds/hr", s.handleHR)
	mux.HandleFunc("PUT /api/rounds/hr/answers", s.handleAnswerHR)
	mux.HandleFunc("POST /api/rounds/hr/submit", s.handleSubmitHR)
	mux.HandleFunc("POST /api/rounds/{round}/retry", s.handleRetry)
	mux.HandleFunc("GET /api/rounds/{round}/countdown", s.handleCountdown)

	// Results
	mux.HandleFunc("GET /api/results", s.handleResults)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("server starting", zap.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
		defer cancel()

		// Stop timers first so open countdown streams end.
		s.wizard.Close()
		s.rateLimiter.Stop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		s.log.Info("server stopped")
		return nil
	})

	return g.Wait()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code for request logs.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn("encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, ErrorBody{Error: message})
}

// handleError maps err to a status and body.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	s.jsonResponse(w, status, errorBody(err, status))
}

// decodeJSON reads the request body into v. It reports false after writing a 400.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// extractClientID extracts the client identifier from the request.
// It uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		seconds = max(seconds, 1)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.log.Warn("rate limit exceeded",
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
		zap.Time("reset", info.ResetTime))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
