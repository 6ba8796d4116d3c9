package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"eldernews/daybook/internal/server/api"
	"eldernews/daybook/internal/store"
	"eldernews/daybook/internal/summarize"
)

// apiKeyMiddleware checks for the X-API-Key header and validates it against the provided key.
// If key is empty, it allows all requests.
func apiKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			reqApiKey := r.Header.Get("X-API-Key")
			if reqApiKey == "" {
				http.Error(w, "API key required", http.StatusUnauthorized)
				return
			}

			if reqApiKey != apiKey {
				http.Error(w, "Invalid API key", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Options configures the HTTP server.
type Options struct {
	ListenAddr string
	APIKey     string
	// ReadOnly serves only the read endpoints, for a server pointed at a
	// read-only database connection.
	ReadOnly bool
}

// RunServer starts the HTTP server with graceful shutdown support.
// It sets up routes, middleware, and handles OS signals for clean termination.
func RunServer(st *store.Store, summarizer *summarize.Summarizer, logger zerolog.Logger, opts Options) error {
	logger = logger.With().Str("service", "daybook-api").Logger()

	handler := api.NewHandler(st, summarizer)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthCheckHandler)
	mux.HandleFunc("GET /v1/days/{date}/articles", handler.GetDayArticles)
	mux.HandleFunc("GET /v1/articles", handler.ListArticles)
	if !opts.ReadOnly {
		mux.HandleFunc("POST /v1/days/{date}/articles", handler.ReconcileDay)
		mux.HandleFunc("POST /v1/articles/summary", handler.SaveSummary)
		mux.HandleFunc("POST /v1/summarize", handler.SummarizeText)
	}

	// Set up middleware chain for logging and request tracking
	h := hlog.NewHandler(logger)(mux)
	h = hlog.MethodHandler("method")(h)
	h = hlog.URLHandler("url")(h)
	h = hlog.RemoteAddrHandler("remote_addr")(h)
	h = hlog.UserAgentHandler("user_agent")(h)
	h = hlog.RequestIDHandler("req_id", "Request-Id")(h)
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		idReq, _ := hlog.IDFromRequest(r)

		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Str("req_id", idReq.String()).
			Msg("HTTP Request")
	})(h)

	// Add API key middleware if key is configured
	if opts.APIKey != "" {
		h = apiKeyMiddleware(opts.APIKey)(h)
		logger.Info().Msg("API key authentication enabled")
	} else {
		logger.Info().Msg("API key authentication disabled")
	}

	httpServer := &http.Server{
		Addr:              opts.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("address", opts.ListenAddr).Bool("read_only", opts.ReadOnly).Msg("API Server starting")
		err := httpServer.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Fatal().Err(err).Msg("Server failed to start")

	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("HTTP server shutdown error")
			if err := httpServer.Close(); err != nil {
				logger.Error().Err(err).Msg("HTTP server force close error")
			}
		} else {
			logger.Info().Msg("HTTP server shutdown complete.")
		}
		if err := <-serverErr; err != nil {
			logger.Error().Err(err).Msg("ListenAndServe error during shutdown")
		}
	}

	logger.Info().Msg("Server exiting.")
	return nil
}

// healthCheckHandler responds to health check requests with a simple 200 OK.
// This endpoint is used by monitoring systems to verify the service is operational.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	log.Debug().Msg("Health check request received")

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Error().Err(err).Msg("Error writing health check response")
	}
}
