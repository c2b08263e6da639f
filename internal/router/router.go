package router

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/walksync/walksync/internal/telemetry"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Handler is anything that can register its routes on the router.
type Handler interface {
	RegisterRoutes(router *mux.Router, logger *zap.Logger)
}

// Router assembles the HTTP surface: application handlers, CORS for the
// frontend origin, token-bucket rate limiting and the metrics endpoint.
type Router struct {
	mux           *mux.Router
	limiter       *rate.Limiter
	telemetry     *telemetry.Telemetry
	logger        *zap.Logger
	allowedOrigin string
}

func NewRouter(limiter *rate.Limiter, tel *telemetry.Telemetry, logger *zap.Logger, allowedOrigin string, handlers []Handler) *Router {
	r := &Router{
		mux:           mux.NewRouter(),
		limiter:       limiter,
		telemetry:     tel,
		logger:        logger.Named("router"),
		allowedOrigin: allowedOrigin,
	}

	r.mux.Handle("/metrics", promhttp.Handler()).Methods("GET")
	for _, h := range handlers {
		h.RegisterRoutes(r.mux, r.logger)
	}

	r.mux.Use(r.corsMiddleware, r.rateLimitMiddleware, r.loggingMiddleware)
	return r
}

// CreateServer builds the http.Server serving this router.
func (r *Router) CreateServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	// mux middleware only runs for matched routes; pre-flight requests for
	// any path must still succeed, so OPTIONS is answered here.
	if req.Method == http.MethodOptions {
		r.setCORSHeaders(w)
		w.WriteHeader(http.StatusOK)
		return
	}
	r.mux.ServeHTTP(w, req)
}

func (r *Router) setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", r.allowedOrigin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func (r *Router) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.setCORSHeaders(w)
		next.ServeHTTP(w, req)
	})
}

func (r *Router) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !r.limiter.Allow() {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (r *Router) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, req)
		r.logger.Debug("request handled",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
