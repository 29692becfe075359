package server

import (
	"net/http"

	"github.com/agentstation/apirunner/internal/server/handlers"
	"github.com/agentstation/apirunner/internal/server/middleware"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.app,
		s.client,
		s.plans,
		s.broker,
		s.wsHub,
		s.sseBroadcaster,
		s.logger,
	)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoints
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET /api/ready", h.HandleReady)
	mux.HandleFunc("GET /api/stats", h.HandleStats)

	// Proxy
	mux.HandleFunc("POST /api/proxy", h.HandleProxy)

	// Datasets
	mux.HandleFunc("POST /api/dataset", h.HandleBuildDataset)
	mux.HandleFunc("GET /api/datasets", h.HandleListDatasets)
	mux.HandleFunc("GET /api/datasets/{name}", h.HandleGetDataset)
	mux.HandleFunc("DELETE /api/datasets/{name}", h.HandleDeleteDataset)

	// Upserts
	mux.HandleFunc("POST /api/upsert/plan", h.HandlePlanUpsert)
	mux.HandleFunc("POST /api/upsert/execute", h.HandleExecuteUpsert)

	// Current profile
	mux.HandleFunc("GET /api/profile/current", h.HandleGetCurrentProfile)
	mux.HandleFunc("PUT /api/profile/current", h.HandlePutCurrentProfile)

	// Export
	mux.HandleFunc("POST /api/export/n8n", h.HandleExportN8N)

	// Live call log
	mux.HandleFunc("GET /api/events/ws", h.HandleWebSocket)
	mux.HandleFunc("GET /api/events/stream", h.HandleSSE)
}

// applyMiddleware wraps handler with the middleware chain. Recovery is
// outermost so a panic anywhere below still yields a 500 envelope.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	var chain []func(http.Handler) http.Handler
	chain = append(chain,
		middleware.Recovery(s.logger),
		middleware.RequestID(),
		middleware.Logger(s.logger),
	)

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
			corsConfig.AllowAll = false
		} else {
			corsConfig.AllowAll = true
		}
		chain = append(chain, middleware.CORS(corsConfig))
	}

	if cfg.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig()
		authConfig.Enabled = true
		authConfig.HeaderName = cfg.AuthHeader
		if cfg.AuthKey != "" {
			authConfig.APIKey = cfg.AuthKey
		}
		chain = append(chain, middleware.Auth(authConfig, s.logger))
	}

	if cfg.RateLimit > 0 {
		chain = append(chain, middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit, s.logger, s.trustedProxies...)))
	}

	return middleware.Chain(chain...)(handler)
}
