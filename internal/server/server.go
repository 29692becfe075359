// Package server provides the HTTP server for the apirunner API: the proxy
// relay, dataset and upsert endpoints, and the live call log.
package server

import (
	"context"
	"net/http"
	"net/netip"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/apirunner"
	"github.com/agentstation/apirunner/cmd/application"
	"github.com/agentstation/apirunner/internal/server/cache"
	"github.com/agentstation/apirunner/internal/server/events"
	"github.com/agentstation/apirunner/internal/server/events/adapters"
	"github.com/agentstation/apirunner/internal/server/sse"
	"github.com/agentstation/apirunner/internal/server/middleware"
	ws "github.com/agentstation/apirunner/internal/server/websocket"
	"github.com/agentstation/apirunner/pkg/dataset"
	"github.com/agentstation/apirunner/pkg/hubspot"
	"github.com/agentstation/apirunner/pkg/proxy"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app            application.Application
	client         apirunner.Client
	plans          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	logger         *zerolog.Logger
	config         Config
	trustedProxies []netip.Prefix
	ctx            context.Context
	cancel         context.CancelFunc
	startTime      time.Time
}

// New creates a new server instance with the given configuration.
func New(app application.Application, cfg Config) (*Server, error) {
	logger := app.Logger()

	logger.Debug().Msg("Creating new server instance")

	if cfg.PlanTTL == 0 {
		cfg.PlanTTL = DefaultConfig().PlanTTL
	}

	trusted, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}

	client, err := app.Client()
	if err != nil {
		return nil, err
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)

	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))
	logger.Debug().Msg("Realtime transports subscribed to event broker")

	ctx, cancel := context.WithCancel(context.Background())

	server := &Server{
		app:            app,
		client:         client,
		plans:          cache.New(cfg.PlanTTL, cfg.PlanTTL*2),
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		logger:         logger,
		config:         cfg,
		trustedProxies: trusted,
		ctx:            ctx,
		cancel:         cancel,
		startTime:      time.Now(),
	}

	server.connectHooks()

	logger.Debug().Msg("Server instance created successfully")
	return server, nil
}

// connectHooks publishes client events to the broker. Payloads carry call
// metadata only; headers and bodies may hold credentials or personal data
// and never leave the process.
func (s *Server) connectHooks() {
	s.client.OnResponse(func(req proxy.Request, resp proxy.Response) {
		s.broker.Publish(events.CallCompleted, map[string]any{
			"method":     req.Method,
			"url":        proxy.RedactURL(req.URL),
			"status":     resp.Status,
			"statusText": resp.StatusText,
			"ok":         resp.OK,
			"durationMs": resp.DurationMs,
		})
	})

	s.client.OnDatasetBuilt(func(ds *dataset.BuiltDataset) {
		s.broker.Publish(events.DatasetBuilt, map[string]any{
			"sourceName": ds.SourceName,
			"count":      ds.Count,
			"errors":     ds.Errors(),
		})
		s.logger.Debug().
			Str("source", ds.SourceName).
			Int("count", ds.Count).
			Msg("Dataset built event published")
	})

	s.client.OnUpsertExecuted(func(plan hubspot.Plan, dryRun bool, resp proxy.Response) {
		s.broker.Publish(events.UpsertExecuted, map[string]any{
			"action":     plan.Action,
			"id":         plan.ID,
			"matchEmail": plan.MatchEmail,
			"dryRun":     dryRun,
			"status":     resp.Status,
			"ok":         resp.OK,
		})
	})

	s.logger.Info().Msg("Client hooks connected to event broker")
}

// Start starts background services (broker, WebSocket hub, SSE broadcaster).
func (s *Server) Start() {
	s.logger.Debug().Msg("Starting background services")

	go s.broker.Run(s.ctx)
	go s.wsHub.Run(s.ctx)
	go s.sseBroadcaster.Run(s.ctx)

	s.logger.Debug().Msg("All background services started")
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown stops the background services and drops pending plans. It does
// not close the client, which belongs to the application.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")

	s.cancel()
	s.plans.Clear()

	select {
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown timed out")
		return ctx.Err()
	case <-time.After(100 * time.Millisecond):
		s.logger.Info().Msg("Background services shut down successfully")
	}
	return nil
}

// Plans returns the pending upsert plan cache.
func (s *Server) Plans() *cache.Cache {
	return s.plans
}

// WSHub returns the WebSocket hub.
func (s *Server) WSHub() *ws.Hub {
	return s.wsHub
}

// SSEBroadcaster returns the SSE broadcaster.
func (s *Server) SSEBroadcaster() *sse.Broadcaster {
	return s.sseBroadcaster
}

// Broker returns the event broker for publishing events.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
