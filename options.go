package apirunner

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/apirunner/internal/transport"
	"github.com/agentstation/apirunner/pkg/constants"
	"github.com/agentstation/apirunner/pkg/errors"
	"github.com/agentstation/apirunner/pkg/hubspot"
	"github.com/agentstation/apirunner/pkg/proxy"
	"github.com/agentstation/apirunner/pkg/store"
)

// options holds the Client configuration.
type options struct {
	executor        proxy.Executor
	httpClient      *http.Client
	timeout         time.Duration
	store           store.Store
	storeBackend    store.Backend
	storePath       string
	rememberProfile bool
	concurrency     int
	plannerOptions  []hubspot.Option
	logger          *zerolog.Logger
}

// Option is a function that configures a Client.
type Option func(*options) error

func defaults() *options {
	return &options{
		timeout:         constants.ProxyTimeout,
		storeBackend:    store.BackendMemory,
		storePath:       constants.DefaultStorePath,
		rememberProfile: true,
		concurrency:     constants.DefaultDetailConcurrency,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *options) executorOptions() []proxy.Option {
	opts := []proxy.Option{proxy.WithTimeout(o.timeout)}
	if o.httpClient != nil {
		opts = append(opts, proxy.WithHTTPClient(transport.New(o.httpClient)))
	}
	return opts
}

// WithLogger makes logger the default logger for the client and the
// packages it drives. Without it the default logger is configured from the
// LOG_* environment variables, unless it was already set.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithExecutor replaces the HTTP executor, e.g. with a fake in tests.
func WithExecutor(exec proxy.Executor) Option {
	return func(o *options) error {
		o.executor = exec
		return nil
	}
}

// WithHTTPClient sends relayed calls through httpClient.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) error {
		o.httpClient = httpClient
		return nil
	}
}

// WithTimeout overrides the per-call timeout of the default executor.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return errors.NewValidationError("timeout", d, "must be positive")
		}
		o.timeout = d
		return nil
	}
}

// WithStore uses an already opened store. The Client closes it on Close.
func WithStore(s store.Store) Option {
	return func(o *options) error {
		o.store = s
		return nil
	}
}

// WithStoreBackend opens a store of the given backend at path.
func WithStoreBackend(backend store.Backend, path string) Option {
	return func(o *options) error {
		o.storeBackend = backend
		if path != "" {
			o.storePath = path
		}
		return nil
	}
}

// WithRememberProfile controls whether Run saves the current profile.
func WithRememberProfile(enabled bool) Option {
	return func(o *options) error {
		o.rememberProfile = enabled
		return nil
	}
}

// WithDetailConcurrency sets the default number of detail calls in flight
// for BuildDataset. Per-call dataset options still take precedence.
func WithDetailConcurrency(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return errors.NewValidationError("concurrency", n, "must be at least 1")
		}
		o.concurrency = n
		return nil
	}
}

// WithPlannerOptions configures the upsert planner.
func WithPlannerOptions(opts ...hubspot.Option) Option {
	return func(o *options) error {
		o.plannerOptions = append(o.plannerOptions, opts...)
		return nil
	}
}
