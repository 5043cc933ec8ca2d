package endpoint

import (
	"context"
	"time"

	"github.com/gridkit/olympic-data-apis/config"
	"github.com/gridkit/olympic-data-apis/db"
	"github.com/gridkit/olympic-data-apis/graphql"
	"github.com/gridkit/olympic-data-apis/grid"
	"github.com/gridkit/olympic-data-apis/log"
	"github.com/gridkit/olympic-data-apis/metrics"
	"github.com/gridkit/olympic-data-apis/rest"
	"github.com/gridkit/olympic-data-apis/types"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const DefaultStoreURL = "memory://"

type DataEndpointConfig struct {
	storeURL     string
	dbUsername   string
	dbPassword   string
	serverDelay  time.Duration
	naming       config.NamingConventionFn
	supportedOps config.EditOperations
	seedFile     string
	idleTimeout  time.Duration
	registry     *prometheus.Registry
	logger       log.Logger
}

func (cfg DataEndpointConfig) ServerDelay() time.Duration {
	return cfg.serverDelay
}

func (cfg DataEndpointConfig) Naming() config.NamingConventionFn {
	return cfg.naming
}

func (cfg DataEndpointConfig) SupportedOperations() config.EditOperations {
	return cfg.supportedOps
}

func (cfg DataEndpointConfig) Logger() log.Logger {
	return cfg.logger
}

func (cfg *DataEndpointConfig) WithStoreURL(storeURL string) *DataEndpointConfig {
	cfg.storeURL = storeURL
	return cfg
}

func (cfg *DataEndpointConfig) WithServerDelay(serverDelay time.Duration) *DataEndpointConfig {
	cfg.serverDelay = serverDelay
	return cfg
}

func (cfg *DataEndpointConfig) WithNaming(naming config.NamingConventionFn) *DataEndpointConfig {
	cfg.naming = naming
	return cfg
}

func (cfg *DataEndpointConfig) WithSupportedOperations(supportedOps config.EditOperations) *DataEndpointConfig {
	cfg.supportedOps = supportedOps
	return cfg
}

func (cfg *DataEndpointConfig) WithDbUsername(dbUsername string) *DataEndpointConfig {
	cfg.dbUsername = dbUsername
	return cfg
}

func (cfg *DataEndpointConfig) WithDbPassword(dbPassword string) *DataEndpointConfig {
	cfg.dbPassword = dbPassword
	return cfg
}

// WithSeedFile sets rows to insert when the store is empty
func (cfg *DataEndpointConfig) WithSeedFile(seedFile string) *DataEndpointConfig {
	cfg.seedFile = seedFile
	return cfg
}

// WithSessionIdleTimeout sets how long unused grid sessions are kept, zero keeps them until closed
func (cfg *DataEndpointConfig) WithSessionIdleTimeout(idleTimeout time.Duration) *DataEndpointConfig {
	cfg.idleTimeout = idleTimeout
	return cfg
}

// WithRegistry sets the registry metrics are registered on
func (cfg *DataEndpointConfig) WithRegistry(registry *prometheus.Registry) *DataEndpointConfig {
	cfg.registry = registry
	return cfg
}

func (cfg DataEndpointConfig) NewEndpoint() (*DataEndpoint, error) {
	store, err := db.Open(cfg.storeURL, db.Options{
		Username: cfg.dbUsername,
		Password: cfg.dbPassword,
		Naming:   cfg.naming(),
		Logger:   cfg.logger,
	})
	if err != nil {
		return nil, err
	}

	if cfg.seedFile != "" {
		items, err := db.LoadSeedFile(cfg.seedFile)
		if err == nil {
			_, err = db.SeedIfEmpty(context.Background(), store, items, cfg.logger)
		}
		if err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	return cfg.newEndpointWithStore(store), nil
}

func (cfg DataEndpointConfig) newEndpointWithStore(store db.Store) *DataEndpoint {
	registry := cfg.registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := metrics.NewMetrics(registry)
	sessions := grid.NewSessionManager(store, cfg.serverDelay, cfg.logger, m)
	ctx, cancel := context.WithCancel(context.Background())
	sessions.StartExpiry(ctx, cfg.idleTimeout)

	return &DataEndpoint{
		store:           store,
		stopExpiry:      cancel,
		metrics:         m,
		sessions:        sessions,
		supportedOps:    cfg.supportedOps,
		graphQLRouteGen: graphql.NewRouteGenerator(store, cfg, m),
		restRouteGen:    rest.NewRouteGenerator(store, sessions, cfg, m),
	}
}

type DataEndpoint struct {
	store           db.Store
	stopExpiry      context.CancelFunc
	metrics         *metrics.Metrics
	sessions        *grid.SessionManager
	supportedOps    config.EditOperations
	graphQLRouteGen *graphql.RouteGenerator
	restRouteGen    *rest.RouteGenerator
}

func NewEndpointConfig(storeURL string) (*DataEndpointConfig, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewEndpointConfigWithLogger(log.NewZapLogger(logger), storeURL), nil
}

func NewEndpointConfigWithLogger(logger log.Logger, storeURL string) *DataEndpointConfig {
	if storeURL == "" {
		storeURL = DefaultStoreURL
	}
	return &DataEndpointConfig{
		storeURL:     storeURL,
		serverDelay:  grid.DefaultServerDelay,
		naming:       config.NewDefaultNaming,
		supportedOps: config.AllEditOperations,
		idleTimeout:  grid.DefaultSessionIdleTimeout,
		logger:       logger,
	}
}

func (e *DataEndpoint) RoutesGraphQL(pattern string) ([]types.Route, error) {
	return e.graphQLRouteGen.Routes(pattern, e.supportedOps)
}

func (e *DataEndpoint) RoutesRest(prefix string) []types.Route {
	return e.restRouteGen.Routes(prefix)
}

// Metrics exposes the collectors of the endpoint, Metrics().Handler() serves them
func (e *DataEndpoint) Metrics() *metrics.Metrics {
	return e.metrics
}

func (e *DataEndpoint) Store() db.Store {
	return e.store
}

func (e *DataEndpoint) Close() error {
	e.stopExpiry()
	return e.store.Close()
}
