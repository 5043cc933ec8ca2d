package rest

import (
	"github.com/gridkit/olympic-data-apis/config"
	"github.com/gridkit/olympic-data-apis/db"
	"github.com/gridkit/olympic-data-apis/grid"
	"github.com/gridkit/olympic-data-apis/metrics"
	restEndpointV1 "github.com/gridkit/olympic-data-apis/rest/endpoint/v1"
	"github.com/gridkit/olympic-data-apis/types"
)

type RouteGenerator struct {
	store    db.Store
	sessions *grid.SessionManager
	config   config.Config
	metrics  *metrics.Metrics
}

func NewRouteGenerator(
	store db.Store,
	sessions *grid.SessionManager,
	cfg config.Config,
	m *metrics.Metrics,
) *RouteGenerator {
	return &RouteGenerator{
		store:    store,
		sessions: sessions,
		config:   cfg,
		metrics:  m,
	}
}

func (g *RouteGenerator) Routes(prefix string) []types.Route {
	routes := restEndpointV1.Routes(prefix, g.config, g.store, g.sessions, g.metrics)
	for i := range routes {
		routes[i].Handler = RecoverHandler(routes[i].Handler, g.config.Logger())
	}
	return routes
}
