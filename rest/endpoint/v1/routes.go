package endpoint

import (
	"fmt"
	"net/http"
	"path"

	"github.com/gridkit/olympic-data-apis/config"
	"github.com/gridkit/olympic-data-apis/db"
	"github.com/gridkit/olympic-data-apis/grid"
	"github.com/gridkit/olympic-data-apis/log"
	"github.com/gridkit/olympic-data-apis/metrics"
	"github.com/gridkit/olympic-data-apis/types"
	"github.com/julienschmidt/httprouter"
)

const (
	WinnersPathFormat          = "/v1/winners"
	WinnersBatchPathFormat     = "/v1/winners/batch"
	WinnerSinglePathFormat     = "/v1/winners/%s"
	SessionsPathFormat         = "/v1/grid/sessions"
	SessionSinglePathFormat    = "/v1/grid/sessions/%s"
	SessionRowsPathFormat      = "/v1/grid/sessions/%s/rows"
	SessionRowSinglePathFormat = "/v1/grid/sessions/%s/rows/%s"
	SessionCellsPathFormat     = "/v1/grid/sessions/%s/cells"
	SessionIncrementPathFormat = "/v1/grid/sessions/%s/increment"
)

const (
	rowIdParam     = "rowId"
	sessionIdParam = "sessionId"
)

type routeList struct {
	store    db.Store
	sessions *grid.SessionManager
	logger   log.Logger
	metrics  *metrics.Metrics
	params   func(*http.Request, string) string
}

func httpRouterParams(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}

// Routes returns the REST routes, only the write routes of the supported operations are included
func Routes(
	prefix string,
	cfg config.Config,
	store db.Store,
	sessions *grid.SessionManager,
	m *metrics.Metrics,
) []types.Route {
	rl := routeList{
		store:    store,
		sessions: sessions,
		logger:   cfg.Logger(),
		metrics:  m,
		params:   httpRouterParams,
	}

	pattern := func(format string, params ...interface{}) string {
		return path.Join(prefix, fmt.Sprintf(format, params...))
	}
	sessionParam := ":" + sessionIdParam
	rowParam := ":" + rowIdParam

	routes := []types.Route{
		{
			Method:  http.MethodGet,
			Pattern: pattern(WinnersPathFormat),
			Handler: http.HandlerFunc(rl.ListWinners),
		},
		{
			Method:  http.MethodPost,
			Pattern: pattern(SessionsPathFormat),
			Handler: http.HandlerFunc(rl.OpenSession),
		},
		{
			Method:  http.MethodGet,
			Pattern: pattern(SessionSinglePathFormat, sessionParam),
			Handler: http.HandlerFunc(rl.GetSession),
		},
		{
			Method:  http.MethodDelete,
			Pattern: pattern(SessionSinglePathFormat, sessionParam),
			Handler: http.HandlerFunc(rl.CloseSession),
		},
		{
			Method:  http.MethodPost,
			Pattern: pattern(SessionRowsPathFormat, sessionParam),
			Handler: http.HandlerFunc(rl.GetRows),
		},
		{
			Method:  http.MethodGet,
			Pattern: pattern(SessionRowSinglePathFormat, sessionParam, rowParam),
			Handler: http.HandlerFunc(rl.GetSessionRow),
		},
	}

	operations := cfg.SupportedOperations()

	if operations.IsSupported(config.RowInsert) {
		routes = append(routes, types.Route{
			Method:  http.MethodPost,
			Pattern: pattern(WinnersPathFormat),
			Handler: http.HandlerFunc(rl.AddWinner),
		}, types.Route{
			Method:  http.MethodPost,
			Pattern: pattern(WinnersBatchPathFormat),
			Handler: http.HandlerFunc(rl.AddWinners),
		})
	}

	if operations.IsSupported(config.RowUpdate) {
		routes = append(routes, types.Route{
			Method:  http.MethodPatch,
			Pattern: pattern(WinnerSinglePathFormat, rowParam),
			Handler: http.HandlerFunc(rl.PatchWinner),
		}, types.Route{
			Method:  http.MethodPut,
			Pattern: pattern(SessionCellsPathFormat, sessionParam),
			Handler: http.HandlerFunc(rl.EditCell),
		})
	}

	if operations.IsSupported(config.RowIncrement) {
		routes = append(routes, types.Route{
			Method:  http.MethodPost,
			Pattern: pattern(SessionIncrementPathFormat, sessionParam),
			Handler: http.HandlerFunc(rl.IncrementCounter),
		})
	}

	return routes
}
