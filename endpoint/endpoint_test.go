package endpoint

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gridkit/olympic-data-apis/config"
	"github.com/gridkit/olympic-data-apis/db"
	"github.com/gridkit/olympic-data-apis/grid"
	"github.com/gridkit/olympic-data-apis/internal/testutil"
	"github.com/gridkit/olympic-data-apis/internal/testutil/rest"
	"github.com/gridkit/olympic-data-apis/internal/testutil/schemas"
	"github.com/gridkit/olympic-data-apis/internal/testutil/schemas/olympic"
	e "github.com/gridkit/olympic-data-apis/rest/endpoint/v1"
	"github.com/gridkit/olympic-data-apis/rest/models"
	"github.com/gridkit/olympic-data-apis/types"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createConfig() *DataEndpointConfig {
	return NewEndpointConfigWithLogger(testutil.TestLogger(), "").
		WithServerDelay(0).
		WithSeedFile(schemas.SeedFilePath("olympic"))
}

func createEndpoint(t *testing.T, cfg *DataEndpointConfig) *DataEndpoint {
	RegisterTestingT(t)
	endpoint, err := cfg.NewEndpoint()
	require.NoError(t, err)
	t.Cleanup(func() { _ = endpoint.Close() })
	return endpoint
}

func openSession(t *testing.T, routes []types.Route) models.Session {
	var session models.Session
	code := rest.ExecutePost(routes, e.SessionsPathFormat, "", &session)
	require.Equal(t, http.StatusCreated, code)
	return session
}

func TestNewEndpointConfig_Defaults(t *testing.T) {
	cfg := NewEndpointConfigWithLogger(testutil.TestLogger(), "")
	assert.Equal(t, DefaultStoreURL, cfg.storeURL)
	assert.Equal(t, grid.DefaultServerDelay, cfg.ServerDelay())
	assert.Equal(t, config.AllEditOperations, cfg.SupportedOperations())
	assert.Equal(t, grid.DefaultSessionIdleTimeout, cfg.idleTimeout)
	assert.NotNil(t, cfg.Naming()())
}

func TestNewEndpoint_UnsupportedStore(t *testing.T) {
	_, err := NewEndpointConfigWithLogger(testutil.TestLogger(), "ftp://127.0.0.1/olympic").NewEndpoint()
	assert.Error(t, err)
}

func TestNewEndpoint_MissingSeedFile(t *testing.T) {
	_, err := NewEndpointConfigWithLogger(testutil.TestLogger(), "").
		WithSeedFile("does-not-exist.yaml").
		NewEndpoint()
	assert.Error(t, err)
}

func TestDataEndpoint_SeedsEmptyStore(t *testing.T) {
	endpoint := createEndpoint(t, createConfig())
	routes := endpoint.RoutesRest(rest.Prefix)

	var rows []types.Row
	code := rest.ExecuteGet(routes, e.WinnersPathFormat, &rows)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, rows, 4)
	assert.Equal(t, "Michael Phelps", rows[0].Athlete)
	assert.Equal(t, "Alicia Coutts", rows[3].Athlete)
	for _, row := range rows {
		assert.NotEmpty(t, row.ID)
	}
}

func TestDataEndpoint_GridSession(t *testing.T) {
	endpoint := createEndpoint(t, createConfig())
	routes := endpoint.RoutesRest(rest.Prefix)

	session := openSession(t, routes)
	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, 4, session.RowCount)
	assert.Equal(t, 0, session.LoadedRowCount)

	var window models.Rows
	code := rest.ExecutePost(routes, e.SessionRowsPathFormat, `{"startRow":0,"endRow":2}`, &window, session.SessionID)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, window.RowData, 2)
	assert.Equal(t, 4, window.RowCount)

	var progress models.Session
	rest.ExecuteGet(routes, e.SessionSinglePathFormat, &progress, session.SessionID)
	assert.Equal(t, 2, progress.LoadedRowCount)
	assert.Equal(t, 4, progress.RowCount)

	// Past the end of the snapshot
	code = rest.ExecutePost(routes, e.SessionRowsPathFormat, `{"startRow":2,"endRow":100}`, &window, session.SessionID)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, window.RowData, 2)
	assert.Equal(t, 4, window.RowCount)

	rest.ExecuteGet(routes, e.SessionSinglePathFormat, &progress, session.SessionID)
	assert.Equal(t, 100, progress.LoadedRowCount)

	code = rest.ExecuteDelete(routes, e.SessionSinglePathFormat, session.SessionID)
	assert.Equal(t, http.StatusNoContent, code)

	var modelError models.ModelError
	code = rest.ExecuteGet(routes, e.SessionSinglePathFormat, &modelError, session.SessionID)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDataEndpoint_EditCell(t *testing.T) {
	endpoint := createEndpoint(t, createConfig())
	routes := endpoint.RoutesRest(rest.Prefix)
	session := openSession(t, routes)

	var window models.Rows
	rest.ExecutePost(routes, e.SessionRowsPathFormat, `{"startRow":0,"endRow":4}`, &window, session.SessionID)
	row := window.RowData[1]

	var result models.EditResult
	body := fmt.Sprintf(`{"rowId":"%s","field":"silver","value":"7"}`, row.ID)
	code := rest.ExecutePut(routes, e.SessionCellsPathFormat, body, &result, session.SessionID)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, 7, *result.Rows[0].Silver)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, row.ID, result.Transactions[0].Update[0].ID)
	require.NotEmpty(t, result.Notifications)
	assert.Equal(t, grid.KindSuccess, result.Notifications[len(result.Notifications)-1].Kind)

	var modelRow types.Row
	rest.ExecuteGet(routes, e.SessionRowSinglePathFormat, &modelRow, session.SessionID, row.ID)
	assert.Equal(t, 7, *modelRow.Silver)

	var stored []types.Row
	rest.ExecuteGet(routes, e.WinnersPathFormat, &stored)
	assert.Equal(t, 7, *stored[1].Silver)
	assert.Equal(t, *row.Gold, *stored[1].Gold)
}

func TestDataEndpoint_IncrementCounter(t *testing.T) {
	endpoint := createEndpoint(t, createConfig())
	routes := endpoint.RoutesRest(rest.Prefix)
	session := openSession(t, routes)

	var window models.Rows
	rest.ExecutePost(routes, e.SessionRowsPathFormat, `{"startRow":0,"endRow":4}`, &window, session.SessionID)

	var result models.EditResult
	body := fmt.Sprintf(`{"rowIds":["%s","%s"]}`, window.RowData[0].ID, window.RowData[2].ID)
	code := rest.ExecutePost(routes, e.SessionIncrementPathFormat, body, &result, session.SessionID)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, result.Rows, 2)

	gold := map[string]int{}
	for _, row := range result.Rows {
		gold[row.Athlete] = *row.Gold
	}
	assert.Equal(t, map[string]int{"Michael Phelps": 9, "Aleksey Nemov": 3}, gold)

	last := result.Notifications[len(result.Notifications)-1]
	assert.Equal(t, grid.KindSuccess, last.Kind)
	assert.Equal(t, "Gold medals updated successfully", last.Title)
	assert.Equal(t, "Updated 2 row(s) with +1 gold medal", last.Description)
}

func TestDataEndpoint_IncrementEmptySelection(t *testing.T) {
	endpoint := createEndpoint(t, createConfig())
	routes := endpoint.RoutesRest(rest.Prefix)
	session := openSession(t, routes)

	var modelError models.ModelError
	code := rest.ExecutePost(routes, e.SessionIncrementPathFormat, `{"rowIds":[]}`, &modelError, session.SessionID)
	assert.Equal(t, http.StatusBadRequest, code)
	require.Len(t, modelError.Notifications, 1)
	assert.Equal(t, grid.KindError, modelError.Notifications[0].Kind)
}

func TestDataEndpoint_SupportedOperations(t *testing.T) {
	endpoint := createEndpoint(t, createConfig().WithSupportedOperations(config.RowUpdate))
	routes := endpoint.RoutesRest(rest.Prefix)

	for _, route := range routes {
		assert.NotEqual(t, rest.Prefix+e.WinnersBatchPathFormat, route.Pattern)
		assert.NotContains(t, route.Pattern, "increment")
	}

	graphQLRoutes, err := endpoint.RoutesGraphQL("/graphql")
	require.NoError(t, err)
	schemas.ExpectQueryToReturnError(graphQLRoutes, olympic.CreateMutation("Ian Thorpe", "Australia", "Swimming"),
		"createOlympicWinner")
}

func TestDataEndpoint_GraphQL(t *testing.T) {
	endpoint := createEndpoint(t, createConfig())
	routes, err := endpoint.RoutesGraphQL("/graphql")
	require.NoError(t, err)

	winners := schemas.DecodeDataAsSliceOfMaps(schemas.ExecutePost(routes, "/graphql", olympic.SelectAllQuery),
		"olympicWinners")
	require.Len(t, winners, 4)
	assert.Equal(t, "Michael Phelps", winners[0]["athlete"])
	assert.Equal(t, float64(8), winners[0]["gold"])

	id := schemas.DecodeData(schemas.ExecutePost(routes, "/graphql",
		olympic.CreateMutation("Ian Thorpe", "Australia", "Swimming")), "createOlympicWinner")
	assert.NotEmpty(t, id)

	applied := schemas.DecodeData(schemas.ExecutePost(routes, "/graphql",
		olympic.UpdateGoldMutation(id.(string), 5)), "updateOlympicWinner")
	assert.Equal(t, true, applied)

	winners = schemas.DecodeDataAsSliceOfMaps(schemas.ExecutePost(routes, "/graphql", olympic.SelectAllQuery),
		"olympicWinners")
	require.Len(t, winners, 5)
	assert.Equal(t, "Ian Thorpe", winners[4]["athlete"])
	assert.Equal(t, float64(5), winners[4]["gold"])
}

func TestDataEndpoint_Metrics(t *testing.T) {
	endpoint := createEndpoint(t, createConfig())
	routes := endpoint.RoutesRest(rest.Prefix)
	session := openSession(t, routes)

	var window models.Rows
	rest.ExecutePost(routes, e.SessionRowsPathFormat, `{"startRow":0,"endRow":2}`, &window, session.SessionID)

	w := httptest.NewRecorder()
	endpoint.Metrics().Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data_api_window_requests_total{outcome="success"} 1`)
	assert.Contains(t, w.Body.String(), "data_api_grid_sessions 1")
}

func TestDataEndpoint_ExistingStoreIsNotSeeded(t *testing.T) {
	RegisterTestingT(t)
	store := db.NewMemoryStore()
	_, err := store.InsertOne(context.Background(), types.RowFields{Athlete: "Ian Thorpe", Country: "Australia", Sport: "Swimming"})
	require.NoError(t, err)

	items, err := db.LoadSeedFile(schemas.SeedFilePath("olympic"))
	require.NoError(t, err)
	inserted, err := db.SeedIfEmpty(context.Background(), store, items, testutil.TestLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	endpoint := createConfig().newEndpointWithStore(store)
	var rows []types.Row
	rest.ExecuteGet(endpoint.RoutesRest(rest.Prefix), e.WinnersPathFormat, &rows)
	assert.Len(t, rows, 1)
}
