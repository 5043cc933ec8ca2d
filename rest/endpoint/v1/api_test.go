package endpoint

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gridkit/olympic-data-apis/config"
	"github.com/gridkit/olympic-data-apis/db"
	"github.com/gridkit/olympic-data-apis/grid"
	"github.com/gridkit/olympic-data-apis/internal/testutil"
	"github.com/gridkit/olympic-data-apis/internal/testutil/rest"
	m "github.com/gridkit/olympic-data-apis/rest/models"
	"github.com/gridkit/olympic-data-apis/types"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store  *db.MemoryStore
	routes []types.Route
}

func newFixture(t *testing.T, operations config.EditOperations, items ...types.RowFields) *fixture {
	RegisterTestingT(t)
	store := db.NewMemoryStore()
	if len(items) > 0 {
		require.NoError(t, store.InsertMany(context.Background(), items))
	}

	cfg := config.NewConfigMock()
	cfg.On("Logger").Return(testutil.TestLogger())
	cfg.On("SupportedOperations").Return(operations)

	sessions := grid.NewSessionManager(store, 0, testutil.TestLogger(), nil)
	return &fixture{
		store:  store,
		routes: Routes(rest.Prefix, cfg, store, sessions, nil),
	}
}

func winner(athlete string, gold *int) types.RowFields {
	return types.RowFields{Athlete: athlete, Age: 24, Country: "United States", Sport: "Swimming", Gold: gold}
}

func (f *fixture) openSession(t *testing.T) m.Session {
	var session m.Session
	code := rest.ExecutePost(f.routes, SessionsPathFormat, "{}", &session)
	require.Equal(t, http.StatusCreated, code)
	return session
}

func (f *fixture) loadRows(t *testing.T, sessionID string, start, end int) m.Rows {
	var rows m.Rows
	code := rest.ExecutePost(f.routes, SessionRowsPathFormat,
		fmt.Sprintf(`{"startRow": %d, "endRow": %d}`, start, end), &rows, sessionID)
	require.Equal(t, http.StatusOK, code)
	return rows
}

func TestRoutes_SupportedOperations(t *testing.T) {
	items := []struct {
		operations config.EditOperations
		count      int
	}{
		{0, 6},
		{config.RowInsert, 8},
		{config.RowUpdate, 8},
		{config.RowIncrement, 7},
		{config.AllEditOperations, 11},
	}

	for _, item := range items {
		f := newFixture(t, item.operations)
		assert.Len(t, f.routes, item.count)
	}
}

func TestInsertAndList(t *testing.T) {
	f := newFixture(t, config.AllEditOperations)

	var result types.ModificationResult
	code := rest.ExecutePost(f.routes, WinnersPathFormat,
		`{"athlete": "Michael Phelps", "age": 23, "country": "United States", "sport": "Swimming", "gold": 8}`, &result)
	assert.Equal(t, http.StatusCreated, code)
	assert.True(t, result.Applied)
	assert.NotEmpty(t, result.ID)

	var rows []map[string]interface{}
	code = rest.ExecuteGet(f.routes, WinnersPathFormat, &rows)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, rows, 1)
	assert.Equal(t, result.ID, rows[0]["_id"])
	assert.Equal(t, "Michael Phelps", rows[0]["athlete"])
	assert.Equal(t, float64(8), rows[0]["gold"])
	assert.NotContains(t, rows[0], "silver")
	assert.NotContains(t, rows[0], "year")
}

func TestInsertValidation(t *testing.T) {
	f := newFixture(t, config.AllEditOperations)

	var modelError m.ModelError
	code := rest.ExecutePost(f.routes, WinnersPathFormat, `{"athlete": "A", "country": "B"}`, &modelError)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "sport is a required field", modelError.Description)

	code = rest.ExecutePost(f.routes, WinnersBatchPathFormat,
		`[{"athlete": "A", "country": "B", "sport": "C"}, {"country": "B", "sport": "C"}]`, &modelError)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, modelError.Description, "athlete is a required field")

	rows, _ := f.store.ListAll(context.Background())
	assert.Empty(t, rows)
}

func TestBatchInsert(t *testing.T) {
	f := newFixture(t, config.AllEditOperations)

	var result types.ModificationResult
	code := rest.ExecutePost(f.routes, WinnersBatchPathFormat,
		`[{"athlete": "A", "country": "B", "sport": "C"}, {"athlete": "D", "country": "E", "sport": "F"}]`, &result)
	assert.Equal(t, http.StatusCreated, code)

	rows, _ := f.store.ListAll(context.Background())
	assert.Len(t, rows, 2)
}

func TestPatchWinner(t *testing.T) {
	f := newFixture(t, config.AllEditOperations, winner("A", nil))
	rows, _ := f.store.ListAll(context.Background())

	var result types.ModificationResult
	code := rest.ExecutePatch(f.routes, WinnerSinglePathFormat, `{"bronze": 2}`, &result, rows[0].ID)
	assert.Equal(t, http.StatusOK, code)

	rows, _ = f.store.ListAll(context.Background())
	assert.Equal(t, 2, rows[0].Counter(types.FieldBronze))

	var modelError m.ModelError
	code = rest.ExecutePatch(f.routes, WinnerSinglePathFormat, `{"bronze": 2}`, &modelError, "unknown")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not found", modelError.Description)
}

func TestSessionRows(t *testing.T) {
	f := newFixture(t, config.AllEditOperations, winner("A", nil), winner("B", nil), winner("C", nil))
	session := f.openSession(t)
	assert.Equal(t, 3, session.RowCount)
	assert.Equal(t, 0, session.LoadedRowCount)

	rows := f.loadRows(t, session.SessionID, 1, 10)
	assert.Equal(t, 3, rows.RowCount)
	require.Len(t, rows.RowData, 2)
	assert.Equal(t, "B", rows.RowData[0].Athlete)

	var progress m.Session
	rest.ExecuteGet(f.routes, SessionSinglePathFormat, &progress, session.SessionID)
	assert.Equal(t, 10, progress.LoadedRowCount)

	var row types.Row
	code := rest.ExecuteGet(f.routes, SessionRowSinglePathFormat, &row, session.SessionID, rows.RowData[1].ID)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "C", row.Athlete)

	var modelError m.ModelError
	code = rest.ExecutePost(f.routes, SessionRowsPathFormat, `{"startRow": 5, "endRow": 1}`, &modelError,
		session.SessionID)
	assert.Equal(t, http.StatusBadRequest, code)

	assert.Equal(t, http.StatusNoContent, rest.ExecuteDelete(f.routes, SessionSinglePathFormat, session.SessionID))
	assert.Equal(t, http.StatusNotFound, rest.ExecuteDelete(f.routes, SessionSinglePathFormat, session.SessionID))
}

func TestEditCell(t *testing.T) {
	f := newFixture(t, config.AllEditOperations, winner("Michael Phelps", types.IntPtr(1)))
	session := f.openSession(t)
	rows := f.loadRows(t, session.SessionID, 0, 10)
	id := rows.RowData[0].ID

	var result m.EditResult
	code := rest.ExecutePut(f.routes, SessionCellsPathFormat,
		fmt.Sprintf(`{"rowId": "%s", "field": "gold", "value": "5"}`, id), &result, session.SessionID)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, 5, result.Transactions[0].Update[0].Counter(types.FieldGold))
	assert.Equal(t, grid.CellUpdateSuccess("gold", float64(5), "Michael Phelps"),
		result.Notifications[len(result.Notifications)-1])

	stored, _ := f.store.ListAll(context.Background())
	assert.Equal(t, 5, stored[0].Counter(types.FieldGold))

	var row types.Row
	rest.ExecuteGet(f.routes, SessionRowSinglePathFormat, &row, session.SessionID, id)
	assert.Equal(t, 5, row.Counter(types.FieldGold))
}

func TestEditCellErrors(t *testing.T) {
	f := newFixture(t, config.AllEditOperations, winner("Michael Phelps", types.IntPtr(1)))
	session := f.openSession(t)

	var modelError m.ModelError
	code := rest.ExecutePut(f.routes, SessionCellsPathFormat, `{"field": "gold", "value": 2}`, &modelError,
		session.SessionID)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []grid.Notification{grid.InvalidCellData()}, modelError.Notifications)

	code = rest.ExecutePut(f.routes, SessionCellsPathFormat,
		`{"rowId": "missing", "field": "gold", "value": 2, "data": {"athlete": "Ghost"}}`, &modelError,
		session.SessionID)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, grid.CellUpdateError("gold", "Ghost", "Not found"),
		modelError.Notifications[len(modelError.Notifications)-1])
}

func TestIncrementCounter(t *testing.T) {
	f := newFixture(t, config.AllEditOperations, winner("A", nil), winner("B", nil), winner("C", nil))
	session := f.openSession(t)
	rows := f.loadRows(t, session.SessionID, 0, 3)

	body := fmt.Sprintf(`{"rowIds": ["%s", "%s", "%s"]}`, rows.RowData[0].ID, rows.RowData[1].ID, rows.RowData[2].ID)
	var result m.EditResult
	code := rest.ExecutePost(f.routes, SessionIncrementPathFormat, body, &result, session.SessionID)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, result.Transactions, 3)
	assert.Equal(t, grid.CounterUpdateSuccess("gold", 3, 1), result.Notifications[len(result.Notifications)-1])

	stored, _ := f.store.ListAll(context.Background())
	for _, row := range stored {
		assert.Equal(t, 1, row.Counter(types.FieldGold))
	}
}

func TestIncrementCounterDuplicateIds(t *testing.T) {
	f := newFixture(t, config.AllEditOperations, winner("A", nil))
	session := f.openSession(t)
	rows := f.loadRows(t, session.SessionID, 0, 1)
	id := rows.RowData[0].ID

	body := fmt.Sprintf(`{"rowIds": ["%s", "%s"]}`, id, id)
	var result m.EditResult
	code := rest.ExecutePost(f.routes, SessionIncrementPathFormat, body, &result, session.SessionID)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, result.Rows, 1)
	assert.Equal(t, grid.CounterUpdateSuccess("gold", 1, 1), result.Notifications[len(result.Notifications)-1])

	stored, _ := f.store.ListAll(context.Background())
	assert.Equal(t, 1, stored[0].Counter(types.FieldGold))
}

func TestIncrementCounterEmptySelection(t *testing.T) {
	f := newFixture(t, config.AllEditOperations, winner("A", nil))
	session := f.openSession(t)

	var modelError m.ModelError
	code := rest.ExecutePost(f.routes, SessionIncrementPathFormat, `{"rowIds": []}`, &modelError, session.SessionID)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []grid.Notification{grid.NoRowsSelected()}, modelError.Notifications)

	code = rest.ExecutePost(f.routes, SessionIncrementPathFormat, `{"rowIds": ["a"], "field": "age"}`, &modelError,
		session.SessionID)
	assert.Equal(t, http.StatusBadRequest, code)
}
