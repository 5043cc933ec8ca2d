package endpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"

	e "github.com/gridkit/olympic-data-apis/errors"
	"github.com/gridkit/olympic-data-apis/grid"
	"github.com/gridkit/olympic-data-apis/metrics"
	m "github.com/gridkit/olympic-data-apis/rest/models"
	"github.com/gridkit/olympic-data-apis/types"
)

func (s *routeList) ListWinners(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.ListAll(r.Context())
	if err != nil {
		s.logger.Error("unable to list winners", "error", err)
		RespondWithError(w, errors.New("unable to list winners"), http.StatusInternalServerError)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, rows)
}

func (s *routeList) AddWinner(w http.ResponseWriter, r *http.Request) {
	var fields types.RowFields
	if err := parseAndValidatePayload(&fields, r); err != nil {
		RespondWithError(w, err, http.StatusBadRequest)
		return
	}

	id, err := s.store.InsertOne(r.Context(), fields)
	s.metrics.RecordEdit(metrics.EditInsert, err == nil)
	if err != nil {
		s.logger.Error("unable to insert winner", "error", err)
		RespondWithError(w, err, statusCode(err))
		return
	}

	RespondJSONObjectWithCode(w, http.StatusCreated, types.ModificationResult{Applied: true, ID: id})
}

func (s *routeList) AddWinners(w http.ResponseWriter, r *http.Request) {
	var items []types.RowFields
	if err := parseAndValidatePayload(&items, r); err != nil {
		RespondWithError(w, err, http.StatusBadRequest)
		return
	}

	err := s.store.InsertMany(r.Context(), items)
	s.metrics.RecordEdit(metrics.EditInsert, err == nil)
	if err != nil {
		s.logger.Error("unable to insert winners", "count", len(items), "error", err)
		RespondWithError(w, err, statusCode(err))
		return
	}

	RespondJSONObjectWithCode(w, http.StatusCreated, types.ModificationResult{Applied: true})
}

func (s *routeList) PatchWinner(w http.ResponseWriter, r *http.Request) {
	id := s.params(r, rowIdParam)

	var patch types.RowPatch
	if err := parseAndValidatePayload(&patch, r); err != nil {
		RespondWithError(w, err, http.StatusBadRequest)
		return
	}

	err := s.store.Patch(r.Context(), id, patch)
	s.metrics.RecordEdit(metrics.EditPatch, err == nil)
	if err != nil {
		s.logger.Debug("unable to patch winner", "id", id, "error", err)
		RespondWithError(w, err, statusCode(err))
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, types.ModificationResult{Applied: true, ID: id})
}

func (s *routeList) OpenSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessions.Open(r.Context())
	if err != nil {
		RespondWithError(w, errors.New("unable to load grid data"), http.StatusInternalServerError,
			grid.ApplicationError(e.Message(err)))
		return
	}

	RespondJSONObjectWithCode(w, http.StatusCreated, sessionModel(session))
}

func (s *routeList) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, sessionModel(session))
}

func (s *routeList) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Close(s.params(r, sessionIdParam)); err != nil {
		RespondWithError(w, err, statusCode(err))
		return
	}

	RespondJSONObjectWithCode(w, http.StatusNoContent, nil)
}

func (s *routeList) GetRows(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	var request types.WindowRequest
	if err := parseAndValidatePayload(&request, r); err != nil {
		RespondWithError(w, err, http.StatusBadRequest)
		return
	}

	switch result := session.Rows(r.Context(), request).(type) {
	case grid.WindowSuccess:
		RespondJSONObjectWithCode(w, http.StatusOK, m.Rows{RowData: result.RowData, RowCount: result.RowCount})
	case grid.WindowFailure:
		RespondWithError(w, fmt.Errorf("unable to serve rows: %s", result.Reason), http.StatusInternalServerError)
	}
}

func (s *routeList) GetSessionRow(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	row, found := session.RowModel.Get(s.params(r, rowIdParam))
	if !found {
		RespondWithError(w, errors.New("row not loaded in grid session"), http.StatusNotFound)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, row)
}

func (s *routeList) EditCell(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	var edit m.CellEdit
	if err := parseAndValidatePayload(&edit, r); err != nil {
		RespondWithError(w, err, http.StatusBadRequest)
		return
	}

	event := grid.CellValueChangedEvent{Field: edit.Field, NewValue: edit.Value}
	if edit.RowID != "" {
		row := types.Row{ID: edit.RowID}
		if edit.Data != nil {
			row = edit.Data.Clone()
			row.ID = edit.RowID
		} else if loaded, found := session.RowModel.Get(edit.RowID); found {
			row = loaded
		}
		event.Row = &row
	}

	recorder := grid.NewNotificationRecorder()
	result, err := session.Coordinator.OnCellValueChanged(r.Context(), event, s.notifier(recorder))
	s.respondEdit(w, result, err, recorder)
}

func (s *routeList) IncrementCounter(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	var increment m.CounterIncrement
	if err := parseAndValidatePayload(&increment, r); err != nil {
		RespondWithError(w, err, http.StatusBadRequest)
		return
	}

	field := increment.Field
	if field == "" {
		field = types.FieldGold
	}
	delta := 1
	if increment.Delta != nil {
		delta = *increment.Delta
	}

	// The selection is a set of rows the grid has received
	rows := make([]types.Row, 0, len(increment.RowIDs))
	selected := make(map[string]bool, len(increment.RowIDs))
	for _, id := range increment.RowIDs {
		if selected[id] {
			continue
		}
		selected[id] = true
		row, found := session.RowModel.Get(id)
		if !found {
			RespondWithError(w, fmt.Errorf("row %s not loaded in grid session", id), http.StatusNotFound)
			return
		}
		rows = append(rows, row)
	}

	recorder := grid.NewNotificationRecorder()
	result, err := session.Coordinator.IncrementCounterForSelection(r.Context(), rows, field, delta, s.notifier(recorder))
	s.respondEdit(w, result, err, recorder)
}

func (s *routeList) respondEdit(
	w http.ResponseWriter,
	result *grid.EditResult,
	err error,
	recorder *grid.NotificationRecorder,
) {
	if err != nil {
		RespondWithError(w, err, statusCode(err), recorder.Notifications()...)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, m.EditResult{
		Rows:          result.Rows,
		Transactions:  result.Transactions,
		Notifications: recorder.Notifications(),
	})
}

func (s *routeList) notifier(recorder *grid.NotificationRecorder) grid.Notifier {
	return grid.MultiNotifier{grid.NewLogNotifier(s.logger), recorder}
}

func (s *routeList) session(w http.ResponseWriter, r *http.Request) (*grid.Session, bool) {
	session, err := s.sessions.Get(s.params(r, sessionIdParam))
	if err != nil {
		RespondWithError(w, err, statusCode(err))
		return nil, false
	}
	return session, true
}

func sessionModel(session *grid.Session) m.Session {
	return m.Session{
		SessionID:      session.ID,
		RowCount:       session.Datasource.RowCount(),
		LoadedRowCount: session.Datasource.LoadedRowCount(),
	}
}

func statusCode(err error) int {
	var bulkErr *e.BulkEditError
	switch {
	case errors.As(err, &bulkErr):
		return http.StatusInternalServerError
	case e.IsValidation(err), e.IsInvalidEvent(err), e.IsEmptySelection(err):
		return http.StatusBadRequest
	case e.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func parseAndValidatePayload(obj interface{}, r *http.Request) error {
	if err := json.NewDecoder(r.Body).Decode(obj); err != nil {
		if err == io.EOF {
			return e.NewValidationError("request body is required")
		}
		return e.NewValidationError(fmt.Sprintf("unable to parse payload: %s", err))
	}

	if reflect.Indirect(reflect.ValueOf(obj)).Kind() == reflect.Struct {
		return types.Validate(obj)
	}

	return nil
}
