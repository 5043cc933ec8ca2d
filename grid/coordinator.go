package grid

import (
	"context"
	"fmt"
	"sort"
	"sync"

	e "github.com/gridkit/olympic-data-apis/errors"
	"github.com/gridkit/olympic-data-apis/log"
	"github.com/gridkit/olympic-data-apis/metrics"
	"github.com/gridkit/olympic-data-apis/types"
	"go.uber.org/multierr"
)

// RowPatcher persists partial row updates
type RowPatcher interface {
	Patch(ctx context.Context, id string, patch types.RowPatch) error
}

// CellValueChangedEvent is emitted by the grid after a cell was edited. Row holds the row as
// displayed before the change.
type CellValueChangedEvent struct {
	Row      *types.Row
	Field    string
	NewValue interface{}
}

// EditResult describes a persisted edit
type EditResult struct {
	Rows         []types.Row         `json:"rows"`
	Transactions []types.Transaction `json:"transactions"`
}

// EditCoordinator persists edits to the store, then reconciles the grid row model
type EditCoordinator struct {
	store   RowPatcher
	sink    TransactionSink
	logger  log.Logger
	metrics *metrics.Metrics
}

func NewEditCoordinator(store RowPatcher, sink TransactionSink, logger log.Logger, m *metrics.Metrics) *EditCoordinator {
	return &EditCoordinator{
		store:   store,
		sink:    sink,
		logger:  logger,
		metrics: m,
	}
}

// OnCellValueChanged validates a grid change event before editing the cell
func (c *EditCoordinator) OnCellValueChanged(
	ctx context.Context,
	event CellValueChangedEvent,
	notifier Notifier,
) (result *EditResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("error processing cell value change", "error", r)
			notifier.Notify(CellChangeFailed())
			result, err = nil, e.NewInternalError("Failed to process cell value change")
		}
	}()

	if event.Row == nil || event.Row.ID == "" || event.Field == "" {
		c.logger.Error("invalid cell value change event", "field", event.Field)
		notifier.Notify(InvalidCellData())
		return nil, e.NewInvalidEventError("cell value change event without row identifier or field")
	}

	return c.EditSingleCell(ctx, *event.Row, event.Field, event.NewValue, notifier)
}

// EditSingleCell persists a single field of a row. Text that parses as a number is stored as a number.
func (c *EditCoordinator) EditSingleCell(
	ctx context.Context,
	row types.Row,
	field string,
	value interface{},
	notifier Notifier,
) (*EditResult, error) {
	notifier.Notify(CellUpdateLoading(field, row.Athlete))

	value = types.CoerceCellValue(value)
	patch, err := types.NewRowPatch(field, value)
	if err == nil {
		err = c.store.Patch(ctx, row.ID, patch)
	}

	c.metrics.RecordEdit(metrics.EditCell, err == nil)
	if err != nil {
		c.logger.Error("error updating cell value", "id", row.ID, "field", field, "error", err)
		notifier.Notify(CellUpdateError(field, row.Athlete, e.Message(err)))
		return nil, err
	}

	updated := row.Apply(patch)
	transaction := types.Transaction{Update: []types.Row{updated}}
	c.sink.ApplyTransaction(transaction)
	notifier.Notify(CellUpdateSuccess(field, value, row.Athlete))

	return &EditResult{
		Rows:         []types.Row{updated},
		Transactions: []types.Transaction{transaction},
	}, nil
}

// IncrementCounterForSelection adds delta to a counter of every selected row. All patches are
// issued concurrently and awaited together. The edit is reported as failed when any patch
// fails; patches that succeeded stay persisted and are listed in the returned BulkEditError.
func (c *EditCoordinator) IncrementCounterForSelection(
	ctx context.Context,
	rows []types.Row,
	field string,
	delta int,
	notifier Notifier,
) (*EditResult, error) {
	if len(rows) == 0 {
		c.metrics.RecordEdit(metrics.EditIncrement, false)
		notifier.Notify(NoRowsSelected())
		return nil, e.NewEmptySelectionError()
	}

	c.metrics.RecordBulkEditSize(len(rows))

	// Every patch is built before the first one is sent
	patches := make([]types.RowPatch, len(rows))
	selected := make(map[string]bool, len(rows))
	for i, row := range rows {
		var err error
		if row.ID == "" {
			err = e.NewInvalidEventError("Invalid row data")
		} else if selected[row.ID] {
			err = e.NewValidationError(fmt.Sprintf("row %s is selected more than once", row.ID))
		} else {
			selected[row.ID] = true
			patches[i], err = types.NewCounterPatch(field, row.Counter(field)+delta)
		}
		if err != nil {
			c.metrics.RecordEdit(metrics.EditIncrement, false)
			c.logger.Error("error preparing counter update", "field", field, "error", err)
			notifier.Notify(CounterUpdateError(field))
			return nil, err
		}
	}

	notifier.Notify(CounterUpdateLoading(field, len(rows)))

	outcomes := make([]error, len(rows))
	var wg sync.WaitGroup
	for i := range rows {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = c.store.Patch(ctx, rows[i].ID, patches[i])
		}(i)
	}
	wg.Wait()

	var (
		cause     error
		persisted = make([]string, 0, len(rows))
		failed    = make(map[string]error)
	)
	for i, outcome := range outcomes {
		id := rows[i].ID
		if outcome != nil {
			failed[id] = outcome
			cause = multierr.Append(cause, fmt.Errorf("%s: %w", id, outcome))
		} else {
			persisted = append(persisted, id)
		}
	}

	c.metrics.RecordEdit(metrics.EditIncrement, cause == nil)
	if cause != nil {
		sort.Strings(persisted)
		c.logger.Error("error updating counters of selected rows",
			"field", field, "failed", len(failed), "persisted", len(persisted), "error", cause)
		notifier.Notify(CounterUpdateError(field))
		return nil, &e.BulkEditError{Persisted: persisted, Failed: failed, Cause: cause}
	}

	result := &EditResult{
		Rows:         make([]types.Row, 0, len(rows)),
		Transactions: make([]types.Transaction, 0, len(rows)),
	}
	for i, row := range rows {
		updated := row.Apply(patches[i])
		transaction := types.Transaction{Update: []types.Row{updated}}
		c.sink.ApplyTransaction(transaction)
		result.Rows = append(result.Rows, updated)
		result.Transactions = append(result.Transactions, transaction)
	}
	notifier.Notify(CounterUpdateSuccess(field, len(rows), delta))

	return result, nil
}
