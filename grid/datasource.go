package grid

import (
	"context"
	"fmt"
	"time"

	"github.com/gridkit/olympic-data-apis/log"
	"github.com/gridkit/olympic-data-apis/metrics"
	"github.com/gridkit/olympic-data-apis/types"
	"go.uber.org/atomic"
)

// DefaultServerDelay is the simulated network latency of every window request
const DefaultServerDelay = 2 * time.Second

// GetRowsParams are the callbacks of an asynchronous window request. Exactly one of them is called.
type GetRowsParams struct {
	Request types.WindowRequest
	Success func(WindowSuccess)
	Fail    func(WindowFailure)
}

// Datasource serves windows of a snapshot as if they were fetched from a paging server
type Datasource struct {
	snapshot *Snapshot
	delay    time.Duration
	loaded   atomic.Int64
	logger   log.Logger
	metrics  *metrics.Metrics
}

func NewDatasource(snapshot *Snapshot, delay time.Duration, logger log.Logger, m *metrics.Metrics) *Datasource {
	return &Datasource{
		snapshot: snapshot,
		delay:    delay,
		logger:   logger,
		metrics:  m,
	}
}

// Response slices the snapshot without delay
func (d *Datasource) Response(request types.WindowRequest) (result WindowResult) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("error in window response", "error", r, "startRow", request.StartRow, "endRow", request.EndRow)
			result = WindowFailure{Reason: fmt.Sprintf("%v", r)}
		}
		switch r := result.(type) {
		case WindowSuccess:
			d.metrics.RecordWindow(true, len(r.RowData))
		case WindowFailure:
			d.metrics.RecordWindow(false, 0)
		}
	}()

	if err := types.Validate(request); err != nil {
		return WindowFailure{Reason: err.Error()}
	}

	rows := d.snapshot.Slice(request.StartRow, request.EndRow)
	d.raiseLoaded(int64(request.EndRow))

	return WindowSuccess{RowData: rows, RowCount: d.snapshot.Len()}
}

// GetRows answers the request after the configured delay. A cancelled context yields a failure.
func (d *Datasource) GetRows(ctx context.Context, request types.WindowRequest) WindowResult {
	if d.delay > 0 {
		timer := time.NewTimer(d.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			d.metrics.RecordWindow(false, 0)
			return WindowFailure{Reason: ctx.Err().Error()}
		}
	}
	return d.Response(request)
}

// GetRowsAsync serves the request in the background and signals the outcome through the
// params callbacks
func (d *Datasource) GetRowsAsync(ctx context.Context, params GetRowsParams) {
	go func() {
		switch result := d.GetRows(ctx, params.Request).(type) {
		case WindowSuccess:
			if params.Success != nil {
				params.Success(result)
			}
		case WindowFailure:
			if params.Fail != nil {
				params.Fail(result)
			}
		}
	}()
}

// LoadedRowCount is the highest end row requested so far
func (d *Datasource) LoadedRowCount() int {
	return int(d.loaded.Load())
}

// RowCount is the total number of rows of the snapshot
func (d *Datasource) RowCount() int {
	return d.snapshot.Len()
}

func (d *Datasource) raiseLoaded(endRow int64) {
	for {
		current := d.loaded.Load()
		if endRow <= current || d.loaded.CAS(current, endRow) {
			return
		}
	}
}
