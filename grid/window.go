package grid

import "github.com/gridkit/olympic-data-apis/types"

// WindowResult is the outcome of a windowed request, either WindowSuccess or WindowFailure
type WindowResult interface {
	windowResult()
}

// WindowSuccess carries the rows of the requested window and the total row count
type WindowSuccess struct {
	RowData  []types.Row `json:"rowData"`
	RowCount int         `json:"rowCount"`
}

// WindowFailure reports a window that could not be served
type WindowFailure struct {
	Reason string `json:"reason"`
}

func (WindowSuccess) windowResult() {}
func (WindowFailure) windowResult() {}
