package models

import (
	"github.com/gridkit/olympic-data-apis/grid"
	"github.com/gridkit/olympic-data-apis/types"
)

// CellEdit is a cell value change emitted by the grid
type CellEdit struct {
	RowID string      `json:"rowId"`
	Field string      `json:"field"`
	Value interface{} `json:"value"`

	// The row as displayed when the change was made
	Data *types.Row `json:"data,omitempty"`
}

// CounterIncrement adds Delta to Field of the selected rows
type CounterIncrement struct {
	RowIDs []string `json:"rowIds"`
	Field  string   `json:"field,omitempty" validate:"omitempty,oneof=gold silver bronze total"`
	Delta  *int     `json:"delta,omitempty"`
}

// EditResult is the outcome of a successful edit
type EditResult struct {
	Rows          []types.Row         `json:"rows"`
	Transactions  []types.Transaction `json:"transactions"`
	Notifications []grid.Notification `json:"notifications"`
}
