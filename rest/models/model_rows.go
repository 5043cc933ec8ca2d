package models

import "github.com/gridkit/olympic-data-apis/types"

// Rows is a window of the grid session snapshot
type Rows struct {
	RowData  []types.Row `json:"rowData"`
	RowCount int         `json:"rowCount"`
}
