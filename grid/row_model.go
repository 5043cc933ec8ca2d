package grid

import (
	"sync"

	"github.com/gridkit/olympic-data-apis/types"
)

// TransactionSink applies in place updates to rows that were already delivered to the grid
type TransactionSink interface {
	ApplyTransaction(transaction types.Transaction)
}

// RowID is the row identity used to match transactions to delivered rows
func RowID(row types.Row) string {
	return row.ID
}

// RowModel mirrors the rows the grid has received. Transactions only touch rows it already holds.
type RowModel struct {
	mu   sync.RWMutex
	rows map[string]types.Row
}

func NewRowModel() *RowModel {
	return &RowModel{rows: make(map[string]types.Row)}
}

// Load records the rows of a successful window
func (m *RowModel) Load(rows []types.Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range rows {
		m.rows[RowID(row)] = row.Clone()
	}
}

func (m *RowModel) ApplyTransaction(transaction types.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range transaction.Update {
		id := RowID(row)
		if _, ok := m.rows[id]; ok {
			m.rows[id] = row.Clone()
		}
	}
}

// Get returns the delivered version of a row
func (m *RowModel) Get(id string) (types.Row, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.rows[id]
	if !ok {
		return types.Row{}, false
	}
	return row.Clone(), true
}

func (m *RowModel) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}
