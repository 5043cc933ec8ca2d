package grid

import (
	"context"

	"github.com/gridkit/olympic-data-apis/types"
)

// RowLister reads the whole backing collection
type RowLister interface {
	ListAll(ctx context.Context) ([]types.Row, error)
}

// Snapshot is a frozen copy of the collection, loaded once per grid session
type Snapshot struct {
	rows []types.Row
}

func NewSnapshot(rows []types.Row) *Snapshot {
	copied := make([]types.Row, len(rows))
	for i, row := range rows {
		copied[i] = row.Clone()
	}
	return &Snapshot{rows: copied}
}

// LoadSnapshot lists the collection and freezes the result
func LoadSnapshot(ctx context.Context, lister RowLister) (*Snapshot, error) {
	rows, err := lister.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(rows), nil
}

func (s *Snapshot) Len() int {
	return len(s.rows)
}

// Slice returns copies of the rows in [start, end), clamped to the snapshot bounds
func (s *Snapshot) Slice(start, end int) []types.Row {
	if start > len(s.rows) {
		start = len(s.rows)
	}
	if end > len(s.rows) {
		end = len(s.rows)
	}

	rows := make([]types.Row, 0, end-start)
	for _, row := range s.rows[start:end] {
		rows = append(rows, row.Clone())
	}
	return rows
}
