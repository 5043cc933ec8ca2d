package db

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	e "github.com/gridkit/olympic-data-apis/errors"
	"github.com/gridkit/olympic-data-apis/types"
)

// MemoryStore keeps the collection in process memory, in insertion order
type MemoryStore struct {
	mu    sync.RWMutex
	rows  []types.Row
	index map[string]int
	now   func() time.Time
	newID func() string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index: make(map[string]int),
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]types.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]types.Row, len(s.rows))
	for i, row := range s.rows {
		rows[i] = row.Clone()
	}
	return rows, nil
}

func (s *MemoryStore) InsertOne(ctx context.Context, fields types.RowFields) (string, error) {
	if err := types.ValidateRowFields(fields); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(fields), nil
}

func (s *MemoryStore) insert(fields types.RowFields) string {
	id := s.newID()
	row := types.NewRow(id, s.now().UnixNano()/int64(time.Millisecond), fields)
	s.index[id] = len(s.rows)
	s.rows = append(s.rows, row)
	return id
}

func (s *MemoryStore) InsertMany(ctx context.Context, items []types.RowFields) error {
	if err := validateBatch(items); err != nil {
		return err
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.mu.Lock()
		s.insert(item)
		s.mu.Unlock()
	}
	return nil
}

func (s *MemoryStore) Patch(ctx context.Context, id string, patch types.RowPatch) error {
	if err := types.ValidateRowPatch(patch); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return e.NewNotFoundError(notFoundMessage)
	}
	s.rows[i] = s.rows[i].Apply(patch)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
