package db

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"io"
	"time"

	e "github.com/gridkit/olympic-data-apis/errors"
	"github.com/gridkit/olympic-data-apis/types"
	"github.com/oklog/ulid/v2"
	bolt "go.etcd.io/bbolt"
)

var winnersBucket = []byte(CollectionName)

// BoltStore persists the collection in a single bbolt bucket. Keys are ULIDs so that cursor
// order is insertion order.
type BoltStore struct {
	db  *bolt.DB
	now func() time.Time
	// guarded by the bbolt writer lock, only used inside update transactions
	entropy io.Reader
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(winnersBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltStore{
		db:      db,
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

func (s *BoltStore) ListAll(ctx context.Context) ([]types.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := make([]types.Row, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(winnersBucket).ForEach(func(k, v []byte) error {
			var row types.Row
			if err := json.Unmarshal(v, &row); err != nil {
				return err
			}
			rows = append(rows, row)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *BoltStore) InsertOne(ctx context.Context, fields types.RowFields) (string, error) {
	if err := types.ValidateRowFields(fields); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var id string
	err := s.db.Update(func(tx *bolt.Tx) error {
		var err error
		id, err = s.insert(tx, fields)
		return err
	})
	return id, err
}

func (s *BoltStore) insert(tx *bolt.Tx, fields types.RowFields) (string, error) {
	now := s.now()
	id, err := ulid.New(ulid.Timestamp(now), s.entropy)
	if err != nil {
		return "", err
	}

	row := types.NewRow(id.String(), now.UnixNano()/int64(time.Millisecond), fields)
	value, err := json.Marshal(row)
	if err != nil {
		return "", err
	}
	return row.ID, tx.Bucket(winnersBucket).Put([]byte(row.ID), value)
}

func (s *BoltStore) InsertMany(ctx context.Context, items []types.RowFields) error {
	if err := validateBatch(items); err != nil {
		return err
	}

	// One transaction per item, earlier items stay committed when a later one fails
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := s.db.Update(func(tx *bolt.Tx) error {
			_, err := s.insert(tx, item)
			return err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *BoltStore) Patch(ctx context.Context, id string, patch types.RowPatch) error {
	if err := types.ValidateRowPatch(patch); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(winnersBucket)
		value := bucket.Get([]byte(id))
		if value == nil {
			return e.NewNotFoundError(notFoundMessage)
		}

		var row types.Row
		if err := json.Unmarshal(value, &row); err != nil {
			return err
		}

		updated, err := json.Marshal(row.Apply(patch))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(id), updated)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
