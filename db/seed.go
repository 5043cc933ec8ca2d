package db

import (
	"context"
	"io/ioutil"

	"github.com/gridkit/olympic-data-apis/log"
	"github.com/gridkit/olympic-data-apis/types"
	"gopkg.in/yaml.v2"
)

// LoadSeedFile reads a list of rows to insert. JSON is valid YAML so both formats are accepted.
func LoadSeedFile(path string) ([]types.RowFields, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) ([]types.RowFields, error) {
	var items []types.RowFields
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SeedIfEmpty bulk inserts the items when the store holds no rows, returning the number of
// rows inserted.
func SeedIfEmpty(ctx context.Context, store Store, items []types.RowFields, logger log.Logger) (int, error) {
	rows, err := store.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	if len(rows) > 0 {
		logger.Debug("store already populated, skipping seed", "rows", len(rows))
		return 0, nil
	}

	if err := store.InsertMany(ctx, items); err != nil {
		return 0, err
	}

	logger.Info("seeded store", "rows", len(items))
	return len(items), nil
}
