package db

import (
	"fmt"

	e "github.com/gridkit/olympic-data-apis/errors"
	"github.com/gridkit/olympic-data-apis/types"
)

const notFoundMessage = "Not found"

// validateBatch checks every item of a bulk insert before any of them is written
func validateBatch(items []types.RowFields) error {
	for i, item := range items {
		if err := types.ValidateRowFields(item); err != nil {
			return e.NewValidationError(fmt.Sprintf("item %d: %s", i, err.Error()))
		}
	}
	return nil
}
