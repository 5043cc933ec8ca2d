package errors

import (
	"fmt"
	"sort"
	"strings"
)

// InvalidEventError is raised for a cell change event that lacks the row identifier or the field.
type InvalidEventError struct {
	msg string
}

func (e *InvalidEventError) Error() string {
	return e.msg
}

func NewInvalidEventError(text string) error {
	return &InvalidEventError{text}
}

// EmptySelectionError is raised by bulk edits invoked without any selected row.
type EmptySelectionError struct{}

func (e *EmptySelectionError) Error() string {
	return "no rows selected"
}

func NewEmptySelectionError() error {
	return &EmptySelectionError{}
}

// BulkEditError reports the rows of a bulk edit that could not be persisted. Rows listed
// in Persisted were written before the failure was observed and are not reverted.
type BulkEditError struct {
	Persisted []string
	Failed    map[string]error
	Cause     error
}

func (e *BulkEditError) Error() string {
	ids := make([]string, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return fmt.Sprintf("failed to update %d of %d row(s) [%s]: %s",
		len(e.Failed), len(e.Failed)+len(e.Persisted), strings.Join(ids, ", "), e.Cause)
}

func (e *BulkEditError) Unwrap() error {
	return e.Cause
}
