// types package contains the public API types
// that are shared between both REST and GraphQL
package types

import "net/http"

// WindowRequest is a contiguous [StartRow, EndRow) range over a loaded snapshot.
type WindowRequest struct {
	StartRow int `json:"startRow" validate:"gte=0"`
	EndRow   int `json:"endRow" validate:"gtefield=StartRow"`
}

// ModificationResult describes the outcome of a store mutation
type ModificationResult struct {
	Applied bool   `json:"applied"`
	ID      string `json:"id,omitempty"`
}

// Transaction carries rows to patch in place in an already rendered row model.
type Transaction struct {
	Update []Row `json:"update"`
}

// Route represents a request route to be served
type Route struct {
	Method  string
	Pattern string
	Handler http.Handler
}
