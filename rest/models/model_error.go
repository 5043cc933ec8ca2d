package models

import "github.com/gridkit/olympic-data-apis/grid"

// A description of an error state
type ModelError struct {

	// A human readable description of the error state
	Description string `json:"description,omitempty"`

	// The notifications to present to the user
	Notifications []grid.Notification `json:"notifications,omitempty"`
}
