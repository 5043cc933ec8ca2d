package models

// Session describes an open grid session and its loading progress
type Session struct {
	SessionID      string `json:"sessionId"`
	RowCount       int    `json:"rowCount"`
	LoadedRowCount int    `json:"loadedRowCount"`
}
