// Package events defines the payloads published on the WebSocket event feed.
package events

// Event type names.
const (
	TypeConnection   = "connection"
	TypeWellIngested = "well:ingested"
	TypeWellDeleted  = "well:deleted"
)

// WellIngested is published after an upload has been stored.
type WellIngested struct {
	WellID      string  `json:"wellId"`
	Name        *string `json:"name"`
	FileURL     string  `json:"fileUrl"`
	CurveCount  int     `json:"curveCount"`
	RowCount    int     `json:"rowCount"`
	DroppedRows int     `json:"droppedRows"`
}

// WellDeleted is published after a well has been removed.
type WellDeleted struct {
	WellID string `json:"wellId"`
}
