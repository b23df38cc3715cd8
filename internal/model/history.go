package model

import "time"

// HistoryEntry is an immutable audit record of a checkout or checkin.
// Entries are only ever removed as a cascade of item deletion.
type HistoryEntry struct {
	ID         int64     `json:"id"`
	ItemID     int64     `json:"item_id"`
	Action     string    `json:"action"`
	PersonName string    `json:"person_name"`
	Timestamp  time.Time `json:"timestamp"`
	Notes      string    `json:"notes,omitempty"`
}

// History actions.
const (
	ActionCheckout = "checkout"
	ActionCheckin  = "checkin"
)
