package model

import "time"

// Category is a named grouping for items, managed by the quartermaster.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	CreatedByID int64     `json:"created_by_id"`
	CreatedDate time.Time `json:"created_date"`

	// Joined field (not always populated).
	CreatedBy string `json:"created_by,omitempty"`
}
