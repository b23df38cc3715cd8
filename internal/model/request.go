package model

import "time"

// ItemRequest is a proposed inventory mutation awaiting quartermaster review.
// Status moves from pending to approved or denied exactly once.
type ItemRequest struct {
	ID           int64      `json:"id"`
	RequesterID  int64      `json:"requester_id"`
	RequestType  string     `json:"request_type"`
	ItemName     string     `json:"item_name"`
	Description  string     `json:"description"`
	ItemID       *int64     `json:"item_id,omitempty"`
	Status       string     `json:"status"`
	DenialReason string     `json:"denial_reason,omitempty"`
	CreatedDate  time.Time  `json:"created_date"`
	ReviewedDate *time.Time `json:"reviewed_date,omitempty"`
	ReviewedByID *int64     `json:"reviewed_by_id,omitempty"`

	// Joined fields (not always populated).
	RequesterName  string `json:"requester_name,omitempty"`
	ReviewedByName string `json:"reviewed_by_name,omitempty"`
}

// Request types.
const (
	RequestTypeAdd    = "add_item"
	RequestTypeRemove = "remove_item"
)

// Request statuses.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusDenied   = "denied"
)
