package model

import "time"

// Item represents a tracked asset. Each item is either available or checked
// out to a single named person.
type Item struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	Category        string     `json:"category,omitempty"`
	Barcode         string     `json:"barcode,omitempty"`
	SerialNumber    string     `json:"serial_number,omitempty"`
	StorageLocation string     `json:"storage_location,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	ImageURL        string     `json:"image_url,omitempty"`
	ImageMime       string     `json:"image_mime,omitempty"`
	IsCheckedOut    bool       `json:"is_checked_out"`
	CheckedOutBy    *string    `json:"checked_out_by,omitempty"`
	CheckedOutDate  *time.Time `json:"checked_out_date,omitempty"`
	CreatedDate     time.Time  `json:"created_date"`
	LastModified    time.Time  `json:"last_modified_date"`
}

// ItemFields holds the caller-settable attributes for item creation.
// Checkout state is never set here; new items start available.
type ItemFields struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	Barcode         string `json:"barcode"`
	SerialNumber    string `json:"serial_number"`
	StorageLocation string `json:"storage_location"`
	ImageURL        string `json:"image_url"`
	Notes           string `json:"notes"`
}

// ItemUpdate is a partial update. Nil fields are left untouched.
type ItemUpdate struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	Category        *string `json:"category"`
	Barcode         *string `json:"barcode"`
	SerialNumber    *string `json:"serial_number"`
	StorageLocation *string `json:"storage_location"`
	ImageURL        *string `json:"image_url"`
	Notes           *string `json:"notes"`
}

// Empty reports whether the update would change nothing.
func (u ItemUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Category == nil &&
		u.Barcode == nil && u.SerialNumber == nil && u.StorageLocation == nil &&
		u.ImageURL == nil && u.Notes == nil
}
