package model

// Stats summarizes the inventory.
type Stats struct {
	TotalItems int            `json:"total_items"`
	CheckedOut int            `json:"checked_out"`
	Available  int            `json:"available"`
	Categories map[string]int `json:"categories"`
}
