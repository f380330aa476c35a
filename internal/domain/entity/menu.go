// Package entity contains the core business objects of the project.
package entity

import "time"

// Category is reference data for grouping menu items.
type Category struct {
	ID          string    `json:"id"`          // Server-assigned document ID.
	Name        string    `json:"name"`        // Non-empty display name.
	Description string    `json:"description"` // Optional description.
	CreatedAt   time.Time `json:"createdAt"`   // Timestamp of creation.
	UpdatedAt   time.Time `json:"updatedAt"`   // Timestamp of last modification.
}

// MenuItem is a sellable dish. The editing UI currently writes a single
// category per item, but persisted records may carry any number of
// categories and readers must tolerate that.
type MenuItem struct {
	ID          string   `json:"id"`          // Server-assigned document ID.
	Name        string   `json:"name"`        // Display name.
	Description string   `json:"description"` // Free-form description.
	Price       float64  `json:"price"`       // Unit price, >= 0.
	Image       string   `json:"image"`       // Optional image reference.
	Categories  []string `json:"categories"`  // Category IDs; any length.
	IsAvailable bool     `json:"isAvailable"` // Defaults to true when absent from the record.
}
