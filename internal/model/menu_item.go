package model

import "time"

// MenuItem is the slice of the menu this service needs to validate and
// price pre-orders.  Menu management lives elsewhere.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name.
//  PriceCents  – unit price in cents.
//  IsAvailable – unavailable items cannot be pre-ordered.
type MenuItem struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	PriceCents  uint32    `json:"price_cents"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
