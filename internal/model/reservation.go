package model

import (
	"time"

	"github.com/enigma-dining/reservation-backend/internal/policy"
)

// Reservation records one booking for a dining party.  The reservation
// instant lives in a single StartsAt timestamp; date-only and time-only
// views are derived from it at the edges, never stored separately.
//
// Fields:
//  ID              – primary key identifier.
//  CustomerID      – owning customer profile (nullable for walk-in quick
//                    creates that were never linked).
//  CustomerName    – contact snapshot taken at booking time.
//  CustomerEmail   – contact snapshot taken at booking time.
//  CustomerPhone   – contact snapshot taken at booking time.
//  PartySize       – total guests including children, positive.
//  ChildrenCount   – guests up to 8 years old, nil when not stated;
//                    always strictly below PartySize.
//  StartsAt        – the authoritative reservation instant (UTC).
//  Status          – lifecycle state, see policy.Status.
//  SpecialRequests – free text, optional.
//  DietaryNotes    – free text, optional.
//  Occasion        – free text, optional.
//  PreferredZone   – requested seating area, empty when no preference.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Reservation struct {
	ID              uint64        `json:"id"`
	CustomerID      *uint64       `json:"customer_id,omitempty"`
	CustomerName    string        `json:"customer_name"`
	CustomerEmail   string        `json:"customer_email"`
	CustomerPhone   string        `json:"customer_phone"`
	PartySize       int           `json:"party_size"`
	ChildrenCount   *int          `json:"children_count,omitempty"`
	StartsAt        time.Time     `json:"starts_at"`
	Status          policy.Status `json:"status"`
	SpecialRequests string        `json:"special_requests,omitempty"`
	DietaryNotes    string        `json:"dietary_notes,omitempty"`
	Occasion        string        `json:"occasion,omitempty"`
	PreferredZone   string        `json:"preferred_zone,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	// Tables holds the assigned table records in assignment order.  May be
	// empty: a reservation can exist unassigned.
	Tables []Table `json:"tables"`
	// Items holds the pre-ordered menu items.  HasPreOrder is derived from
	// this list and never persisted on its own.
	Items []ReservationItem `json:"items,omitempty"`
}

// StartInstant implements policy.Groupable.
func (r *Reservation) StartInstant() time.Time { return r.StartsAt }

// HasPreOrder reports whether any menu items were attached in advance.
func (r *Reservation) HasPreOrder() bool { return len(r.Items) > 0 }

// TableIDs returns the assigned table identifiers in assignment order.
func (r *Reservation) TableIDs() []uint64 {
	out := make([]uint64, len(r.Tables))
	for i, t := range r.Tables {
		out[i] = t.ID
	}
	return out
}

// TableNumbers returns the display labels of the assigned tables.
func (r *Reservation) TableNumbers() []string {
	out := make([]string, len(r.Tables))
	for i, t := range r.Tables {
		out[i] = t.Number
	}
	return out
}

// ReservationItem is one pre-ordered menu item attached to a reservation
// ahead of arrival.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – owning reservation.
//  MenuItemID    – the ordered menu item.
//  Quantity      – how many, always positive.
//  Notes         – optional preparation notes.
type ReservationItem struct {
	ID            uint64 `json:"id"`
	ReservationID uint64 `json:"reservation_id"`
	MenuItemID    uint64 `json:"menu_item_id"`
	Quantity      int    `json:"quantity"`
	Notes         string `json:"notes,omitempty"`
}
