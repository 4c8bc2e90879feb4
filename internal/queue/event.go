// Package queue defines message payloads exchanged over the message broker
// and the background consumer that applies externally signalled no-shows.
package queue

// ReservationConfirmedEvent is published when staff confirm a reservation.
// It carries enough for downstream consumers (notification mailer,
// analytics) to act without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64   `json:"reservation_id"`
	CustomerName  string   `json:"customer_name"`
	CustomerEmail string   `json:"customer_email"`
	CustomerPhone string   `json:"customer_phone"`
	PartySize     int      `json:"party_size"`
	StartsAt      string   `json:"starts_at"`
	Zone          string   `json:"zone,omitempty"`
	TableNumbers  []string `json:"tables,omitempty"`
	ManageURL     string   `json:"manage_url,omitempty"`
	ConfirmedAt   string   `json:"confirmed_at"`
}

// ReservationCancelledEvent is published when a reservation is cancelled,
// whether by staff or through the customer's self-service link.
type ReservationCancelledEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	PartySize     int    `json:"party_size"`
	StartsAt      string `json:"starts_at"`
	CancelledBy   string `json:"cancelled_by"` // "staff" or "customer"
	CancelledAt   string `json:"cancelled_at"`
}

// ReservationNoShowEvent arrives from the floor-management system when a
// party never turned up. The consumer marks the reservation NO_SHOW if
// its lifecycle still allows it.
type ReservationNoShowEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	ReportedBy    string `json:"reported_by,omitempty"`
	ReportedAt    string `json:"reported_at"`
}

// Queue names. All durable.
const (
	QueueReservationConfirmed = "reservation.confirmed"
	QueueReservationCancelled = "reservation.cancelled"
	QueueReservationNoShow    = "reservation.no_show"
)
