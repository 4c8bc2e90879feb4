package model

import "time"

// ManageToken grants a customer self-service access to one reservation
// through the tokenized link in their confirmation email.  A reservation
// has at most one active token at a time; every accepted modification
// deactivates the old token and issues a fresh one.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – the reservation this token manages.
//  Token         – opaque value, "vt_" followed by 24 hex characters.
//  CustomerEmail – email the link was sent to.
//  ExpiresAt     – two hours before the reservation start; once inside
//                  that window self-service is closed.
//  IsActive      – cleared on rotation or cancellation.
//  Purpose       – token purpose tag, always "reservation_management".
//  CreatedAt     – creation timestamp.
type ManageToken struct {
	ID            uint64    `json:"id"`
	ReservationID uint64    `json:"reservation_id"`
	Token         string    `json:"token"`
	CustomerEmail string    `json:"customer_email"`
	ExpiresAt     time.Time `json:"expires_at"`
	IsActive      bool      `json:"is_active"`
	Purpose       string    `json:"purpose"`
	CreatedAt     time.Time `json:"created_at"`
}

// TokenPurposeManage is the only purpose issued today.
const TokenPurposeManage = "reservation_management"
