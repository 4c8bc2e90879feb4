package utils

import (
	"strings"
	"time"
)

// manageTokenPrefix marks self-service management tokens so they are
// recognisable in links and logs without revealing anything else.
const manageTokenPrefix = "vt_"

// manageTokenBytes is the entropy behind a management token: 12 random
// bytes render as 24 hex characters.
const manageTokenBytes = 12

// ManageTokenLeadTime is how long before the reservation start the
// self-service link stops working.  Inside this window changes must go
// through staff.
const ManageTokenLeadTime = 2 * time.Hour

// NewManageToken returns a fresh self-service token: "vt_" followed by 24
// hex characters.
func NewManageToken() (string, error) {
	raw, err := randomHex(manageTokenBytes)
	if err != nil {
		return "", err
	}
	return manageTokenPrefix + raw, nil
}

// ValidManageTokenFormat cheaply rejects values that cannot be management
// tokens before any database lookup.
func ValidManageTokenFormat(token string) bool {
	if !strings.HasPrefix(token, manageTokenPrefix) {
		return false
	}
	rest := token[len(manageTokenPrefix):]
	if len(rest) != manageTokenBytes*2 {
		return false
	}
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// ManageTokenExpiry computes when a token for a reservation starting at
// the given instant stops working: two hours before the start.
func ManageTokenExpiry(startsAt time.Time) time.Time {
	return startsAt.Add(-ManageTokenLeadTime)
}
