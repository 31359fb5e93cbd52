// Package listing holds the client-side projection of donations used
// for rendering and filtering, and the claim reconciliation logic that
// keeps it consistent with the backend under partial failure.
package listing

import (
	"time"

	"food-dispatch-service/internal/domain"
)

type Status string

const (
	StatusAvailable           Status = "available"
	StatusPendingConfirmation Status = "pending_confirmation"
	StatusClaimed             Status = "claimed"
	StatusCompleted           Status = "completed"
	StatusExpired             Status = "expired"
)

// statusRank orders the claim state machine. Transitions only move to
// an equal or higher rank; a listing never returns to available once
// left.
var statusRank = map[Status]int{
	StatusAvailable:           0,
	StatusPendingConfirmation: 1,
	StatusClaimed:             2,
	StatusCompleted:           3,
	StatusExpired:             3,
}

// Listing is the view model: derived from server data on every fetch,
// never authoritative.
type Listing struct {
	ID            string
	Title         string
	Category      string
	Perishability domain.Perishability
	Qty           float64
	DonorID       string
	RecipientID   string
	Status        Status
	Address       string
	Coords        *domain.Coordinates
	CreatedAt     time.Time
}

// mergeStatus applies a proposed status while honoring monotonicity:
// the claim machine never steps backward inside reconciliation.
func mergeStatus(current, proposed Status) Status {
	if statusRank[proposed] >= statusRank[current] {
		return proposed
	}
	return current
}

type Role string

const (
	RoleDonor      Role = "donor"
	RoleRecipient  Role = "recipient"
	RoleDriver     Role = "driver"
	RoleDispatcher Role = "dispatcher"
)

// Identity is the authenticated viewer. PhoneVerified gates claims;
// collection of a number is the caller's concern.
type Identity struct {
	ID            string
	Role          Role
	PhoneVerified bool
}
