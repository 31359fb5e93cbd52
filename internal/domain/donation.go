package domain

import "time"

type DonationStatus string

const (
	DonationAvailable           DonationStatus = "available"
	DonationClaimed             DonationStatus = "claimed"
	DonationPendingConfirmation DonationStatus = "pending_confirmation"
	DonationCompleted           DonationStatus = "completed"
	DonationExpired             DonationStatus = "expired"
)

type Perishability string

const (
	PerishabilityHigh   Perishability = "high"
	PerishabilityMedium Perishability = "medium"
	PerishabilityLow    Perishability = "low"
)

// Represents a donor-submitted unit of food offered for pickup.
// Coordinates and EstWeightKg may be absent on submission and are
// backfilled by the intake stage. UrgencyScore is derived every triage
// cycle and is never authoritative across cycles.
type Donation struct {
	ID              string
	DonorID         string
	Category        string
	Qty             float64
	Unit            string
	Perishability   Perishability
	Address         string
	Coords          *Coordinates
	EstWeightKg     float64
	RequiresRefrig  bool
	PickupWindowEnd time.Time
	Status          DonationStatus
	ClaimedBy       string
	UrgencyScore    int
	CreatedAt       time.Time
}

// Food categories with scoring significance. Other categories are valid
// but contribute nothing to urgency.
const (
	CategoryProduce  = "produce"
	CategoryPrepared = "prepared"
	CategoryPackaged = "packaged"
	CategoryBakery   = "bakery"
	CategoryWater    = "water"
	CategoryAny      = "any"
)
