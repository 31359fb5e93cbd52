package domain

import (
	"slices"
	"time"
)

type RequestStatus string

const (
	RequestOpen      RequestStatus = "open"
	RequestMatched   RequestStatus = "matched"
	RequestFulfilled RequestStatus = "fulfilled"
)

// A recipient's expressed food need. Category may be "any".
type Request struct {
	ID            string
	RecipientID   string
	Category      string
	SpecialNeeds  []string
	HouseholdSize int
	Address       string
	Coords        *Coordinates
	Status        RequestStatus
	UrgencyScore  int
	CreatedAt     time.Time
}

func (r *Request) NeedsTag(tag string) bool {
	return slices.Contains(r.SpecialNeeds, tag)
}

// Special-needs tags recognized by triage and bundling.
const (
	NeedWater    = "water"
	NeedBabyFood = "baby_food"
)
