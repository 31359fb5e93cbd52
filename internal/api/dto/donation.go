package dto

import "time"

type CoordinatesResponse struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type DonationResponse struct {
	ID              string               `json:"id"`
	DonorID         string               `json:"donor_id"`
	Category        string               `json:"category"`
	Qty             float64              `json:"qty"`
	Unit            string               `json:"unit"`
	Perishability   string               `json:"perishability"`
	Address         string               `json:"address"`
	Coords          *CoordinatesResponse `json:"coords,omitempty"`
	EstWeightKg     float64              `json:"est_weight_kg"`
	RequiresRefrig  bool                 `json:"requires_refrig"`
	PickupWindowEnd time.Time            `json:"pickup_window_end"`
	Status          string               `json:"status"`
	RecipientID     string               `json:"recipient_id,omitempty"`
	UrgencyScore    int                  `json:"urgency_score"`
	CreatedAt       time.Time            `json:"created_at"`
}

type ListDonationsResponse struct {
	Donations []DonationResponse `json:"donations"`
}

type CreateDonationRequest struct {
	DonorID         string    `json:"donor_id"`
	Category        string    `json:"category"`
	Qty             float64   `json:"qty"`
	Unit            string    `json:"unit"`
	Perishability   string    `json:"perishability"`
	Address         string    `json:"address"`
	RequiresRefrig  bool      `json:"requires_refrig"`
	PickupWindowEnd time.Time `json:"pickup_window_end"`
}

type CreateRequestRequest struct {
	RecipientID   string   `json:"recipient_id"`
	Category      string   `json:"category"`
	SpecialNeeds  []string `json:"special_needs"`
	HouseholdSize int      `json:"household_size"`
	Address       string   `json:"address"`
}

type ClaimResponse struct {
	Success bool              `json:"success"`
	Listing *DonationResponse `json:"listing,omitempty"`
}
