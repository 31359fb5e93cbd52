package dto

import "time"

type TaskResponse struct {
	ID             string               `json:"id"`
	Type           string               `json:"type"`
	DonationID     string               `json:"donation_id,omitempty"`
	RequestID      string               `json:"request_id,omitempty"`
	AssigneeID     *string              `json:"assignee_id"`
	PickupCoords   *CoordinatesResponse `json:"pickup_coords,omitempty"`
	DeliveryCoords *CoordinatesResponse `json:"delivery_coords,omitempty"`
	EstWeightKg    float64              `json:"est_weight_kg"`
	RequiresRefrig bool                 `json:"requires_refrig"`
	UrgencyScore   int                  `json:"urgency_score"`
	Priority       string               `json:"priority"`
	Status         string               `json:"status"`
	EstDistanceKm  float64              `json:"est_distance_km"`
	Message        string               `json:"message,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

type RequestResponse struct {
	ID            string    `json:"id"`
	RecipientID   string    `json:"recipient_id"`
	Category      string    `json:"category"`
	SpecialNeeds  []string  `json:"special_needs"`
	HouseholdSize int       `json:"household_size"`
	Address       string    `json:"address"`
	Status        string    `json:"status"`
	UrgencyScore  int       `json:"urgency_score"`
	CreatedAt     time.Time `json:"created_at"`
}
