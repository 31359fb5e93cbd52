package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"food-dispatch-service/internal/domain"
)

type donationSeed struct {
	ID              string    `json:"id"`
	DonorID         string    `json:"donor_id"`
	Category        string    `json:"category"`
	Qty             float64   `json:"qty"`
	Unit            string    `json:"unit"`
	Perishability   string    `json:"perishability"`
	Address         string    `json:"address"`
	RequiresRefrig  bool      `json:"requires_refrig"`
	PickupWindowEnd time.Time `json:"pickup_window_end"`
}

type requestSeed struct {
	ID            string   `json:"id"`
	RecipientID   string   `json:"recipient_id"`
	Category      string   `json:"category"`
	SpecialNeeds  []string `json:"special_needs"`
	HouseholdSize int      `json:"household_size"`
	Address       string   `json:"address"`
}

type volunteerSeed struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Lon               *float64 `json:"lon"`
	Lat               *float64 `json:"lat"`
	VehicleCapacityKg float64  `json:"vehicle_capacity_kg"`
	Refrigeration     bool     `json:"refrigeration"`
	Available         bool     `json:"available"`
}

type seedFile struct {
	Donations  []donationSeed  `json:"donations"`
	Requests   []requestSeed   `json:"requests"`
	Volunteers []volunteerSeed `json:"volunteers"`
}

// SeedFromJSON populates the store with donation, request, and
// volunteer data from a JSON file. Records without ids get fresh ones;
// seeding is additive and meant for empty databases.
func (s *Store) SeedFromJSON(ctx context.Context, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	var data seedFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed: parse json: %w", err)
	}

	for i, d := range data.Donations {
		if strings.TrimSpace(d.DonorID) == "" {
			return fmt.Errorf("seed: donation at index %d: donor_id cannot be empty", i+1)
		}
		donation := &domain.Donation{
			ID:              d.ID,
			DonorID:         d.DonorID,
			Category:        d.Category,
			Qty:             d.Qty,
			Unit:            d.Unit,
			Perishability:   domain.Perishability(d.Perishability),
			Address:         d.Address,
			RequiresRefrig:  d.RequiresRefrig,
			PickupWindowEnd: d.PickupWindowEnd,
			Status:          domain.DonationAvailable,
		}
		if donation.PickupWindowEnd.IsZero() {
			donation.PickupWindowEnd = s.now().Add(24 * time.Hour)
		}
		if _, err := s.CreateDonation(ctx, donation); err != nil {
			return fmt.Errorf("seed: donation at index %d: %w", i+1, err)
		}
	}

	for i, r := range data.Requests {
		if strings.TrimSpace(r.RecipientID) == "" {
			return fmt.Errorf("seed: request at index %d: recipient_id cannot be empty", i+1)
		}
		request := &domain.Request{
			ID:            r.ID,
			RecipientID:   r.RecipientID,
			Category:      r.Category,
			SpecialNeeds:  r.SpecialNeeds,
			HouseholdSize: r.HouseholdSize,
			Address:       r.Address,
			Status:        domain.RequestOpen,
		}
		if request.Category == "" {
			request.Category = domain.CategoryAny
		}
		if _, err := s.CreateRequest(ctx, request); err != nil {
			return fmt.Errorf("seed: request at index %d: %w", i+1, err)
		}
	}

	for i, v := range data.Volunteers {
		volunteer := &domain.Volunteer{
			ID:                v.ID,
			Name:              v.Name,
			VehicleCapacityKg: v.VehicleCapacityKg,
			Refrigeration:     v.Refrigeration,
			Available:         v.Available,
		}
		if v.Lon != nil && v.Lat != nil {
			volunteer.Coords = &domain.Coordinates{Lon: *v.Lon, Lat: *v.Lat}
		}
		if _, err := s.CreateVolunteer(ctx, volunteer); err != nil {
			return fmt.Errorf("seed: volunteer at index %d: %w", i+1, err)
		}
	}

	return nil
}
