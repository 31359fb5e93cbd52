package agents

import (
	"context"
	"errors"
	"math"
	"testing"

	"food-dispatch-service/internal/adapters/memory"
	"food-dispatch-service/internal/domain"
)

type stubGeocoder struct {
	coords map[string]*domain.Coordinates
	err    error
}

func (g stubGeocoder) GeocodeAddress(ctx context.Context, address string) (*domain.Coordinates, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.coords[address], nil
}

func TestIntakeBackfillsCoordinatesAndWeight(t *testing.T) {
	facade := memory.NewFacade()
	facade.PutDonation(&domain.Donation{
		ID: "don1", Category: domain.CategoryProduce, Qty: 10, Unit: "items",
		Address: "2155 Central Ave, Alameda, CA", Status: domain.DonationAvailable,
	})
	facade.PutRequest(&domain.Request{
		ID: "req1", Address: "1550 Oak St, Alameda, CA", Status: domain.RequestOpen,
	})

	geocoder := stubGeocoder{coords: map[string]*domain.Coordinates{
		"2155 Central Ave, Alameda, CA": {Lat: 37.7695, Lon: -122.2650},
		"1550 Oak St, Alameda, CA":      {Lat: 37.7689, Lon: -122.2644},
	}}

	stage := &IntakeStage{Facade: facade, Geocoder: geocoder, Log: testLogger()}
	if err := stage.Execute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	donations, _ := facade.GetOpenDonations(context.Background())
	if len(donations) != 1 {
		t.Fatalf("expected 1 donation, got %d", len(donations))
	}
	d := donations[0]
	if d.Coords == nil || d.Coords.Lat != 37.7695 {
		t.Fatalf("coordinates not backfilled: %+v", d.Coords)
	}
	if math.Abs(d.EstWeightKg-2.0) > 1e-9 {
		t.Fatalf("weight = %f, want 2.0 (10 items x 0.2)", d.EstWeightKg)
	}

	requests, _ := facade.GetOpenRequests(context.Background())
	if len(requests) != 1 || requests[0].Coords == nil {
		t.Fatalf("request coordinates not backfilled: %+v", requests)
	}
}

func TestIntakeGeocodeFailureLeavesCoordinatesUnset(t *testing.T) {
	facade := memory.NewFacade()
	facade.PutDonation(&domain.Donation{
		ID: "don1", Category: domain.CategoryBakery, Qty: 4, Unit: "items",
		Address: "nowhere", Status: domain.DonationAvailable,
	})

	stage := &IntakeStage{
		Facade:   facade,
		Geocoder: stubGeocoder{err: errors.New("geocoder down")},
		Log:      testLogger(),
	}
	if err := stage.Execute(context.Background()); err != nil {
		t.Fatalf("geocode failure must not fail the stage: %v", err)
	}

	donations, _ := facade.GetOpenDonations(context.Background())
	if donations[0].Coords != nil {
		t.Fatalf("coords = %+v, want unset", donations[0].Coords)
	}
	// The rest of intake still ran.
	if donations[0].EstWeightKg == 0 {
		t.Fatal("weight estimate missing despite geocode failure")
	}
}

func TestEstimateWeightKg(t *testing.T) {
	cases := []struct {
		category string
		qty      float64
		unit     string
		want     float64
	}{
		{domain.CategoryProduce, 10, "items", 2},
		{domain.CategoryPrepared, 10, "servings", 3},
		{domain.CategoryPackaged, 10, "items", 4},
		{domain.CategoryBakery, 10, "items", 1.5},
		{domain.CategoryProduce, 5, "kg", 11},
		{"unknown_category", 10, "items", 4},     // packaged fallback
		{domain.CategoryProduce, 7, "crates", 7}, // unknown unit: qty x 1
		{domain.CategoryProduce, 0, "items", 1},  // zero qty floors at 1kg
	}

	for _, tc := range cases {
		got := EstimateWeightKg(tc.category, tc.qty, tc.unit)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("EstimateWeightKg(%q, %v, %q) = %v, want %v", tc.category, tc.qty, tc.unit, got, tc.want)
		}
	}
}
