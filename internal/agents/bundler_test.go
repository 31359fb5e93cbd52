package agents

import (
	"context"
	"testing"

	"food-dispatch-service/internal/adapters/memory"
	"food-dispatch-service/internal/domain"
)

// Coordinates around Alameda, CA. Offsets of 0.009 degrees latitude are
// roughly one kilometer.
func coordsAt(latOffsetKm, lonOffsetKm float64) *domain.Coordinates {
	return &domain.Coordinates{
		Lat: 37.7652 + latOffsetKm*0.009,
		Lon: -122.2416 + lonOffsetKm*0.0113,
	}
}

func TestBundlerPrefersCompatibilityOverProximity(t *testing.T) {
	req := &domain.Request{
		ID:            "req1",
		Category:      domain.CategoryAny,
		SpecialNeeds:  []string{domain.NeedWater},
		HouseholdSize: 4,
		Coords:        coordsAt(0, 0),
		Status:        domain.RequestOpen,
		UrgencyScore:  39,
	}

	// Water donation 2 km out scores far above the closer produce one.
	water := &domain.Donation{
		ID:            "don_water",
		Category:      domain.CategoryWater,
		Perishability: domain.PerishabilityHigh,
		Qty:           24,
		Coords:        coordsAt(2, 0),
		Status:        domain.DonationAvailable,
	}
	produce := &domain.Donation{
		ID:       "don_produce",
		Category: domain.CategoryProduce,
		Qty:      5,
		Coords:   coordsAt(1, 0),
		Status:   domain.DonationAvailable,
	}

	bundles := BuildBundles([]*domain.Donation{produce, water}, []*domain.Request{req})

	if len(bundles) != 1 {
		t.Fatalf("expected 1 bundle, got %d", len(bundles))
	}
	if bundles[0].DonationID != "don_water" {
		t.Fatalf("bundled %q, want don_water", bundles[0].DonationID)
	}
	if bundles[0].Type != domain.TaskPickupDelivery {
		t.Fatalf("bundle type = %q, want pickup_delivery", bundles[0].Type)
	}
}

func TestBundlerSkipsCandidatesBeyondRadius(t *testing.T) {
	req := &domain.Request{
		ID:            "req1",
		Category:      domain.CategoryWater,
		HouseholdSize: 10,
		Coords:        coordsAt(0, 0),
		Status:        domain.RequestOpen,
	}

	far := &domain.Donation{
		ID:       "don_far",
		Category: domain.CategoryBakery,
		Qty:      1,
		Coords:   coordsAt(30, 0),
		Status:   domain.DonationAvailable,
	}

	bundles := BuildBundles([]*domain.Donation{far}, []*domain.Request{req})
	if len(bundles) != 0 {
		t.Fatalf("expected no bundles, got %d", len(bundles))
	}
}

func TestSelectBestMatchRejectsZeroTotal(t *testing.T) {
	req := &domain.Request{
		ID:            "req1",
		Category:      domain.CategoryWater,
		HouseholdSize: 10,
		Coords:        coordsAt(0, 0),
	}
	// Distance beyond 20 km zeroes the distance bonus; every other term
	// also misses, so the total is exactly 0 and must not be selected.
	candidate := &domain.Donation{
		ID:       "don_zero",
		Category: domain.CategoryBakery,
		Qty:      1,
		Coords:   coordsAt(25, 0),
	}

	if got := selectBestMatch(req, []*domain.Donation{candidate}); got != nil {
		t.Fatalf("zero-score candidate selected: %+v", got)
	}
}

func TestBundlerDonationClaimedOncePerCycle(t *testing.T) {
	// Two requests compete for the single donation; the higher-urgency
	// request wins and the second gets nothing this cycle.
	reqHigh := &domain.Request{
		ID:            "req_high",
		Category:      domain.CategoryAny,
		HouseholdSize: 2,
		Coords:        coordsAt(0, 0),
		Status:        domain.RequestOpen,
		UrgencyScore:  80,
	}
	reqLow := &domain.Request{
		ID:            "req_low",
		Category:      domain.CategoryAny,
		HouseholdSize: 2,
		Coords:        coordsAt(1, 0),
		Status:        domain.RequestOpen,
		UrgencyScore:  20,
	}
	donation := &domain.Donation{
		ID:       "don1",
		Category: domain.CategoryPackaged,
		Qty:      10,
		Coords:   coordsAt(0.5, 0),
		Status:   domain.DonationAvailable,
	}

	bundles := BuildBundles([]*domain.Donation{donation}, []*domain.Request{reqLow, reqHigh})

	if len(bundles) != 1 {
		t.Fatalf("expected 1 bundle, got %d", len(bundles))
	}
	if bundles[0].RequestID != "req_high" {
		t.Fatalf("bundle went to %q, want req_high", bundles[0].RequestID)
	}
}

func TestBundlerUrgencyTiesKeepInputOrder(t *testing.T) {
	reqA := &domain.Request{
		ID: "req_a", Category: domain.CategoryAny, HouseholdSize: 1,
		Coords: coordsAt(0, 0), Status: domain.RequestOpen, UrgencyScore: 50,
	}
	reqB := &domain.Request{
		ID: "req_b", Category: domain.CategoryAny, HouseholdSize: 1,
		Coords: coordsAt(0.2, 0), Status: domain.RequestOpen, UrgencyScore: 50,
	}
	donation := &domain.Donation{
		ID: "don1", Category: domain.CategoryPackaged, Qty: 5,
		Coords: coordsAt(0.1, 0), Status: domain.DonationAvailable,
	}

	bundles := BuildBundles([]*domain.Donation{donation}, []*domain.Request{reqA, reqB})

	if len(bundles) != 1 || bundles[0].RequestID != "req_a" {
		t.Fatalf("tie not resolved by input order: %+v", bundles)
	}
}

func TestBundlerSkipsUngeocodedRecords(t *testing.T) {
	req := &domain.Request{
		ID: "req1", Category: domain.CategoryAny, HouseholdSize: 1,
		Status: domain.RequestOpen, // no coords
	}
	donation := &domain.Donation{
		ID: "don1", Category: domain.CategoryPackaged, Qty: 5,
		Status: domain.DonationAvailable, // no coords
	}

	bundles := BuildBundles([]*domain.Donation{donation}, []*domain.Request{req})
	if len(bundles) != 0 {
		t.Fatalf("expected no bundles for ungeocoded records, got %d", len(bundles))
	}
}

func TestBundlerStageCreatesTasks(t *testing.T) {
	facade := memory.NewFacade()
	facade.PutDonation(&domain.Donation{
		ID: "don1", Category: domain.CategoryWater, Qty: 24,
		Perishability: domain.PerishabilityHigh,
		Coords:        coordsAt(2, 0), Status: domain.DonationAvailable,
	})
	facade.PutRequest(&domain.Request{
		ID: "req1", Category: domain.CategoryAny,
		SpecialNeeds: []string{domain.NeedWater}, HouseholdSize: 4,
		Coords: coordsAt(0, 0), Status: domain.RequestOpen,
	})

	stage := &BundlerStage{Facade: facade, Log: testLogger()}
	if err := stage.Execute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tasks, _ := facade.GetPendingTasks(context.Background())
	if len(tasks) != 1 {
		t.Fatalf("expected 1 pending task, got %d", len(tasks))
	}
	if tasks[0].ID == "" {
		t.Fatal("facade did not assign a task id")
	}
	if tasks[0].DonationID != "don1" || tasks[0].RequestID != "req1" {
		t.Fatalf("task links wrong records: %+v", tasks[0])
	}
}
