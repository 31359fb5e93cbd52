package optimize

import (
	"context"
	"math"
	"testing"

	"food-dispatch-service/internal/domain"
	"food-dispatch-service/internal/geo"
)

// Offsets are approximate km conversions at Alameda's latitude.
func coordsAt(latKm, lonKm float64) *domain.Coordinates {
	return &domain.Coordinates{
		Lat: 37.7652 + latKm*0.009,
		Lon: -122.2416 + lonKm*0.0113,
	}
}

func pickupTask(id string, latKm, lonKm float64) *domain.Task {
	return &domain.Task{ID: id, PickupCoords: coordsAt(latKm, lonKm)}
}

func TestNearestNeighborOrdersByDistance(t *testing.T) {
	start := domain.Coordinates{Lat: 37.7652, Lon: -122.2416}
	tasks := []*domain.Task{
		pickupTask("far", 0, 10),
		pickupTask("near", 0, 1),
		pickupTask("mid", 0, 5),
	}

	ordered, err := NearestNeighbor{}.OptimizeRoute(context.Background(), start, tasks)
	if err != nil {
		t.Fatalf("optimize failed: %v", err)
	}

	want := []string{"near", "mid", "far"}
	for i, id := range want {
		if ordered[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, ordered[i].ID)
		}
	}
}

func TestNearestNeighborGreedyWalk(t *testing.T) {
	// From the start, "east1" is closest. After moving there, "east2"
	// is closer than "west1" even though "west1" was second-closest
	// from the start.
	start := domain.Coordinates{Lat: 37.7652, Lon: -122.2416}
	tasks := []*domain.Task{
		pickupTask("west1", 0, -3),
		pickupTask("east2", 0, 4),
		pickupTask("east1", 0, 2),
	}

	ordered, err := NearestNeighbor{}.OptimizeRoute(context.Background(), start, tasks)
	if err != nil {
		t.Fatalf("optimize failed: %v", err)
	}

	want := []string{"east1", "east2", "west1"}
	for i, id := range want {
		if ordered[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, ordered[i].ID)
		}
	}
}

func TestNearestNeighborAgreesWithHaversine(t *testing.T) {
	start := domain.Coordinates{Lat: 37.7652, Lon: -122.2416}
	tasks := []*domain.Task{
		pickupTask("a", 3, -2),
		pickupTask("b", -1, 4),
		pickupTask("c", 2, 2),
	}

	ordered, err := NearestNeighbor{}.OptimizeRoute(context.Background(), start, tasks)
	if err != nil {
		t.Fatalf("optimize failed: %v", err)
	}

	// The first stop must be the pickup nearest by haversine distance,
	// with latitude and longitude offsets both in play.
	bestID := ""
	best := math.MaxFloat64
	for _, task := range tasks {
		d := geo.DistanceKm(start.Lat, start.Lon, task.PickupCoords.Lat, task.PickupCoords.Lon)
		if d < best {
			best = d
			bestID = task.ID
		}
	}
	if ordered[0].ID != bestID {
		t.Fatalf("first stop = %s, want %s", ordered[0].ID, bestID)
	}
}

func TestNearestNeighborEmptyInput(t *testing.T) {
	ordered, err := NearestNeighbor{}.OptimizeRoute(context.Background(), domain.Coordinates{}, nil)
	if err != nil {
		t.Fatalf("optimize failed: %v", err)
	}
	if len(ordered) != 0 {
		t.Fatalf("expected empty route, got %d stops", len(ordered))
	}
}

func TestNearestNeighborKeepsUnlocatedTasksAtEnd(t *testing.T) {
	start := domain.Coordinates{Lat: 37.7652, Lon: -122.2416}
	tasks := []*domain.Task{
		{ID: "blind1"},
		pickupTask("located", 0, 1),
		{ID: "blind2"},
	}

	ordered, err := NearestNeighbor{}.OptimizeRoute(context.Background(), start, tasks)
	if err != nil {
		t.Fatalf("optimize failed: %v", err)
	}
	if len(ordered) != 3 {
		t.Fatalf("expected all tasks back, got %d", len(ordered))
	}
	if ordered[0].ID != "located" {
		t.Fatalf("located task should come first, got %s", ordered[0].ID)
	}
	if ordered[1].ID != "blind1" || ordered[2].ID != "blind2" {
		t.Fatalf("unlocated tasks should keep input order, got %s, %s", ordered[1].ID, ordered[2].ID)
	}
}

func TestNearestNeighborDoesNotMutateInput(t *testing.T) {
	start := domain.Coordinates{Lat: 37.7652, Lon: -122.2416}
	tasks := []*domain.Task{
		pickupTask("b", 0, 5),
		pickupTask("a", 0, 1),
	}

	if _, err := (NearestNeighbor{}).OptimizeRoute(context.Background(), start, tasks); err != nil {
		t.Fatalf("optimize failed: %v", err)
	}

	if tasks[0].ID != "b" || tasks[1].ID != "a" {
		t.Fatal("input slice order changed")
	}
}
