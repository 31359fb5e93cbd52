package domain

// A routing resource. Routes are replaced wholesale each optimizer
// cycle; there is no incremental route mutation.
type Volunteer struct {
	ID                string
	Name              string
	Coords            *Coordinates
	VehicleCapacityKg float64
	Refrigeration     bool
	Available         bool
}

type RouteStatus string

const RoutePlanned RouteStatus = "planned"

// The ordered pickup-delivery plan assigned to one volunteer, with
// aggregate metrics computed from consecutive legs.
type Route struct {
	VolunteerID     string
	Tasks           []*Task
	TotalDistanceKm float64
	EstDurationMin  float64
	Status          RouteStatus
}
