package ports

import (
	"context"

	"food-dispatch-service/internal/domain"
)

// CoverageRisk is a single item that has exceeded its expected service
// turnaround, as reported by the coverage query.
type CoverageRisk struct {
	Type         string
	ID           string
	HoursOverdue int
}

type CoverageReport struct {
	SLARisks int
	Risks    []CoverageRisk
}

// DonationStore is the boundary for reading and writing donations.
// Updates are idempotent upserts; no-op writes are acceptable.
type DonationStore interface {
	GetNewDonations(ctx context.Context) ([]*domain.Donation, error)
	GetOpenDonations(ctx context.Context) ([]*domain.Donation, error)
	UpdateDonation(ctx context.Context, id string, d *domain.Donation) error
}

type RequestStore interface {
	GetNewRequests(ctx context.Context) ([]*domain.Request, error)
	GetOpenRequests(ctx context.Context) ([]*domain.Request, error)
	UpdateRequest(ctx context.Context, id string, r *domain.Request) error
}

// TaskStore creates and queries fulfillment tasks. CreateTask assigns
// an identifier when the task carries none.
type TaskStore interface {
	CreateTask(ctx context.Context, t *domain.Task) (*domain.Task, error)
	GetPendingTasks(ctx context.Context) ([]*domain.Task, error)
	GetAssignedTasks(ctx context.Context) ([]*domain.Task, error)
}

type VolunteerStore interface {
	GetAvailableVolunteers(ctx context.Context) ([]*domain.Volunteer, error)
	// AssignRoute replaces the volunteer's route wholesale.
	AssignRoute(ctx context.Context, volunteerID string, route *domain.Route) error
}

type CoverageChecker interface {
	CheckCoverage(ctx context.Context) (*CoverageReport, error)
}

// Facade is the orchestration core's sole source of truth. The backing
// store owns all transactional and locking discipline; stages assume
// at-least-once idempotent writes and re-read fresh state each cycle.
type Facade interface {
	DonationStore
	RequestStore
	TaskStore
	VolunteerStore
	CoverageChecker
}
