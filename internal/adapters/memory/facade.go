// Package memory provides an in-process implementation of the data
// access facade for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"food-dispatch-service/internal/domain"
	"food-dispatch-service/internal/ports"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// SLA window before an open request is reported as a coverage risk.
const slaWindow = 4 * time.Hour

// Facade keeps all collections in memory behind one mutex. Records are
// stored by value copy so callers cannot mutate shared state without
// going through an update.
type Facade struct {
	mu         sync.Mutex
	donations  map[string]domain.Donation
	requests   map[string]domain.Request
	tasks      map[string]domain.Task
	volunteers map[string]domain.Volunteer
	routes     map[string]domain.Route
	seen       map[string]struct{}

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewFacade() *Facade {
	return &Facade{
		donations:  make(map[string]domain.Donation),
		requests:   make(map[string]domain.Request),
		tasks:      make(map[string]domain.Task),
		volunteers: make(map[string]domain.Volunteer),
		routes:     make(map[string]domain.Route),
		seen:       make(map[string]struct{}),
	}
}

func (f *Facade) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// Seed helpers for composition roots and tests.

func (f *Facade) PutDonation(d *domain.Donation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.donations[d.ID] = *d
}

func (f *Facade) PutRequest(r *domain.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[r.ID] = *r
}

func (f *Facade) PutVolunteer(v *domain.Volunteer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volunteers[v.ID] = *v
}

func (f *Facade) PutTask(t *domain.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[t.ID] = *t
}

// GetNewDonations returns available donations not yet seen by intake.
func (f *Facade) GetNewDonations(ctx context.Context) ([]*domain.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.Donation
	for id, d := range f.donations {
		if _, ok := f.seen["donation:"+id]; ok {
			continue
		}
		if d.Status != domain.DonationAvailable {
			continue
		}
		f.seen["donation:"+id] = struct{}{}
		dc := d
		out = append(out, &dc)
	}
	return out, nil
}

func (f *Facade) GetOpenDonations(ctx context.Context) ([]*domain.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.Donation
	for _, d := range f.donations {
		if d.Status == domain.DonationAvailable {
			dc := d
			out = append(out, &dc)
		}
	}
	// Map iteration order is random; match the SQL adapter's created_at
	// ordering so bundling sees records in submission order.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *Facade) UpdateDonation(ctx context.Context, id string, d *domain.Donation) error {
	if d == nil {
		return fmt.Errorf("update donation %s: nil record", id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	dc := *d
	dc.ID = id
	f.donations[id] = dc
	return nil
}

func (f *Facade) GetNewRequests(ctx context.Context) ([]*domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.Request
	for id, r := range f.requests {
		if _, ok := f.seen["request:"+id]; ok {
			continue
		}
		if r.Status != domain.RequestOpen {
			continue
		}
		f.seen["request:"+id] = struct{}{}
		rc := r
		out = append(out, &rc)
	}
	return out, nil
}

func (f *Facade) GetOpenRequests(ctx context.Context) ([]*domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.Request
	for _, r := range f.requests {
		if r.Status == domain.RequestOpen {
			rc := r
			out = append(out, &rc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *Facade) UpdateRequest(ctx context.Context, id string, r *domain.Request) error {
	if r == nil {
		return fmt.Errorf("update request %s: nil record", id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rc := *r
	rc.ID = id
	f.requests[id] = rc
	return nil
}

func (f *Facade) CreateTask(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	if t == nil {
		return nil, fmt.Errorf("create task: nil record")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tc := *t
	if tc.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("create task: generate id: %w", err)
		}
		tc.ID = "task_" + id
	}
	if tc.CreatedAt.IsZero() {
		tc.CreatedAt = f.now()
	}

	f.tasks[tc.ID] = tc
	out := tc
	return &out, nil
}

func (f *Facade) GetPendingTasks(ctx context.Context) ([]*domain.Task, error) {
	return f.tasksByStatus(domain.TaskPending), nil
}

func (f *Facade) GetAssignedTasks(ctx context.Context) ([]*domain.Task, error) {
	return f.tasksByStatus(domain.TaskAssigned), nil
}

func (f *Facade) tasksByStatus(status domain.TaskStatus) []*domain.Task {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.Task
	for _, t := range f.tasks {
		if t.Status == status {
			tc := t
			out = append(out, &tc)
		}
	}
	return out
}

// Tasks returns every stored task; test helper.
func (f *Facade) Tasks() []*domain.Task {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*domain.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		tc := t
		out = append(out, &tc)
	}
	return out
}

func (f *Facade) GetAvailableVolunteers(ctx context.Context) ([]*domain.Volunteer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.Volunteer
	for _, v := range f.volunteers {
		if v.Available {
			vc := v
			out = append(out, &vc)
		}
	}
	return out, nil
}

func (f *Facade) AssignRoute(ctx context.Context, volunteerID string, route *domain.Route) error {
	if route == nil {
		return fmt.Errorf("assign route to %s: nil route", volunteerID)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.routes[volunteerID] = *route
	for _, t := range route.Tasks {
		stored, ok := f.tasks[t.ID]
		if !ok {
			continue
		}
		vid := volunteerID
		stored.AssigneeID = &vid
		stored.Status = domain.TaskAssigned
		f.tasks[t.ID] = stored
	}
	return nil
}

// Route returns the current route for a volunteer; test helper.
func (f *Facade) Route(volunteerID string) (domain.Route, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.routes[volunteerID]
	return r, ok
}

// CheckCoverage reports open requests older than the SLA window.
func (f *Facade) CheckCoverage(ctx context.Context) (*ports.CoverageReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	report := &ports.CoverageReport{}
	for _, r := range f.requests {
		if r.Status != domain.RequestOpen {
			continue
		}
		age := now.Sub(r.CreatedAt)
		if age > slaWindow {
			report.SLARisks++
			report.Risks = append(report.Risks, ports.CoverageRisk{
				Type:         "request",
				ID:           r.ID,
				HoursOverdue: int(age.Hours()) - int(slaWindow.Hours()),
			})
		}
	}
	return report, nil
}
