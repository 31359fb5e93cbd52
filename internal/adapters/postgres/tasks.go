package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"food-dispatch-service/internal/domain"
)

const taskTable = "tasks"

var taskColumns = []string{
	"id", "type", "donation_id", "request_id", "assignee_id",
	"pickup_lon", "pickup_lat", "delivery_lon", "delivery_lat",
	"est_weight_kg", "requires_refrig", "urgency_score", "priority",
	"status", "est_distance_km", "message", "created_at",
}

type taskRow struct {
	ID             string    `db:"id"`
	Type           string    `db:"type"`
	DonationID     string    `db:"donation_id"`
	RequestID      string    `db:"request_id"`
	AssigneeID     *string   `db:"assignee_id"`
	PickupLon      *float64  `db:"pickup_lon"`
	PickupLat      *float64  `db:"pickup_lat"`
	DeliveryLon    *float64  `db:"delivery_lon"`
	DeliveryLat    *float64  `db:"delivery_lat"`
	EstWeightKg    float64   `db:"est_weight_kg"`
	RequiresRefrig bool      `db:"requires_refrig"`
	UrgencyScore   int       `db:"urgency_score"`
	Priority       string    `db:"priority"`
	Status         string    `db:"status"`
	EstDistanceKm  float64   `db:"est_distance_km"`
	Message        string    `db:"message"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r taskRow) toDomain() *domain.Task {
	t := &domain.Task{
		ID:             r.ID,
		Type:           domain.TaskType(r.Type),
		DonationID:     r.DonationID,
		RequestID:      r.RequestID,
		AssigneeID:     r.AssigneeID,
		EstWeightKg:    r.EstWeightKg,
		RequiresRefrig: r.RequiresRefrig,
		UrgencyScore:   r.UrgencyScore,
		Priority:       domain.TaskPriority(r.Priority),
		Status:         domain.TaskStatus(r.Status),
		EstDistanceKm:  r.EstDistanceKm,
		Message:        r.Message,
		CreatedAt:      r.CreatedAt,
	}
	if r.PickupLon != nil && r.PickupLat != nil {
		t.PickupCoords = &domain.Coordinates{Lon: *r.PickupLon, Lat: *r.PickupLat}
	}
	if r.DeliveryLon != nil && r.DeliveryLat != nil {
		t.DeliveryCoords = &domain.Coordinates{Lon: *r.DeliveryLon, Lat: *r.DeliveryLat}
	}
	return t
}

func taskMap(t *domain.Task) map[string]interface{} {
	m := map[string]interface{}{
		"type":            string(t.Type),
		"donation_id":     t.DonationID,
		"request_id":      t.RequestID,
		"assignee_id":     t.AssigneeID,
		"pickup_lon":      nil,
		"pickup_lat":      nil,
		"delivery_lon":    nil,
		"delivery_lat":    nil,
		"est_weight_kg":   t.EstWeightKg,
		"requires_refrig": t.RequiresRefrig,
		"urgency_score":   t.UrgencyScore,
		"priority":        string(t.Priority),
		"status":          string(t.Status),
		"est_distance_km": t.EstDistanceKm,
		"message":         t.Message,
	}
	if t.PickupCoords != nil {
		m["pickup_lon"] = t.PickupCoords.Lon
		m["pickup_lat"] = t.PickupCoords.Lat
	}
	if t.DeliveryCoords != nil {
		m["delivery_lon"] = t.DeliveryCoords.Lon
		m["delivery_lat"] = t.DeliveryCoords.Lat
	}
	return m
}

func (s *Store) CreateTask(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	if t == nil {
		return nil, fmt.Errorf("create task: nil record")
	}

	tc := *t
	if tc.ID == "" {
		id, err := newID("task")
		if err != nil {
			return nil, fmt.Errorf("create task: generate id: %w", err)
		}
		tc.ID = id
	}
	if tc.CreatedAt.IsZero() {
		tc.CreatedAt = s.now()
	}

	m := taskMap(&tc)
	m["id"] = tc.ID
	m["created_at"] = tc.CreatedAt

	query, args, err := psql().Insert(taskTable).SetMap(m).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate task insert: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &tc, nil
}

func (s *Store) GetPendingTasks(ctx context.Context) ([]*domain.Task, error) {
	return s.tasksByStatus(ctx, domain.TaskPending)
}

func (s *Store) GetAssignedTasks(ctx context.Context) ([]*domain.Task, error) {
	return s.tasksByStatus(ctx, domain.TaskAssigned)
}

func (s *Store) tasksByStatus(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error) {
	query, args, err := psql().
		Select(taskColumns...).
		From(taskTable).
		Where(sq.Eq{"status": string(status)}).
		OrderBy("urgency_score DESC", "created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks query for %s: %w", status, err)
	}

	var rows []taskRow
	if err := pgxscan.Select(ctx, s.pool, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query %s tasks: %w", status, err)
	}

	out := make([]*domain.Task, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}
