package domain

import "time"

type TaskType string

const (
	TaskPickupDelivery          TaskType = "pickup_delivery"
	TaskEmergencyDelivery       TaskType = "emergency_delivery"
	TaskEmergencyPickupDelivery TaskType = "emergency_pickup_delivery"
	TaskCommunityOutreach       TaskType = "community_outreach"
	TaskErrorRecovery           TaskType = "error_recovery"
)

type TaskPriority string

const (
	PriorityNormal    TaskPriority = "normal"
	PriorityHigh      TaskPriority = "high"
	PriorityCritical  TaskPriority = "critical"
	PriorityEmergency TaskPriority = "emergency"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskAssigned   TaskStatus = "assigned"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
	TaskFailed     TaskStatus = "failed"
)

// A unit of fulfillment work linking a donation to a request, or a
// standalone fallback action synthesized by the coverage stage.
//
// DonationID is empty for coverage fallback tasks with no donation.
// AssigneeID is nil until the optimizer resolves a volunteer; there is
// no sentinel value standing in for an unassigned task.
type Task struct {
	ID             string
	Type           TaskType
	DonationID     string
	RequestID      string
	AssigneeID     *string
	PickupCoords   *Coordinates
	DeliveryCoords *Coordinates
	EstWeightKg    float64
	RequiresRefrig bool
	UrgencyScore   int
	Priority       TaskPriority
	Status         TaskStatus
	EstDistanceKm  float64
	Message        string
	CreatedAt      time.Time
}
