package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"food-dispatch-service/internal/api/dto"
	"food-dispatch-service/internal/domain"
	"food-dispatch-service/internal/ports"
)

// TaskHandler exposes read-only task retrieval for dispatch tooling.
type TaskHandler struct {
	Store ports.TaskStore
	Log   logrus.FieldLogger
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(h.Log, w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var (
		tasks []*domain.Task
		err   error
	)
	switch r.URL.Query().Get("status") {
	case "assigned":
		tasks, err = h.Store.GetAssignedTasks(r.Context())
	default:
		tasks, err = h.Store.GetPendingTasks(r.Context())
	}
	if err != nil {
		h.Log.WithError(err).Error("list tasks failed")
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListTasksResponse{
		Tasks: make([]dto.TaskResponse, 0, len(tasks)),
	}
	for _, t := range tasks {
		res.Tasks = append(res.Tasks, dto.TaskResponse{
			ID:             t.ID,
			Type:           string(t.Type),
			DonationID:     t.DonationID,
			RequestID:      t.RequestID,
			AssigneeID:     t.AssigneeID,
			PickupCoords:   coordsResponse(t.PickupCoords),
			DeliveryCoords: coordsResponse(t.DeliveryCoords),
			EstWeightKg:    t.EstWeightKg,
			RequiresRefrig: t.RequiresRefrig,
			UrgencyScore:   t.UrgencyScore,
			Priority:       string(t.Priority),
			Status:         string(t.Status),
			EstDistanceKm:  t.EstDistanceKm,
			Message:        t.Message,
			CreatedAt:      t.CreatedAt,
		})
	}

	writeJSON(h.Log, w, r, http.StatusOK, res)
}
