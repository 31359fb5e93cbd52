package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"food-dispatch-service/internal/api/dto"
	"food-dispatch-service/internal/domain"
	"food-dispatch-service/internal/ports"
)

// SubmissionHandler accepts donor and recipient submissions. Geocoding
// and weight estimation happen asynchronously in the intake stage, so
// submissions only validate shape, not resolvability.
type SubmissionHandler struct {
	Store ports.SubmissionStore
	Log   logrus.FieldLogger
}

func (h *SubmissionHandler) CreateDonation(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.DonorID) == "" {
		writeError(h.Log, w, r, http.StatusBadRequest, "donor_id is required")
		return
	}
	if strings.TrimSpace(req.Category) == "" {
		writeError(h.Log, w, r, http.StatusBadRequest, "category is required")
		return
	}
	if req.Qty <= 0 {
		writeError(h.Log, w, r, http.StatusBadRequest, "qty must be positive")
		return
	}

	donation := &domain.Donation{
		DonorID:         req.DonorID,
		Category:        req.Category,
		Qty:             req.Qty,
		Unit:            req.Unit,
		Perishability:   domain.Perishability(req.Perishability),
		Address:         req.Address,
		RequiresRefrig:  req.RequiresRefrig,
		PickupWindowEnd: req.PickupWindowEnd,
		Status:          domain.DonationAvailable,
	}
	if donation.PickupWindowEnd.IsZero() {
		donation.PickupWindowEnd = time.Now().Add(24 * time.Hour)
	}

	created, err := h.Store.CreateDonation(r.Context(), donation)
	if err != nil {
		h.Log.WithError(err).Error("create donation failed")
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(h.Log, w, r, http.StatusCreated, donationResponse(created))
}

func (h *SubmissionHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.Log, w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.RecipientID) == "" {
		writeError(h.Log, w, r, http.StatusBadRequest, "recipient_id is required")
		return
	}

	request := &domain.Request{
		RecipientID:   req.RecipientID,
		Category:      req.Category,
		SpecialNeeds:  req.SpecialNeeds,
		HouseholdSize: req.HouseholdSize,
		Address:       req.Address,
		Status:        domain.RequestOpen,
	}
	if request.Category == "" {
		request.Category = domain.CategoryAny
	}
	if request.HouseholdSize <= 0 {
		request.HouseholdSize = 1
	}

	created, err := h.Store.CreateRequest(r.Context(), request)
	if err != nil {
		h.Log.WithError(err).Error("create request failed")
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(h.Log, w, r, http.StatusCreated, dto.RequestResponse{
		ID:            created.ID,
		RecipientID:   created.RecipientID,
		Category:      created.Category,
		SpecialNeeds:  created.SpecialNeeds,
		HouseholdSize: created.HouseholdSize,
		Address:       created.Address,
		Status:        string(created.Status),
		UrgencyScore:  created.UrgencyScore,
		CreatedAt:     created.CreatedAt,
	})
}
