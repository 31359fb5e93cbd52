package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"food-dispatch-service/internal/api/dto"
	"food-dispatch-service/internal/domain"
	"food-dispatch-service/internal/listing"
	"food-dispatch-service/internal/ports"
)

// ListingHandler exposes the public donation listing endpoints,
// including the claim operation.
type ListingHandler struct {
	Store ports.ListingStore
	// Records mirrors successful claims into the per-identity fallback
	// store when configured; failures are logged, never surfaced.
	Records listing.ClaimRecords
	Log     logrus.FieldLogger
}

// List returns donations filtered by status, category, and
// perishability query parameters. "all" and absent both mean no
// filter; viewer-relative visibility is the client's concern.
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(h.Log, w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	status := r.URL.Query().Get("status")
	if status == "all" {
		status = ""
	}

	donations, err := h.Store.GetDonations(r.Context(), status)
	if err != nil {
		h.Log.WithError(err).Error("list donations failed")
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	category := r.URL.Query().Get("category")
	perishability := r.URL.Query().Get("perishability")

	res := dto.ListDonationsResponse{
		Donations: make([]dto.DonationResponse, 0, len(donations)),
	}
	for _, d := range donations {
		if category != "" && category != "all" && d.Category != category {
			continue
		}
		if perishability != "" && perishability != "all" && string(d.Perishability) != perishability {
			continue
		}
		res.Donations = append(res.Donations, donationResponse(d))
	}

	writeJSON(h.Log, w, r, http.StatusOK, res)
}

// Claim handles POST /api/listings/{id}/claim. Authentication and
// authorization failures map to distinct status codes so clients can
// branch presentation: 401 for a missing session, 403 for a role or
// verification refusal, 409 when the listing is already taken.
func (h *ListingHandler) Claim(w http.ResponseWriter, r *http.Request) {
	identity := viewerIdentity(r)
	if identity == nil {
		writeError(h.Log, w, r, http.StatusUnauthorized, "sign in required")
		return
	}
	if identity.Role != listing.RoleRecipient {
		writeError(h.Log, w, r, http.StatusForbidden, "only recipients can claim listings")
		return
	}
	if !identity.PhoneVerified {
		writeError(h.Log, w, r, http.StatusForbidden, "a verified phone number is required")
		return
	}

	donationID := r.PathValue("id")

	d, err := h.Store.ClaimDonation(r.Context(), donationID, identity.ID)
	switch {
	case errors.Is(err, domain.ErrDonationNotFound):
		writeError(h.Log, w, r, http.StatusNotFound, "listing not found")
		return
	case errors.Is(err, domain.ErrDonationUnavailable):
		writeError(h.Log, w, r, http.StatusConflict, "listing is no longer available")
		return
	case err != nil:
		h.Log.WithError(err).WithField("donation_id", donationID).Error("claim failed")
		writeError(h.Log, w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.Records != nil {
		if err := h.Records.Add(r.Context(), identity.ID, d.ID); err != nil {
			h.Log.WithError(err).WithField("donation_id", d.ID).Warn("claim record write failed")
		}
	}

	body := donationResponse(d)
	writeJSON(h.Log, w, r, http.StatusOK, dto.ClaimResponse{
		Success: true,
		Listing: &body,
	})
}
