package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"food-dispatch-service/internal/api/dto"
	"food-dispatch-service/internal/domain"
	"food-dispatch-service/internal/listing"
)

func writeJSON(log logrus.FieldLogger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).
			WithField("method", r.Method).
			WithField("path", r.URL.Path).
			Error("encode response failed")
	}
}

func writeError(log logrus.FieldLogger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(log, w, r, status, map[string]string{"error": msg})
}

func coordsResponse(c *domain.Coordinates) *dto.CoordinatesResponse {
	if c == nil {
		return nil
	}
	return &dto.CoordinatesResponse{Lon: c.Lon, Lat: c.Lat}
}

func donationResponse(d *domain.Donation) dto.DonationResponse {
	return dto.DonationResponse{
		ID:              d.ID,
		DonorID:         d.DonorID,
		Category:        d.Category,
		Qty:             d.Qty,
		Unit:            d.Unit,
		Perishability:   string(d.Perishability),
		Address:         d.Address,
		Coords:          coordsResponse(d.Coords),
		EstWeightKg:     d.EstWeightKg,
		RequiresRefrig:  d.RequiresRefrig,
		PickupWindowEnd: d.PickupWindowEnd,
		Status:          string(d.Status),
		RecipientID:     d.ClaimedBy,
		UrgencyScore:    d.UrgencyScore,
		CreatedAt:       d.CreatedAt,
	}
}

// viewerIdentity reads the authenticated viewer from request headers.
// Returns nil when the request carries no identity.
func viewerIdentity(r *http.Request) *listing.Identity {
	id := r.Header.Get("X-User-ID")
	if id == "" {
		return nil
	}
	return &listing.Identity{
		ID:            id,
		Role:          listing.Role(r.Header.Get("X-User-Role")),
		PhoneVerified: r.Header.Get("X-Phone-Verified") == "true",
	}
}
