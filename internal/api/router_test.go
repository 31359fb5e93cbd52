package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"food-dispatch-service/internal/adapters/memory"
	"food-dispatch-service/internal/domain"
)

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newTestRouter(t *testing.T) (http.Handler, *memory.Facade) {
	t.Helper()
	facade := memory.NewFacade()
	router := NewRouter(Stores{
		Listings:    facade,
		Tasks:       facade,
		Submissions: facade,
	}, testLogger())
	return router, facade
}

func seedDonation(f *memory.Facade, id string, status domain.DonationStatus) {
	f.PutDonation(&domain.Donation{
		ID:              id,
		DonorID:         "d1",
		Category:        domain.CategoryProduce,
		Qty:             10,
		Unit:            "lbs",
		Perishability:   domain.PerishabilityHigh,
		Status:          status,
		PickupWindowEnd: time.Now().Add(6 * time.Hour),
	})
}

func doRequest(router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func recipientHeaders(id string) map[string]string {
	return map[string]string{
		"X-User-ID":        id,
		"X-User-Role":      "recipient",
		"X-Phone-Verified": "true",
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestListListingsFiltersByStatus(t *testing.T) {
	router, facade := newTestRouter(t)
	seedDonation(facade, "don1", domain.DonationAvailable)
	seedDonation(facade, "don2", domain.DonationClaimed)

	rec := doRequest(router, http.MethodGet, "/api/listings?status=available", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var res struct {
		Donations []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"donations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Donations) != 1 || res.Donations[0].ID != "don1" {
		t.Fatalf("unexpected donations: %+v", res.Donations)
	}

	rec = doRequest(router, http.MethodGet, "/api/listings?status=all", "", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Donations) != 2 {
		t.Fatalf("expected both donations, got %+v", res.Donations)
	}
}

func TestClaimRequiresAuth(t *testing.T) {
	router, facade := newTestRouter(t)
	seedDonation(facade, "don1", domain.DonationAvailable)

	rec := doRequest(router, http.MethodPost, "/api/listings/don1/claim", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestClaimRejectsWrongRole(t *testing.T) {
	router, facade := newTestRouter(t)
	seedDonation(facade, "don1", domain.DonationAvailable)

	rec := doRequest(router, http.MethodPost, "/api/listings/don1/claim", "", map[string]string{
		"X-User-ID":        "u1",
		"X-User-Role":      "donor",
		"X-Phone-Verified": "true",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestClaimRequiresVerifiedPhone(t *testing.T) {
	router, facade := newTestRouter(t)
	seedDonation(facade, "don1", domain.DonationAvailable)

	rec := doRequest(router, http.MethodPost, "/api/listings/don1/claim", "", map[string]string{
		"X-User-ID":   "u1",
		"X-User-Role": "recipient",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestClaimSucceedsAndConflictsOnSecond(t *testing.T) {
	router, facade := newTestRouter(t)
	seedDonation(facade, "don1", domain.DonationAvailable)

	rec := doRequest(router, http.MethodPost, "/api/listings/don1/claim", "", recipientHeaders("u1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		Success bool `json:"success"`
		Listing *struct {
			Status      string `json:"status"`
			RecipientID string `json:"recipient_id"`
		} `json:"listing"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !res.Success || res.Listing == nil || res.Listing.Status != "claimed" || res.Listing.RecipientID != "u1" {
		t.Fatalf("unexpected claim response: %+v", res)
	}

	rec = doRequest(router, http.MethodPost, "/api/listings/don1/claim", "", recipientHeaders("u2"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for second claim, got %d", rec.Code)
	}
}

func TestClaimUnknownListing(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/listings/missing/claim", "", recipientHeaders("u1"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateDonationValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/donations", `{"category":"produce","qty":5}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing donor_id: expected 400, got %d", rec.Code)
	}

	rec = doRequest(router, http.MethodPost, "/api/donations",
		`{"donor_id":"d1","category":"produce","qty":5,"unit":"lbs"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.ID == "" || res.Status != "available" {
		t.Fatalf("unexpected created donation: %+v", res)
	}
}

func TestCreateRequestDefaults(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/requests", `{"recipient_id":"u1"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		Category      string `json:"category"`
		HouseholdSize int    `json:"household_size"`
		Status        string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Category != "any" || res.HouseholdSize != 1 || res.Status != "open" {
		t.Fatalf("defaults not applied: %+v", res)
	}
}
