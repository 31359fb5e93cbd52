package api

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"food-dispatch-service/internal/api/handlers"
	"food-dispatch-service/internal/listing"
	"food-dispatch-service/internal/ports"
)

// Stores groups the port dependencies the HTTP surface needs.
// ClaimRecords is optional.
type Stores struct {
	Listings     ports.ListingStore
	Tasks        ports.TaskStore
	Submissions  ports.SubmissionStore
	ClaimRecords listing.ClaimRecords
}

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay
// unaware of concrete adapters).
func NewRouter(stores Stores, log logrus.FieldLogger) http.Handler {
	mux := http.NewServeMux()

	listingHandler := &handlers.ListingHandler{Store: stores.Listings, Records: stores.ClaimRecords, Log: log}
	taskHandler := &handlers.TaskHandler{Store: stores.Tasks, Log: log}
	submissionHandler := &handlers.SubmissionHandler{Store: stores.Submissions, Log: log}

	mux.HandleFunc("/health", handlers.Health(log))
	mux.HandleFunc("GET /api/listings", listingHandler.List)
	mux.HandleFunc("POST /api/listings/{id}/claim", listingHandler.Claim)
	mux.HandleFunc("GET /api/tasks", taskHandler.List)
	mux.HandleFunc("POST /api/donations", submissionHandler.CreateDonation)
	mux.HandleFunc("POST /api/requests", submissionHandler.CreateRequest)

	return loggingMiddleware(log, mux)
}
