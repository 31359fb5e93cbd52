package ports

import (
	"context"

	"food-dispatch-service/internal/domain"
)

// ListingStore backs the public listing endpoints. Status filtering
// happens in the store so the broad view does not page the whole
// donation table through the handler.
type ListingStore interface {
	// GetDonations returns donations in a status, or all of them when
	// status is empty.
	GetDonations(ctx context.Context, status string) ([]*domain.Donation, error)
	// ClaimDonation atomically transitions an available donation to
	// claimed for a recipient. Returns domain.ErrDonationNotFound or
	// domain.ErrDonationUnavailable on failure.
	ClaimDonation(ctx context.Context, donationID, recipientID string) (*domain.Donation, error)
}

// SubmissionStore accepts donor and recipient submissions from the
// public API.
type SubmissionStore interface {
	CreateDonation(ctx context.Context, d *domain.Donation) (*domain.Donation, error)
	CreateRequest(ctx context.Context, r *domain.Request) (*domain.Request, error)
}
