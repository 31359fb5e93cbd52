package memory

import (
	"context"
	"fmt"
	"sort"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"food-dispatch-service/internal/domain"
	"food-dispatch-service/internal/ports"
)

var (
	_ ports.ListingStore    = (*Facade)(nil)
	_ ports.SubmissionStore = (*Facade)(nil)
)

func (f *Facade) GetDonations(ctx context.Context, status string) ([]*domain.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*domain.Donation
	for _, d := range f.donations {
		if status != "" && string(d.Status) != status {
			continue
		}
		dc := d
		out = append(out, &dc)
	}
	// Newest first, matching the SQL adapter.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *Facade) ClaimDonation(ctx context.Context, donationID, recipientID string) (*domain.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	d, ok := f.donations[donationID]
	if !ok {
		return nil, domain.ErrDonationNotFound
	}
	if d.Status != domain.DonationAvailable {
		return nil, domain.ErrDonationUnavailable
	}

	d.Status = domain.DonationClaimed
	d.ClaimedBy = recipientID
	f.donations[donationID] = d

	dc := d
	return &dc, nil
}

func (f *Facade) CreateDonation(ctx context.Context, d *domain.Donation) (*domain.Donation, error) {
	if d == nil {
		return nil, fmt.Errorf("create donation: nil record")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	dc := *d
	if dc.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("create donation: generate id: %w", err)
		}
		dc.ID = "don_" + id
	}
	if dc.CreatedAt.IsZero() {
		dc.CreatedAt = f.now()
	}
	if dc.Status == "" {
		dc.Status = domain.DonationAvailable
	}

	f.donations[dc.ID] = dc
	out := dc
	return &out, nil
}

func (f *Facade) CreateRequest(ctx context.Context, r *domain.Request) (*domain.Request, error) {
	if r == nil {
		return nil, fmt.Errorf("create request: nil record")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	rc := *r
	if rc.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("create request: generate id: %w", err)
		}
		rc.ID = "req_" + id
	}
	if rc.CreatedAt.IsZero() {
		rc.CreatedAt = f.now()
	}
	if rc.Status == "" {
		rc.Status = domain.RequestOpen
	}

	f.requests[rc.ID] = rc
	out := rc
	return &out, nil
}
