package listing

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ClaimResult is the claim operation's reply. Listing is the
// authoritative record when the backend echoes one; nil means the
// claim succeeded but returned no body, and the caller falls back to
// an optimistic patch.
type ClaimResult struct {
	Success bool
	Listing *Listing
}

// ClaimClient performs the claim operation against the backend.
// Implementations must surface session expiry, forbidden, and timeout
// conditions as ErrSessionExpired, ErrForbidden, and ErrClaimTimeout.
type ClaimClient interface {
	Claim(ctx context.Context, listingID, recipientID string) (*ClaimResult, error)
}

// ClaimRecords is the local fallback record of claimed listing ids,
// keyed per identity so records never leak across accounts. It covers
// backends that do not echo recipient identity on read.
type ClaimRecords interface {
	Add(ctx context.Context, identityID, listingID string) error
	Has(ctx context.Context, identityID, listingID string) (bool, error)
}

// Reconciler merges server-confirmed listing state with a transient
// optimistic overlay. The overlay exists only between a claim action
// and the next full refresh, which overwrites it wholesale.
type Reconciler struct {
	client  ClaimClient
	records ClaimRecords
	log     logrus.FieldLogger

	mu            sync.Mutex
	authoritative map[string]Listing
	overlay       map[string]Listing
	order         []string
}

func NewReconciler(client ClaimClient, records ClaimRecords, log logrus.FieldLogger) *Reconciler {
	return &Reconciler{
		client:        client,
		records:       records,
		log:           log,
		authoritative: make(map[string]Listing),
		overlay:       make(map[string]Listing),
	}
}

// Refresh replaces the authoritative layer from a full server fetch
// and discards the optimistic overlay; the server snapshot wins.
func (r *Reconciler) Refresh(listings []Listing) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.authoritative = make(map[string]Listing, len(listings))
	r.order = r.order[:0]
	for _, l := range listings {
		r.authoritative[l.ID] = l
		r.order = append(r.order, l.ID)
	}
	r.overlay = make(map[string]Listing)
}

// Listings returns the merged view in fetch order, overlay patches
// applied on top of authoritative state.
func (r *Reconciler) Listings() []Listing {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mergedLocked()
}

func (r *Reconciler) mergedLocked() []Listing {
	out := make([]Listing, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.lookupLocked(id))
	}
	return out
}

func (r *Reconciler) lookupLocked(id string) Listing {
	l := r.authoritative[id]
	if patch, ok := r.overlay[id]; ok {
		patch.Status = mergeStatus(l.Status, patch.Status)
		return patch
	}
	return l
}

// Get returns the merged view of one listing.
func (r *Reconciler) Get(id string) (Listing, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authoritative[id]; !ok {
		return Listing{}, false
	}
	return r.lookupLocked(id), true
}

// Claim runs the full claim flow for one listing: local precondition
// checks, the backend claim call, then state reconciliation. On
// success the returned listing reflects the post-claim merged state.
func (r *Reconciler) Claim(ctx context.Context, identity *Identity, listingID string) (Listing, error) {
	if identity == nil || identity.ID == "" {
		return Listing{}, ErrUnauthenticated
	}
	if identity.Role != RoleRecipient {
		return Listing{}, ErrForbiddenRole
	}

	current, ok := r.Get(listingID)
	if !ok || current.Status != StatusAvailable {
		return Listing{}, ErrUnavailable
	}

	if !identity.PhoneVerified {
		return Listing{}, ErrPhoneUnverified
	}

	result, err := r.client.Claim(ctx, listingID, identity.ID)
	if err != nil {
		return Listing{}, fmt.Errorf("claim listing %s: %w", listingID, err)
	}
	if result == nil || !result.Success {
		return Listing{}, fmt.Errorf("claim listing %s: %w", listingID, ErrUnavailable)
	}

	r.mu.Lock()
	var merged Listing
	if result.Listing != nil {
		// Authoritative reply: merge server fields, monotonic status.
		merged = *result.Listing
		merged.ID = listingID
		merged.Status = mergeStatus(current.Status, merged.Status)
		if merged.Status == StatusAvailable {
			merged.Status = StatusClaimed
		}
		r.authoritative[listingID] = merged
		delete(r.overlay, listingID)
	} else {
		// No body: optimistic patch, overwritten by the next refresh.
		merged = current
		merged.Status = mergeStatus(current.Status, StatusClaimed)
		merged.RecipientID = identity.ID
		r.overlay[listingID] = merged
	}
	r.mu.Unlock()

	// Best-effort fallback record; reconciliation still works off
	// server state when this write fails.
	if err := r.records.Add(ctx, identity.ID, listingID); err != nil {
		r.log.WithError(err).WithField("listing_id", listingID).Warn("claim record write failed")
	}

	return merged, nil
}

// ClaimedByViewer reports whether the viewer claimed the listing,
// consulting the server recipient id first and the local fallback
// record second.
func (r *Reconciler) ClaimedByViewer(ctx context.Context, l Listing, identity *Identity) bool {
	if identity == nil {
		return false
	}
	if l.RecipientID != "" && l.RecipientID == identity.ID {
		return true
	}

	has, err := r.records.Has(ctx, identity.ID, l.ID)
	if err != nil {
		r.log.WithError(err).WithField("listing_id", l.ID).Debug("claim record lookup failed")
		return false
	}
	return has
}
