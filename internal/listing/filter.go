package listing

import (
	"context"

	"food-dispatch-service/internal/domain"
)

// FilterAll is the wildcard value for every filter dimension.
const FilterAll = "all"

type Filters struct {
	Status        string
	Category      string
	Perishability string
}

// Visible computes the viewer's listing set for the active filters.
//
// The status dimension has two deliberate branches:
//
//   - the "available" view UNIONS strictly-available listings with the
//     viewer's own in-flight items (a donor sees their own claimed
//     listings, a recipient sees listings they claimed), so a claim
//     never makes one's own item vanish mid-flow;
//   - the "all" view instead SUBTRACTS claimed/pending items that are
//     irrelevant to the viewer, so the broad view is not cluttered
//     with other people's in-flight claims.
//
// Any other status value filters by plain equality.
func (r *Reconciler) Visible(ctx context.Context, filters Filters, identity *Identity) []Listing {
	merged := r.Listings()

	base := merged[:0:0]
	for _, l := range merged {
		if filters.Category != FilterAll && filters.Category != "" && l.Category != filters.Category {
			continue
		}
		if filters.Perishability != FilterAll && filters.Perishability != "" &&
			l.Perishability != domain.Perishability(filters.Perishability) {
			continue
		}
		base = append(base, l)
	}

	switch filters.Status {
	case string(StatusAvailable):
		return r.availableView(ctx, base, identity)
	case FilterAll, "":
		return r.allView(ctx, base, identity)
	default:
		out := base[:0:0]
		for _, l := range base {
			if string(l.Status) == filters.Status {
				out = append(out, l)
			}
		}
		return out
	}
}

func (r *Reconciler) availableView(ctx context.Context, base []Listing, identity *Identity) []Listing {
	out := base[:0:0]
	for _, l := range base {
		if l.Status == StatusAvailable {
			out = append(out, l)
			continue
		}
		if inFlight(l.Status) && r.relevantToViewer(ctx, l, identity) {
			out = append(out, l)
		}
	}
	return out
}

func (r *Reconciler) allView(ctx context.Context, base []Listing, identity *Identity) []Listing {
	out := base[:0:0]
	for _, l := range base {
		if inFlight(l.Status) && !r.relevantToViewer(ctx, l, identity) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func inFlight(s Status) bool {
	return s == StatusClaimed || s == StatusPendingConfirmation
}

// relevantToViewer reports whether an in-flight listing belongs to the
// viewer for their role: donors keep sight of their own listings,
// recipients of listings they claimed (by server recipient id or the
// local fallback record).
func (r *Reconciler) relevantToViewer(ctx context.Context, l Listing, identity *Identity) bool {
	if identity == nil {
		return false
	}

	switch identity.Role {
	case RoleDonor:
		return l.DonorID == identity.ID
	case RoleRecipient:
		return r.ClaimedByViewer(ctx, l, identity)
	default:
		return false
	}
}
