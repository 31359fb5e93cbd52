package listing

import "errors"

// Claim failure conditions, each surfaced distinctly so callers can
// branch presentation: sign-in prompt, role message, refresh, phone
// collection, re-auth, or retry.
var (
	ErrUnauthenticated = errors.New("sign in required to claim a listing")
	ErrForbiddenRole   = errors.New("only recipients can claim listings")
	ErrUnavailable     = errors.New("listing is no longer available")
	ErrPhoneUnverified = errors.New("a verified phone number is required before claiming")
	ErrSessionExpired  = errors.New("session expired, sign in again")
	ErrForbidden       = errors.New("not allowed to claim this listing")
	ErrClaimTimeout    = errors.New("claim request timed out")
)

// Retryable reports whether a claim failure is worth retrying without
// user intervention.
func Retryable(err error) bool {
	return errors.Is(err, ErrClaimTimeout)
}
