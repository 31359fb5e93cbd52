package domain

import "errors"

var (
	ErrDonationNotFound    = errors.New("donation not found")
	ErrDonationUnavailable = errors.New("donation is no longer available")
)
