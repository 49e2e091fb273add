package payment

import "errors"

var (
	// ErrNotConfigured indicates no provider secret key is set.
	ErrNotConfigured = errors.New("payment provider not configured")
	// ErrRejected indicates the provider refused the request.
	ErrRejected = errors.New("payment provider rejected request")
	// ErrUnavailable indicates the provider could not be reached or failed internally.
	ErrUnavailable = errors.New("payment provider unavailable")
)
