package gateway

import "errors"

// ErrSessionExpired indicates a 401/403 on an authenticated endpoint. The
// session has already been cleared and the expiry hook fired; callers
// should not also render an inline error for it.
var ErrSessionExpired = errors.New("session expired")

// APIError is a failure response from the shop service. Status carries the
// HTTP code so callers can branch without parsing the message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// NetworkError means the transport could not complete at all; there is no
// response and no status.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "Network error"
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
