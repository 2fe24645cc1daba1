package paystack

import (
	"errors"
	"fmt"
)

var (
	ErrMissingSecretKey = errors.New("paystack secret key is required")
	ErrRequestFailed    = errors.New("paystack request failed")
	ErrDecodeResponse   = errors.New("failed to decode paystack response")
	ErrEmptyData        = errors.New("paystack response has no data")
)

// GatewayError reports a failed call to the Paystack API.
// StatusCode is zero when the request never produced an HTTP response
// (connection failure, timeout, cancelled context).
type GatewayError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("paystack: %s (status %d)", e.Message, e.StatusCode)
	}
	return "paystack: " + e.Message
}

// Unwrap exposes ErrRequestFailed and the underlying transport error, if any.
func (e *GatewayError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRequestFailed}
	}
	return []error{ErrRequestFailed, e.Err}
}
