package webhook

import "errors"

// ErrSignatureVerificationFailed is the umbrella error for every rejected
// delivery; ErrMissingSignature and ErrSignatureMismatch are joined onto it.
var (
	ErrSignatureVerificationFailed = errors.New("webhook signature verification failed")
	ErrMissingSignature            = errors.New("webhook signature header is missing")
	ErrSignatureMismatch           = errors.New("webhook signature mismatch")
	ErrPayloadTooLarge             = errors.New("webhook payload too large")
)
