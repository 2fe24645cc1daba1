package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// SignatureHeader carries the hex encoded HMAC of the request body.
const SignatureHeader = "X-Paystack-Signature"

// Sign returns the hex encoded HMAC-SHA256 of payload keyed by secret.
func Sign(secret string, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// Verify checks signature against the HMAC-SHA256 of payload.
// An empty secret skips verification and always returns nil.
func Verify(secret string, payload []byte, signature string) error {
	if secret == "" {
		return nil
	}

	signature = strings.TrimSpace(signature)
	if signature == "" {
		return errors.Join(ErrSignatureVerificationFailed, ErrMissingSignature)
	}

	expected := Sign(secret, payload)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(signature))) {
		return errors.Join(ErrSignatureVerificationFailed, ErrSignatureMismatch)
	}

	return nil
}
