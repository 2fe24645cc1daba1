// Package webhook authenticates inbound Paystack webhook deliveries.
//
// Paystack signs each delivery with an HMAC-SHA256 of the raw request body
// keyed by the shared secret and sends the hex digest in the
// X-Paystack-Signature header. Verify recomputes the digest and compares it in
// constant time; Middleware applies the same check to an http.Handler and
// answers 403 before the body is parsed or any handler runs.
//
// An empty secret disables verification entirely. This is an explicit opt-out
// for environments that have no secret configured; production deployments
// should always set one.
//
// # Usage
//
//	r := chi.NewRouter()
//	r.With(webhook.Middleware(secret)).Post("/paystack", handler)
//
// Or verify manually:
//
//	if err := webhook.Verify(secret, body, r.Header.Get(webhook.SignatureHeader)); err != nil {
//		http.Error(w, "forbidden", http.StatusForbidden)
//		return
//	}
package webhook
