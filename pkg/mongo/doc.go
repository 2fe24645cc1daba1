// Package mongo connects to MongoDB with the official v2 driver, retrying
// the initial ping, and exposes a health probe for the service's readiness
// endpoint. It backs the document variant of the cashier store.
package mongo
