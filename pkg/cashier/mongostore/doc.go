// Package mongostore implements cashier.Store on MongoDB.
//
// Call EnsureIndexes once at startup; it creates the unique owner index on
// customers and the unique code index on subscriptions that the store relies
// on for ErrCustomerAlreadyExists and idempotent webhook handling.
package mongostore
