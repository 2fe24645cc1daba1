package cashier

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CustomerStore persists customer rows.
type CustomerStore interface {
	// CreateCustomer inserts a new customer.
	// Returns ErrCustomerAlreadyExists if the owner already has one.
	CreateCustomer(ctx context.Context, customer *Customer) error

	// UpdateCustomer overwrites the customer identified by customer.ID.
	// Returns ErrCustomerNotFound if no such row exists.
	UpdateCustomer(ctx context.Context, customer *Customer) error

	// CustomerByOwner returns ErrCustomerNotFound if the owner has no customer.
	CustomerByOwner(ctx context.Context, owner Owner) (*Customer, error)

	// CustomerByCode looks a customer up by its Paystack customer code.
	// Returns ErrCustomerNotFound if no customer carries the code.
	CustomerByCode(ctx context.Context, code string) (*Customer, error)
}

// SubscriptionStore persists subscription rows.
type SubscriptionStore interface {
	// CreateSubscription inserts a new subscription.
	// Returns ErrSubscriptionAlreadyExists if its Paystack code is already recorded.
	CreateSubscription(ctx context.Context, sub *Subscription) error

	// UpdateSubscription overwrites the subscription identified by sub.ID.
	// Returns ErrSubscriptionNotFound if no such row exists.
	UpdateSubscription(ctx context.Context, sub *Subscription) error

	// SubscriptionByCode returns ErrSubscriptionNotFound if no subscription
	// carries the Paystack code.
	SubscriptionByCode(ctx context.Context, code string) (*Subscription, error)

	// SubscriptionsByOwner returns the owner's subscriptions, newest first.
	SubscriptionsByOwner(ctx context.Context, owner Owner) ([]*Subscription, error)
}

// FailedEvent is a webhook delivery whose handler returned an error.
// It is kept so the delivery can be inspected and replayed.
type FailedEvent struct {
	ID            uuid.UUID
	Event         string
	Payload       []byte
	Error         string
	Attempts      int
	CreatedAt     time.Time
	LastAttemptAt time.Time
}

// FailedEventStore persists failed webhook deliveries.
type FailedEventStore interface {
	// SaveFailedEvent inserts the event or replaces the row with the same ID.
	SaveFailedEvent(ctx context.Context, event *FailedEvent) error

	// FailedEvent returns ErrFailedEventNotFound if no row has the ID.
	FailedEvent(ctx context.Context, id uuid.UUID) (*FailedEvent, error)

	// FailedEvents lists failed events, newest first. A non-positive limit
	// returns all of them.
	FailedEvents(ctx context.Context, limit int) ([]*FailedEvent, error)

	DeleteFailedEvent(ctx context.Context, id uuid.UUID) error
}

// Store is the full persistence surface used by Cashier.
type Store interface {
	CustomerStore
	SubscriptionStore
	FailedEventStore
}
