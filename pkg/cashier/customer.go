package cashier

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the local record linking an owner to its Paystack customer.
// There is at most one customer per owner.
type Customer struct {
	ID           uuid.UUID
	Owner        Owner
	PaystackID   *int64
	PaystackCode string
	CardBrand    string
	CardLastFour string
	TrialEndsAt  *time.Time // generic trial, not tied to any subscription
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsPaystackCustomer reports whether the customer has been created on Paystack.
func (c *Customer) IsPaystackCustomer() bool {
	return c != nil && c.PaystackID != nil
}

// OnGenericTrialAt reports whether the customer-level trial is still running at now.
func (c *Customer) OnGenericTrialAt(now time.Time) bool {
	return c != nil && c.TrialEndsAt != nil && c.TrialEndsAt.After(now)
}

func (c *Customer) OnGenericTrial() bool {
	return c.OnGenericTrialAt(time.Now())
}

// HasExpiredGenericTrialAt reports whether a customer-level trial existed and is over at now.
func (c *Customer) HasExpiredGenericTrialAt(now time.Time) bool {
	return c != nil && c.TrialEndsAt != nil && !c.TrialEndsAt.After(now)
}

func (c *Customer) HasExpiredGenericTrial() bool {
	return c.HasExpiredGenericTrialAt(time.Now())
}
