package cashier

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/cashier/pkg/logger"
	"github.com/dmitrymomot/cashier/pkg/paystack"
)

// CreateAsCustomer creates a Paystack customer for the billable and records
// the link locally. The billable's email is used unless opts names one.
// An existing local row without a Paystack link (created for a generic trial)
// is updated in place.
func (c *Cashier) CreateAsCustomer(ctx context.Context, billable Billable, opts paystack.Params) (*paystack.Customer, error) {
	payload := make(paystack.Params, len(opts)+1)
	maps.Copy(payload, opts)
	if _, ok := payload["email"]; !ok {
		payload["email"] = billable.BillingEmail()
	}

	res, err := c.gateway.CreateCustomer(ctx, payload)
	if err != nil {
		return nil, errors.Join(ErrCustomerCreate, err)
	}
	if !res.Status {
		return nil, errors.Join(ErrCustomerCreate, fmt.Errorf("unable to create paystack customer: %s", res.Message))
	}

	var remote paystack.Customer
	if err := res.Decode(&remote); err != nil {
		return nil, errors.Join(ErrCustomerCreate, err)
	}

	if _, err := c.linkCustomer(ctx, billable.BillingOwner(), &remote); err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "paystack customer created",
		logger.Owner(billable.BillingOwner()),
		logger.CustomerCode(remote.CustomerCode),
	)
	return &remote, nil
}

func (c *Cashier) linkCustomer(ctx context.Context, owner Owner, remote *paystack.Customer) (*Customer, error) {
	now := c.now()
	id := remote.ID

	existing, err := c.store.CustomerByOwner(ctx, owner)
	switch {
	case err == nil:
		existing.PaystackID = &id
		existing.PaystackCode = remote.CustomerCode
		existing.UpdatedAt = now
		if err := c.store.UpdateCustomer(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	case errors.Is(err, ErrCustomerNotFound):
	default:
		return nil, err
	}

	customer := &Customer{
		ID:           uuid.New(),
		Owner:        owner,
		PaystackID:   &id,
		PaystackCode: remote.CustomerCode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := c.store.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// StartGenericTrial records a customer-level trial that is not tied to any
// subscription. The local row is created if the owner has none.
func (c *Cashier) StartGenericTrial(ctx context.Context, billable Billable, until time.Time) (*Customer, error) {
	now := c.now()
	owner := billable.BillingOwner()

	customer, err := c.store.CustomerByOwner(ctx, owner)
	switch {
	case err == nil:
		customer.TrialEndsAt = &until
		customer.UpdatedAt = now
		return customer, c.store.UpdateCustomer(ctx, customer)
	case errors.Is(err, ErrCustomerNotFound):
	default:
		return nil, err
	}

	customer = &Customer{
		ID:          uuid.New(),
		Owner:       owner,
		TrialEndsAt: &until,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return customer, c.store.CreateCustomer(ctx, customer)
}

// Customer returns the local customer row of the billable.
// Returns ErrCustomerNotFound if there is none.
func (c *Cashier) Customer(ctx context.Context, billable Billable) (*Customer, error) {
	return c.store.CustomerByOwner(ctx, billable.BillingOwner())
}

// AsPaystackCustomer fetches the billable's customer from Paystack.
// Returns ErrInvalidCustomerState if the billable was never created there.
func (c *Cashier) AsPaystackCustomer(ctx context.Context, billable Billable) (*paystack.Customer, error) {
	customer, err := c.requireCustomer(ctx, billable.BillingOwner())
	if err != nil {
		return nil, err
	}

	res, err := requireStatus(c.gateway.FetchCustomer(ctx, customer.PaystackCode))
	if err != nil {
		return nil, err
	}

	var remote paystack.Customer
	if err := res.Decode(&remote); err != nil {
		return nil, err
	}
	return &remote, nil
}

// requireCustomer loads the owner's customer and fails unless it is linked to Paystack.
func (c *Cashier) requireCustomer(ctx context.Context, owner Owner) (*Customer, error) {
	customer, err := c.store.CustomerByOwner(ctx, owner)
	if err != nil && !errors.Is(err, ErrCustomerNotFound) {
		return nil, err
	}
	if !customer.IsPaystackCustomer() {
		return nil, errors.Join(ErrInvalidCustomerState, fmt.Errorf("%s is not a paystack customer, create it first", owner))
	}
	return customer, nil
}
