package cashier

import (
	"context"
	"errors"
	"maps"

	"github.com/dmitrymomot/cashier/pkg/paystack"
)

// Charge charges the billable the given amount in the smallest currency unit.
// When opts carries an "authorization_code" the saved card is charged
// directly, and "card" or "bank" details go to the direct charge endpoint.
// Otherwise a transaction is initialized and the result carries an
// authorization URL for the customer to complete payment.
// A reference is generated unless opts provides one.
func (c *Cashier) Charge(ctx context.Context, billable Billable, amount int64, opts paystack.Params) (*paystack.Result, error) {
	payload := paystack.Params{"currency": c.cfg.Currency}
	if _, ok := opts["reference"]; !ok {
		ref, err := c.refs.Generate()
		if err != nil {
			return nil, err
		}
		payload["reference"] = ref
	}
	payload = payload.Merge(opts)
	payload["email"] = billable.BillingEmail()
	payload["amount"] = amount

	call := c.gateway.InitializeTransaction
	switch {
	case payload["authorization_code"] != nil:
		call = c.gateway.ChargeAuthorization
	case payload["card"] != nil, payload["bank"] != nil:
		call = c.gateway.Charge
	}

	res, err := call(ctx, payload)
	if err != nil {
		return nil, err
	}
	if !res.Status {
		return nil, errors.Join(ErrChargeFailed, errors.New(res.Message))
	}
	return res, nil
}

// Refund refunds a transaction, fully or partially when opts carries an "amount".
func (c *Cashier) Refund(ctx context.Context, transaction string, opts paystack.Params) (*paystack.Result, error) {
	payload := make(paystack.Params, len(opts)+1)
	maps.Copy(payload, opts)
	payload["transaction"] = transaction
	return requireStatus(c.gateway.Refund(ctx, payload))
}
