package cashier

import (
	"context"

	"github.com/dmitrymomot/cashier/pkg/paystack"
)

// Card is a saved card authorization of a customer.
type Card struct {
	paystack.Authorization
}

// Cards lists the billable's saved card authorizations.
func (c *Cashier) Cards(ctx context.Context, billable Billable) ([]Card, error) {
	remote, err := c.AsPaystackCustomer(ctx, billable)
	if err != nil {
		return nil, err
	}

	cards := make([]Card, 0, len(remote.Authorizations))
	for _, auth := range remote.Authorizations {
		if auth.Channel == "card" {
			cards = append(cards, Card{Authorization: auth})
		}
	}
	return cards, nil
}

// CheckCard asks Paystack whether the card can be charged the amount.
// Returns ErrPaymentMethodNotReusable for single-use authorizations.
func (c *Cashier) CheckCard(ctx context.Context, billable Billable, card Card, amount int64) (*paystack.Result, error) {
	if !card.Reusable {
		return nil, ErrPaymentMethodNotReusable
	}
	return requireStatus(c.gateway.CheckAuthorization(ctx, paystack.Params{
		"email":              billable.BillingEmail(),
		"amount":             amount,
		"authorization_code": card.AuthorizationCode,
	}))
}

// DeleteCard deactivates a saved authorization.
func (c *Cashier) DeleteCard(ctx context.Context, card Card) error {
	_, err := requireStatus(c.gateway.DeactivateAuthorization(ctx, card.AuthorizationCode))
	return err
}

// DeleteCards deactivates every saved card of the billable.
// It stops at the first failure.
func (c *Cashier) DeleteCards(ctx context.Context, billable Billable) error {
	cards, err := c.Cards(ctx, billable)
	if err != nil {
		return err
	}
	for _, card := range cards {
		if err := c.DeleteCard(ctx, card); err != nil {
			return err
		}
	}
	return nil
}
