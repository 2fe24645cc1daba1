package cashier

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/dmitrymomot/cashier/pkg/logger"
	"github.com/dmitrymomot/cashier/pkg/paystack"
)

// The lifecycle operations below only touch local state after every remote
// call they depend on has succeeded. Each holds the subscription's lock for
// its whole duration.

// Cancel disables the subscription on Paystack and schedules its local end:
// at the trial end while trialing, otherwise at the next payment date.
// Until then the subscription is on its grace period.
func (c *Cashier) Cancel(ctx context.Context, sub *Subscription) error {
	unlock, err := c.lockSubscription(ctx, sub.PaystackCode)
	if err != nil {
		return err
	}
	defer unlock()

	return c.cancel(ctx, sub)
}

// CancelNow disables the subscription on Paystack and ends it immediately.
func (c *Cashier) CancelNow(ctx context.Context, sub *Subscription) error {
	unlock, err := c.lockSubscription(ctx, sub.PaystackCode)
	if err != nil {
		return err
	}
	defer unlock()

	if err := c.cancel(ctx, sub); err != nil {
		return err
	}
	return c.markAsCancelled(ctx, sub)
}

// MarkAsCancelled ends the subscription locally at the current time without
// contacting Paystack.
func (c *Cashier) MarkAsCancelled(ctx context.Context, sub *Subscription) error {
	unlock, err := c.lockSubscription(ctx, sub.PaystackCode)
	if err != nil {
		return err
	}
	defer unlock()

	return c.markAsCancelled(ctx, sub)
}

// Resume re-enables a cancelled subscription on Paystack and clears its end.
// The subscription is located among the owner's remote subscriptions by
// Paystack id, or by code when the id was never recorded.
func (c *Cashier) Resume(ctx context.Context, sub *Subscription) error {
	unlock, err := c.lockSubscription(ctx, sub.PaystackCode)
	if err != nil {
		return err
	}
	defer unlock()

	customer, err := c.requireCustomer(ctx, sub.Owner)
	if err != nil {
		return err
	}

	res, err := requireStatus(c.gateway.ListSubscriptions(ctx, strconv.FormatInt(*customer.PaystackID, 10)))
	if err != nil {
		return err
	}
	if !res.HasData() {
		return ErrSubscriptionLookup
	}

	var remotes []paystack.Subscription
	if err := res.Decode(&remotes); err != nil {
		return err
	}

	var match *paystack.Subscription
	for i := range remotes {
		if matchesRemote(sub, &remotes[i]) {
			match = &remotes[i]
			break
		}
	}
	if match == nil {
		return ErrSubscriptionNotFoundForCustomer
	}

	if _, err := requireStatus(c.gateway.EnableSubscription(ctx, match.SubscriptionCode, match.EmailToken)); err != nil {
		return err
	}

	updated := *sub
	updated.EndsAt = nil
	updated.UpdatedAt = c.now()
	if err := c.store.UpdateSubscription(ctx, &updated); err != nil {
		return err
	}
	*sub = updated

	c.logger.InfoContext(ctx, "subscription resumed",
		logger.Owner(sub.Owner),
		logger.SubscriptionCode(sub.PaystackCode),
	)
	return nil
}

// Swap moves the owner to another plan: the current subscription is
// cancelled (unless it already is) and a new one is created for the same
// Paystack customer, starting at the current next payment date. attrs are
// merged into the create request.
func (c *Cashier) Swap(ctx context.Context, sub *Subscription, plan string, attrs paystack.Params) (*paystack.Result, error) {
	unlock, err := c.lockSubscription(ctx, sub.PaystackCode)
	if err != nil {
		return nil, err
	}
	defer unlock()

	remote, err := c.remoteSubscription(ctx, sub.PaystackCode)
	if err != nil {
		return nil, err
	}

	if !sub.Cancelled() {
		if err := c.cancel(ctx, sub); err != nil {
			return nil, err
		}
	}

	payload := paystack.Params{
		"customer": remote.Customer.CustomerCode,
		"plan":     plan,
	}
	if remote.NextPaymentDate != nil {
		payload["start_date"] = remote.NextPaymentDate.Format(time.RFC3339)
	}

	res, err := requireStatus(c.gateway.CreateSubscription(ctx, payload.Merge(attrs)))
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "subscription swapped",
		logger.Owner(sub.Owner),
		logger.SubscriptionCode(sub.PaystackCode),
		logger.Plan(plan),
	)
	return res, nil
}

// AsPaystackSubscription fetches the current remote snapshot of the subscription.
func (c *Cashier) AsPaystackSubscription(ctx context.Context, sub *Subscription) (*paystack.Subscription, error) {
	return c.remoteSubscription(ctx, sub.PaystackCode)
}

func (c *Cashier) cancel(ctx context.Context, sub *Subscription) error {
	remote, err := c.remoteSubscription(ctx, sub.PaystackCode)
	if err != nil {
		return err
	}

	if _, err := requireStatus(c.gateway.DisableSubscription(ctx, remote.SubscriptionCode, remote.EmailToken)); err != nil {
		return err
	}

	now := c.now()
	var endsAt time.Time
	switch {
	case sub.OnTrialAt(now):
		endsAt = *sub.TrialEndsAt
	case remote.NextPaymentDate != nil:
		endsAt = *remote.NextPaymentDate
	default:
		endsAt = now
	}

	updated := *sub
	updated.EndsAt = &endsAt
	updated.UpdatedAt = now
	if err := c.store.UpdateSubscription(ctx, &updated); err != nil {
		return err
	}
	*sub = updated

	c.logger.InfoContext(ctx, "subscription cancelled",
		logger.Owner(sub.Owner),
		logger.SubscriptionCode(sub.PaystackCode),
	)
	return nil
}

func (c *Cashier) markAsCancelled(ctx context.Context, sub *Subscription) error {
	now := c.now()
	updated := *sub
	updated.EndsAt = &now
	updated.UpdatedAt = now
	if err := c.store.UpdateSubscription(ctx, &updated); err != nil {
		return err
	}
	*sub = updated
	return nil
}

// remoteSubscription fetches a subscription by code and reports
// ErrSubscriptionLookup when Paystack has no such subscription.
func (c *Cashier) remoteSubscription(ctx context.Context, code string) (*paystack.Subscription, error) {
	res, err := requireStatus(c.gateway.FetchSubscription(ctx, code))
	if err != nil {
		if isNotFound(err) {
			return nil, errors.Join(ErrSubscriptionLookup, err)
		}
		return nil, err
	}
	if !res.HasData() {
		return nil, ErrSubscriptionLookup
	}

	var remote paystack.Subscription
	if err := res.Decode(&remote); err != nil {
		return nil, err
	}
	return &remote, nil
}

func matchesRemote(sub *Subscription, remote *paystack.Subscription) bool {
	if sub.PaystackID != nil {
		return remote.ID == *sub.PaystackID
	}
	return sub.PaystackCode != "" && remote.SubscriptionCode == sub.PaystackCode
}
