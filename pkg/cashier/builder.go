package cashier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/cashier/pkg/logger"
	"github.com/dmitrymomot/cashier/pkg/paystack"
)

// minimumChargeAmount is the smallest amount Paystack accepts for a card
// authorization charge, in the smallest currency unit.
const minimumChargeAmount = 100

// SubscriptionBuilder accumulates the options of a new subscription.
// It is not safe for concurrent use.
type SubscriptionBuilder struct {
	cashier   *Cashier
	billable  Billable
	typ       string
	plan      string
	trialDays int
	skipTrial bool
}

// NewSubscription starts building a subscription of the given type to a plan code.
func (c *Cashier) NewSubscription(billable Billable, typ, plan string) *SubscriptionBuilder {
	if typ == "" {
		typ = c.cfg.SubscriptionType
	}
	return &SubscriptionBuilder{
		cashier:  c,
		billable: billable,
		typ:      typ,
		plan:     plan,
	}
}

// TrialDays sets the trial length. SkipTrial takes precedence regardless of call order.
func (b *SubscriptionBuilder) TrialDays(days int) *SubscriptionBuilder {
	b.trialDays = days
	return b
}

// SkipTrial forces the subscription to start without a trial.
func (b *SubscriptionBuilder) SkipTrial() *SubscriptionBuilder {
	b.skipTrial = true
	return b
}

func (b *SubscriptionBuilder) trialEndsAt(now time.Time) *time.Time {
	if b.skipTrial || b.trialDays <= 0 {
		return nil
	}
	t := now.AddDate(0, 0, b.trialDays)
	return &t
}

// Create resolves the billable's Paystack customer (creating it when needed),
// creates the subscription on Paystack and records it locally.
// A non-empty token is sent as the authorization to bill.
// The subscription starts now, or after the trial when one is set.
func (b *SubscriptionBuilder) Create(ctx context.Context, token string, opts paystack.Params) (*Subscription, error) {
	c := b.cashier

	customerCode, err := b.customerCode(ctx)
	if err != nil {
		return nil, err
	}

	startDate := c.now()
	if trial := b.trialEndsAt(startDate); trial != nil {
		startDate = *trial
	}

	payload := paystack.Params{
		"customer":   customerCode,
		"plan":       b.plan,
		"start_date": startDate.Format(time.RFC3339),
	}.Merge(opts)
	if token != "" {
		payload["authorization"] = token
	}

	res, err := c.gateway.CreateSubscription(ctx, payload)
	if err != nil {
		return nil, errors.Join(ErrSubscriptionCreate, err)
	}
	if !res.Status {
		return nil, errors.Join(ErrSubscriptionCreate, fmt.Errorf("paystack failed to create subscription: %s", res.Message))
	}

	var created paystack.CreatedSubscription
	if err := res.Decode(&created); err != nil {
		return nil, errors.Join(ErrSubscriptionCreate, err)
	}

	unlock, err := c.lockSubscription(ctx, created.SubscriptionCode)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return b.record(ctx, RemoteSubscription{ID: &created.ID, Code: created.SubscriptionCode})
}

// record saves the subscription, or completes the row a subscription.create
// webhook already inserted for the same code. Callers hold the code's lock.
func (b *SubscriptionBuilder) record(ctx context.Context, remote RemoteSubscription) (*Subscription, error) {
	existing, err := b.cashier.store.SubscriptionByCode(ctx, remote.Code)
	if errors.Is(err, ErrSubscriptionNotFound) {
		return b.Save(ctx, remote)
	}
	if err != nil {
		return nil, err
	}

	built := b.Build(remote)
	updated := *existing
	updated.Type = built.Type
	updated.PaystackID = built.PaystackID
	updated.PaystackPlan = built.PaystackPlan
	updated.TrialEndsAt = built.TrialEndsAt
	updated.UpdatedAt = built.UpdatedAt
	if err := b.cashier.store.UpdateSubscription(ctx, &updated); err != nil {
		return nil, err
	}

	b.cashier.logger.InfoContext(ctx, "subscription record completed",
		logger.Owner(updated.Owner),
		logger.SubscriptionCode(updated.PaystackCode),
		logger.Plan(updated.PaystackPlan),
	)
	return &updated, nil
}

func (b *SubscriptionBuilder) customerCode(ctx context.Context) (string, error) {
	customer, err := b.cashier.store.CustomerByOwner(ctx, b.billable.BillingOwner())
	if err != nil && !errors.Is(err, ErrCustomerNotFound) {
		return "", err
	}
	if customer.IsPaystackCustomer() {
		return customer.PaystackCode, nil
	}

	remote, err := b.cashier.CreateAsCustomer(ctx, b.billable, nil)
	if err != nil {
		return "", err
	}
	return remote.CustomerCode, nil
}

// Build returns the local subscription record for the remote identifiers
// without persisting it.
func (b *SubscriptionBuilder) Build(remote RemoteSubscription) *Subscription {
	now := b.cashier.now()
	return &Subscription{
		ID:           uuid.New(),
		Owner:        b.billable.BillingOwner(),
		Type:         b.typ,
		PaystackID:   remote.ID,
		PaystackCode: remote.Code,
		PaystackPlan: b.plan,
		Quantity:     1,
		TrialEndsAt:  b.trialEndsAt(now),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Save records a subscription that already exists on Paystack.
// Returns ErrSubscriptionAlreadyExists if the code is already recorded.
func (b *SubscriptionBuilder) Save(ctx context.Context, remote RemoteSubscription) (*Subscription, error) {
	sub := b.Build(remote)
	if err := b.cashier.store.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	b.cashier.logger.InfoContext(ctx, "subscription recorded",
		logger.Owner(sub.Owner),
		logger.SubscriptionCode(sub.PaystackCode),
		logger.Plan(sub.PaystackPlan),
	)
	return sub, nil
}

// Charge starts a minimum-amount card authorization charge tagged with the
// plan and owner. Paystack subscribes the customer to the plan once the
// charge succeeds and a subscription.create webhook records it locally.
func (b *SubscriptionBuilder) Charge(ctx context.Context, opts paystack.Params) (*paystack.Result, error) {
	owner := b.billable.BillingOwner()
	metadata := map[string]any{}

	rest := make(paystack.Params, len(opts))
	for k, v := range opts {
		if k != "metadata" {
			rest[k] = v
			continue
		}
		switch m := v.(type) {
		case string:
			if err := json.Unmarshal([]byte(m), &metadata); err != nil {
				return nil, errors.Join(ErrInvalidMetadata, err)
			}
		case map[string]any:
			maps.Copy(metadata, m)
		}
	}
	metadata["billable_id"] = owner.ID
	metadata["billable_type"] = owner.Kind
	metadata["subscription_type"] = b.typ

	encoded, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}

	payload := paystack.Params{
		"plan":     b.plan,
		"metadata": string(encoded),
	}.Merge(rest)
	payload["metadata"] = string(encoded)

	return b.cashier.Charge(ctx, b.billable, minimumChargeAmount, payload)
}
