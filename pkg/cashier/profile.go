package cashier

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/cashier/pkg/paystack"
)

// BillingProfile is a point-in-time view of an owner's billing state:
// its customer row and subscriptions, evaluated at a fixed instant.
type BillingProfile struct {
	Owner         Owner
	Customer      *Customer // nil if the owner has no customer row
	Subscriptions []*Subscription
	defaultType   string
	now           time.Time
}

// Profile loads the billable's billing profile.
func (c *Cashier) Profile(ctx context.Context, billable Billable) (*BillingProfile, error) {
	owner := billable.BillingOwner()

	customer, err := c.store.CustomerByOwner(ctx, owner)
	if err != nil && !errors.Is(err, ErrCustomerNotFound) {
		return nil, err
	}

	subs, err := c.store.SubscriptionsByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	return &BillingProfile{
		Owner:         owner,
		Customer:      customer,
		Subscriptions: subs,
		defaultType:   c.cfg.SubscriptionType,
		now:           c.now(),
	}, nil
}

// Now is the instant the profile is evaluated at.
func (p *BillingProfile) Now() time.Time { return p.now }

func (p *BillingProfile) typeOrDefault(typ string) string {
	if typ == "" {
		return p.defaultType
	}
	return typ
}

// Subscription returns the newest subscription of the type, or nil.
// An empty type means the default type.
func (p *BillingProfile) Subscription(typ string) *Subscription {
	typ = p.typeOrDefault(typ)
	for _, s := range p.Subscriptions {
		if s.Type == typ {
			return s
		}
	}
	return nil
}

// Subscribed reports whether the owner has a valid subscription of the type,
// optionally restricted to one of the given plans.
func (p *BillingProfile) Subscribed(typ string, plans ...string) bool {
	sub := p.Subscription(typ)
	if sub == nil || !sub.ValidAt(p.now) {
		return false
	}
	return len(plans) == 0 || sub.HasPlan(plans...)
}

// SubscribedToPlan reports whether a valid subscription of the type is on any
// of the plans.
func (p *BillingProfile) SubscribedToPlan(typ string, plans ...string) bool {
	sub := p.Subscription(typ)
	if sub == nil || !sub.ValidAt(p.now) {
		return false
	}
	return sub.HasPlan(plans...)
}

// OnPlan reports whether any valid subscription is on the plan.
func (p *BillingProfile) OnPlan(plan string) bool {
	for _, s := range p.Subscriptions {
		if s.ValidAt(p.now) && s.PaystackPlan == plan {
			return true
		}
	}
	return false
}

// OnTrial reports whether the subscription of the type is trialing, optionally
// on one of the plans. An empty type also counts the customer's generic trial.
func (p *BillingProfile) OnTrial(typ string, plans ...string) bool {
	if typ == "" && p.OnGenericTrial() {
		return true
	}
	sub := p.Subscription(typ)
	if sub == nil || !sub.OnTrialAt(p.now) {
		return false
	}
	return len(plans) == 0 || sub.HasPlan(plans...)
}

// HasExpiredTrial reports whether the subscription of the type had a trial
// that is over. An empty type also counts the customer's generic trial.
func (p *BillingProfile) HasExpiredTrial(typ string, plans ...string) bool {
	if typ == "" && p.HasExpiredGenericTrial() {
		return true
	}
	sub := p.Subscription(typ)
	if sub == nil || !sub.HasExpiredTrialAt(p.now) {
		return false
	}
	return len(plans) == 0 || sub.HasPlan(plans...)
}

func (p *BillingProfile) OnGenericTrial() bool {
	return p.Customer.OnGenericTrialAt(p.now)
}

func (p *BillingProfile) HasExpiredGenericTrial() bool {
	return p.Customer.HasExpiredGenericTrialAt(p.now)
}

// TrialEndsAt returns the trial end of the subscription of the type, falling
// back to the customer's generic trial.
func (p *BillingProfile) TrialEndsAt(typ string) *time.Time {
	if sub := p.Subscription(typ); sub != nil && sub.TrialEndsAt != nil {
		return sub.TrialEndsAt
	}
	if p.Customer != nil {
		return p.Customer.TrialEndsAt
	}
	return nil
}

// SubscriptionPortalURL returns the Paystack page where the customer manages
// the card of the subscription of the type.
func (c *Cashier) SubscriptionPortalURL(ctx context.Context, billable Billable, typ string) (string, error) {
	if _, err := c.requireCustomer(ctx, billable.BillingOwner()); err != nil {
		return "", err
	}

	profile, err := c.Profile(ctx, billable)
	if err != nil {
		return "", err
	}
	sub := profile.Subscription(typ)
	if sub == nil {
		return "", ErrSubscriptionNotFound
	}

	res, err := requireStatus(c.gateway.SubscriptionManageLink(ctx, sub.PaystackCode))
	if err != nil {
		return "", err
	}

	var link paystack.ManageLink
	if err := res.Decode(&link); err != nil {
		return "", err
	}
	return link.Link, nil
}
