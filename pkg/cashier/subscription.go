package cashier

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// DefaultSubscriptionType is the type assigned to subscriptions created
// from webhooks and used when a caller does not name one.
const DefaultSubscriptionType = "default"

// State is a coarse summary of where a subscription sits in its lifecycle.
type State string

const (
	StateTrialing    State = "trialing"
	StateActive      State = "active"
	StateGracePeriod State = "grace_period"
	StateEnded       State = "ended"
)

// Subscription is the local mirror of a Paystack subscription.
//
// All status predicates are derived from TrialEndsAt and EndsAt relative to
// a point in time; nothing else is stored. Each predicate has an At variant
// taking an explicit instant and a plain variant that uses the wall clock.
type Subscription struct {
	ID           uuid.UUID
	Owner        Owner
	Type         string
	PaystackID   *int64 // nil for subscriptions recorded from webhooks
	PaystackCode string
	PaystackPlan string
	Quantity     int
	TrialEndsAt  *time.Time
	EndsAt       *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OnTrialAt reports whether the trial end is set and still ahead of now.
func (s *Subscription) OnTrialAt(now time.Time) bool {
	return s.TrialEndsAt != nil && s.TrialEndsAt.After(now)
}

// OnGracePeriodAt reports whether the subscription is cancelled but its end
// is still ahead of now.
func (s *Subscription) OnGracePeriodAt(now time.Time) bool {
	return s.EndsAt != nil && s.EndsAt.After(now)
}

// Cancelled reports whether an end has been scheduled, regardless of when.
func (s *Subscription) Cancelled() bool {
	return s.EndsAt != nil
}

// ActiveAt reports whether the subscription has no end or is within its grace period.
func (s *Subscription) ActiveAt(now time.Time) bool {
	return s.EndsAt == nil || s.OnGracePeriodAt(now)
}

// EndedAt reports whether the subscription is cancelled and its grace period is over.
func (s *Subscription) EndedAt(now time.Time) bool {
	return s.Cancelled() && !s.OnGracePeriodAt(now)
}

// RecurringAt reports whether the subscription is billing normally:
// neither trialing nor cancelled.
func (s *Subscription) RecurringAt(now time.Time) bool {
	return !s.OnTrialAt(now) && !s.Cancelled()
}

// ValidAt reports whether the subscription grants access at now.
func (s *Subscription) ValidAt(now time.Time) bool {
	return s.ActiveAt(now) || s.OnTrialAt(now) || s.OnGracePeriodAt(now)
}

// HasExpiredTrialAt reports whether a trial was set and has run out at now.
func (s *Subscription) HasExpiredTrialAt(now time.Time) bool {
	return s.TrialEndsAt != nil && !s.TrialEndsAt.After(now)
}

// StateAt collapses the predicates into a single state.
// Ended wins over grace period, which wins over trialing.
func (s *Subscription) StateAt(now time.Time) State {
	switch {
	case s.EndedAt(now):
		return StateEnded
	case s.OnGracePeriodAt(now):
		return StateGracePeriod
	case s.OnTrialAt(now):
		return StateTrialing
	default:
		return StateActive
	}
}

// OnTrial, OnGracePeriod, Active, Ended, Recurring, Valid, HasExpiredTrial
// and State evaluate their At variants against the wall clock.
func (s *Subscription) OnTrial() bool         { return s.OnTrialAt(time.Now()) }
func (s *Subscription) OnGracePeriod() bool   { return s.OnGracePeriodAt(time.Now()) }
func (s *Subscription) Active() bool          { return s.ActiveAt(time.Now()) }
func (s *Subscription) Ended() bool           { return s.EndedAt(time.Now()) }
func (s *Subscription) Recurring() bool       { return s.RecurringAt(time.Now()) }
func (s *Subscription) Valid() bool           { return s.ValidAt(time.Now()) }
func (s *Subscription) HasExpiredTrial() bool { return s.HasExpiredTrialAt(time.Now()) }
func (s *Subscription) State() State          { return s.StateAt(time.Now()) }

// HasPlan reports whether the subscription is on any of the given plan codes.
func (s *Subscription) HasPlan(plans ...string) bool {
	return slices.Contains(plans, s.PaystackPlan)
}

// RemoteSubscription carries the Paystack identifiers of a subscription
// when recording it locally. ID is nil when only the code is known.
type RemoteSubscription struct {
	ID   *int64
	Code string
}
