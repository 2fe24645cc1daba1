package mongostore

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/cashier/pkg/cashier"
)

type customerModel struct {
	ID           string     `bson:"_id"`
	OwnerKind    string     `bson:"owner_kind"`
	OwnerID      string     `bson:"owner_id"`
	PaystackID   *int64     `bson:"paystack_id"`
	PaystackCode string     `bson:"paystack_code,omitempty"`
	CardBrand    string     `bson:"card_brand"`
	CardLastFour string     `bson:"card_last_four"`
	TrialEndsAt  *time.Time `bson:"trial_ends_at"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
}

func toCustomerModel(c *cashier.Customer) *customerModel {
	return &customerModel{
		ID:           c.ID.String(),
		OwnerKind:    c.Owner.Kind,
		OwnerID:      c.Owner.ID,
		PaystackID:   c.PaystackID,
		PaystackCode: c.PaystackCode,
		CardBrand:    c.CardBrand,
		CardLastFour: c.CardLastFour,
		TrialEndsAt:  c.TrialEndsAt,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func fromCustomerModel(m *customerModel) (*cashier.Customer, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	return &cashier.Customer{
		ID:           id,
		Owner:        cashier.Owner{Kind: m.OwnerKind, ID: m.OwnerID},
		PaystackID:   m.PaystackID,
		PaystackCode: m.PaystackCode,
		CardBrand:    m.CardBrand,
		CardLastFour: m.CardLastFour,
		TrialEndsAt:  utcPtr(m.TrialEndsAt),
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}, nil
}

type subscriptionModel struct {
	ID           string     `bson:"_id"`
	OwnerKind    string     `bson:"owner_kind"`
	OwnerID      string     `bson:"owner_id"`
	Type         string     `bson:"type"`
	PaystackID   *int64     `bson:"paystack_id"`
	PaystackCode string     `bson:"paystack_code"`
	PaystackPlan string     `bson:"paystack_plan"`
	Quantity     int        `bson:"quantity"`
	TrialEndsAt  *time.Time `bson:"trial_ends_at"`
	EndsAt       *time.Time `bson:"ends_at"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
}

func toSubscriptionModel(s *cashier.Subscription) *subscriptionModel {
	return &subscriptionModel{
		ID:           s.ID.String(),
		OwnerKind:    s.Owner.Kind,
		OwnerID:      s.Owner.ID,
		Type:         s.Type,
		PaystackID:   s.PaystackID,
		PaystackCode: s.PaystackCode,
		PaystackPlan: s.PaystackPlan,
		Quantity:     s.Quantity,
		TrialEndsAt:  s.TrialEndsAt,
		EndsAt:       s.EndsAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func fromSubscriptionModel(m *subscriptionModel) (*cashier.Subscription, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	return &cashier.Subscription{
		ID:           id,
		Owner:        cashier.Owner{Kind: m.OwnerKind, ID: m.OwnerID},
		Type:         m.Type,
		PaystackID:   m.PaystackID,
		PaystackCode: m.PaystackCode,
		PaystackPlan: m.PaystackPlan,
		Quantity:     m.Quantity,
		TrialEndsAt:  utcPtr(m.TrialEndsAt),
		EndsAt:       utcPtr(m.EndsAt),
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}, nil
}

type failedEventModel struct {
	ID            string    `bson:"_id"`
	Event         string    `bson:"event"`
	Payload       []byte    `bson:"payload"`
	Error         string    `bson:"error"`
	Attempts      int       `bson:"attempts"`
	CreatedAt     time.Time `bson:"created_at"`
	LastAttemptAt time.Time `bson:"last_attempt_at"`
}

func toFailedEventModel(e *cashier.FailedEvent) *failedEventModel {
	return &failedEventModel{
		ID:            e.ID.String(),
		Event:         e.Event,
		Payload:       e.Payload,
		Error:         e.Error,
		Attempts:      e.Attempts,
		CreatedAt:     e.CreatedAt,
		LastAttemptAt: e.LastAttemptAt,
	}
}

func fromFailedEventModel(m *failedEventModel) (*cashier.FailedEvent, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	return &cashier.FailedEvent{
		ID:            id,
		Event:         m.Event,
		Payload:       m.Payload,
		Error:         m.Error,
		Attempts:      m.Attempts,
		CreatedAt:     m.CreatedAt.UTC(),
		LastAttemptAt: m.LastAttemptAt.UTC(),
	}, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
