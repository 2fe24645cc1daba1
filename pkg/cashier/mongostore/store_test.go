package mongostore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cashier/pkg/cashier"
	"github.com/dmitrymomot/cashier/pkg/cashier/mongostore"
	"github.com/dmitrymomot/cashier/pkg/mongo"
)

// newTestStore connects to MONGODB_URL and uses a throwaway database.
// The test is skipped when MONGODB_URL is not set.
func newTestStore(t *testing.T) *mongostore.Store {
	t.Helper()
	url := os.Getenv("MONGODB_URL")
	if url == "" {
		t.Skip("MONGODB_URL not set")
	}

	ctx := context.Background()
	client, err := mongo.Connect(ctx, mongo.Config{
		ConnectionURL:  url,
		ConnectTimeout: 5 * time.Second,
		MaxPoolSize:    10,
		RetryAttempts:  1,
	})
	require.NoError(t, err)

	db := client.Database("cashier_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	s := mongostore.New(db)
	require.NoError(t, s.EnsureIndexes(ctx))
	return s
}

func TestStore_Customers(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	owner := cashier.Owner{Kind: "user", ID: "42"}
	id := int64(1234)
	c := &cashier.Customer{
		ID:           uuid.New(),
		Owner:        owner,
		PaystackID:   &id,
		PaystackCode: "CUS_jane",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.CreateCustomer(ctx, c))

	err := s.CreateCustomer(ctx, &cashier.Customer{ID: uuid.New(), Owner: owner, CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, cashier.ErrCustomerAlreadyExists)

	got, err := s.CustomerByCode(ctx, "CUS_jane")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, owner, got.Owner)
	assert.Equal(t, id, *got.PaystackID)
	assert.Nil(t, got.TrialEndsAt)

	trial := now.Add(24 * time.Hour)
	got.TrialEndsAt = &trial
	got.CardLastFour = "4081"
	require.NoError(t, s.UpdateCustomer(ctx, got))

	got, err = s.CustomerByOwner(ctx, owner)
	require.NoError(t, err)
	assert.True(t, got.TrialEndsAt.Equal(trial))
	assert.Equal(t, "4081", got.CardLastFour)

	_, err = s.CustomerByOwner(ctx, cashier.Owner{Kind: "user", ID: "missing"})
	assert.ErrorIs(t, err, cashier.ErrCustomerNotFound)
	_, err = s.CustomerByCode(ctx, "")
	assert.ErrorIs(t, err, cashier.ErrCustomerNotFound)
	assert.ErrorIs(t, s.UpdateCustomer(ctx, &cashier.Customer{ID: uuid.New()}), cashier.ErrCustomerNotFound)
}

func TestStore_Subscriptions(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	owner := cashier.Owner{Kind: "team", ID: "7"}

	older := &cashier.Subscription{
		ID: uuid.New(), Owner: owner, Type: "default", PaystackCode: "SUB_old",
		PaystackPlan: "PLN_basic", Quantity: 1, CreatedAt: now.Add(-time.Hour), UpdatedAt: now,
	}
	newer := &cashier.Subscription{
		ID: uuid.New(), Owner: owner, Type: "default", PaystackCode: "SUB_new",
		PaystackPlan: "PLN_pro", Quantity: 1, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.CreateSubscription(ctx, older))
	require.NoError(t, s.CreateSubscription(ctx, newer))

	dup := *newer
	dup.ID = uuid.New()
	assert.ErrorIs(t, s.CreateSubscription(ctx, &dup), cashier.ErrSubscriptionAlreadyExists)

	subs, err := s.SubscriptionsByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, newer.ID, subs[0].ID)
	assert.Nil(t, subs[0].PaystackID)
	assert.Nil(t, subs[0].EndsAt)

	ends := now.Add(48 * time.Hour)
	newer.EndsAt = &ends
	require.NoError(t, s.UpdateSubscription(ctx, newer))

	got, err := s.SubscriptionByCode(ctx, "SUB_new")
	require.NoError(t, err)
	assert.True(t, got.EndsAt.Equal(ends))
	assert.True(t, got.OnGracePeriodAt(now))

	_, err = s.SubscriptionByCode(ctx, "SUB_missing")
	assert.ErrorIs(t, err, cashier.ErrSubscriptionNotFound)
	assert.ErrorIs(t, s.UpdateSubscription(ctx, &cashier.Subscription{ID: uuid.New()}), cashier.ErrSubscriptionNotFound)
}

func TestStore_FailedEvents(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	first := &cashier.FailedEvent{
		ID:            uuid.New(),
		Event:         "subscription.create",
		Payload:       []byte(`{"event":"subscription.create"}`),
		Error:         "boom",
		Attempts:      1,
		CreatedAt:     now.Add(-time.Minute),
		LastAttemptAt: now,
	}
	second := &cashier.FailedEvent{
		ID:            uuid.New(),
		Event:         "subscription.disable",
		Payload:       []byte(`{"event":"subscription.disable"}`),
		Attempts:      1,
		CreatedAt:     now,
		LastAttemptAt: now,
	}
	require.NoError(t, s.SaveFailedEvent(ctx, first))
	require.NoError(t, s.SaveFailedEvent(ctx, second))

	first.Attempts = 2
	first.Error = "still failing"
	require.NoError(t, s.SaveFailedEvent(ctx, first))

	got, err := s.FailedEvent(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Attempts)
	assert.Equal(t, "still failing", got.Error)
	assert.JSONEq(t, string(first.Payload), string(got.Payload))

	list, err := s.FailedEvents(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	all, err := s.FailedEvents(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.DeleteFailedEvent(ctx, first.ID))
	_, err = s.FailedEvent(ctx, first.ID)
	assert.ErrorIs(t, err, cashier.ErrFailedEventNotFound)
}
