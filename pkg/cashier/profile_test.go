package cashier_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cashier/pkg/cashier"
)

func TestCashier_Profile(t *testing.T) {
	t.Parallel()

	t.Run("subscription queries", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.seedCustomer(t, jane.Owner, 1, "CUS_1")
		f.seedSubscription(t, func(s *cashier.Subscription) {
			s.TrialEndsAt = ptr(baseTime.AddDate(0, 0, 3))
			s.PaystackPlan = "PLN_pro"
		})
		f.seedSubscription(t, func(s *cashier.Subscription) {
			s.Type = "addon"
			s.PaystackCode = "SUB_addon"
			s.PaystackPlan = "PLN_addon"
			s.EndsAt = ptr(baseTime.Add(-time.Hour))
		})

		p, err := f.c.Profile(context.Background(), jane)
		require.NoError(t, err)
		assert.True(t, p.Now().Equal(baseTime))

		assert.True(t, p.Subscribed(""))
		assert.True(t, p.Subscribed("default", "PLN_pro"))
		assert.False(t, p.Subscribed("default", "PLN_basic"))
		assert.True(t, p.SubscribedToPlan("default", "PLN_basic", "PLN_pro"))
		assert.False(t, p.SubscribedToPlan("default"))
		assert.False(t, p.Subscribed("addon"))
		assert.True(t, p.OnPlan("PLN_pro"))
		assert.False(t, p.OnPlan("PLN_addon"))

		assert.True(t, p.OnTrial("default"))
		assert.True(t, p.OnTrial("default", "PLN_pro"))
		assert.False(t, p.OnTrial("default", "PLN_basic"))
		assert.False(t, p.HasExpiredTrial("default"))
		assert.True(t, p.TrialEndsAt("default").Equal(baseTime.AddDate(0, 0, 3)))
		assert.Nil(t, p.Subscription("missing"))
	})

	t.Run("generic trial", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.c.StartGenericTrial(context.Background(), jane, baseTime.AddDate(0, 0, 14))
		require.NoError(t, err)

		p, err := f.c.Profile(context.Background(), jane)
		require.NoError(t, err)
		assert.True(t, p.OnGenericTrial())
		assert.True(t, p.OnTrial(""))
		assert.False(t, p.OnTrial("default"))
		assert.False(t, p.Subscribed(""))
		assert.True(t, p.TrialEndsAt("").Equal(baseTime.AddDate(0, 0, 14)))

		f.clock.Advance(15 * 24 * time.Hour)
		p, err = f.c.Profile(context.Background(), jane)
		require.NoError(t, err)
		assert.False(t, p.OnGenericTrial())
		assert.True(t, p.HasExpiredGenericTrial())
		assert.True(t, p.HasExpiredTrial(""))
	})

	t.Run("owner without records", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		p, err := f.c.Profile(context.Background(), jane)
		require.NoError(t, err)
		assert.Nil(t, p.Customer)
		assert.False(t, p.Subscribed(""))
		assert.False(t, p.OnTrial(""))
		assert.Nil(t, p.TrialEndsAt(""))
	})
}

func TestCashier_SubscriptionPortalURL(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seedCustomer(t, jane.Owner, 1, "CUS_1")
	f.seedSubscription(t, nil)

	f.gw.On("SubscriptionManageLink", mock.Anything, "SUB_1").
		Return(ok(t, map[string]any{"link": "https://paystack.com/manage/subscriptions/qlgwhpyq1ts9nsw"}), nil).Once()

	url, err := f.c.SubscriptionPortalURL(context.Background(), jane, "")
	require.NoError(t, err)
	assert.Equal(t, "https://paystack.com/manage/subscriptions/qlgwhpyq1ts9nsw", url)

	_, err = f.c.SubscriptionPortalURL(context.Background(), jane, "addon")
	assert.ErrorIs(t, err, cashier.ErrSubscriptionNotFound)
}
