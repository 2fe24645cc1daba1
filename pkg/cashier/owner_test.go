package cashier_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cashier/pkg/cashier"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := cashier.NewRegistry()
	r.Register("team", cashier.BillableResolverFunc(func(_ context.Context, o cashier.Owner) (cashier.Billable, error) {
		if o.ID == "gone" {
			return nil, errors.New("team deleted")
		}
		return cashier.BasicBillable{Owner: o, Email: "team@example.com"}, nil
	}))

	b, err := r.ResolveBillable(context.Background(), cashier.Owner{Kind: "team", ID: "7"})
	require.NoError(t, err)
	assert.Equal(t, "team@example.com", b.BillingEmail())
	assert.Equal(t, "team:7", b.BillingOwner().String())

	_, err = r.ResolveBillable(context.Background(), cashier.Owner{Kind: "team", ID: "gone"})
	assert.ErrorIs(t, err, cashier.ErrBillableNotResolved)

	_, err = r.ResolveBillable(context.Background(), cashier.Owner{Kind: "user", ID: "1"})
	assert.ErrorIs(t, err, cashier.ErrBillableNotResolved)

	assert.True(t, cashier.Owner{}.IsZero())
	assert.False(t, jane.Owner.IsZero())
}
