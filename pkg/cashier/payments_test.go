package cashier_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cashier/pkg/cashier"
	"github.com/dmitrymomot/cashier/pkg/paystack"
)

func TestCashier_CreateAsCustomer(t *testing.T) {
	t.Parallel()

	t.Run("links an existing trial row", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		trial, err := f.c.StartGenericTrial(context.Background(), jane, baseTime.AddDate(0, 0, 7))
		require.NoError(t, err)

		f.gw.On("CreateCustomer", mock.Anything, paystack.Params{"email": "billing@example.com", "first_name": "Jane"}).
			Return(ok(t, map[string]any{"id": 5, "customer_code": "CUS_5"}), nil).Once()

		remote, err := f.c.CreateAsCustomer(context.Background(), jane, paystack.Params{"email": "billing@example.com", "first_name": "Jane"})
		require.NoError(t, err)
		assert.Equal(t, "CUS_5", remote.CustomerCode)

		customer, err := f.c.Customer(context.Background(), jane)
		require.NoError(t, err)
		assert.Equal(t, trial.ID, customer.ID)
		assert.Equal(t, "CUS_5", customer.PaystackCode)
		assert.NotNil(t, customer.TrialEndsAt)
	})

	t.Run("gateway refusal", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.gw.On("CreateCustomer", mock.Anything, mock.Anything).
			Return(&paystack.Result{Status: false, Message: "Invalid email"}, nil).Once()

		_, err := f.c.CreateAsCustomer(context.Background(), jane, nil)
		assert.ErrorIs(t, err, cashier.ErrCustomerCreate)
		_, err = f.c.Customer(context.Background(), jane)
		assert.ErrorIs(t, err, cashier.ErrCustomerNotFound)
	})
}

func TestCashier_AsPaystackCustomer(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.c.AsPaystackCustomer(context.Background(), jane)
	assert.ErrorIs(t, err, cashier.ErrInvalidCustomerState)

	f.seedCustomer(t, jane.Owner, 1, "CUS_1")
	f.gw.On("FetchCustomer", mock.Anything, "CUS_1").
		Return(ok(t, map[string]any{"id": 1, "customer_code": "CUS_1", "email": "jane@example.com"}), nil).Once()

	remote, err := f.c.AsPaystackCustomer(context.Background(), jane)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", remote.Email)
}

func TestCashier_Charge(t *testing.T) {
	t.Parallel()

	t.Run("initializes a transaction", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.gw.On("InitializeTransaction", mock.Anything, mock.MatchedBy(func(p paystack.Params) bool {
			ref, _ := p["reference"].(string)
			return p["amount"] == int64(5000) && p["email"] == "jane@example.com" && len(ref) == 25
		})).Return(ok(t, map[string]any{"authorization_url": "https://checkout.paystack.com/abc"}), nil).Once()

		_, err := f.c.Charge(context.Background(), jane, 5000, nil)
		require.NoError(t, err)
	})

	t.Run("charges a saved authorization", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.gw.On("ChargeAuthorization", mock.Anything, mock.MatchedBy(func(p paystack.Params) bool {
			return p["authorization_code"] == "AUTH_1" && p["reference"] == "order-1" && p["currency"] == "NGN"
		})).Return(ok(t, map[string]any{"status": "success"}), nil).Once()

		_, err := f.c.Charge(context.Background(), jane, 5000, paystack.Params{"authorization_code": "AUTH_1", "reference": "order-1"})
		require.NoError(t, err)
	})

	t.Run("charges card details directly", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.gw.On("Charge", mock.Anything, mock.MatchedBy(func(p paystack.Params) bool {
			_, hasCard := p["card"]
			return hasCard && p["amount"] == int64(2500)
		})).Return(ok(t, map[string]any{"status": "send_otp"}), nil).Once()

		card := map[string]any{"number": "4084084084084081", "cvv": "408", "expiry_month": "01", "expiry_year": "99"}
		_, err := f.c.Charge(context.Background(), jane, 2500, paystack.Params{"card": card})
		require.NoError(t, err)
	})

	t.Run("declined", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.gw.On("InitializeTransaction", mock.Anything, mock.Anything).
			Return(&paystack.Result{Status: false, Message: "Invalid amount"}, nil).Once()

		_, err := f.c.Charge(context.Background(), jane, 1, nil)
		assert.ErrorIs(t, err, cashier.ErrChargeFailed)
	})
}

func TestCashier_Refund(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.gw.On("Refund", mock.Anything, paystack.Params{"transaction": "T_1", "amount": int64(500)}).
		Return(ok(t, map[string]any{"status": "pending"}), nil).Once()

	_, err := f.c.Refund(context.Background(), "T_1", paystack.Params{"amount": int64(500)})
	require.NoError(t, err)
}

func TestCashier_Invoices(t *testing.T) {
	t.Parallel()

	due := baseTime.AddDate(0, 0, 7)

	t.Run("tab requires a due date", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.seedCustomer(t, jane.Owner, 1, "CUS_1")

		_, err := f.c.Tab(context.Background(), jane, "Consulting", 10000, nil)
		assert.ErrorIs(t, err, cashier.ErrMissingDueDate)

		_, err = f.c.Tab(context.Background(), jane, "Consulting", 10000, paystack.Params{"due_date": 42})
		assert.ErrorIs(t, err, cashier.ErrInvalidDueDate)
	})

	t.Run("tab creates a payment request", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.seedCustomer(t, jane.Owner, 1, "CUS_1")

		f.gw.On("CreateInvoice", mock.Anything, paystack.Params{
			"customer":    int64(1),
			"amount":      int64(10000),
			"currency":    "NGN",
			"description": "Consulting",
			"due_date":    due.Format(time.RFC3339),
		}).Return(ok(t, map[string]any{"request_code": "PRQ_1"}), nil).Once()

		_, err := f.c.InvoiceFor(context.Background(), jane, "Consulting", 10000, paystack.Params{"due_date": due})
		require.NoError(t, err)
	})

	t.Run("lists filtered invoices", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.seedCustomer(t, jane.Owner, 1, "CUS_1")

		f.gw.On("ListInvoices", mock.Anything, paystack.Params{"customer": "1", "status": "pending"}).
			Return(ok(t, []any{map[string]any{"id": 3, "request_code": "PRQ_3", "customer": 1}}), nil).Once()
		f.gw.On("ListInvoices", mock.Anything, paystack.Params{"customer": "1", "paid": "true"}).
			Return(ok(t, []any{}), nil).Once()

		pending, err := f.c.InvoicesOnlyPending(context.Background(), jane, nil)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, int64(1), pending[0].Customer.ID)

		paid, err := f.c.InvoicesOnlyPaid(context.Background(), jane, nil)
		require.NoError(t, err)
		assert.Empty(t, paid)
	})

	t.Run("find checks ownership", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.seedCustomer(t, jane.Owner, 1, "CUS_1")

		f.gw.On("FetchInvoice", mock.Anything, "PRQ_mine").
			Return(ok(t, map[string]any{"id": 3, "request_code": "PRQ_mine", "customer": map[string]any{"id": 1}}), nil).Once()
		f.gw.On("FetchInvoice", mock.Anything, "PRQ_other").
			Return(ok(t, map[string]any{"id": 4, "request_code": "PRQ_other", "customer": 2}), nil).Once()
		f.gw.On("FetchInvoice", mock.Anything, "PRQ_missing").
			Return(nil, &paystack.GatewayError{StatusCode: http.StatusNotFound, Message: "Payment request not found"}).Once()

		inv, err := f.c.FindInvoice(context.Background(), jane, "PRQ_mine")
		require.NoError(t, err)
		assert.Equal(t, "PRQ_mine", inv.RequestCode)

		_, err = f.c.FindInvoice(context.Background(), jane, "PRQ_other")
		assert.ErrorIs(t, err, cashier.ErrInvoiceNotFound)

		_, err = f.c.FindInvoice(context.Background(), jane, "PRQ_missing")
		assert.ErrorIs(t, err, cashier.ErrInvoiceNotFound)
	})
}

func TestCashier_Cards(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seedCustomer(t, jane.Owner, 1, "CUS_1")

	f.gw.On("FetchCustomer", mock.Anything, "CUS_1").Return(ok(t, map[string]any{
		"id":            1,
		"customer_code": "CUS_1",
		"authorizations": []any{
			map[string]any{"authorization_code": "AUTH_card", "channel": "card", "last4": "4081", "reusable": true},
			map[string]any{"authorization_code": "AUTH_bank", "channel": "bank", "reusable": true},
			map[string]any{"authorization_code": "AUTH_once", "channel": "card", "reusable": false},
		},
	}), nil)

	cards, err := f.c.Cards(context.Background(), jane)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "4081", cards[0].Last4)

	f.gw.On("CheckAuthorization", mock.Anything, paystack.Params{
		"email":              "jane@example.com",
		"amount":             int64(2000),
		"authorization_code": "AUTH_card",
	}).Return(ok(t, map[string]any{"amount": 2000}), nil).Once()

	_, err = f.c.CheckCard(context.Background(), jane, cards[0], 2000)
	require.NoError(t, err)
	_, err = f.c.CheckCard(context.Background(), jane, cards[1], 2000)
	assert.ErrorIs(t, err, cashier.ErrPaymentMethodNotReusable)

	f.gw.On("DeactivateAuthorization", mock.Anything, "AUTH_card").Return(ok(t, nil), nil).Once()
	f.gw.On("DeactivateAuthorization", mock.Anything, "AUTH_once").Return(ok(t, nil), nil).Once()
	require.NoError(t, f.c.DeleteCards(context.Background(), jane))
}
