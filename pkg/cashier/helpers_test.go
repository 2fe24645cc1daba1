package cashier_test

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cashier/pkg/cashier"
	"github.com/dmitrymomot/cashier/pkg/paystack"
)

var baseTime = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

var jane = cashier.BasicBillable{
	Owner: cashier.Owner{Kind: "user", ID: "42"},
	Email: "jane@example.com",
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) result(args mock.Arguments) (*paystack.Result, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paystack.Result), args.Error(1)
}

func (m *mockGateway) CreateCustomer(ctx context.Context, p paystack.Params) (*paystack.Result, error) {
	return m.result(m.Called(ctx, p))
}

func (m *mockGateway) FetchCustomer(ctx context.Context, idOrCode string) (*paystack.Result, error) {
	return m.result(m.Called(ctx, idOrCode))
}

func (m *mockGateway) CreateSubscription(ctx context.Context, p paystack.Params) (*paystack.Result, error) {
	return m.result(m.Called(ctx, p))
}

func (m *mockGateway) FetchSubscription(ctx context.Context, idOrCode string) (*paystack.Result, error) {
	return m.result(m.Called(ctx, idOrCode))
}

func (m *mockGateway) ListSubscriptions(ctx context.Context, customer string) (*paystack.Result, error) {
	return m.result(m.Called(ctx, customer))
}

func (m *mockGateway) EnableSubscription(ctx context.Context, code, emailToken string) (*paystack.Result, error) {
	return m.result(m.Called(ctx, code, emailToken))
}

func (m *mockGateway) DisableSubscription(ctx context.Context, code, emailToken string) (*paystack.Result, error) {
	return m.result(m.Called(ctx, code, emailToken))
}

func (m *mockGateway) SubscriptionManageLink(ctx context.Context, code string) (*paystack.Result, error) {
	return m.result(m.Called(ctx, code))
}

func (m *mockGateway) Charge(ctx context.Context, p paystack.Params) (*paystack.Result, error) {
	return m.result(m.Called(ctx, p))
}

func (m *mockGateway) InitializeTransaction(ctx context.Context, p paystack.Params) (*paystack.Result, error) {
	return m.result(m.Called(ctx, p))
}

func (m *mockGateway) ChargeAuthorization(ctx context.Context, p paystack.Params) (*paystack.Result, error) {
	return m.result(m.Called(ctx, p))
}

func (m *mockGateway) CheckAuthorization(ctx context.Context, p paystack.Params) (*paystack.Result, error) {
	return m.result(m.Called(ctx, p))
}

func (m *mockGateway) Refund(ctx context.Context, p paystack.Params) (*paystack.Result, error) {
	return m.result(m.Called(ctx, p))
}

func (m *mockGateway) DeactivateAuthorization(ctx context.Context, code string) (*paystack.Result, error) {
	return m.result(m.Called(ctx, code))
}

func (m *mockGateway) CreateInvoice(ctx context.Context, p paystack.Params) (*paystack.Result, error) {
	return m.result(m.Called(ctx, p))
}

func (m *mockGateway) ListInvoices(ctx context.Context, p paystack.Params) (*paystack.Result, error) {
	return m.result(m.Called(ctx, p))
}

func (m *mockGateway) FetchInvoice(ctx context.Context, idOrCode string) (*paystack.Result, error) {
	return m.result(m.Called(ctx, idOrCode))
}

// ok builds a successful envelope around data.
func ok(t *testing.T, data any) *paystack.Result {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return &paystack.Result{Status: true, Message: "ok", Data: raw}
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock { return &testClock{now: baseTime} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// countingStore counts subscription updates.
type countingStore struct {
	*cashier.MemoryStore
	updates atomic.Int32
}

func (s *countingStore) UpdateSubscription(ctx context.Context, sub *cashier.Subscription) error {
	s.updates.Add(1)
	return s.MemoryStore.UpdateSubscription(ctx, sub)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []cashier.Event
}

func (r *eventRecorder) Dispatch(_ context.Context, e cashier.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) Types() []cashier.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]cashier.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	gw     *mockGateway
	store  *countingStore
	clock  *testClock
	events *eventRecorder
	c      *cashier.Cashier
}

func newFixture(t *testing.T, opts ...cashier.Option) *fixture {
	t.Helper()
	f := &fixture{
		gw:     &mockGateway{},
		store:  &countingStore{MemoryStore: cashier.NewMemoryStore()},
		clock:  newTestClock(),
		events: &eventRecorder{},
	}
	opts = append([]cashier.Option{
		cashier.WithClock(f.clock.Now),
		cashier.WithDispatcher(f.events),
	}, opts...)

	c, err := cashier.New(cashier.DefaultConfig(), f.gw, f.store, opts...)
	require.NoError(t, err)
	f.c = c
	t.Cleanup(func() { f.gw.AssertExpectations(t) })
	return f
}

func (f *fixture) seedCustomer(t *testing.T, owner cashier.Owner, paystackID int64, code string) *cashier.Customer {
	t.Helper()
	customer := &cashier.Customer{
		ID:           uuid.New(),
		Owner:        owner,
		PaystackID:   &paystackID,
		PaystackCode: code,
		CreatedAt:    baseTime,
		UpdatedAt:    baseTime,
	}
	require.NoError(t, f.store.CreateCustomer(context.Background(), customer))
	return customer
}

func (f *fixture) seedSubscription(t *testing.T, mutate func(*cashier.Subscription)) *cashier.Subscription {
	t.Helper()
	id := int64(99)
	sub := &cashier.Subscription{
		ID:           uuid.New(),
		Owner:        jane.Owner,
		Type:         cashier.DefaultSubscriptionType,
		PaystackID:   &id,
		PaystackCode: "SUB_1",
		PaystackPlan: "PLN_basic",
		Quantity:     1,
		CreatedAt:    baseTime,
		UpdatedAt:    baseTime,
	}
	if mutate != nil {
		mutate(sub)
	}
	require.NoError(t, f.store.CreateSubscription(context.Background(), sub))
	return sub
}

func (f *fixture) stored(t *testing.T, code string) *cashier.Subscription {
	t.Helper()
	sub, err := f.store.SubscriptionByCode(context.Background(), code)
	require.NoError(t, err)
	return sub
}

func ptr[T any](v T) *T { return &v }
