package cashier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/cashier/pkg/logger"
)

// Outcome is the result of handling one webhook delivery.
// Every outcome is acknowledged with HTTP 200.
type Outcome int

const (
	OutcomeHandled Outcome = iota
	OutcomeSkipped
	OutcomeNoHandler
	OutcomeNoEvent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHandled:
		return "Webhook was handled."
	case OutcomeSkipped:
		return "Webhook skipped due to error processing it."
	case OutcomeNoHandler:
		return "Webhook received but no handler found."
	default:
		return "Webhook received but no event was found."
	}
}

// WebhookPayload is a decoded webhook delivery.
type WebhookPayload struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// WebhookHandlerFunc handles one event type. A returned error (or panic)
// makes the delivery count as skipped and records it as a failed event.
type WebhookHandlerFunc func(ctx context.Context, payload WebhookPayload) error

// Reconciler applies Paystack webhook events to local state.
// It is safe for concurrent use once constructed.
type Reconciler struct {
	cashier  *Cashier
	resolver BillableResolver
	handlers map[string]WebhookHandlerFunc
	logger   *slog.Logger
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithWebhookHandler registers a handler for an event name such as
// "charge.success". It replaces any built-in handler for the same event.
func WithWebhookHandler(event string, fn WebhookHandlerFunc) ReconcilerOption {
	return func(r *Reconciler) {
		if fn != nil {
			r.handlers[handlerKey(event)] = fn
		}
	}
}

// WithBillableResolver sets how owners of stored customers are turned back
// into billables for dispatched events. Without one, events carry a
// BasicBillable holding only the owner.
func WithBillableResolver(resolver BillableResolver) ReconcilerOption {
	return func(r *Reconciler) {
		if resolver != nil {
			r.resolver = resolver
		}
	}
}

// NewReconciler creates a Reconciler with handlers for subscription.create
// and subscription.disable.
func NewReconciler(c *Cashier, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		cashier:  c,
		handlers: make(map[string]WebhookHandlerFunc),
		logger:   c.logger.With(logger.Component("webhook_reconciler")),
	}
	r.handlers[handlerKey("subscription.create")] = r.handleSubscriptionCreate
	r.handlers[handlerKey("subscription.disable")] = r.handleSubscriptionDisable

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// handlerKey normalizes an event name: "subscription.create" and
// "subscription_create" address the same handler.
func handlerKey(event string) string {
	return strings.ReplaceAll(event, ".", "_")
}

// Handle processes one verified webhook body.
func (r *Reconciler) Handle(ctx context.Context, body []byte) Outcome {
	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload.Event == "" {
		return OutcomeNoEvent
	}

	ctx = logger.WithAttrs(ctx, logger.Event(payload.Event))
	raw := decodeMap(body)
	r.cashier.dispatch(ctx, Event{Type: EventWebhookReceived, Payload: raw})

	handler, ok := r.handlers[handlerKey(payload.Event)]
	if !ok {
		r.logger.DebugContext(ctx, "no handler for webhook event")
		return OutcomeNoHandler
	}

	if err := safeHandle(ctx, handler, payload); err != nil {
		r.logger.ErrorContext(ctx, "webhook handler failed", logger.Error(err))
		r.recordFailure(ctx, payload.Event, body, err)
		return OutcomeSkipped
	}

	r.cashier.dispatch(ctx, Event{Type: EventWebhookHandled, Payload: raw})
	return OutcomeHandled
}

// FailedEvents lists recorded failed deliveries, newest first.
func (r *Reconciler) FailedEvents(ctx context.Context, limit int) ([]*FailedEvent, error) {
	return r.cashier.store.FailedEvents(ctx, limit)
}

// Replay runs a recorded failed delivery through its handler again.
// On success the record is removed; on failure its attempt count and last
// error are updated.
func (r *Reconciler) Replay(ctx context.Context, id uuid.UUID) error {
	failed, err := r.cashier.store.FailedEvent(ctx, id)
	if err != nil {
		return err
	}

	var payload WebhookPayload
	if err := json.Unmarshal(failed.Payload, &payload); err != nil {
		return errors.Join(ErrInvalidPayload, err)
	}
	ctx = logger.WithAttrs(ctx, logger.Event(payload.Event), logger.FailedEventID(failed.ID))

	handler, ok := r.handlers[handlerKey(payload.Event)]
	if !ok {
		return errors.Join(ErrNoWebhookHandler, fmt.Errorf("event %q", payload.Event))
	}

	if herr := safeHandle(ctx, handler, payload); herr != nil {
		failed.Attempts++
		failed.Error = herr.Error()
		failed.LastAttemptAt = r.cashier.now()
		if err := r.cashier.store.SaveFailedEvent(ctx, failed); err != nil {
			return errors.Join(herr, err)
		}
		r.logger.WarnContext(ctx, "webhook replay failed", logger.Attempts(failed.Attempts), logger.Error(herr))
		return herr
	}

	if err := r.cashier.store.DeleteFailedEvent(ctx, id); err != nil {
		return err
	}
	r.cashier.dispatch(ctx, Event{Type: EventWebhookHandled, Payload: decodeMap(failed.Payload)})
	return nil
}

func (r *Reconciler) recordFailure(ctx context.Context, event string, body []byte, cause error) {
	now := r.cashier.now()
	failed := &FailedEvent{
		ID:            uuid.New(),
		Event:         event,
		Payload:       body,
		Error:         cause.Error(),
		Attempts:      1,
		CreatedAt:     now,
		LastAttemptAt: now,
	}
	if err := r.cashier.store.SaveFailedEvent(ctx, failed); err != nil {
		r.logger.ErrorContext(ctx, "failed to record failed webhook event", logger.Error(err))
		return
	}
	r.logger.InfoContext(ctx, "failed webhook event recorded", logger.FailedEventID(failed.ID))
}

func safeHandle(ctx context.Context, handler WebhookHandlerFunc, payload WebhookPayload) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Join(ErrWebhookHandlerPanic, fmt.Errorf("%v", rec))
		}
	}()
	return handler(ctx, payload)
}

func decodeMap(body []byte) map[string]any {
	var m map[string]any
	_ = json.Unmarshal(body, &m)
	return m
}

type subscriptionEventData struct {
	SubscriptionCode string `json:"subscription_code"`
	Plan             struct {
		PlanCode string `json:"plan_code"`
	} `json:"plan"`
	Customer struct {
		CustomerCode string `json:"customer_code"`
	} `json:"customer"`
}

func decodeSubscriptionEvent(payload WebhookPayload) (*subscriptionEventData, error) {
	var data subscriptionEventData
	if err := json.Unmarshal(payload.Data, &data); err != nil {
		return nil, errors.Join(ErrInvalidPayload, err)
	}
	if data.SubscriptionCode == "" {
		return nil, errors.Join(ErrInvalidPayload, errors.New("subscription code not found in payload"))
	}
	return &data, nil
}

// handleSubscriptionCreate records a subscription created on Paystack.
// Deliveries for an already recorded code and for customers unknown locally
// are no-ops.
func (r *Reconciler) handleSubscriptionCreate(ctx context.Context, payload WebhookPayload) error {
	data, err := decodeSubscriptionEvent(payload)
	if err != nil {
		return err
	}
	if data.Customer.CustomerCode == "" {
		return errors.Join(ErrInvalidPayload, errors.New("customer data not found in payload"))
	}

	event, err := r.recordCreated(ctx, data)
	if err != nil || event == nil {
		return err
	}
	event.Payload = decodeMap(payload.Data)
	r.cashier.dispatch(ctx, *event)
	return nil
}

// recordCreated inserts the subscription under its lock and returns the
// event to dispatch once the lock is released, or nil when nothing changed.
func (r *Reconciler) recordCreated(ctx context.Context, data *subscriptionEventData) (*Event, error) {
	c := r.cashier
	unlock, err := c.lockSubscription(ctx, data.SubscriptionCode)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := c.store.SubscriptionByCode(ctx, data.SubscriptionCode); err == nil {
		return nil, nil
	} else if !errors.Is(err, ErrSubscriptionNotFound) {
		return nil, err
	}

	customer, err := c.store.CustomerByCode(ctx, data.Customer.CustomerCode)
	if errors.Is(err, ErrCustomerNotFound) {
		r.logger.DebugContext(ctx, "webhook for unknown customer ignored",
			logger.CustomerCode(data.Customer.CustomerCode),
		)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	billable, err := r.resolveBillable(ctx, customer.Owner)
	if err != nil {
		return nil, err
	}

	sub, err := c.NewSubscription(billable, c.cfg.SubscriptionType, data.Plan.PlanCode).
		Save(ctx, RemoteSubscription{Code: data.SubscriptionCode})
	if err != nil {
		return nil, err
	}

	return &Event{
		Type:         EventSubscriptionCreated,
		Owner:        sub.Owner,
		Billable:     billable,
		Subscription: sub,
	}, nil
}

// handleSubscriptionDisable ends a subscription locally. A subscription that
// is already cancelled and past its grace period is left untouched.
func (r *Reconciler) handleSubscriptionDisable(ctx context.Context, payload WebhookPayload) error {
	data, err := decodeSubscriptionEvent(payload)
	if err != nil {
		return err
	}

	sub, err := r.endSubscription(ctx, data.SubscriptionCode)
	if err != nil || sub == nil {
		return err
	}

	billable, err := r.resolveBillable(ctx, sub.Owner)
	if err != nil {
		r.logger.WarnContext(ctx, "billable not resolved for cancelled subscription",
			logger.Owner(sub.Owner),
			logger.Error(err),
		)
		billable = BasicBillable{Owner: sub.Owner}
	}

	r.cashier.dispatch(ctx, Event{
		Type:         EventSubscriptionCancelled,
		Owner:        sub.Owner,
		Billable:     billable,
		Subscription: sub,
		Payload:      decodeMap(payload.Data),
	})
	return nil
}

// endSubscription marks the subscription cancelled under its lock.
// It returns nil when the code is unknown or the subscription already ended.
func (r *Reconciler) endSubscription(ctx context.Context, code string) (*Subscription, error) {
	c := r.cashier
	unlock, err := c.lockSubscription(ctx, code)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sub, err := c.store.SubscriptionByCode(ctx, code)
	if errors.Is(err, ErrSubscriptionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if sub.Cancelled() && !sub.OnGracePeriodAt(c.now()) {
		return nil, nil
	}
	if err := c.markAsCancelled(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *Reconciler) resolveBillable(ctx context.Context, owner Owner) (Billable, error) {
	if r.resolver == nil {
		return BasicBillable{Owner: owner}, nil
	}
	return r.resolver.ResolveBillable(ctx, owner)
}
