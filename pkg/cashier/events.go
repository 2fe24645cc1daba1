package cashier

import (
	"context"
	"time"

	"github.com/dmitrymomot/cashier/pkg/broadcast"
)

// EventType names a notification emitted by Cashier.
type EventType string

const (
	EventWebhookReceived       EventType = "webhook.received"
	EventWebhookHandled        EventType = "webhook.handled"
	EventSubscriptionCreated   EventType = "subscription.created"
	EventSubscriptionCancelled EventType = "subscription.cancelled"
)

// Event is delivered to the Dispatcher. Webhook events carry the decoded
// payload; subscription events carry the affected subscription and, when it
// could be resolved, the billable.
type Event struct {
	Type         EventType
	Owner        Owner
	Billable     Billable
	Subscription *Subscription
	Payload      map[string]any
	OccurredAt   time.Time
}

// Dispatcher receives Cashier events. Dispatch must not block for long;
// it runs inline with webhook handling.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event)
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, event Event)

func (f DispatcherFunc) Dispatch(ctx context.Context, event Event) { f(ctx, event) }

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(context.Context, Event) {}

// BroadcastDispatcher publishes every event to b under its type as topic.
// Delivery is best effort: a slow subscriber misses events rather than
// stalling webhook handling.
func BroadcastDispatcher(b broadcast.Broadcaster[Event]) Dispatcher {
	if b == nil {
		panic("cashier: nil broadcaster")
	}
	return DispatcherFunc(func(ctx context.Context, event Event) {
		_ = b.Broadcast(ctx, broadcast.Message[Event]{Topic: string(event.Type), Data: event})
	})
}
