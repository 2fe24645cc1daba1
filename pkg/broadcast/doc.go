// Package broadcast fans typed messages out to in-process subscribers.
//
// The billing service publishes its events through it so that audit
// logging, notifications and other listeners stay decoupled from webhook
// handling:
//
//	events := broadcast.NewMemoryBroadcaster[cashier.Event](64)
//	defer events.Close()
//
//	sub := events.Subscribe(ctx, string(cashier.EventSubscriptionCancelled))
//	go func() {
//		for msg := range sub.Receive(ctx) {
//			notifyOwner(msg.Data.Owner)
//		}
//	}()
//
// Broadcast never blocks. A subscriber whose buffer is full misses the
// message and is removed, which closes its channel.
package broadcast
