// Package cashier manages Paystack customers and subscriptions for any
// application entity that implements Billable.
//
// A Cashier combines a Paystack Gateway with a Store holding the local
// mirror of customers and subscriptions. Subscription status is never
// stored: every predicate (OnTrial, OnGracePeriod, Cancelled, Active, Ended,
// Recurring, Valid) is derived from TrialEndsAt and EndsAt relative to the
// Cashier clock.
//
// # Components
//
//   - SubscriptionBuilder: configures and creates a subscription (trial days,
//     skip trial, authorization token) and records it locally.
//   - Lifecycle: Cancel, CancelNow, MarkAsCancelled, Resume and Swap keep the
//     local row in step with Paystack. Local state is only written after the
//     remote call succeeds.
//   - Reconciler: applies subscription.create and subscription.disable
//     webhook events, records failed deliveries for replay and emits events
//     through a Dispatcher.
//   - BillingProfile: read-only queries over an owner's customer and
//     subscriptions at a fixed instant.
//   - Payments, invoices and cards: thin wrappers over the Paystack endpoints
//     scoped to a billable.
//
// # Usage
//
//	client, err := paystack.NewClient(paystack.Config{SecretKey: secret})
//	if err != nil {
//		return err
//	}
//
//	c, err := cashier.New(cashier.DefaultConfig(), client, cashier.NewMemoryStore(),
//		cashier.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//
//	user := cashier.BasicBillable{
//		Owner: cashier.Owner{Kind: "user", ID: "42"},
//		Email: "jane@example.com",
//	}
//	sub, err := c.NewSubscription(user, "default", "PLN_gx2wn530m0i3w3m").
//		TrialDays(14).
//		Create(ctx, "", nil)
//
//	// later
//	err = c.Cancel(ctx, sub) // stays valid until the end of the paid period
//
// # Webhooks
//
// Mount the reconciler behind signature verification:
//
//	rec := cashier.NewReconciler(c, cashier.WithBillableResolver(registry))
//	r.Mount(cfg.WebhookPath, cashier.Routes(rec, cfg.WebhookSecret))
//
// Every delivery is answered with 200 and one of the Outcome messages so
// Paystack does not retry. Failed deliveries can be listed with
// Reconciler.FailedEvents and retried with Reconciler.Replay.
//
// # Concurrency
//
// Lifecycle operations and webhook handlers serialize on a per-subscription
// lock. The default MemoryLocker only covers one process; use the Redis
// locker from pkg/redis when running several instances.
package cashier
