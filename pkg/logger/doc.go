// Package logger builds slog loggers for the cashier service and provides
// attribute constructors with consistent keys for billing entities.
//
// New returns a *slog.Logger configured through functional options. Its
// handler adds attributes carried by the context, so values set once at the
// edge of a request (a request id, the webhook event being processed) appear
// on every record logged further down:
//
//	log := logger.New(logger.FromConfig(cfg.Log))
//
//	ctx = logger.WithAttrs(ctx, logger.Event("subscription.create"))
//	log.InfoContext(ctx, "subscription recorded",
//		logger.SubscriptionCode("SUB_vsyqdmlzble3uii"),
//	)
//
// Attribute helpers that take optional values return an empty slog.Attr
// when the value is missing; slog drops empty attrs.
package logger
