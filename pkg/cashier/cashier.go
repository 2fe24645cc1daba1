package cashier

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/cashier/pkg/reference"
)

// Cashier ties a Paystack gateway to local customer and subscription
// storage. It is safe for concurrent use.
type Cashier struct {
	cfg        Config
	gateway    Gateway
	store      Store
	logger     *slog.Logger
	dispatcher Dispatcher
	locker     Locker
	refs       *reference.Generator
	formatter  AmountFormatter
	now        func() time.Time
}

// Option configures a Cashier.
type Option func(*Cashier)

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cashier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock replaces the time source used for every predicate evaluation
// and timestamp Cashier produces.
func WithClock(now func() time.Time) Option {
	return func(c *Cashier) {
		if now != nil {
			c.now = now
		}
	}
}

// WithDispatcher sets the receiver of lifecycle events.
func WithDispatcher(d Dispatcher) Option {
	return func(c *Cashier) {
		if d != nil {
			c.dispatcher = d
		}
	}
}

// WithLocker sets the per-subscription lock. Defaults to a MemoryLocker,
// which only serializes within one process.
func WithLocker(l Locker) Option {
	return func(c *Cashier) {
		if l != nil {
			c.locker = l
		}
	}
}

// WithReferenceGenerator sets the generator for transaction references.
func WithReferenceGenerator(g *reference.Generator) Option {
	return func(c *Cashier) {
		if g != nil {
			c.refs = g
		}
	}
}

// WithAmountFormatter replaces the default amount formatter.
func WithAmountFormatter(f AmountFormatter) Option {
	return func(c *Cashier) {
		if f != nil {
			c.formatter = f
		}
	}
}

// New creates a Cashier. Panics if gateway or store is nil.
// Returns ErrUnknownCurrency when no symbol is configured and none can be
// guessed from the currency.
func New(cfg Config, gateway Gateway, store Store, opts ...Option) (*Cashier, error) {
	if gateway == nil {
		panic("cashier: gateway is required")
	}
	if store == nil {
		panic("cashier: store is required")
	}

	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	refs, err := reference.New()
	if err != nil {
		return nil, err
	}

	c := &Cashier{
		cfg:        cfg,
		gateway:    gateway,
		store:      store,
		logger:     slog.New(slog.DiscardHandler),
		dispatcher: noopDispatcher{},
		locker:     NewMemoryLocker(),
		refs:       refs,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.formatter == nil {
		symbol := c.cfg.CurrencySymbol
		c.formatter = func(amount int64) string { return FormatAmount(amount, symbol) }
	}
	return c, nil
}

// Config returns the normalized configuration.
func (c *Cashier) Config() Config { return c.cfg }

// Now returns the current time according to the configured clock.
func (c *Cashier) Now() time.Time { return c.now() }

// FormatAmount renders an amount in the smallest currency unit for display.
func (c *Cashier) FormatAmount(amount int64) string { return c.formatter(amount) }

func (c *Cashier) lockSubscription(ctx context.Context, code string) (func(), error) {
	unlock, err := c.locker.Lock(ctx, "cashier:subscription:"+code)
	if err != nil {
		return nil, errors.Join(ErrLockFailed, err)
	}
	return unlock, nil
}

func (c *Cashier) dispatch(ctx context.Context, e Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = c.now()
	}
	c.dispatcher.Dispatch(ctx, e)
}
