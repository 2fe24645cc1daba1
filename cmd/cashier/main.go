// Command cashier receives Paystack webhooks and keeps local subscription
// state in sync with the gateway.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/cashier/pkg/broadcast"
	"github.com/dmitrymomot/cashier/pkg/cashier"
	"github.com/dmitrymomot/cashier/pkg/config"
	"github.com/dmitrymomot/cashier/pkg/httpserver"
	"github.com/dmitrymomot/cashier/pkg/logger"
	"github.com/dmitrymomot/cashier/pkg/paystack"
	"github.com/dmitrymomot/cashier/pkg/redis"
)

type appConfig struct {
	Store      string `env:"CASHIER_STORE" envDefault:"postgres"` // postgres, mongo or memory
	RedisURL   string `env:"REDIS_URL"`
	AdminToken string `env:"CASHIER_ADMIN_TOKEN"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var logCfg logger.Config
	config.MustLoad(&logCfg)
	log := logger.New(logger.FromConfig(logCfg))

	if err := run(ctx, log); err != nil {
		log.Error("cashier stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	var (
		app     appConfig
		billing cashier.Config
		psCfg   paystack.Config
		httpCfg httpserver.Config
	)
	if err := errors.Join(
		config.Load(&app),
		config.Load(&billing),
		config.Load(&psCfg),
		config.Load(&httpCfg),
	); err != nil {
		return err
	}
	if billing.WebhookSecret == "" {
		billing.WebhookSecret = psCfg.SecretKey
	}

	gateway, err := paystack.NewClient(psCfg)
	if err != nil {
		return err
	}

	store, checks, closeStore, err := openStore(ctx, app.Store, log)
	if err != nil {
		return err
	}
	defer closeStore()

	events := broadcast.NewMemoryBroadcaster[cashier.Event](64)
	defer events.Close()
	go logEvents(ctx, log, events.Subscribe(ctx))

	opts := []cashier.Option{
		cashier.WithLogger(log),
		cashier.WithDispatcher(cashier.BroadcastDispatcher(events)),
	}
	if app.RedisURL != "" {
		var redisCfg redis.Config
		if err := config.Load(&redisCfg); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer client.Close()
		opts = append(opts, cashier.WithLocker(redis.NewLocker(client, redis.WithLockerConfig(redisCfg))))
		checks["redis"] = redis.Healthcheck(client)
	}

	c, err := cashier.New(billing, gateway, store, opts...)
	if err != nil {
		return err
	}
	rec := cashier.NewReconciler(c)

	srv := httpserver.New(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, newRouter(log, c.Config(), rec, checks, app.AdminToken))
}

func logEvents(ctx context.Context, log *slog.Logger, sub broadcast.Subscriber[cashier.Event]) {
	defer sub.Close()
	for msg := range sub.Receive(ctx) {
		e := msg.Data
		attrs := []any{logger.Event(msg.Topic), logger.Owner(e.Owner)}
		if e.Subscription != nil {
			attrs = append(attrs, logger.SubscriptionCode(e.Subscription.PaystackCode), logger.Plan(e.Subscription.PaystackPlan))
		}
		log.InfoContext(ctx, "billing event", attrs...)
	}
}
