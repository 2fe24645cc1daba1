package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/cashier/pkg/cashier"
	"github.com/dmitrymomot/cashier/pkg/cashier/mongostore"
	"github.com/dmitrymomot/cashier/pkg/cashier/pgstore"
	"github.com/dmitrymomot/cashier/pkg/config"
	"github.com/dmitrymomot/cashier/pkg/httpserver"
	"github.com/dmitrymomot/cashier/pkg/mongo"
	"github.com/dmitrymomot/cashier/pkg/pg"
)

// openStore connects the configured backend and prepares its schema.
func openStore(ctx context.Context, kind string, log *slog.Logger) (cashier.Store, map[string]httpserver.Check, func(), error) {
	checks := make(map[string]httpserver.Check)

	switch kind {
	case "postgres", "":
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, nil, nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, cfg, log); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		checks["postgres"] = pg.Healthcheck(pool)
		return pgstore.New(pool), checks, pool.Close, nil

	case "mongo":
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return nil, nil, nil, err
		}
		client, err := mongo.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		disconnect := func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }
		store := mongostore.New(client.Database(cfg.Database))
		if err := store.EnsureIndexes(ctx); err != nil {
			disconnect()
			return nil, nil, nil, err
		}
		checks["mongo"] = mongo.Healthcheck(client)
		return store, checks, disconnect, nil

	case "memory":
		log.WarnContext(ctx, "using in-memory store; state is lost on restart")
		return cashier.NewMemoryStore(), checks, func() {}, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown CASHIER_STORE %q", kind)
	}
}
