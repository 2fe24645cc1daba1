// Package redis connects to Redis and provides a distributed Locker.
//
// Connect retries the initial ping within the configured budget. Healthcheck
// plugs the client into a readiness probe.
//
// Locker implements the locking contract the billing package expects:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	locker := redis.NewLocker(client, redis.WithLockerConfig(cfg))
//	c, err := cashier.New(cashierCfg, gateway, store, cashier.WithLocker(locker))
//
// A lock is a key set with SET NX PX holding a random token. Release runs a
// compare-and-delete script so a holder whose lock already expired cannot
// remove somebody else's.
package redis
