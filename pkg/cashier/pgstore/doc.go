// Package pgstore implements cashier.Store on PostgreSQL with pgx/v5.
//
// The schema ships as goose migrations embedded in Migrations; apply them
// with pg.Migrate before constructing the store:
//
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, cfg, log); err != nil {
//		return err
//	}
//	store := pgstore.New(pool)
package pgstore
