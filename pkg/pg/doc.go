// Package pg bootstraps PostgreSQL access with pgx/v5: a retrying pool
// constructor, a health probe, goose migrations from an embedded
// filesystem, and helpers that classify driver errors.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations, "migrations", cfg, log); err != nil {
//		return err
//	}
package pg
