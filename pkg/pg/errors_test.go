package pg_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/cashier/pkg/pg"
)

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, pg.IsNotFoundError(fmt.Errorf("query: %w", pgx.ErrNoRows)))
	assert.False(t, pg.IsNotFoundError(nil))

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "cashier_customers_owner_key"}
	assert.True(t, pg.IsDuplicateKeyError(fmt.Errorf("insert: %w", dup)))
	assert.False(t, pg.IsDuplicateKeyError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, pg.IsDuplicateKeyError(errors.New("other")))
}

func TestConnect_EmptyConnectionString(t *testing.T) {
	t.Parallel()

	_, err := pg.Connect(t.Context(), pg.Config{})
	assert.ErrorIs(t, err, pg.ErrEmptyConnectionString)
}
