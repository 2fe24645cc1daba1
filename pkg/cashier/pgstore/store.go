package pgstore

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/cashier/pkg/cashier"
	"github.com/dmitrymomot/cashier/pkg/pg"
)

// MigrationsDir is the directory of Migrations holding the goose files.
const MigrationsDir = "migrations"

// Migrations holds the schema of the store.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// DB is the subset of *pgxpool.Pool used by the store. A pgx.Tx satisfies it
// as well, so the store can join a caller's transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists customers, subscriptions and failed webhook events.
type Store struct {
	db DB
}

var _ cashier.Store = (*Store)(nil)

func New(db DB) *Store {
	return &Store{db: db}
}

const customerColumns = `id, owner_kind, owner_id, paystack_id, paystack_code,
	card_brand, card_last_four, trial_ends_at, created_at, updated_at`

func (s *Store) CreateCustomer(ctx context.Context, c *cashier.Customer) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO cashier_customers (`+customerColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.Owner.Kind, c.Owner.ID, c.PaystackID, nullString(c.PaystackCode),
		c.CardBrand, c.CardLastFour, c.TrialEndsAt, c.CreatedAt, c.UpdatedAt,
	)
	if pg.IsDuplicateKeyError(err) {
		return errors.Join(cashier.ErrCustomerAlreadyExists, err)
	}
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (s *Store) UpdateCustomer(ctx context.Context, c *cashier.Customer) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE cashier_customers
		 SET paystack_id = $2, paystack_code = $3, card_brand = $4, card_last_four = $5,
		     trial_ends_at = $6, updated_at = $7
		 WHERE id = $1`,
		c.ID, c.PaystackID, nullString(c.PaystackCode), c.CardBrand, c.CardLastFour,
		c.TrialEndsAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cashier.ErrCustomerNotFound
	}
	return nil
}

func (s *Store) CustomerByOwner(ctx context.Context, owner cashier.Owner) (*cashier.Customer, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM cashier_customers WHERE owner_kind = $1 AND owner_id = $2`,
		owner.Kind, owner.ID,
	)
	return scanCustomer(row)
}

func (s *Store) CustomerByCode(ctx context.Context, code string) (*cashier.Customer, error) {
	if code == "" {
		return nil, cashier.ErrCustomerNotFound
	}
	row := s.db.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM cashier_customers WHERE paystack_code = $1`,
		code,
	)
	return scanCustomer(row)
}

func scanCustomer(row pgx.Row) (*cashier.Customer, error) {
	var (
		c    cashier.Customer
		code *string
	)
	err := row.Scan(&c.ID, &c.Owner.Kind, &c.Owner.ID, &c.PaystackID, &code,
		&c.CardBrand, &c.CardLastFour, &c.TrialEndsAt, &c.CreatedAt, &c.UpdatedAt)
	if pg.IsNotFoundError(err) {
		return nil, cashier.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan customer: %w", err)
	}
	if code != nil {
		c.PaystackCode = *code
	}
	return &c, nil
}

const subscriptionColumns = `id, owner_kind, owner_id, type, paystack_id, paystack_code,
	paystack_plan, quantity, trial_ends_at, ends_at, created_at, updated_at`

func (s *Store) CreateSubscription(ctx context.Context, sub *cashier.Subscription) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO cashier_subscriptions (`+subscriptionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		sub.ID, sub.Owner.Kind, sub.Owner.ID, sub.Type, sub.PaystackID, sub.PaystackCode,
		sub.PaystackPlan, sub.Quantity, sub.TrialEndsAt, sub.EndsAt, sub.CreatedAt, sub.UpdatedAt,
	)
	if pg.IsDuplicateKeyError(err) {
		return errors.Join(cashier.ErrSubscriptionAlreadyExists, err)
	}
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

func (s *Store) UpdateSubscription(ctx context.Context, sub *cashier.Subscription) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE cashier_subscriptions
		 SET type = $2, paystack_id = $3, paystack_plan = $4, quantity = $5,
		     trial_ends_at = $6, ends_at = $7, updated_at = $8
		 WHERE id = $1`,
		sub.ID, sub.Type, sub.PaystackID, sub.PaystackPlan, sub.Quantity,
		sub.TrialEndsAt, sub.EndsAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cashier.ErrSubscriptionNotFound
	}
	return nil
}

func (s *Store) SubscriptionByCode(ctx context.Context, code string) (*cashier.Subscription, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM cashier_subscriptions WHERE paystack_code = $1`,
		code,
	)
	sub, err := scanSubscription(row)
	if pg.IsNotFoundError(err) {
		return nil, cashier.ErrSubscriptionNotFound
	}
	return sub, err
}

func (s *Store) SubscriptionsByOwner(ctx context.Context, owner cashier.Owner) ([]*cashier.Subscription, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+subscriptionColumns+` FROM cashier_subscriptions
		 WHERE owner_kind = $1 AND owner_id = $2
		 ORDER BY created_at DESC`,
		owner.Kind, owner.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close()

	var out []*cashier.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	return out, nil
}

func scanSubscription(row pgx.Row) (*cashier.Subscription, error) {
	var sub cashier.Subscription
	err := row.Scan(&sub.ID, &sub.Owner.Kind, &sub.Owner.ID, &sub.Type, &sub.PaystackID, &sub.PaystackCode,
		&sub.PaystackPlan, &sub.Quantity, &sub.TrialEndsAt, &sub.EndsAt, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("scan subscription: %w", err)
	}
	return &sub, nil
}

const failedEventColumns = `id, event, payload, error, attempts, created_at, last_attempt_at`

func (s *Store) SaveFailedEvent(ctx context.Context, e *cashier.FailedEvent) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO cashier_failed_webhook_events (`+failedEventColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE
		 SET error = EXCLUDED.error, attempts = EXCLUDED.attempts, last_attempt_at = EXCLUDED.last_attempt_at`,
		e.ID, e.Event, e.Payload, e.Error, e.Attempts, e.CreatedAt, e.LastAttemptAt,
	)
	if err != nil {
		return fmt.Errorf("save failed event: %w", err)
	}
	return nil
}

func (s *Store) FailedEvent(ctx context.Context, id uuid.UUID) (*cashier.FailedEvent, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+failedEventColumns+` FROM cashier_failed_webhook_events WHERE id = $1`,
		id,
	)
	e, err := scanFailedEvent(row)
	if pg.IsNotFoundError(err) {
		return nil, cashier.ErrFailedEventNotFound
	}
	return e, err
}

func (s *Store) FailedEvents(ctx context.Context, limit int) ([]*cashier.FailedEvent, error) {
	query := `SELECT ` + failedEventColumns + ` FROM cashier_failed_webhook_events ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed events: %w", err)
	}
	defer rows.Close()

	var out []*cashier.FailedEvent
	for rows.Next() {
		e, err := scanFailedEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query failed events: %w", err)
	}
	return out, nil
}

func (s *Store) DeleteFailedEvent(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM cashier_failed_webhook_events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete failed event: %w", err)
	}
	return nil
}

func scanFailedEvent(row pgx.Row) (*cashier.FailedEvent, error) {
	var e cashier.FailedEvent
	err := row.Scan(&e.ID, &e.Event, &e.Payload, &e.Error, &e.Attempts, &e.CreatedAt, &e.LastAttemptAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("scan failed event: %w", err)
	}
	return &e, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
