package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/cashier/pkg/cashier"
)

// Collection names.
const (
	colCustomers     = "cashier_customers"
	colSubscriptions = "cashier_subscriptions"
	colFailedEvents  = "cashier_failed_webhook_events"
)

// Store persists customers, subscriptions and failed webhook events.
type Store struct {
	db *mongo.Database
}

var _ cashier.Store = (*Store)(nil)

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// EnsureIndexes creates the indexes the store depends on. It is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("cashier/mongo: create indexes on %s: %w", col, err)
		}
	}
	return nil
}

func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colCustomers: {
			{
				Keys:    bson.D{{Key: "owner_kind", Value: 1}, {Key: "owner_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "paystack_code", Value: 1}}},
		},
		colSubscriptions: {
			{
				Keys:    bson.D{{Key: "paystack_code", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{
				{Key: "owner_kind", Value: 1},
				{Key: "owner_id", Value: 1},
				{Key: "created_at", Value: -1},
			}},
		},
		colFailedEvents: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}
}

func (s *Store) CreateCustomer(ctx context.Context, c *cashier.Customer) error {
	_, err := s.customers().InsertOne(ctx, toCustomerModel(c))
	if mongo.IsDuplicateKeyError(err) {
		return errors.Join(cashier.ErrCustomerAlreadyExists, err)
	}
	if err != nil {
		return fmt.Errorf("cashier/mongo: insert customer: %w", err)
	}
	return nil
}

func (s *Store) UpdateCustomer(ctx context.Context, c *cashier.Customer) error {
	m := toCustomerModel(c)
	res, err := s.customers().UpdateOne(ctx, bson.M{"_id": m.ID}, bson.M{"$set": bson.M{
		"paystack_id":    m.PaystackID,
		"paystack_code":  m.PaystackCode,
		"card_brand":     m.CardBrand,
		"card_last_four": m.CardLastFour,
		"trial_ends_at":  m.TrialEndsAt,
		"updated_at":     m.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("cashier/mongo: update customer: %w", err)
	}
	if res.MatchedCount == 0 {
		return cashier.ErrCustomerNotFound
	}
	return nil
}

func (s *Store) CustomerByOwner(ctx context.Context, owner cashier.Owner) (*cashier.Customer, error) {
	return s.findCustomer(ctx, bson.M{"owner_kind": owner.Kind, "owner_id": owner.ID})
}

func (s *Store) CustomerByCode(ctx context.Context, code string) (*cashier.Customer, error) {
	if code == "" {
		return nil, cashier.ErrCustomerNotFound
	}
	return s.findCustomer(ctx, bson.M{"paystack_code": code})
}

func (s *Store) findCustomer(ctx context.Context, filter bson.M) (*cashier.Customer, error) {
	var m customerModel
	if err := s.customers().FindOne(ctx, filter).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return nil, cashier.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("cashier/mongo: find customer: %w", err)
	}
	return fromCustomerModel(&m)
}

func (s *Store) CreateSubscription(ctx context.Context, sub *cashier.Subscription) error {
	_, err := s.subscriptions().InsertOne(ctx, toSubscriptionModel(sub))
	if mongo.IsDuplicateKeyError(err) {
		return errors.Join(cashier.ErrSubscriptionAlreadyExists, err)
	}
	if err != nil {
		return fmt.Errorf("cashier/mongo: insert subscription: %w", err)
	}
	return nil
}

func (s *Store) UpdateSubscription(ctx context.Context, sub *cashier.Subscription) error {
	m := toSubscriptionModel(sub)
	res, err := s.subscriptions().UpdateOne(ctx, bson.M{"_id": m.ID}, bson.M{"$set": bson.M{
		"type":          m.Type,
		"paystack_id":   m.PaystackID,
		"paystack_plan": m.PaystackPlan,
		"quantity":      m.Quantity,
		"trial_ends_at": m.TrialEndsAt,
		"ends_at":       m.EndsAt,
		"updated_at":    m.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("cashier/mongo: update subscription: %w", err)
	}
	if res.MatchedCount == 0 {
		return cashier.ErrSubscriptionNotFound
	}
	return nil
}

func (s *Store) SubscriptionByCode(ctx context.Context, code string) (*cashier.Subscription, error) {
	var m subscriptionModel
	if err := s.subscriptions().FindOne(ctx, bson.M{"paystack_code": code}).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return nil, cashier.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("cashier/mongo: find subscription: %w", err)
	}
	return fromSubscriptionModel(&m)
}

func (s *Store) SubscriptionsByOwner(ctx context.Context, owner cashier.Owner) ([]*cashier.Subscription, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.subscriptions().Find(ctx, bson.M{"owner_kind": owner.Kind, "owner_id": owner.ID}, opts)
	if err != nil {
		return nil, fmt.Errorf("cashier/mongo: list subscriptions: %w", err)
	}

	var models []subscriptionModel
	if err := cur.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("cashier/mongo: decode subscriptions: %w", err)
	}

	out := make([]*cashier.Subscription, 0, len(models))
	for i := range models {
		sub, err := fromSubscriptionModel(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

func (s *Store) SaveFailedEvent(ctx context.Context, e *cashier.FailedEvent) error {
	m := toFailedEventModel(e)
	_, err := s.failedEvents().ReplaceOne(ctx, bson.M{"_id": m.ID}, m, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("cashier/mongo: save failed event: %w", err)
	}
	return nil
}

func (s *Store) FailedEvent(ctx context.Context, id uuid.UUID) (*cashier.FailedEvent, error) {
	var m failedEventModel
	if err := s.failedEvents().FindOne(ctx, bson.M{"_id": id.String()}).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return nil, cashier.ErrFailedEventNotFound
		}
		return nil, fmt.Errorf("cashier/mongo: find failed event: %w", err)
	}
	return fromFailedEventModel(&m)
}

func (s *Store) FailedEvents(ctx context.Context, limit int) ([]*cashier.FailedEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.failedEvents().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("cashier/mongo: list failed events: %w", err)
	}

	var models []failedEventModel
	if err := cur.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("cashier/mongo: decode failed events: %w", err)
	}

	out := make([]*cashier.FailedEvent, 0, len(models))
	for i := range models {
		e, err := fromFailedEventModel(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) DeleteFailedEvent(ctx context.Context, id uuid.UUID) error {
	if _, err := s.failedEvents().DeleteOne(ctx, bson.M{"_id": id.String()}); err != nil {
		return fmt.Errorf("cashier/mongo: delete failed event: %w", err)
	}
	return nil
}

func (s *Store) customers() *mongo.Collection     { return s.db.Collection(colCustomers) }
func (s *Store) subscriptions() *mongo.Collection { return s.db.Collection(colSubscriptions) }
func (s *Store) failedEvents() *mongo.Collection  { return s.db.Collection(colFailedEvents) }

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
