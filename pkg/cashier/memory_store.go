package cashier

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store. Records are copied on the way in and
// out so callers never share memory with the store.
type MemoryStore struct {
	mu            sync.RWMutex
	customers     map[uuid.UUID]Customer
	subscriptions map[uuid.UUID]Subscription
	failed        map[uuid.UUID]FailedEvent
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		customers:     make(map[uuid.UUID]Customer),
		subscriptions: make(map[uuid.UUID]Subscription),
		failed:        make(map[uuid.UUID]FailedEvent),
	}
}

func (m *MemoryStore) CreateCustomer(_ context.Context, customer *Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.customers {
		if c.Owner == customer.Owner {
			return ErrCustomerAlreadyExists
		}
	}
	m.customers[customer.ID] = *customer
	return nil
}

func (m *MemoryStore) UpdateCustomer(_ context.Context, customer *Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.customers[customer.ID]; !ok {
		return ErrCustomerNotFound
	}
	m.customers[customer.ID] = *customer
	return nil
}

func (m *MemoryStore) CustomerByOwner(_ context.Context, owner Owner) (*Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.customers {
		if c.Owner == owner {
			return &c, nil
		}
	}
	return nil, ErrCustomerNotFound
}

func (m *MemoryStore) CustomerByCode(_ context.Context, code string) (*Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.customers {
		if code != "" && c.PaystackCode == code {
			return &c, nil
		}
	}
	return nil, ErrCustomerNotFound
}

func (m *MemoryStore) CreateSubscription(_ context.Context, sub *Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.subscriptions {
		if s.PaystackCode == sub.PaystackCode {
			return ErrSubscriptionAlreadyExists
		}
	}
	m.subscriptions[sub.ID] = *sub
	return nil
}

func (m *MemoryStore) UpdateSubscription(_ context.Context, sub *Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.subscriptions[sub.ID]; !ok {
		return ErrSubscriptionNotFound
	}
	m.subscriptions[sub.ID] = *sub
	return nil
}

func (m *MemoryStore) SubscriptionByCode(_ context.Context, code string) (*Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.subscriptions {
		if code != "" && s.PaystackCode == code {
			return &s, nil
		}
	}
	return nil, ErrSubscriptionNotFound
}

func (m *MemoryStore) SubscriptionsByOwner(_ context.Context, owner Owner) ([]*Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Subscription
	for _, s := range m.subscriptions {
		if s.Owner == owner {
			out = append(out, &s)
		}
	}
	slices.SortFunc(out, func(a, b *Subscription) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) SaveFailedEvent(_ context.Context, event *FailedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failed[event.ID] = *event
	return nil
}

func (m *MemoryStore) FailedEvent(_ context.Context, id uuid.UUID) (*FailedEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.failed[id]
	if !ok {
		return nil, ErrFailedEventNotFound
	}
	return &e, nil
}

func (m *MemoryStore) FailedEvents(_ context.Context, limit int) ([]*FailedEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*FailedEvent, 0, len(m.failed))
	for _, e := range m.failed {
		out = append(out, &e)
	}
	slices.SortFunc(out, func(a, b *FailedEvent) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) DeleteFailedEvent(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.failed, id)
	return nil
}
