package cashier

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Owner identifies the entity that is billed: a user, a team, an organization.
// Kind namespaces ID so that different entity types can share the same tables.
type Owner struct {
	Kind string
	ID   string
}

func (o Owner) String() string {
	return o.Kind + ":" + o.ID
}

// IsZero reports whether the owner is unset.
func (o Owner) IsZero() bool {
	return o.Kind == "" && o.ID == ""
}

// Billable is implemented by application entities that can hold a Paystack
// customer and subscriptions.
type Billable interface {
	BillingOwner() Owner
	BillingEmail() string
}

// BasicBillable is a minimal Billable for callers that only have the owner
// key and email at hand.
type BasicBillable struct {
	Owner Owner
	Email string
}

func (b BasicBillable) BillingOwner() Owner  { return b.Owner }
func (b BasicBillable) BillingEmail() string { return b.Email }

// BillableResolver loads the application entity behind an owner key.
// The webhook reconciler uses it to turn a stored customer row back into
// a Billable.
type BillableResolver interface {
	ResolveBillable(ctx context.Context, owner Owner) (Billable, error)
}

// BillableResolverFunc adapts a function to BillableResolver.
type BillableResolverFunc func(ctx context.Context, owner Owner) (Billable, error)

func (f BillableResolverFunc) ResolveBillable(ctx context.Context, owner Owner) (Billable, error) {
	return f(ctx, owner)
}

// Registry dispatches billable resolution by owner kind.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	resolvers map[string]BillableResolver
}

func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[string]BillableResolver)}
}

// Register binds a resolver to an owner kind. Registering the same kind twice
// replaces the previous resolver.
func (r *Registry) Register(kind string, resolver BillableResolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers[kind] = resolver
}

func (r *Registry) ResolveBillable(ctx context.Context, owner Owner) (Billable, error) {
	r.mu.RLock()
	resolver, ok := r.resolvers[owner.Kind]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Join(ErrBillableNotResolved, fmt.Errorf("no resolver registered for kind %q", owner.Kind))
	}

	billable, err := resolver.ResolveBillable(ctx, owner)
	if err != nil {
		return nil, errors.Join(ErrBillableNotResolved, err)
	}
	if billable == nil {
		return nil, ErrBillableNotResolved
	}
	return billable, nil
}
