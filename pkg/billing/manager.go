package billing

import (
	"context"
	"errors"
	"time"
)

// CreateParams describes a checkout initiation for the calling
// educator. PlanKey is matched case-insensitively against the catalog;
// Quantity below one is coerced to one.
type CreateParams struct {
	EducatorID string
	Name       string
	Email      string
	PlanKey    string
	Quantity   int
}

// CreateResult carries what the browser needs to open the provider's
// hosted checkout.
type CreateResult struct {
	SubscriptionID string `json:"subscriptionId"`
	KeyID          string `json:"keyId"`
}

// Manager implements the subscription lifecycle: creating provider
// subscriptions with a deferred first charge, recording ownership for
// webhook attribution, and applying provider status transitions.
type Manager struct {
	provider    Provider
	store       Store
	catalog     *Catalog
	keyID       string
	trialPeriod time.Duration
	totalCycles int
	clock       func() time.Time
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithClock substitutes the time source. Intended for tests.
func WithClock(clock func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.clock = clock
	}
}

// NewManager creates a subscription lifecycle manager.
// Panics if any dependency is nil.
func NewManager(provider Provider, store Store, catalog *Catalog, keyID string, trialPeriod time.Duration, totalCycles int, opts ...ManagerOption) *Manager {
	if provider == nil {
		panic("billing: provider must not be nil")
	}
	if store == nil {
		panic("billing: store must not be nil")
	}
	if catalog == nil {
		panic("billing: catalog must not be nil")
	}

	m := &Manager{
		provider:    provider,
		store:       store,
		catalog:     catalog,
		keyID:       keyID,
		trialPeriod: trialPeriod,
		totalCycles: totalCycles,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create initiates a subscription for the educator. The plan key is
// validated before any provider call is made. The provider customer is
// created at most once per educator; if two requests race, both end up
// using whichever customer id the store kept.
func (m *Manager) Create(ctx context.Context, params CreateParams) (*CreateResult, error) {
	if params.EducatorID == "" {
		return nil, ErrInvalidEducatorID
	}

	planKey, planID, err := m.catalog.Resolve(params.PlanKey)
	if err != nil {
		return nil, err
	}

	quantity := params.Quantity
	if quantity < 1 {
		quantity = 1
	}

	customerID, err := m.ensureCustomer(ctx, params)
	if err != nil {
		return nil, err
	}

	startAt := m.clock().UTC().Add(m.trialPeriod)
	subscriptionID, err := m.provider.CreateSubscription(ctx, SubscriptionParams{
		PlanID:      planID,
		CustomerID:  customerID,
		Quantity:    quantity,
		StartAt:     startAt,
		TotalCycles: m.totalCycles,
	})
	if err != nil {
		return nil, err
	}

	// Reverse lookup goes in first so a webhook arriving before the
	// snapshot write can still attribute the event.
	if err := m.store.SaveOwner(ctx, Owner{
		SubscriptionID: subscriptionID,
		EducatorID:     params.EducatorID,
		PlanKey:        planKey,
	}); err != nil {
		return nil, err
	}

	if err := m.store.Save(ctx, &Subscription{
		EducatorID:     params.EducatorID,
		PlanKey:        planKey,
		Quantity:       quantity,
		Status:         StatusCreated,
		CustomerID:     customerID,
		SubscriptionID: subscriptionID,
		StartAt:        startAt,
	}); err != nil {
		return nil, err
	}

	return &CreateResult{
		SubscriptionID: subscriptionID,
		KeyID:          m.keyID,
	}, nil
}

// Get returns the educator's current snapshot.
func (m *Manager) Get(ctx context.Context, educatorID string) (*Subscription, error) {
	return m.store.Get(ctx, educatorID)
}

// ResolveOwner maps a provider subscription id back to the educator it
// belongs to.
func (m *Manager) ResolveOwner(ctx context.Context, subscriptionID string) (*Owner, error) {
	return m.store.GetOwner(ctx, subscriptionID)
}

// ApplyProviderStatus records a provider-reported lifecycle transition
// against the owning educator's snapshot. Unowned subscription ids
// return ErrOwnerNotFound.
func (m *Manager) ApplyProviderStatus(ctx context.Context, subscriptionID string, status Status) error {
	owner, err := m.store.GetOwner(ctx, subscriptionID)
	if err != nil {
		return err
	}
	return m.store.UpdateStatus(ctx, owner.EducatorID, status)
}

func (m *Manager) ensureCustomer(ctx context.Context, params CreateParams) (string, error) {
	existing, err := m.store.Get(ctx, params.EducatorID)
	if err != nil && !errors.Is(err, ErrSubscriptionNotFound) {
		return "", err
	}
	if existing != nil && existing.CustomerID != "" {
		return existing.CustomerID, nil
	}

	created, err := m.provider.CreateCustomer(ctx, CustomerParams{
		Name:  params.Name,
		Email: params.Email,
	})
	if err != nil {
		return "", err
	}

	// The store arbitrates concurrent creates: whichever customer id
	// lands first wins and everyone uses it.
	return m.store.SetCustomerIDIfAbsent(ctx, params.EducatorID, created)
}
