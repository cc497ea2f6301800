package billing_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/univlive/platform/pkg/billing"
)

type stubProvider struct {
	mu                 sync.Mutex
	customerCalls      int
	subscriptionCalls  int
	customerID         string
	subscriptionID     string
	customerErr        error
	subscriptionErr    error
	lastSubscription   billing.SubscriptionParams
	lastCustomerParams billing.CustomerParams
}

func (p *stubProvider) CreateCustomer(_ context.Context, params billing.CustomerParams) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.customerCalls++
	p.lastCustomerParams = params
	if p.customerErr != nil {
		return "", p.customerErr
	}
	return p.customerID, nil
}

func (p *stubProvider) CreateSubscription(_ context.Context, params billing.SubscriptionParams) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscriptionCalls++
	p.lastSubscription = params
	if p.subscriptionErr != nil {
		return "", p.subscriptionErr
	}
	return p.subscriptionID, nil
}

type memoryStore struct {
	mu     sync.Mutex
	subs   map[string]*billing.Subscription
	owners map[string]billing.Owner
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		subs:   make(map[string]*billing.Subscription),
		owners: make(map[string]billing.Owner),
	}
}

func (s *memoryStore) Get(_ context.Context, educatorID string) (*billing.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[educatorID]
	if !ok {
		return nil, billing.ErrSubscriptionNotFound
	}
	copied := *sub
	return &copied, nil
}

func (s *memoryStore) Save(_ context.Context, sub *billing.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sub
	s.subs[sub.EducatorID] = &copied
	return nil
}

func (s *memoryStore) SetCustomerIDIfAbsent(_ context.Context, educatorID, customerID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.subs[educatorID]; ok && sub.CustomerID != "" {
		return sub.CustomerID, nil
	}
	sub, ok := s.subs[educatorID]
	if !ok {
		sub = &billing.Subscription{EducatorID: educatorID}
		s.subs[educatorID] = sub
	}
	sub.CustomerID = customerID
	return customerID, nil
}

func (s *memoryStore) SaveOwner(_ context.Context, owner billing.Owner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[owner.SubscriptionID] = owner
	return nil
}

func (s *memoryStore) GetOwner(_ context.Context, subscriptionID string) (*billing.Owner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.owners[subscriptionID]
	if !ok {
		return nil, billing.ErrOwnerNotFound
	}
	return &owner, nil
}

func (s *memoryStore) UpdateStatus(_ context.Context, educatorID string, status billing.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[educatorID]
	if !ok {
		return billing.ErrSubscriptionNotFound
	}
	sub.Status = status
	return nil
}

// racingStore pretends a concurrent request already stored a customer
// id by the time the conditional write lands.
type racingStore struct {
	*memoryStore
	winner string
}

func (s *racingStore) SetCustomerIDIfAbsent(ctx context.Context, educatorID, _ string) (string, error) {
	return s.memoryStore.SetCustomerIDIfAbsent(ctx, educatorID, s.winner)
}

func testCatalog(t *testing.T) *billing.Catalog {
	t.Helper()
	return billing.NewCatalog(map[billing.PlanKey]string{
		billing.PlanEssential: "plan_ess_123",
		billing.PlanPro:       "plan_pro_456",
	})
}

func TestManagerCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	trial := 120 * time.Hour

	newManager := func(provider *stubProvider, store billing.Store) *billing.Manager {
		return billing.NewManager(provider, store, testCatalog(t), "rzp_test_key", trial, 120,
			billing.WithClock(func() time.Time { return now }))
	}

	t.Run("creates subscription with deferred start", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{customerID: "cust_1", subscriptionID: "sub_1"}
		store := newMemoryStore()
		manager := newManager(provider, store)

		result, err := manager.Create(ctx, billing.CreateParams{
			EducatorID: "educator-1",
			Name:       "Asha Verma",
			Email:      "asha@example.com",
			PlanKey:    "PRO",
			Quantity:   3,
		})
		require.NoError(t, err)
		assert.Equal(t, "sub_1", result.SubscriptionID)
		assert.Equal(t, "rzp_test_key", result.KeyID)

		assert.Equal(t, "plan_pro_456", provider.lastSubscription.PlanID)
		assert.Equal(t, "cust_1", provider.lastSubscription.CustomerID)
		assert.Equal(t, 3, provider.lastSubscription.Quantity)
		assert.Equal(t, now.Add(trial), provider.lastSubscription.StartAt)
		assert.Equal(t, 120, provider.lastSubscription.TotalCycles)

		sub, err := store.Get(ctx, "educator-1")
		require.NoError(t, err)
		assert.Equal(t, billing.StatusCreated, sub.Status)
		assert.Equal(t, billing.PlanPro, sub.PlanKey)
		assert.Equal(t, now.Add(trial), sub.StartAt)

		owner, err := store.GetOwner(ctx, "sub_1")
		require.NoError(t, err)
		assert.Equal(t, "educator-1", owner.EducatorID)
		assert.Equal(t, billing.PlanPro, owner.PlanKey)
	})

	t.Run("plan key is case-insensitive", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{customerID: "cust_1", subscriptionID: "sub_1"}
		manager := newManager(provider, newMemoryStore())

		_, err := manager.Create(ctx, billing.CreateParams{
			EducatorID: "educator-1",
			PlanKey:    "  pro ",
		})
		require.NoError(t, err)
		assert.Equal(t, "plan_pro_456", provider.lastSubscription.PlanID)
	})

	t.Run("unknown plan fails before any provider call", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{customerID: "cust_1", subscriptionID: "sub_1"}
		manager := newManager(provider, newMemoryStore())

		_, err := manager.Create(ctx, billing.CreateParams{
			EducatorID: "educator-1",
			PlanKey:    "PLATINUM",
		})
		require.ErrorIs(t, err, billing.ErrUnknownPlan)
		assert.Zero(t, provider.customerCalls)
		assert.Zero(t, provider.subscriptionCalls)
	})

	t.Run("quantity below one is coerced to one", func(t *testing.T) {
		t.Parallel()

		for _, quantity := range []int{0, -3} {
			provider := &stubProvider{customerID: "cust_1", subscriptionID: "sub_1"}
			manager := newManager(provider, newMemoryStore())

			_, err := manager.Create(ctx, billing.CreateParams{
				EducatorID: "educator-1",
				PlanKey:    "ESSENTIAL",
				Quantity:   quantity,
			})
			require.NoError(t, err)
			assert.Equal(t, 1, provider.lastSubscription.Quantity)
		}
	})

	t.Run("reuses stored customer id on repeat create", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{customerID: "cust_1", subscriptionID: "sub_1"}
		store := newMemoryStore()
		manager := newManager(provider, store)

		_, err := manager.Create(ctx, billing.CreateParams{
			EducatorID: "educator-1",
			PlanKey:    "ESSENTIAL",
		})
		require.NoError(t, err)

		provider.subscriptionID = "sub_2"
		_, err = manager.Create(ctx, billing.CreateParams{
			EducatorID: "educator-1",
			PlanKey:    "PRO",
		})
		require.NoError(t, err)

		assert.Equal(t, 1, provider.customerCalls)
		assert.Equal(t, "cust_1", provider.lastSubscription.CustomerID)
	})

	t.Run("uses store winner when customer creation raced", func(t *testing.T) {
		t.Parallel()

		// Another request set a customer id between this request's
		// read and its conditional write: the store keeps the first
		// writer's id and the manager must use it.
		provider := &stubProvider{customerID: "cust_loser", subscriptionID: "sub_1"}
		store := &racingStore{memoryStore: newMemoryStore(), winner: "cust_winner"}

		manager := newManager(provider, store)
		_, err := manager.Create(ctx, billing.CreateParams{
			EducatorID: "educator-1",
			PlanKey:    "ESSENTIAL",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, provider.customerCalls)
		assert.Equal(t, "cust_winner", provider.lastSubscription.CustomerID)
	})

	t.Run("provider customer failure is returned", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{customerErr: billing.ErrProvider}
		manager := newManager(provider, newMemoryStore())

		_, err := manager.Create(ctx, billing.CreateParams{
			EducatorID: "educator-1",
			PlanKey:    "ESSENTIAL",
		})
		require.ErrorIs(t, err, billing.ErrProvider)
		assert.Zero(t, provider.subscriptionCalls)
	})

	t.Run("provider subscription failure leaves no snapshot", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{customerID: "cust_1", subscriptionErr: billing.ErrProvider}
		store := newMemoryStore()
		manager := newManager(provider, store)

		_, err := manager.Create(ctx, billing.CreateParams{
			EducatorID: "educator-1",
			PlanKey:    "ESSENTIAL",
		})
		require.ErrorIs(t, err, billing.ErrProvider)

		sub, err := store.Get(ctx, "educator-1")
		require.NoError(t, err)
		assert.Empty(t, sub.SubscriptionID)
	})

	t.Run("missing educator id is rejected", func(t *testing.T) {
		t.Parallel()

		manager := newManager(&stubProvider{}, newMemoryStore())
		_, err := manager.Create(ctx, billing.CreateParams{PlanKey: "PRO"})
		require.ErrorIs(t, err, billing.ErrInvalidEducatorID)
	})
}

func TestManagerApplyProviderStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("updates the owning educator's snapshot", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{customerID: "cust_1", subscriptionID: "sub_1"}
		store := newMemoryStore()
		manager := billing.NewManager(provider, store, testCatalog(t), "rzp_test_key", time.Hour, 120)

		_, err := manager.Create(ctx, billing.CreateParams{
			EducatorID: "educator-1",
			PlanKey:    "PRO",
		})
		require.NoError(t, err)

		require.NoError(t, manager.ApplyProviderStatus(ctx, "sub_1", billing.StatusActive))

		sub, err := store.Get(ctx, "educator-1")
		require.NoError(t, err)
		assert.Equal(t, billing.StatusActive, sub.Status)
	})

	t.Run("unowned subscription id fails", func(t *testing.T) {
		t.Parallel()

		manager := billing.NewManager(&stubProvider{}, newMemoryStore(), testCatalog(t), "rzp_test_key", time.Hour, 120)
		err := manager.ApplyProviderStatus(ctx, "sub_unknown", billing.StatusActive)
		require.ErrorIs(t, err, billing.ErrOwnerNotFound)
	})
}

func TestNewManagerPanics(t *testing.T) {
	t.Parallel()

	catalog := testCatalog(t)
	store := newMemoryStore()
	provider := &stubProvider{}

	assert.Panics(t, func() { billing.NewManager(nil, store, catalog, "k", time.Hour, 1) })
	assert.Panics(t, func() { billing.NewManager(provider, nil, catalog, "k", time.Hour, 1) })
	assert.Panics(t, func() { billing.NewManager(provider, store, nil, "k", time.Hour, 1) })
}
