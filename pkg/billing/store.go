package billing

import "context"

// Store persists subscription snapshots keyed by educator id, plus a
// reverse lookup from provider subscription id to owner.
type Store interface {
	// Get returns the educator's snapshot, or ErrSubscriptionNotFound.
	Get(ctx context.Context, educatorID string) (*Subscription, error)

	// Save upserts the full snapshot.
	Save(ctx context.Context, sub *Subscription) error

	// SetCustomerIDIfAbsent records the provider customer id only if
	// the educator does not already have one, and returns whichever id
	// ended up stored. Concurrent callers all observe the same winner.
	SetCustomerIDIfAbsent(ctx context.Context, educatorID, customerID string) (string, error)

	// SaveOwner records the reverse lookup for webhook attribution.
	SaveOwner(ctx context.Context, owner Owner) error

	// GetOwner resolves a provider subscription id to its owner, or
	// ErrOwnerNotFound.
	GetOwner(ctx context.Context, subscriptionID string) (*Owner, error)

	// UpdateStatus sets the lifecycle status on the educator's
	// snapshot. Missing snapshots return ErrSubscriptionNotFound.
	UpdateStatus(ctx context.Context, educatorID string, status Status) error
}
