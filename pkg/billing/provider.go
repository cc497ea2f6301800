package billing

import (
	"context"
	"time"
)

// CustomerParams describes the educator for whom a provider-side
// customer record is created.
type CustomerParams struct {
	Name  string
	Email string
}

// SubscriptionParams describes a recurring subscription to create with
// the payment provider. StartAt in the future defers the first charge.
type SubscriptionParams struct {
	PlanID     string
	CustomerID string
	Quantity   int
	StartAt    time.Time
	// TotalCycles caps how many billing cycles the provider runs
	// before the subscription completes on its own.
	TotalCycles int
}

// Provider abstracts the payment gateway. Implementations return
// provider-assigned identifiers; all failures should be wrapped so
// callers can match on ErrProvider.
type Provider interface {
	CreateCustomer(ctx context.Context, params CustomerParams) (string, error)
	CreateSubscription(ctx context.Context, params SubscriptionParams) (string, error)
}
