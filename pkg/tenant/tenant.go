package tenant

import (
	"context"
	"time"
)

// Tenant represents a coaching institute's presence on the platform,
// addressed by a subdomain slug. Only the fields needed for
// request-scoped decisions are carried here; presentational config
// lives with the owning educator's record.
type Tenant struct {
	Slug       string    `json:"slug" bson:"slug"`
	EducatorID string    `json:"educator_id" bson:"educator_id"`
	Name       string    `json:"name" bson:"name"`
	Active     bool      `json:"active" bson:"active"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// Provider loads tenant information from a data source.
type Provider interface {
	// GetBySlug retrieves a tenant by its subdomain slug.
	// Returns ErrTenantNotFound if no tenant matches.
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
}
