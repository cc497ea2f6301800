package tenant

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// educatorDoc is the subset of an educator record the resolver needs.
// Tenants are provisioned as educator documents carrying the subdomain
// slug they own.
type educatorDoc struct {
	ID            string        `bson:"_id"`
	TenantSlug    string        `bson:"tenant_slug"`
	InstituteName string        `bson:"institute_name"`
	Active        bool          `bson:"active"`
	CreatedAt     bson.DateTime `bson:"created_at"`
}

// MongoProvider loads tenants from the educators collection.
type MongoProvider struct {
	educators *mongo.Collection
}

// NewMongoProvider creates a tenant provider over the given database.
func NewMongoProvider(db *mongo.Database) *MongoProvider {
	return &MongoProvider{educators: db.Collection("educators")}
}

// GetBySlug retrieves the tenant bound to the given subdomain slug.
func (p *MongoProvider) GetBySlug(ctx context.Context, slug string) (*Tenant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, ErrTenantNotFound
	}

	var doc educatorDoc
	err := p.educators.FindOne(ctx, bson.M{"tenant_slug": slug}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	return &Tenant{
		Slug:       doc.TenantSlug,
		EducatorID: doc.ID,
		Name:       doc.InstituteName,
		Active:     doc.Active,
		CreatedAt:  doc.CreatedAt.Time(),
	}, nil
}
