package billing

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	subscriptionsCollection = "billing_subscriptions"
	ownersCollection        = "subscription_owners"
)

// MongoStore implements Store on top of two MongoDB collections: one
// keyed by educator id and a reverse-lookup collection keyed by the
// provider subscription id.
type MongoStore struct {
	subs   *mongo.Collection
	owners *mongo.Collection
}

// NewMongoStore creates a store bound to the given database.
// Panics if db is nil.
func NewMongoStore(db *mongo.Database) *MongoStore {
	if db == nil {
		panic("billing: mongo database must not be nil")
	}
	return &MongoStore{
		subs:   db.Collection(subscriptionsCollection),
		owners: db.Collection(ownersCollection),
	}
}

func (s *MongoStore) Get(ctx context.Context, educatorID string) (*Subscription, error) {
	if educatorID == "" {
		return nil, ErrInvalidEducatorID
	}

	var sub Subscription
	err := s.subs.FindOne(ctx, bson.M{"_id": educatorID}).Decode(&sub)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, errors.Join(ErrFailedToSaveSubscription, err)
	}
	return &sub, nil
}

func (s *MongoStore) Save(ctx context.Context, sub *Subscription) error {
	if sub == nil || sub.EducatorID == "" {
		return ErrInvalidEducatorID
	}

	sub.UpdatedAt = time.Now().UTC()
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = sub.UpdatedAt
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.subs.ReplaceOne(ctx, bson.M{"_id": sub.EducatorID}, sub, opts); err != nil {
		return errors.Join(ErrFailedToSaveSubscription, err)
	}
	return nil
}

func (s *MongoStore) SetCustomerIDIfAbsent(ctx context.Context, educatorID, customerID string) (string, error) {
	if educatorID == "" {
		return "", ErrInvalidEducatorID
	}

	now := time.Now().UTC()
	filter := bson.M{
		"_id":         educatorID,
		"customer_id": bson.M{"$in": bson.A{"", nil}},
	}
	update := bson.M{
		"$set":         bson.M{"customer_id": customerID, "updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}

	opts := options.UpdateOne().SetUpsert(true)
	_, err := s.subs.UpdateOne(ctx, filter, update, opts)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return "", errors.Join(ErrFailedToSaveSubscription, err)
	}

	// A duplicate key means another writer already set a customer id.
	// Either way the stored value is authoritative.
	var doc struct {
		CustomerID string `bson:"customer_id"`
	}
	if err := s.subs.FindOne(ctx, bson.M{"_id": educatorID}).Decode(&doc); err != nil {
		return "", errors.Join(ErrFailedToSaveSubscription, err)
	}
	return doc.CustomerID, nil
}

func (s *MongoStore) SaveOwner(ctx context.Context, owner Owner) error {
	if owner.SubscriptionID == "" {
		return ErrOwnerNotFound
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := s.owners.ReplaceOne(ctx, bson.M{"_id": owner.SubscriptionID}, owner, opts); err != nil {
		return errors.Join(ErrFailedToSaveSubscription, err)
	}
	return nil
}

func (s *MongoStore) GetOwner(ctx context.Context, subscriptionID string) (*Owner, error) {
	var owner Owner
	err := s.owners.FindOne(ctx, bson.M{"_id": subscriptionID}).Decode(&owner)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOwnerNotFound
		}
		return nil, errors.Join(ErrFailedToSaveSubscription, err)
	}
	return &owner, nil
}

func (s *MongoStore) UpdateStatus(ctx context.Context, educatorID string, status Status) error {
	if educatorID == "" {
		return ErrInvalidEducatorID
	}

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}
	res, err := s.subs.UpdateOne(ctx, bson.M{"_id": educatorID}, update)
	if err != nil {
		return errors.Join(ErrFailedToSaveSubscription, err)
	}
	if res.MatchedCount == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}
