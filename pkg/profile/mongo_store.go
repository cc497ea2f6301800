package profile

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// MongoStore reads profile documents from the users collection.
// Documents are decoded into a raw map first so role and enrollment
// normalization applies no matter what shape the registration flow
// wrote.
type MongoStore struct {
	users *mongo.Collection
}

// NewMongoStore creates a profile store over the given database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{users: db.Collection("users")}
}

// Get fetches the profile for a subject. A missing document is not an
// error; the caller treats a nil profile as an unenrolled student.
func (s *MongoStore) Get(ctx context.Context, subject string) (*Profile, error) {
	if subject == "" {
		return nil, nil
	}

	var doc bson.M
	err := s.users.FindOne(ctx, bson.M{"_id": subject}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	return Normalize(subject, normalizeBSON(doc)), nil
}

// normalizeBSON converts bson container types into plain Go values so
// Normalize sees the same shapes regardless of the driver.
func normalizeBSON(doc bson.M) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = normalizeBSONValue(v)
	}
	return out
}

func normalizeBSONValue(v any) any {
	switch t := v.(type) {
	case bson.A:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalizeBSONValue(item)
		}
		return out
	case bson.M:
		return normalizeBSON(t)
	default:
		return v
	}
}
