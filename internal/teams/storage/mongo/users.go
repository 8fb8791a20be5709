package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/squadhq/squadron/internal/teams/storage"
)

// userDocument mirrors the users collection layout.
type userDocument struct {
	ID          string    `bson:"id"`
	DisplayName string    `bson:"displayName,omitempty"`
	Email       string    `bson:"email,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func (s *Store) PutUser(ctx context.Context, u storage.UserRecord) error {
	doc := userDocument{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.db.Collection(collectionUsers).ReplaceOne(ctx, bson.M{"id": u.ID}, doc, opts); err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (storage.UserRecord, error) {
	var doc userDocument
	err := s.db.Collection(collectionUsers).FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.UserRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.UserRecord{}, fmt.Errorf("find user: %w", err)
	}
	return storage.UserRecord{
		ID:          doc.ID,
		DisplayName: doc.DisplayName,
		Email:       doc.Email,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}
