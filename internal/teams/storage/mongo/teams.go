package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/squadhq/squadron/internal/teams/domain/team"
	"github.com/squadhq/squadron/internal/teams/storage"
)

// teamDocument mirrors the teams collection layout.
type teamDocument struct {
	ID                string    `bson:"id"`
	Name              string    `bson:"name"`
	Game              string    `bson:"game"`
	Description       string    `bson:"description"`
	OwnerID           string    `bson:"ownerId"`
	Status            string    `bson:"status"`
	ProfilePictureURL string    `bson:"teamProfilePicture,omitempty"`
	BannerPictureURL  string    `bson:"teamBannerPicture,omitempty"`
	Members           []string  `bson:"members,omitempty"`
	CreatedAt         time.Time `bson:"createdAt"`
	UpdatedAt         time.Time `bson:"updatedAt"`
}

func toTeamDocument(t storage.TeamRecord) teamDocument {
	return teamDocument{
		ID:                t.ID,
		Name:              t.Name,
		Game:              t.Game,
		Description:       t.Description,
		OwnerID:           t.OwnerID,
		Status:            team.StatusLabel(t.Status),
		ProfilePictureURL: t.ProfilePictureURL,
		BannerPictureURL:  t.BannerPictureURL,
		Members:           t.Members,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func (d teamDocument) toRecord() storage.TeamRecord {
	return storage.TeamRecord{
		ID:                d.ID,
		Name:              d.Name,
		Game:              d.Game,
		Description:       d.Description,
		OwnerID:           d.OwnerID,
		Status:            team.StatusFromLabel(d.Status),
		ProfilePictureURL: d.ProfilePictureURL,
		BannerPictureURL:  d.BannerPictureURL,
		Members:           d.Members,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func (s *Store) PutTeam(ctx context.Context, t storage.TeamRecord) error {
	if _, err := s.db.Collection(collectionTeams).InsertOne(ctx, toTeamDocument(t)); err != nil {
		return fmt.Errorf("insert team: %w", err)
	}
	return nil
}

func (s *Store) GetTeam(ctx context.Context, id string) (storage.TeamRecord, error) {
	return s.findTeam(ctx, bson.M{"id": id})
}

func (s *Store) GetTeamByName(ctx context.Context, name string) (storage.TeamRecord, error) {
	return s.findTeam(ctx, bson.M{"name": name})
}

func (s *Store) findTeam(ctx context.Context, filter bson.M) (storage.TeamRecord, error) {
	var doc teamDocument
	err := s.db.Collection(collectionTeams).FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.TeamRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.TeamRecord{}, fmt.Errorf("find team: %w", err)
	}
	return doc.toRecord(), nil
}

func (s *Store) UpdateTeam(ctx context.Context, id string, update storage.TeamUpdate, updatedAt time.Time) error {
	fields := bson.M{"updatedAt": updatedAt}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Game != nil {
		fields["game"] = *update.Game
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.OwnerID != nil {
		fields["ownerId"] = *update.OwnerID
	}
	if update.ProfilePictureURL != nil {
		fields["teamProfilePicture"] = *update.ProfilePictureURL
	}
	if update.BannerPictureURL != nil {
		fields["teamBannerPicture"] = *update.BannerPictureURL
	}
	if update.Status != nil {
		fields["status"] = team.StatusLabel(*update.Status)
	}

	res, err := s.db.Collection(collectionTeams).UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) AddTeamMember(ctx context.Context, teamID, memberID string, updatedAt time.Time) error {
	res, err := s.db.Collection(collectionTeams).UpdateOne(ctx,
		bson.M{"id": teamID},
		bson.M{
			"$addToSet": bson.M{"members": memberID},
			"$set":      bson.M{"updatedAt": updatedAt},
		},
	)
	if err != nil {
		return fmt.Errorf("add team member: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) RemoveTeamMember(ctx context.Context, teamID, memberID string, updatedAt time.Time) error {
	res, err := s.db.Collection(collectionTeams).UpdateOne(ctx,
		bson.M{"id": teamID},
		bson.M{
			"$pull": bson.M{"members": memberID},
			"$set":  bson.M{"updatedAt": updatedAt},
		},
	)
	if err != nil {
		return fmt.Errorf("remove team member: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTeam(ctx context.Context, id string) error {
	res, err := s.db.Collection(collectionTeams).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}
