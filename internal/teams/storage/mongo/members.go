package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/squadhq/squadron/internal/teams/domain/member"
	"github.com/squadhq/squadron/internal/teams/storage"
)

// memberDocument mirrors the team_members collection layout. Roles are
// stored as an array of labels under the historical "role" field name.
type memberDocument struct {
	ID        string    `bson:"id"`
	TeamID    string    `bson:"teamId"`
	UserID    string    `bson:"userId"`
	Roles     []string  `bson:"role"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d memberDocument) toRecord() storage.MemberRecord {
	return storage.MemberRecord{
		ID:        d.ID,
		TeamID:    d.TeamID,
		UserID:    d.UserID,
		Roles:     member.RolesFromLabels(d.Roles),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (s *Store) UpsertMember(ctx context.Context, m storage.MemberRecord) (string, error) {
	filter := bson.M{"teamId": m.TeamID, "userId": m.UserID}
	update := bson.M{
		"$addToSet": bson.M{"role": bson.M{"$each": member.RoleLabels(m.Roles)}},
		"$set":      bson.M{"updatedAt": m.UpdatedAt},
		"$setOnInsert": bson.M{
			"id":        m.ID,
			"createdAt": m.CreatedAt,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc memberDocument
	err := s.db.Collection(collectionMembers).FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		return "", fmt.Errorf("upsert member: %w", err)
	}

	// $addToSet cannot drop the NOT_MENTIONED placeholder when a real role
	// joins it, so pull it here to match member.MergeRoles.
	roles := member.RolesFromLabels(doc.Roles)
	if len(roles) > 1 && member.HasRole(roles, member.RoleNotMentioned) {
		_, err := s.db.Collection(collectionMembers).UpdateOne(ctx,
			bson.M{"id": doc.ID},
			bson.M{"$pull": bson.M{"role": member.RoleLabel(member.RoleNotMentioned)}},
		)
		if err != nil {
			return "", fmt.Errorf("upsert member: drop placeholder role: %w", err)
		}
	}
	return doc.ID, nil
}

func (s *Store) GetMember(ctx context.Context, memberID string) (storage.MemberRecord, error) {
	return s.findMember(ctx, bson.M{"id": memberID})
}

func (s *Store) GetMemberByTeamUser(ctx context.Context, teamID, userID string) (storage.MemberRecord, error) {
	return s.findMember(ctx, bson.M{"teamId": teamID, "userId": userID})
}

func (s *Store) findMember(ctx context.Context, filter bson.M) (storage.MemberRecord, error) {
	var doc memberDocument
	err := s.db.Collection(collectionMembers).FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.MemberRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.MemberRecord{}, fmt.Errorf("find member: %w", err)
	}
	return doc.toRecord(), nil
}

func (s *Store) SetMemberRoles(ctx context.Context, memberID string, roles []member.Role, updatedAt time.Time) error {
	res, err := s.db.Collection(collectionMembers).UpdateOne(ctx,
		bson.M{"id": memberID},
		bson.M{"$set": bson.M{"role": member.RoleLabels(roles), "updatedAt": updatedAt}},
	)
	if err != nil {
		return fmt.Errorf("set member roles: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) RemoveOwnerRole(ctx context.Context, memberID string, updatedAt time.Time) error {
	current, err := s.GetMember(ctx, memberID)
	if err != nil {
		return err
	}

	remaining := member.RoleLabels(member.StripOwner(current.Roles))
	res, err := s.db.Collection(collectionMembers).UpdateOne(ctx,
		bson.M{"id": memberID},
		bson.M{"$set": bson.M{"role": remaining, "updatedAt": updatedAt}},
	)
	if err != nil {
		return fmt.Errorf("remove owner role: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteMember(ctx context.Context, memberID string) error {
	res, err := s.db.Collection(collectionMembers).DeleteOne(ctx, bson.M{"id": memberID})
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListMembersByTeam(ctx context.Context, teamID string) ([]storage.MemberRecord, error) {
	cursor, err := s.db.Collection(collectionMembers).Find(ctx, bson.M{"teamId": teamID})
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer cursor.Close(ctx)

	var out []storage.MemberRecord
	for cursor.Next(ctx) {
		var doc memberDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode member: %w", err)
		}
		out = append(out, doc.toRecord())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return out, nil
}
