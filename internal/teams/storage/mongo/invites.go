package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/squadhq/squadron/internal/teams/domain/invite"
	"github.com/squadhq/squadron/internal/teams/domain/member"
	"github.com/squadhq/squadron/internal/teams/storage"
)

// invitationDocument mirrors the team_invitations collection layout. The
// signed grant lives under the historical "expiration" field name.
type invitationDocument struct {
	ID        string    `bson:"id"`
	TeamID    string    `bson:"teamId"`
	SendBy    string    `bson:"sendBy"`
	SendTo    string    `bson:"sendTo"`
	Roles     []string  `bson:"roles"`
	Status    string    `bson:"status"`
	Grant     string    `bson:"expiration"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toInvitationDocument(inv storage.InvitationRecord) invitationDocument {
	return invitationDocument{
		ID:        inv.ID,
		TeamID:    inv.TeamID,
		SendBy:    inv.SendBy,
		SendTo:    inv.SendTo,
		Roles:     member.RoleLabels(inv.Roles),
		Status:    invite.StatusLabel(inv.Status),
		Grant:     inv.Grant,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}

func (d invitationDocument) toRecord() storage.InvitationRecord {
	return storage.InvitationRecord{
		ID:        d.ID,
		TeamID:    d.TeamID,
		SendBy:    d.SendBy,
		SendTo:    d.SendTo,
		Roles:     member.RolesFromLabels(d.Roles),
		Status:    invite.StatusFromLabel(d.Status),
		Grant:     d.Grant,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (s *Store) PutInvitation(ctx context.Context, inv storage.InvitationRecord) error {
	if _, err := s.db.Collection(collectionInvitations).InsertOne(ctx, toInvitationDocument(inv)); err != nil {
		return fmt.Errorf("insert invitation: %w", err)
	}
	return nil
}

func (s *Store) GetInvitation(ctx context.Context, id string) (storage.InvitationRecord, error) {
	var doc invitationDocument
	err := s.db.Collection(collectionInvitations).FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.InvitationRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.InvitationRecord{}, fmt.Errorf("find invitation: %w", err)
	}
	return doc.toRecord(), nil
}

func (s *Store) GetLatestSentInvitation(ctx context.Context, teamID, sendTo string, roles []member.Role) (storage.InvitationRecord, error) {
	filter := bson.M{
		"teamId": teamID,
		"sendTo": sendTo,
		"status": invite.StatusLabel(invite.StatusSent),
	}
	if len(roles) > 0 {
		filter["roles"] = bson.M{"$all": member.RoleLabels(roles)}
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var doc invitationDocument
	err := s.db.Collection(collectionInvitations).FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.InvitationRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.InvitationRecord{}, fmt.Errorf("find latest invitation: %w", err)
	}
	return doc.toRecord(), nil
}

func (s *Store) UpdateInvitationStatus(ctx context.Context, id string, status invite.Status, updatedAt time.Time) error {
	res, err := s.db.Collection(collectionInvitations).UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"status": invite.StatusLabel(status), "updatedAt": updatedAt}},
	)
	if err != nil {
		return fmt.Errorf("update invitation status: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListInvitationsForUser(ctx context.Context, sendTo string) ([]storage.InvitationRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.db.Collection(collectionInvitations).Find(ctx, bson.M{"sendTo": sendTo}, opts)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer cursor.Close(ctx)

	var out []storage.InvitationRecord
	for cursor.Next(ctx) {
		var doc invitationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode invitation: %w", err)
		}
		out = append(out, doc.toRecord())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate invitations: %w", err)
	}
	return out, nil
}

func (s *Store) DeleteInvitationsByTeam(ctx context.Context, teamID string) error {
	if _, err := s.db.Collection(collectionInvitations).DeleteMany(ctx, bson.M{"teamId": teamID}); err != nil {
		return fmt.Errorf("delete invitations: %w", err)
	}
	return nil
}
