// Package storage defines the persistence boundary for teams, members,
// invitations, and users.
package storage

import (
	"context"
	"time"

	apperrors "github.com/squadhq/squadron/internal/platform/errors"
	"github.com/squadhq/squadron/internal/teams/domain/invite"
	"github.com/squadhq/squadron/internal/teams/domain/member"
	"github.com/squadhq/squadron/internal/teams/domain/team"
)

// ErrNotFound indicates a requested persistence record is missing.
// Callers use this to differentiate between legitimate "no such entity" states
// and transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// TeamRecord captures team metadata plus the denormalized member id list
// kept on the team document.
type TeamRecord struct {
	ID                string
	Name              string
	Game              string
	Description       string
	OwnerID           string
	Status            team.Status
	ProfilePictureURL string
	BannerPictureURL  string
	Members           []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// MemberRecord captures one user's membership in one team.
type MemberRecord struct {
	ID        string
	TeamID    string
	UserID    string
	Roles     []member.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InvitationRecord captures invitation lifecycle state. The grant is the
// signed token whose validity bounds how long the invitation stays live.
type InvitationRecord struct {
	ID        string
	TeamID    string
	SendBy    string
	SendTo    string
	Roles     []member.Role
	Status    invite.Status
	Grant     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserRecord captures the minimal user identity needed for reference checks.
type UserRecord struct {
	ID          string
	DisplayName string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TeamUpdate describes a partial team update. Nil fields are left unchanged.
type TeamUpdate struct {
	Name              *string
	Game              *string
	Description       *string
	OwnerID           *string
	ProfilePictureURL *string
	BannerPictureURL  *string
	Status            *team.Status
}

// Empty reports whether the update would change no fields.
func (u TeamUpdate) Empty() bool {
	return u.Name == nil && u.Game == nil && u.Description == nil &&
		u.OwnerID == nil && u.ProfilePictureURL == nil &&
		u.BannerPictureURL == nil && u.Status == nil
}

// TeamStore owns team documents, including the denormalized members list.
type TeamStore interface {
	PutTeam(ctx context.Context, t TeamRecord) error
	GetTeam(ctx context.Context, id string) (TeamRecord, error)
	// GetTeamByName returns the team with the exact name, for uniqueness checks.
	GetTeamByName(ctx context.Context, name string) (TeamRecord, error)
	// UpdateTeam applies the non-nil fields of the update and bumps UpdatedAt.
	UpdateTeam(ctx context.Context, id string, update TeamUpdate, updatedAt time.Time) error
	// AddTeamMember adds a member id to the team's members list. Adding an id
	// that is already present is a no-op success.
	AddTeamMember(ctx context.Context, teamID, memberID string, updatedAt time.Time) error
	// RemoveTeamMember removes a member id from the team's members list.
	// Removing an absent id is a no-op success.
	RemoveTeamMember(ctx context.Context, teamID, memberID string, updatedAt time.Time) error
	DeleteTeam(ctx context.Context, id string) error
}

// MemberStore owns membership records keyed by member id with a secondary
// team+user lookup.
type MemberStore interface {
	// UpsertMember inserts the record, or merges its roles into the existing
	// record for the same team and user. It returns the stored member id.
	UpsertMember(ctx context.Context, m MemberRecord) (string, error)
	GetMember(ctx context.Context, memberID string) (MemberRecord, error)
	GetMemberByTeamUser(ctx context.Context, teamID, userID string) (MemberRecord, error)
	// SetMemberRoles replaces the member's role list wholesale, used to
	// restore a known-good role set after a partial write.
	SetMemberRoles(ctx context.Context, memberID string, roles []member.Role, updatedAt time.Time) error
	// RemoveOwnerRole strips the owner role from the member. A member left
	// with no roles keeps a NOT_MENTIONED marker instead of an empty list.
	RemoveOwnerRole(ctx context.Context, memberID string, updatedAt time.Time) error
	DeleteMember(ctx context.Context, memberID string) error
	ListMembersByTeam(ctx context.Context, teamID string) ([]MemberRecord, error)
}

// InvitationStore owns invitation lifecycle records.
type InvitationStore interface {
	PutInvitation(ctx context.Context, inv InvitationRecord) error
	GetInvitation(ctx context.Context, id string) (InvitationRecord, error)
	// GetLatestSentInvitation returns the newest SENT invitation for the team
	// and recipient that covers every requested role.
	GetLatestSentInvitation(ctx context.Context, teamID, sendTo string, roles []member.Role) (InvitationRecord, error)
	UpdateInvitationStatus(ctx context.Context, id string, status invite.Status, updatedAt time.Time) error
	ListInvitationsForUser(ctx context.Context, sendTo string) ([]InvitationRecord, error)
	DeleteInvitationsByTeam(ctx context.Context, teamID string) error
}

// UserStore owns user identity records referenced by teams and invitations.
type UserStore interface {
	PutUser(ctx context.Context, u UserRecord) error
	GetUser(ctx context.Context, id string) (UserRecord, error)
}

// Store is a composite interface for all persistence concerns of the teams
// service.
type Store interface {
	TeamStore
	MemberStore
	InvitationStore
	UserStore
	Close() error
}
