// Package service implements the team membership and invitation engine.
//
// Operations return typed results carrying a success flag and the list of
// response codes describing the outcome. Go errors surface only for
// infrastructure failures; business outcomes (validation, authorization,
// lifecycle state) are reported through codes.
package service

import (
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/squadhq/squadron/internal/platform/errors"
	"github.com/squadhq/squadron/internal/platform/id"
	"github.com/squadhq/squadron/internal/teams/domain/invite"
	"github.com/squadhq/squadron/internal/teams/domain/member"
	"github.com/squadhq/squadron/internal/teams/domain/team"
	"github.com/squadhq/squadron/internal/teams/storage"
)

// tracerName is the instrumentation scope for service spans.
const tracerName = "github.com/squadhq/squadron/internal/teams/service"

// Service coordinates teams, members, and invitations over a storage backend.
// Mutating operations for a given team are serialized through a keyed lock so
// multi-step writes never interleave.
type Service struct {
	store  storage.Store
	grant  invite.GrantConfig
	now    func() time.Time
	idGen  func() (string, error)
	tracer trace.Tracer
	locks  *keyedLocks
}

// Config carries the dependencies of a Service.
type Config struct {
	Store       storage.Store
	Grant       invite.GrantConfig
	Now         func() time.Time
	IDGenerator func() (string, error)
}

// New constructs a Service from its configuration.
func New(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("service store is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = id.NewID
	}
	if cfg.Grant.Now == nil {
		cfg.Grant.Now = cfg.Now
	}
	return &Service{
		store:  cfg.Store,
		grant:  cfg.Grant,
		now:    cfg.Now,
		idGen:  cfg.IDGenerator,
		tracer: otel.Tracer(tracerName),
		locks:  newKeyedLocks(),
	}, nil
}

// Result is the common outcome shape of every service operation.
type Result struct {
	Success bool
	Codes   []apperrors.Code
}

func fail(codes ...apperrors.Code) Result {
	return Result{Codes: codes}
}

func ok(codes ...apperrors.Code) Result {
	return Result{Success: true, Codes: codes}
}

// recordError marks the span failed with the infrastructure error.
func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
}

// teamKey scopes the keyed lock to one team's mutations.
func teamKey(teamID string) string {
	return "team:" + teamID
}

// teamNameKey serializes creation attempts for one team name.
func teamNameKey(name string) string {
	return "team-name:" + name
}

func teamFromRecord(rec storage.TeamRecord) team.Team {
	return team.Team{
		ID:                rec.ID,
		Name:              rec.Name,
		Game:              rec.Game,
		Description:       rec.Description,
		OwnerID:           rec.OwnerID,
		Status:            rec.Status,
		ProfilePictureURL: rec.ProfilePictureURL,
		BannerPictureURL:  rec.BannerPictureURL,
		Members:           rec.Members,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
}

func teamToRecord(t team.Team) storage.TeamRecord {
	return storage.TeamRecord{
		ID:                t.ID,
		Name:              t.Name,
		Game:              t.Game,
		Description:       t.Description,
		OwnerID:           t.OwnerID,
		Status:            t.Status,
		ProfilePictureURL: t.ProfilePictureURL,
		BannerPictureURL:  t.BannerPictureURL,
		Members:           t.Members,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func memberFromRecord(rec storage.MemberRecord) member.Member {
	return member.Member{
		ID:        rec.ID,
		TeamID:    rec.TeamID,
		UserID:    rec.UserID,
		Roles:     rec.Roles,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func memberToRecord(m member.Member) storage.MemberRecord {
	return storage.MemberRecord{
		ID:        m.ID,
		TeamID:    m.TeamID,
		UserID:    m.UserID,
		Roles:     m.Roles,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func invitationFromRecord(rec storage.InvitationRecord) invite.Invitation {
	return invite.Invitation{
		ID:        rec.ID,
		TeamID:    rec.TeamID,
		SendBy:    rec.SendBy,
		SendTo:    rec.SendTo,
		Roles:     rec.Roles,
		Status:    rec.Status,
		Grant:     rec.Grant,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func invitationToRecord(inv invite.Invitation) storage.InvitationRecord {
	return storage.InvitationRecord{
		ID:        inv.ID,
		TeamID:    inv.TeamID,
		SendBy:    inv.SendBy,
		SendTo:    inv.SendTo,
		Roles:     inv.Roles,
		Status:    inv.Status,
		Grant:     inv.Grant,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}
