package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/squadhq/squadron/internal/platform/errors"
	"github.com/squadhq/squadron/internal/teams/domain/member"
	"github.com/squadhq/squadron/internal/teams/domain/team"
	"github.com/squadhq/squadron/internal/teams/storage"
)

// CreateTeamInput carries the metadata for a new team.
type CreateTeamInput struct {
	Name              string
	Game              string
	Description       string
	OwnerID           string
	ProfilePictureURL string
	BannerPictureURL  string
}

// TeamResult is the outcome of a team operation.
type TeamResult struct {
	Result
	Team team.Team
}

// UpdateTeamInput describes a partial team update. Nil fields are ignored.
type UpdateTeamInput struct {
	Name              *string
	Game              *string
	Description       *string
	ProfilePictureURL *string
	BannerPictureURL  *string
	Status            *team.Status
}

// MembersResult is the outcome of a member listing.
type MembersResult struct {
	Result
	Members []member.Member
}

// CreateTeam validates the input, creates the owner membership, and inserts
// the team already linked to it. Validation failures are accumulated so the
// caller sees every problem at once. The team document is never observable
// without its owner membership: the member is written first and deleted
// again if the team insert fails.
func (s *Service) CreateTeam(ctx context.Context, input CreateTeamInput) (TeamResult, error) {
	ctx, span := s.tracer.Start(ctx, "teams.CreateTeam")
	defer span.End()

	name := strings.TrimSpace(input.Name)

	release := s.locks.acquire(teamNameKey(name))
	defer release()

	var codes []apperrors.Code
	if err := team.ValidateName(name); err != nil {
		codes = append(codes, apperrors.GetCode(err))
	} else {
		_, err := s.store.GetTeamByName(ctx, name)
		switch {
		case err == nil:
			codes = append(codes, apperrors.CodeTeamNameDuplicate)
		case !errors.Is(err, storage.ErrNotFound):
			recordError(span, err)
			return TeamResult{Result: fail(apperrors.CodeTeamCreationFailed)}, fmt.Errorf("check team name: %w", err)
		}
	}
	if err := team.ValidateGame(input.Game); err != nil {
		codes = append(codes, apperrors.GetCode(err))
	}
	if err := team.ValidateDescription(input.Description); err != nil {
		codes = append(codes, apperrors.GetCode(err))
	}
	ownerID := strings.TrimSpace(input.OwnerID)
	if ownerID == "" {
		codes = append(codes, apperrors.CodeOwnerIDInvalid)
	} else if _, err := s.store.GetUser(ctx, ownerID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			codes = append(codes, apperrors.CodeOwnerIDInvalid)
		} else {
			recordError(span, err)
			return TeamResult{Result: fail(apperrors.CodeTeamCreationFailed)}, fmt.Errorf("check owner: %w", err)
		}
	}
	if len(codes) > 0 {
		return TeamResult{Result: fail(codes...)}, nil
	}

	t, err := team.CreateTeam(team.CreateTeamInput{
		Name:              name,
		Game:              input.Game,
		Description:       input.Description,
		OwnerID:           ownerID,
		ProfilePictureURL: input.ProfilePictureURL,
		BannerPictureURL:  input.BannerPictureURL,
	}, s.now, s.idGen)
	if err != nil {
		recordError(span, err)
		return TeamResult{Result: fail(apperrors.CodeTeamCreationFailed)}, err
	}

	owner, err := member.CreateMember(member.CreateMemberInput{
		TeamID: t.ID,
		UserID: ownerID,
		Roles:  []member.Role{member.RoleOwner},
	}, s.now, s.idGen)
	if err != nil {
		recordError(span, err)
		return TeamResult{Result: fail(apperrors.CodeTeamCreationFailed)}, err
	}

	memberID, err := s.store.UpsertMember(ctx, memberToRecord(owner))
	if err != nil {
		recordError(span, err)
		return TeamResult{Result: fail(apperrors.CodeTeamCreationFailed)}, fmt.Errorf("store owner member: %w", err)
	}

	t.Members = []string{memberID}
	if err := s.store.PutTeam(ctx, teamToRecord(t)); err != nil {
		if delErr := s.store.DeleteMember(ctx, memberID); delErr != nil {
			log.Printf("compensate create team %s: delete member %s: %v", t.ID, memberID, delErr)
		}
		recordError(span, err)
		return TeamResult{Result: fail(apperrors.CodeTeamCreationFailed)}, fmt.Errorf("store team: %w", err)
	}

	span.SetAttributes(attribute.String("team.id", t.ID))
	return TeamResult{Result: ok(apperrors.CodeTeamCreationSuccess), Team: t}, nil
}

// UpdateTeam applies the fields of the update that differ from the stored
// team. An update that changes nothing reports NO_FIELDS_TO_UPDATE.
func (s *Service) UpdateTeam(ctx context.Context, teamID string, input UpdateTeamInput) (TeamResult, error) {
	ctx, span := s.tracer.Start(ctx, "teams.UpdateTeam")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return TeamResult{Result: fail(apperrors.CodeTeamIDMissing)}, nil
	}
	span.SetAttributes(attribute.String("team.id", teamID))

	release := s.locks.acquire(teamKey(teamID))
	defer release()

	rec, err := s.store.GetTeam(ctx, teamID)
	if errors.Is(err, storage.ErrNotFound) {
		return TeamResult{Result: fail(apperrors.CodeTeamIDInvalid)}, nil
	}
	if err != nil {
		recordError(span, err)
		return TeamResult{Result: fail(apperrors.CodeTeamUpdateFailed)}, fmt.Errorf("fetch team: %w", err)
	}

	var update storage.TeamUpdate
	if v := changedString(input.Name, rec.Name); v != nil {
		update.Name = v
	}
	if v := changedString(input.Game, rec.Game); v != nil {
		update.Game = v
	}
	if v := changedString(input.Description, rec.Description); v != nil {
		update.Description = v
	}
	if v := changedString(input.ProfilePictureURL, rec.ProfilePictureURL); v != nil {
		update.ProfilePictureURL = v
	}
	if v := changedString(input.BannerPictureURL, rec.BannerPictureURL); v != nil {
		update.BannerPictureURL = v
	}
	if input.Status != nil && *input.Status != team.StatusUnspecified && *input.Status != rec.Status {
		update.Status = input.Status
	}
	if update.Empty() {
		return TeamResult{Result: fail(apperrors.CodeNoFieldsToUpdate)}, nil
	}

	updatedAt := s.now().UTC()
	if err := s.store.UpdateTeam(ctx, teamID, update, updatedAt); err != nil {
		recordError(span, err)
		return TeamResult{Result: fail(apperrors.CodeTeamUpdateFailed)}, fmt.Errorf("update team: %w", err)
	}

	updated, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		recordError(span, err)
		return TeamResult{Result: fail(apperrors.CodeTeamUpdateFailed)}, fmt.Errorf("fetch updated team: %w", err)
	}
	return TeamResult{Result: ok(apperrors.CodeTeamUpdateSuccess), Team: teamFromRecord(updated)}, nil
}

// DeleteTeam removes a team with its memberships and invitations. Only the
// team's owner may delete it, and a reason must be stated.
func (s *Service) DeleteTeam(ctx context.Context, teamID, deleterID, reason string) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "teams.DeleteTeam")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	deleterID = strings.TrimSpace(deleterID)
	reason = strings.TrimSpace(reason)

	var codes []apperrors.Code
	if teamID == "" {
		codes = append(codes, apperrors.CodeTeamIDMissing)
	}
	if deleterID == "" {
		codes = append(codes, apperrors.CodeDeleterIDMissing)
	}
	if reason == "" {
		codes = append(codes, apperrors.CodeDeletionReasonMissing)
	}
	if len(codes) > 0 {
		return fail(codes...), nil
	}
	span.SetAttributes(attribute.String("team.id", teamID))

	release := s.locks.acquire(teamKey(teamID))
	defer release()

	if _, err := s.store.GetTeam(ctx, teamID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fail(apperrors.CodeTeamIDInvalid), nil
		}
		recordError(span, err)
		return fail(apperrors.CodeTeamDeletionFailed), fmt.Errorf("fetch team: %w", err)
	}

	deleter, err := s.store.GetMemberByTeamUser(ctx, teamID, deleterID)
	if errors.Is(err, storage.ErrNotFound) {
		return fail(apperrors.CodeDeleterIDInvalid), nil
	}
	if err != nil {
		recordError(span, err)
		return fail(apperrors.CodeTeamDeletionFailed), fmt.Errorf("fetch deleter: %w", err)
	}
	if !member.HasRole(deleter.Roles, member.RoleOwner) {
		return fail(apperrors.CodeTeamDeleteAccessDenied), nil
	}

	log.Printf("deleting team %s by %s: %s", teamID, deleterID, reason)

	if err := s.store.DeleteInvitationsByTeam(ctx, teamID); err != nil {
		recordError(span, err)
		return fail(apperrors.CodeTeamDeletionFailed), fmt.Errorf("delete invitations: %w", err)
	}
	members, err := s.store.ListMembersByTeam(ctx, teamID)
	if err != nil {
		recordError(span, err)
		return fail(apperrors.CodeTeamDeletionFailed), fmt.Errorf("list members: %w", err)
	}
	for _, m := range members {
		if err := s.store.DeleteMember(ctx, m.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			recordError(span, err)
			return fail(apperrors.CodeTeamDeletionFailed), fmt.Errorf("delete member %s: %w", m.ID, err)
		}
	}
	if err := s.store.DeleteTeam(ctx, teamID); err != nil {
		recordError(span, err)
		return fail(apperrors.CodeTeamDeletionFailed), fmt.Errorf("delete team: %w", err)
	}
	return ok(apperrors.CodeTeamDeletionSuccess), nil
}

// GetTeam fetches a single team by id.
func (s *Service) GetTeam(ctx context.Context, teamID string) (TeamResult, error) {
	ctx, span := s.tracer.Start(ctx, "teams.GetTeam")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return TeamResult{Result: fail(apperrors.CodeTeamIDMissing)}, nil
	}
	rec, err := s.store.GetTeam(ctx, teamID)
	if errors.Is(err, storage.ErrNotFound) {
		return TeamResult{Result: fail(apperrors.CodeTeamIDInvalid)}, nil
	}
	if err != nil {
		recordError(span, err)
		return TeamResult{}, fmt.Errorf("fetch team: %w", err)
	}
	return TeamResult{Result: ok(), Team: teamFromRecord(rec)}, nil
}

// ListTeamMembers returns every membership of a team.
func (s *Service) ListTeamMembers(ctx context.Context, teamID string) (MembersResult, error) {
	ctx, span := s.tracer.Start(ctx, "teams.ListTeamMembers")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return MembersResult{Result: fail(apperrors.CodeTeamIDMissing)}, nil
	}
	span.SetAttributes(attribute.String("team.id", teamID))

	if _, err := s.store.GetTeam(ctx, teamID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return MembersResult{Result: fail(apperrors.CodeTeamIDInvalid)}, nil
		}
		recordError(span, err)
		return MembersResult{}, fmt.Errorf("fetch team: %w", err)
	}

	recs, err := s.store.ListMembersByTeam(ctx, teamID)
	if err != nil {
		recordError(span, err)
		return MembersResult{}, fmt.Errorf("list members: %w", err)
	}
	members := make([]member.Member, 0, len(recs))
	for _, rec := range recs {
		members = append(members, memberFromRecord(rec))
	}
	return MembersResult{Result: ok(), Members: members}, nil
}

// changedString returns the trimmed incoming value when it is present and
// differs from the current one.
func changedString(incoming *string, current string) *string {
	if incoming == nil {
		return nil
	}
	v := strings.TrimSpace(*incoming)
	if v == "" || v == current {
		return nil
	}
	return &v
}
