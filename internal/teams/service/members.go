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
	"github.com/squadhq/squadron/internal/teams/storage"
)

// RemoveUser removes a member from a team. The remover must hold the owner
// or manager role, and the team's owner can never be removed.
func (s *Service) RemoveUser(ctx context.Context, teamID, removerID, userToRemoveID string) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "teams.RemoveUser")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	removerID = strings.TrimSpace(removerID)
	userToRemoveID = strings.TrimSpace(userToRemoveID)
	if teamID == "" {
		return fail(apperrors.CodeTeamIDMissing), nil
	}
	if removerID == "" {
		return fail(apperrors.CodeRemoverIDMissing), nil
	}
	if userToRemoveID == "" {
		return fail(apperrors.CodeRemoveTargetIDMissing), nil
	}
	span.SetAttributes(attribute.String("team.id", teamID))

	release := s.locks.acquire(teamKey(teamID))
	defer release()

	if _, err := s.store.GetTeam(ctx, teamID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fail(apperrors.CodeTeamIDInvalid), nil
		}
		recordError(span, err)
		return fail(apperrors.CodeUserRemovedFailed), fmt.Errorf("fetch team: %w", err)
	}

	remover, err := s.store.GetMemberByTeamUser(ctx, teamID, removerID)
	if errors.Is(err, storage.ErrNotFound) {
		return fail(apperrors.CodeRemoveUserAccessDenied), nil
	}
	if err != nil {
		recordError(span, err)
		return fail(apperrors.CodeUserRemovedFailed), fmt.Errorf("fetch remover: %w", err)
	}
	if !member.CanManage(remover.Roles) {
		return fail(apperrors.CodeRemoveUserAccessDenied), nil
	}

	target, err := s.store.GetMemberByTeamUser(ctx, teamID, userToRemoveID)
	if errors.Is(err, storage.ErrNotFound) {
		return fail(apperrors.CodeRemoveTargetNotInTeam), nil
	}
	if err != nil {
		recordError(span, err)
		return fail(apperrors.CodeUserRemovedFailed), fmt.Errorf("fetch target: %w", err)
	}
	if member.HasRole(target.Roles, member.RoleOwner) {
		return fail(apperrors.CodeCannotRemoveTeamOwner), nil
	}

	now := s.now().UTC()
	if err := s.store.RemoveTeamMember(ctx, teamID, target.ID, now); err != nil {
		recordError(span, err)
		return fail(apperrors.CodeUserRemovedFailed), fmt.Errorf("unlink member: %w", err)
	}
	if err := s.store.DeleteMember(ctx, target.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		if addErr := s.store.AddTeamMember(ctx, teamID, target.ID, now); addErr != nil {
			log.Printf("compensate remove user %s: relink member %s: %v", userToRemoveID, target.ID, addErr)
		}
		recordError(span, err)
		return fail(apperrors.CodeUserRemovedFailed), fmt.Errorf("delete member: %w", err)
	}
	return ok(apperrors.CodeUserRemovedSuccess), nil
}

// TransferOwnership moves the owner role from the current owner to another
// member of the team. The new owner is promoted before the old one is
// demoted, so the team transiently holds two owners inside the critical
// section but never zero.
func (s *Service) TransferOwnership(ctx context.Context, teamID, currentOwnerID, newOwnerID string) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "teams.TransferOwnership")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	currentOwnerID = strings.TrimSpace(currentOwnerID)
	newOwnerID = strings.TrimSpace(newOwnerID)
	if teamID == "" {
		return fail(apperrors.CodeTeamIDMissing), nil
	}
	if currentOwnerID == "" {
		return fail(apperrors.CodeCurrentOwnerIDMissing), nil
	}
	if newOwnerID == "" {
		return fail(apperrors.CodeNewOwnerIDMissing), nil
	}
	span.SetAttributes(attribute.String("team.id", teamID))

	release := s.locks.acquire(teamKey(teamID))
	defer release()

	rec, err := s.store.GetTeam(ctx, teamID)
	if errors.Is(err, storage.ErrNotFound) {
		return fail(apperrors.CodeTeamIDInvalid), nil
	}
	if err != nil {
		recordError(span, err)
		return fail(apperrors.CodeOwnershipTransferFailed), fmt.Errorf("fetch team: %w", err)
	}

	current, err := s.store.GetMemberByTeamUser(ctx, teamID, currentOwnerID)
	if errors.Is(err, storage.ErrNotFound) {
		return fail(apperrors.CodeCurrentOwnerIDInvalid), nil
	}
	if err != nil {
		recordError(span, err)
		return fail(apperrors.CodeOwnershipTransferFailed), fmt.Errorf("fetch current owner: %w", err)
	}
	if !member.HasRole(current.Roles, member.RoleOwner) || rec.OwnerID != currentOwnerID {
		return fail(apperrors.CodeTransferRequiresOwner), nil
	}

	next, err := s.store.GetMemberByTeamUser(ctx, teamID, newOwnerID)
	if errors.Is(err, storage.ErrNotFound) {
		return fail(apperrors.CodeNewOwnerNotInTeam), nil
	}
	if err != nil {
		recordError(span, err)
		return fail(apperrors.CodeOwnershipTransferFailed), fmt.Errorf("fetch new owner: %w", err)
	}
	if currentOwnerID == newOwnerID {
		return fail(apperrors.CodeNewOwnerIDInvalid), nil
	}

	now := s.now().UTC()

	// Promote first: merge the owner role into the new owner's record.
	promoted, err := member.CreateMember(member.CreateMemberInput{
		TeamID: teamID,
		UserID: newOwnerID,
		Roles:  []member.Role{member.RoleOwner},
	}, s.now, s.idGen)
	if err != nil {
		recordError(span, err)
		return fail(apperrors.CodeOwnershipTransferFailed), err
	}
	if _, err := s.store.UpsertMember(ctx, memberToRecord(promoted)); err != nil {
		recordError(span, err)
		return fail(apperrors.CodeOwnershipTransferFailed), fmt.Errorf("promote new owner: %w", err)
	}

	if err := s.store.RemoveOwnerRole(ctx, current.ID, now); err != nil {
		if compErr := s.store.RemoveOwnerRole(ctx, next.ID, now); compErr != nil {
			log.Printf("compensate transfer %s: demote new owner %s: %v", teamID, next.ID, compErr)
		}
		recordError(span, err)
		return fail(apperrors.CodeOwnershipTransferFailed), fmt.Errorf("demote current owner: %w", err)
	}

	if err := s.store.UpdateTeam(ctx, teamID, storage.TeamUpdate{OwnerID: &newOwnerID}, now); err != nil {
		repromoted := memberToRecord(promoted)
		repromoted.UserID = currentOwnerID
		if _, compErr := s.store.UpsertMember(ctx, repromoted); compErr != nil {
			log.Printf("compensate transfer %s: repromote owner %s: %v", teamID, currentOwnerID, compErr)
		}
		if compErr := s.store.RemoveOwnerRole(ctx, next.ID, now); compErr != nil {
			log.Printf("compensate transfer %s: demote new owner %s: %v", teamID, next.ID, compErr)
		}
		recordError(span, err)
		return fail(apperrors.CodeOwnershipTransferFailed), fmt.Errorf("update team owner: %w", err)
	}

	return ok(apperrors.CodeOwnershipTransferSuccess), nil
}
