package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/squadhq/squadron/internal/platform/errors"
	"github.com/squadhq/squadron/internal/teams/domain/invite"
	"github.com/squadhq/squadron/internal/teams/domain/member"
	"github.com/squadhq/squadron/internal/teams/storage"
)

// SendInvitationInput carries the metadata for a new invitation. TTL bounds
// how long the invitation stays live; it is encoded into the signed grant
// stored on the invitation.
type SendInvitationInput struct {
	TeamID string
	SendBy string
	SendTo string
	Roles  []member.Role
	TTL    time.Duration
}

// InvitationResult is the outcome of an invitation operation.
type InvitationResult struct {
	Result
	Invitation invite.Invitation
}

// InvitationsResult is the outcome of an invitation listing.
type InvitationsResult struct {
	Result
	Invitations []invite.Invitation
}

// SendInvitation validates the request, rejects duplicates of a still-live
// invitation for the same team, recipient, and roles, and stores a new Sent
// invitation carrying a freshly signed grant. Validation failures are
// accumulated.
func (s *Service) SendInvitation(ctx context.Context, input SendInvitationInput) (InvitationResult, error) {
	ctx, span := s.tracer.Start(ctx, "teams.SendInvitation")
	defer span.End()

	teamID := strings.TrimSpace(input.TeamID)
	sendBy := strings.TrimSpace(input.SendBy)
	sendTo := strings.TrimSpace(input.SendTo)

	var codes []apperrors.Code
	if teamID == "" {
		codes = append(codes, apperrors.CodeTeamIDInvalid)
	} else if _, err := s.store.GetTeam(ctx, teamID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			codes = append(codes, apperrors.CodeTeamIDInvalid)
		} else {
			recordError(span, err)
			return InvitationResult{Result: fail(apperrors.CodeInvitationFailed)}, fmt.Errorf("check team: %w", err)
		}
	}
	if sendBy == "" {
		codes = append(codes, apperrors.CodeSenderIDInvalid)
	} else if _, err := s.store.GetUser(ctx, sendBy); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			codes = append(codes, apperrors.CodeSenderIDInvalid)
		} else {
			recordError(span, err)
			return InvitationResult{Result: fail(apperrors.CodeInvitationFailed)}, fmt.Errorf("check sender: %w", err)
		}
	}
	if sendTo == "" {
		codes = append(codes, apperrors.CodeReceiverIDInvalid)
	} else if _, err := s.store.GetUser(ctx, sendTo); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			codes = append(codes, apperrors.CodeReceiverIDInvalid)
		} else {
			recordError(span, err)
			return InvitationResult{Result: fail(apperrors.CodeInvitationFailed)}, fmt.Errorf("check receiver: %w", err)
		}
	}
	if input.TTL <= 0 {
		codes = append(codes, apperrors.CodeExpirationInvalid)
	}
	if err := validateInvitationRoles(input.Roles); err != nil {
		codes = append(codes, apperrors.GetCode(err))
	}
	if len(codes) > 0 {
		return InvitationResult{Result: fail(codes...)}, nil
	}
	span.SetAttributes(attribute.String("team.id", teamID))

	release := s.locks.acquire(teamKey(teamID))
	defer release()

	latest, err := s.store.GetLatestSentInvitation(ctx, teamID, sendTo, input.Roles)
	switch {
	case err == nil:
		if invite.VerifyGrant(latest.Grant, s.grant) {
			return InvitationResult{Result: fail(apperrors.CodeInvitationDuplicate)}, nil
		}
		s.expireInvitation(ctx, latest.ID)
	case !errors.Is(err, storage.ErrNotFound):
		recordError(span, err)
		return InvitationResult{Result: fail(apperrors.CodeInvitationFailed)}, fmt.Errorf("check duplicate: %w", err)
	}

	grant, err := invite.IssueGrant(input.TTL, s.grant)
	if err != nil {
		recordError(span, err)
		return InvitationResult{Result: fail(apperrors.CodeInvitationFailed)}, fmt.Errorf("issue grant: %w", err)
	}

	inv, err := invite.CreateInvitation(invite.CreateInvitationInput{
		TeamID: teamID,
		SendBy: sendBy,
		SendTo: sendTo,
		Roles:  input.Roles,
		Grant:  grant,
	}, s.now, s.idGen)
	if err != nil {
		recordError(span, err)
		return InvitationResult{Result: fail(apperrors.CodeInvitationFailed)}, err
	}
	if err := s.store.PutInvitation(ctx, invitationToRecord(inv)); err != nil {
		recordError(span, err)
		return InvitationResult{Result: fail(apperrors.CodeInvitationFailed)}, fmt.Errorf("store invitation: %w", err)
	}

	span.SetAttributes(attribute.String("invitation.id", inv.ID))
	return InvitationResult{Result: ok(apperrors.CodeInvitationSent), Invitation: inv}, nil
}

// AcceptInvitation moves a live invitation to Accepted and joins the
// recipient to the team with the invited roles. The membership upsert, the
// team linkage, and the status change happen inside the team's critical
// section; earlier writes are unwound when a later one fails.
func (s *Service) AcceptInvitation(ctx context.Context, invitationID, accepterID string) (InvitationResult, error) {
	ctx, span := s.tracer.Start(ctx, "teams.AcceptInvitation")
	defer span.End()

	invitationID = strings.TrimSpace(invitationID)
	accepterID = strings.TrimSpace(accepterID)
	if invitationID == "" {
		return InvitationResult{Result: fail(apperrors.CodeInvitationIDMissing)}, nil
	}
	if accepterID == "" {
		return InvitationResult{Result: fail(apperrors.CodeRejectorIDMissing)}, nil
	}
	span.SetAttributes(attribute.String("invitation.id", invitationID))

	rec, release, result, err := s.lockLiveInvitation(ctx, invitationID)
	if release != nil {
		defer release()
	}
	if err != nil {
		recordError(span, err)
		return InvitationResult{Result: fail(apperrors.CodeInvitationAcceptFailed)}, err
	}
	if !result.Success {
		return InvitationResult{Result: result}, nil
	}
	if rec.SendTo != accepterID {
		return InvitationResult{Result: fail(apperrors.CodeAccepterMismatch)}, nil
	}

	// Snapshot what the accepter already has inside the critical section so
	// a failed write unwinds only what this acceptance changed.
	var priorRoles []member.Role
	existing, err := s.store.GetMemberByTeamUser(ctx, rec.TeamID, accepterID)
	preexisting := err == nil
	if preexisting {
		priorRoles = existing.Roles
	} else if !errors.Is(err, storage.ErrNotFound) {
		recordError(span, err)
		return InvitationResult{Result: fail(apperrors.CodeInvitationAcceptFailed)}, fmt.Errorf("check member: %w", err)
	}

	teamRec, err := s.store.GetTeam(ctx, rec.TeamID)
	if err != nil {
		recordError(span, err)
		return InvitationResult{Result: fail(apperrors.CodeInvitationAcceptFailed)}, fmt.Errorf("fetch team: %w", err)
	}
	alreadyLinked := false
	if preexisting {
		for _, id := range teamRec.Members {
			if id == existing.ID {
				alreadyLinked = true
				break
			}
		}
	}

	joined, err := member.CreateMember(member.CreateMemberInput{
		TeamID: rec.TeamID,
		UserID: accepterID,
		Roles:  rec.Roles,
	}, s.now, s.idGen)
	if err != nil {
		recordError(span, err)
		return InvitationResult{Result: fail(apperrors.CodeInvitationAcceptFailed)}, err
	}

	memberID, err := s.store.UpsertMember(ctx, memberToRecord(joined))
	if err != nil {
		recordError(span, err)
		return InvitationResult{Result: fail(apperrors.CodeInvitationAcceptFailed)}, fmt.Errorf("store member: %w", err)
	}

	now := s.now().UTC()
	undoJoin := func(unlink bool) {
		if unlink && !alreadyLinked {
			if rmErr := s.store.RemoveTeamMember(ctx, rec.TeamID, memberID, now); rmErr != nil {
				log.Printf("compensate accept %s: unlink member %s: %v", rec.ID, memberID, rmErr)
			}
		}
		if preexisting {
			if setErr := s.store.SetMemberRoles(ctx, memberID, priorRoles, now); setErr != nil {
				log.Printf("compensate accept %s: restore roles of member %s: %v", rec.ID, memberID, setErr)
			}
		} else {
			if delErr := s.store.DeleteMember(ctx, memberID); delErr != nil {
				log.Printf("compensate accept %s: delete member %s: %v", rec.ID, memberID, delErr)
			}
		}
	}

	if err := s.store.AddTeamMember(ctx, rec.TeamID, memberID, now); err != nil {
		undoJoin(false)
		recordError(span, err)
		return InvitationResult{Result: fail(apperrors.CodeInvitationAcceptFailed)}, fmt.Errorf("link member: %w", err)
	}
	if err := s.store.UpdateInvitationStatus(ctx, rec.ID, invite.StatusAccepted, now); err != nil {
		undoJoin(true)
		recordError(span, err)
		return InvitationResult{Result: fail(apperrors.CodeInvitationAcceptFailed)}, fmt.Errorf("mark accepted: %w", err)
	}

	rec.Status = invite.StatusAccepted
	rec.UpdatedAt = now
	return InvitationResult{Result: ok(apperrors.CodeInvitationAccepted), Invitation: invitationFromRecord(rec)}, nil
}

// RejectInvitation moves a live invitation to Rejected. Only the invited
// user may reject it.
func (s *Service) RejectInvitation(ctx context.Context, invitationID, rejecterID string) (InvitationResult, error) {
	ctx, span := s.tracer.Start(ctx, "teams.RejectInvitation")
	defer span.End()

	invitationID = strings.TrimSpace(invitationID)
	rejecterID = strings.TrimSpace(rejecterID)
	if invitationID == "" {
		return InvitationResult{Result: fail(apperrors.CodeInvitationIDMissing)}, nil
	}
	if rejecterID == "" {
		return InvitationResult{Result: fail(apperrors.CodeRejectorIDMissing)}, nil
	}
	span.SetAttributes(attribute.String("invitation.id", invitationID))

	rec, release, result, err := s.lockLiveInvitation(ctx, invitationID)
	if release != nil {
		defer release()
	}
	if err != nil {
		recordError(span, err)
		return InvitationResult{Result: fail(apperrors.CodeInvitationRejectFailed)}, err
	}
	if !result.Success {
		return InvitationResult{Result: result}, nil
	}
	if rec.SendTo != rejecterID {
		return InvitationResult{Result: fail(apperrors.CodeRejectorMismatch)}, nil
	}

	now := s.now().UTC()
	if err := s.store.UpdateInvitationStatus(ctx, rec.ID, invite.StatusRejected, now); err != nil {
		recordError(span, err)
		return InvitationResult{Result: fail(apperrors.CodeInvitationRejectFailed)}, fmt.Errorf("mark rejected: %w", err)
	}
	rec.Status = invite.StatusRejected
	rec.UpdatedAt = now
	return InvitationResult{Result: ok(apperrors.CodeInvitationRejected), Invitation: invitationFromRecord(rec)}, nil
}

// WithdrawInvitation moves a live invitation to Withdrawn. The caller must
// be a member of the inviting team holding the owner or manager role.
func (s *Service) WithdrawInvitation(ctx context.Context, invitationID, withdrawerID string) (InvitationResult, error) {
	ctx, span := s.tracer.Start(ctx, "teams.WithdrawInvitation")
	defer span.End()

	invitationID = strings.TrimSpace(invitationID)
	withdrawerID = strings.TrimSpace(withdrawerID)
	if invitationID == "" {
		return InvitationResult{Result: fail(apperrors.CodeInvitationIDMissing)}, nil
	}
	if withdrawerID == "" {
		return InvitationResult{Result: fail(apperrors.CodeRejectorIDMissing)}, nil
	}
	span.SetAttributes(attribute.String("invitation.id", invitationID))

	rec, release, result, err := s.lockLiveInvitation(ctx, invitationID)
	if release != nil {
		defer release()
	}
	if err != nil {
		recordError(span, err)
		return InvitationResult{Result: fail(apperrors.CodeInvitationWithdrawFailed)}, err
	}
	if !result.Success {
		return InvitationResult{Result: result}, nil
	}

	actor, err := s.store.GetMemberByTeamUser(ctx, rec.TeamID, withdrawerID)
	if errors.Is(err, storage.ErrNotFound) {
		return InvitationResult{Result: fail(apperrors.CodeWithdrawAccessDenied)}, nil
	}
	if err != nil {
		recordError(span, err)
		return InvitationResult{Result: fail(apperrors.CodeInvitationWithdrawFailed)}, fmt.Errorf("fetch withdrawer: %w", err)
	}
	if !member.CanManage(actor.Roles) {
		return InvitationResult{Result: fail(apperrors.CodeWithdrawAccessDenied)}, nil
	}

	now := s.now().UTC()
	if err := s.store.UpdateInvitationStatus(ctx, rec.ID, invite.StatusWithdrawn, now); err != nil {
		recordError(span, err)
		return InvitationResult{Result: fail(apperrors.CodeInvitationWithdrawFailed)}, fmt.Errorf("mark withdrawn: %w", err)
	}
	rec.Status = invite.StatusWithdrawn
	rec.UpdatedAt = now
	return InvitationResult{Result: ok(apperrors.CodeInvitationWithdrawn), Invitation: invitationFromRecord(rec)}, nil
}

// ListInvitations returns every invitation addressed to a user. Sent
// invitations whose grant no longer verifies are rewritten to Expired on
// the way out.
func (s *Service) ListInvitations(ctx context.Context, recipientID string) (InvitationsResult, error) {
	ctx, span := s.tracer.Start(ctx, "teams.ListInvitations")
	defer span.End()

	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" {
		return InvitationsResult{Result: fail(apperrors.CodeInvitedUserIDMissing)}, nil
	}

	recs, err := s.store.ListInvitationsForUser(ctx, recipientID)
	if err != nil {
		recordError(span, err)
		return InvitationsResult{Result: fail(apperrors.CodeInvitationsFetchFailed)}, fmt.Errorf("list invitations: %w", err)
	}

	invitations := make([]invite.Invitation, 0, len(recs))
	for _, rec := range recs {
		if rec.Status == invite.StatusSent && !invite.VerifyGrant(rec.Grant, s.grant) {
			s.expireInvitation(ctx, rec.ID)
			rec.Status = invite.StatusExpired
		}
		invitations = append(invitations, invitationFromRecord(rec))
	}
	return InvitationsResult{Result: ok(apperrors.CodeInvitationsFetched), Invitations: invitations}, nil
}

// lockLiveInvitation fetches the invitation, enters its team's critical
// section, and re-reads it there. It reports INVITATION_NOT_FOUND for a
// missing id and INVITATION_EXPIRED when the invitation is no longer a live
// Sent one; a Sent invitation whose grant fails verification is rewritten
// to Expired before reporting. The returned result is successful only when
// the invitation is live.
func (s *Service) lockLiveInvitation(ctx context.Context, invitationID string) (storage.InvitationRecord, func(), Result, error) {
	rec, err := s.store.GetInvitation(ctx, invitationID)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.InvitationRecord{}, nil, fail(apperrors.CodeInvitationNotFound), nil
	}
	if err != nil {
		return storage.InvitationRecord{}, nil, Result{}, fmt.Errorf("fetch invitation: %w", err)
	}

	release := s.locks.acquire(teamKey(rec.TeamID))

	rec, err = s.store.GetInvitation(ctx, invitationID)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.InvitationRecord{}, release, fail(apperrors.CodeInvitationNotFound), nil
	}
	if err != nil {
		return storage.InvitationRecord{}, release, Result{}, fmt.Errorf("fetch invitation: %w", err)
	}
	if rec.Status != invite.StatusSent {
		return storage.InvitationRecord{}, release, fail(apperrors.CodeInvitationExpired), nil
	}
	if !invite.VerifyGrant(rec.Grant, s.grant) {
		s.expireInvitation(ctx, rec.ID)
		return storage.InvitationRecord{}, release, fail(apperrors.CodeInvitationExpired), nil
	}
	return rec, release, ok(), nil
}

// expireInvitation rewrites a Sent invitation whose grant no longer
// verifies. The rewrite is best-effort; the invitation is treated as
// expired either way.
func (s *Service) expireInvitation(ctx context.Context, invitationID string) {
	if err := s.store.UpdateInvitationStatus(ctx, invitationID, invite.StatusExpired, s.now().UTC()); err != nil {
		log.Printf("expire invitation %s: %v", invitationID, err)
	}
}

// validateInvitationRoles checks the requested role set. The NOT_MENTIONED
// sentinel is reserved for owner-role removal and can never be requested.
func validateInvitationRoles(roles []member.Role) error {
	if err := member.ValidateRoles(roles); err != nil {
		return err
	}
	if member.HasRole(roles, member.RoleNotMentioned) {
		return apperrors.New(apperrors.CodeRoleInvalid, "NOT_MENTIONED is not a requestable role")
	}
	return nil
}
