package service

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/squadhq/squadron/internal/platform/errors"
	"github.com/squadhq/squadron/internal/teams/domain/member"
	"github.com/squadhq/squadron/internal/teams/storage"
)

func TestRemoveUser(t *testing.T) {
	ctx := context.Background()

	t.Run("removes a member and unlinks the team", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		created := seedTeam(t, svc, store, "night raid", "user-1")
		memberID := joinTeam(t, store, created.Team.ID, "user-2", member.RoleMember)

		res, err := svc.RemoveUser(ctx, created.Team.ID, "user-1", "user-2")
		if err != nil {
			t.Fatalf("RemoveUser() error = %v", err)
		}
		if !hasCode(res.Codes, apperrors.CodeUserRemovedSuccess) {
			t.Fatalf("RemoveUser() codes = %v, want USER_REMOVED_SUCCESS", res.Codes)
		}

		if _, err := store.GetMember(ctx, memberID); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("GetMember() error = %v, want ErrNotFound", err)
		}
		rec, err := store.GetTeam(ctx, created.Team.ID)
		if err != nil {
			t.Fatalf("GetTeam() error = %v", err)
		}
		for _, id := range rec.Members {
			if id == memberID {
				t.Fatalf("Team.Members = %v, still contains removed member", rec.Members)
			}
		}
	})

	t.Run("never removes the owner", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		created := seedTeam(t, svc, store, "night raid", "user-1")
		joinTeam(t, store, created.Team.ID, "manager-1", member.RoleManager)

		res, err := svc.RemoveUser(ctx, created.Team.ID, "manager-1", "user-1")
		if err != nil {
			t.Fatalf("RemoveUser() error = %v", err)
		}
		if !hasCode(res.Codes, apperrors.CodeCannotRemoveTeamOwner) {
			t.Fatalf("RemoveUser() codes = %v, want CANT_REMOVE_TEAM_OWNER", res.Codes)
		}
	})

	t.Run("never lets the owner remove themselves", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		created := seedTeam(t, svc, store, "night raid", "user-1")

		res, err := svc.RemoveUser(ctx, created.Team.ID, "user-1", "user-1")
		if err != nil {
			t.Fatalf("RemoveUser() error = %v", err)
		}
		if !hasCode(res.Codes, apperrors.CodeCannotRemoveTeamOwner) {
			t.Fatalf("RemoveUser() codes = %v, want CANT_REMOVE_TEAM_OWNER", res.Codes)
		}
		if _, err := store.GetMemberByTeamUser(ctx, created.Team.ID, "user-1"); err != nil {
			t.Fatalf("GetMemberByTeamUser() error = %v, want owner membership kept", err)
		}
	})

	t.Run("denies removers without management rights", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		created := seedTeam(t, svc, store, "night raid", "user-1")
		joinTeam(t, store, created.Team.ID, "member-1", member.RoleMember)
		joinTeam(t, store, created.Team.ID, "member-2", member.RoleMember)

		res, err := svc.RemoveUser(ctx, created.Team.ID, "member-1", "member-2")
		if err != nil {
			t.Fatalf("RemoveUser() error = %v", err)
		}
		if !hasCode(res.Codes, apperrors.CodeRemoveUserAccessDenied) {
			t.Fatalf("RemoveUser() codes = %v, want REMOVE_USER_ACCESS_DENIED", res.Codes)
		}
	})

	t.Run("reports a target outside the team", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		created := seedTeam(t, svc, store, "night raid", "user-1")

		res, err := svc.RemoveUser(ctx, created.Team.ID, "user-1", "outsider")
		if err != nil {
			t.Fatalf("RemoveUser() error = %v", err)
		}
		if !hasCode(res.Codes, apperrors.CodeRemoveTargetNotInTeam) {
			t.Fatalf("RemoveUser() codes = %v, want USER_TO_REMOVE_NOT_IN_TEAM", res.Codes)
		}
	})

	t.Run("requires all identifiers", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		res, err := svc.RemoveUser(ctx, "", "user-1", "user-2")
		if err != nil {
			t.Fatalf("RemoveUser() error = %v", err)
		}
		if !hasCode(res.Codes, apperrors.CodeTeamIDMissing) {
			t.Fatalf("RemoveUser() codes = %v, want TEAM_ID_MISSING", res.Codes)
		}
		res, err = svc.RemoveUser(ctx, "team-1", "", "user-2")
		if err != nil {
			t.Fatalf("RemoveUser() error = %v", err)
		}
		if !hasCode(res.Codes, apperrors.CodeRemoverIDMissing) {
			t.Fatalf("RemoveUser() codes = %v, want REMOVER_ID_MISSING", res.Codes)
		}
		res, err = svc.RemoveUser(ctx, "team-1", "user-1", "")
		if err != nil {
			t.Fatalf("RemoveUser() error = %v", err)
		}
		if !hasCode(res.Codes, apperrors.CodeRemoveTargetIDMissing) {
			t.Fatalf("RemoveUser() codes = %v, want USER_TO_REMOVE_ID_MISSING", res.Codes)
		}
	})
}

func TestTransferOwnership(t *testing.T) {
	ctx := context.Background()

	t.Run("moves the owner role and team ownership", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		created := seedTeam(t, svc, store, "night raid", "user-1")
		joinTeam(t, store, created.Team.ID, "user-2", member.RoleMember)

		res, err := svc.TransferOwnership(ctx, created.Team.ID, "user-1", "user-2")
		if err != nil {
			t.Fatalf("TransferOwnership() error = %v", err)
		}
		if !hasCode(res.Codes, apperrors.CodeOwnershipTransferSuccess) {
			t.Fatalf("TransferOwnership() codes = %v, want OWNERSHIP_TRANSFER_SUCCESS", res.Codes)
		}

		rec, err := store.GetTeam(ctx, created.Team.ID)
		if err != nil {
			t.Fatalf("GetTeam() error = %v", err)
		}
		if rec.OwnerID != "user-2" {
			t.Fatalf("Team.OwnerID = %q, want %q", rec.OwnerID, "user-2")
		}

		members, err := store.ListMembersByTeam(ctx, created.Team.ID)
		if err != nil {
			t.Fatalf("ListMembersByTeam() error = %v", err)
		}
		owners := 0
		for _, m := range members {
			if member.HasRole(m.Roles, member.RoleOwner) {
				owners++
				if m.UserID != "user-2" {
					t.Fatalf("owner = %q, want %q", m.UserID, "user-2")
				}
			}
		}
		if owners != 1 {
			t.Fatalf("owner count = %d, want exactly one owner", owners)
		}

		old, err := store.GetMemberByTeamUser(ctx, created.Team.ID, "user-1")
		if err != nil {
			t.Fatalf("GetMemberByTeamUser() error = %v", err)
		}
		if !member.HasRole(old.Roles, member.RoleNotMentioned) {
			t.Fatalf("old owner roles = %v, want NOT_MENTIONED fallback", old.Roles)
		}
	})

	t.Run("drops the placeholder role when ownership comes back", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		created := seedTeam(t, svc, store, "night raid", "user-1")
		joinTeam(t, store, created.Team.ID, "user-2", member.RoleMember)

		if res, err := svc.TransferOwnership(ctx, created.Team.ID, "user-1", "user-2"); err != nil || !res.Success {
			t.Fatalf("TransferOwnership() = %v, %v, want success", res.Codes, err)
		}
		if res, err := svc.TransferOwnership(ctx, created.Team.ID, "user-2", "user-1"); err != nil || !res.Success {
			t.Fatalf("TransferOwnership() = %v, %v, want success", res.Codes, err)
		}

		restored, err := store.GetMemberByTeamUser(ctx, created.Team.ID, "user-1")
		if err != nil {
			t.Fatalf("GetMemberByTeamUser() error = %v", err)
		}
		if len(restored.Roles) != 1 || restored.Roles[0] != member.RoleOwner {
			t.Fatalf("restored owner roles = %v, want exactly [OWNER]", restored.Roles)
		}
	})

	t.Run("requires the current owner", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		created := seedTeam(t, svc, store, "night raid", "user-1")
		joinTeam(t, store, created.Team.ID, "manager-1", member.RoleManager)
		joinTeam(t, store, created.Team.ID, "user-2", member.RoleMember)

		res, err := svc.TransferOwnership(ctx, created.Team.ID, "manager-1", "user-2")
		if err != nil {
			t.Fatalf("TransferOwnership() error = %v", err)
		}
		if !hasCode(res.Codes, apperrors.CodeTransferRequiresOwner) {
			t.Fatalf("TransferOwnership() codes = %v, want USER_SHOULD_BE_OWNER_TO_TRANSFER_OWNERSHIP", res.Codes)
		}
	})

	t.Run("requires the new owner to be a member", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		created := seedTeam(t, svc, store, "night raid", "user-1")

		res, err := svc.TransferOwnership(ctx, created.Team.ID, "user-1", "outsider")
		if err != nil {
			t.Fatalf("TransferOwnership() error = %v", err)
		}
		if !hasCode(res.Codes, apperrors.CodeNewOwnerNotInTeam) {
			t.Fatalf("TransferOwnership() codes = %v, want NEW_OWNER_SHOULD_BE_IN_TEAM", res.Codes)
		}
	})

	t.Run("reports an unknown current owner", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		created := seedTeam(t, svc, store, "night raid", "user-1")
		joinTeam(t, store, created.Team.ID, "user-2", member.RoleMember)

		res, err := svc.TransferOwnership(ctx, created.Team.ID, "stranger", "user-2")
		if err != nil {
			t.Fatalf("TransferOwnership() error = %v", err)
		}
		if !hasCode(res.Codes, apperrors.CodeCurrentOwnerIDInvalid) {
			t.Fatalf("TransferOwnership() codes = %v, want CURRENT_OWNER_ID_INVALID", res.Codes)
		}
	})

	t.Run("rejects transferring to the current owner", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		created := seedTeam(t, svc, store, "night raid", "user-1")

		res, err := svc.TransferOwnership(ctx, created.Team.ID, "user-1", "user-1")
		if err != nil {
			t.Fatalf("TransferOwnership() error = %v", err)
		}
		if !hasCode(res.Codes, apperrors.CodeNewOwnerIDInvalid) {
			t.Fatalf("TransferOwnership() codes = %v, want NEW_OWNER_ID_INVALID", res.Codes)
		}
	})
}
