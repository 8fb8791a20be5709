package memory

import (
	"context"
	"testing"
	"time"

	"github.com/squadhq/squadron/internal/teams/domain/invite"
	"github.com/squadhq/squadron/internal/teams/domain/member"
	"github.com/squadhq/squadron/internal/teams/storage"
)

var _ storage.Store = (*Store)(nil)

func TestTeamMembersListIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	if err := s.PutTeam(ctx, storage.TeamRecord{ID: "team-1", Name: "Night Raid"}); err != nil {
		t.Fatalf("put team: %v", err)
	}

	if err := s.AddTeamMember(ctx, "team-1", "member-1", now); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := s.AddTeamMember(ctx, "team-1", "member-1", now.Add(time.Minute)); err != nil {
		t.Fatalf("re-add member: %v", err)
	}

	got, err := s.GetTeam(ctx, "team-1")
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if len(got.Members) != 1 {
		t.Fatalf("members = %v, want single entry", got.Members)
	}

	if err := s.RemoveTeamMember(ctx, "team-1", "member-1", now); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	if err := s.RemoveTeamMember(ctx, "team-1", "member-1", now); err != nil {
		t.Fatalf("re-remove member: %v", err)
	}

	got, err = s.GetTeam(ctx, "team-1")
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if len(got.Members) != 0 {
		t.Fatalf("members = %v, want empty", got.Members)
	}
}

func TestUpdateTeamAppliesOnlySetFields(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	if err := s.PutTeam(ctx, storage.TeamRecord{ID: "team-1", Name: "Night Raid", Game: "valorant"}); err != nil {
		t.Fatalf("put team: %v", err)
	}

	name := "Dawn Patrol"
	if err := s.UpdateTeam(ctx, "team-1", storage.TeamUpdate{Name: &name}, now); err != nil {
		t.Fatalf("update team: %v", err)
	}

	got, err := s.GetTeam(ctx, "team-1")
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if got.Name != "Dawn Patrol" {
		t.Fatalf("Name = %q, want %q", got.Name, "Dawn Patrol")
	}
	if got.Game != "valorant" {
		t.Fatalf("Game = %q, want unchanged", got.Game)
	}
	if !got.UpdatedAt.Equal(now) {
		t.Fatal("expected UpdatedAt bump")
	}
}

func TestUpsertMemberMergesRoles(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	id, err := s.UpsertMember(ctx, storage.MemberRecord{
		ID: "member-1", TeamID: "team-1", UserID: "user-1",
		Roles: []member.Role{member.RoleMember}, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("upsert member: %v", err)
	}
	if id != "member-1" {
		t.Fatalf("id = %q, want %q", id, "member-1")
	}

	id, err = s.UpsertMember(ctx, storage.MemberRecord{
		ID: "member-2", TeamID: "team-1", UserID: "user-1",
		Roles: []member.Role{member.RoleManager, member.RoleMember}, UpdatedAt: now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("upsert member again: %v", err)
	}
	if id != "member-1" {
		t.Fatalf("id = %q, want existing %q", id, "member-1")
	}

	got, err := s.GetMemberByTeamUser(ctx, "team-1", "user-1")
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	want := []member.Role{member.RoleMember, member.RoleManager}
	if len(got.Roles) != len(want) || got.Roles[0] != want[0] || got.Roles[1] != want[1] {
		t.Fatalf("Roles = %v, want %v", got.Roles, want)
	}
}

func TestRemoveOwnerRoleFallback(t *testing.T) {
	ctx := context.Background()
	s := New()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	if _, err := s.UpsertMember(ctx, storage.MemberRecord{
		ID: "member-1", TeamID: "team-1", UserID: "user-1",
		Roles: []member.Role{member.RoleOwner},
	}); err != nil {
		t.Fatalf("upsert member: %v", err)
	}

	if err := s.RemoveOwnerRole(ctx, "member-1", now); err != nil {
		t.Fatalf("remove owner role: %v", err)
	}

	got, err := s.GetMember(ctx, "member-1")
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if len(got.Roles) != 1 || got.Roles[0] != member.RoleNotMentioned {
		t.Fatalf("Roles = %v, want [NOT_MENTIONED]", got.Roles)
	}
}

func TestDeleteMemberClearsIndex(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.UpsertMember(ctx, storage.MemberRecord{
		ID: "member-1", TeamID: "team-1", UserID: "user-1",
		Roles: []member.Role{member.RoleMember},
	}); err != nil {
		t.Fatalf("upsert member: %v", err)
	}
	if err := s.DeleteMember(ctx, "member-1"); err != nil {
		t.Fatalf("delete member: %v", err)
	}
	if _, err := s.GetMemberByTeamUser(ctx, "team-1", "user-1"); err != storage.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetLatestSentInvitation(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	records := []storage.InvitationRecord{
		{ID: "inv-1", TeamID: "team-1", SendTo: "user-2", Roles: []member.Role{member.RoleMember}, Status: invite.StatusSent, CreatedAt: base},
		{ID: "inv-2", TeamID: "team-1", SendTo: "user-2", Roles: []member.Role{member.RoleMember}, Status: invite.StatusSent, CreatedAt: base.Add(time.Hour)},
		{ID: "inv-3", TeamID: "team-1", SendTo: "user-2", Roles: []member.Role{member.RoleMember}, Status: invite.StatusRejected, CreatedAt: base.Add(2 * time.Hour)},
		{ID: "inv-4", TeamID: "team-1", SendTo: "user-3", Roles: []member.Role{member.RoleMember}, Status: invite.StatusSent, CreatedAt: base.Add(3 * time.Hour)},
	}
	for _, rec := range records {
		if err := s.PutInvitation(ctx, rec); err != nil {
			t.Fatalf("put invitation: %v", err)
		}
	}

	got, err := s.GetLatestSentInvitation(ctx, "team-1", "user-2", []member.Role{member.RoleMember})
	if err != nil {
		t.Fatalf("get latest invitation: %v", err)
	}
	if got.ID != "inv-2" {
		t.Fatalf("ID = %q, want newest sent %q", got.ID, "inv-2")
	}

	if _, err := s.GetLatestSentInvitation(ctx, "team-1", "user-2", []member.Role{member.RoleManager}); err != storage.ErrNotFound {
		t.Fatalf("expected ErrNotFound for uncovered roles, got %v", err)
	}
}

func TestDeleteInvitationsByTeam(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.PutInvitation(ctx, storage.InvitationRecord{ID: "inv-1", TeamID: "team-1", SendTo: "user-2", Status: invite.StatusSent}); err != nil {
		t.Fatalf("put invitation: %v", err)
	}
	if err := s.PutInvitation(ctx, storage.InvitationRecord{ID: "inv-2", TeamID: "team-2", SendTo: "user-2", Status: invite.StatusSent}); err != nil {
		t.Fatalf("put invitation: %v", err)
	}

	if err := s.DeleteInvitationsByTeam(ctx, "team-1"); err != nil {
		t.Fatalf("delete invitations: %v", err)
	}
	if _, err := s.GetInvitation(ctx, "inv-1"); err != storage.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetInvitation(ctx, "inv-2"); err != nil {
		t.Fatalf("expected inv-2 to survive, got %v", err)
	}
}
