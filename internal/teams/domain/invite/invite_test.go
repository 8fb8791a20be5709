package invite

import (
	"testing"
	"time"

	"github.com/squadhq/squadron/internal/teams/domain/member"
)

func TestCreateInvitation(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	idGen := func() (string, error) { return "invite-1", nil }

	inv, err := CreateInvitation(CreateInvitationInput{
		TeamID: " team-1 ",
		SendBy: "user-1",
		SendTo: "user-2",
		Roles:  []member.Role{member.RoleMember, member.RoleMember},
		Grant:  "signed-grant",
	}, func() time.Time { return now }, idGen)
	if err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	if inv.ID != "invite-1" {
		t.Fatalf("ID = %q, want %q", inv.ID, "invite-1")
	}
	if inv.TeamID != "team-1" {
		t.Fatalf("TeamID = %q, want trimmed %q", inv.TeamID, "team-1")
	}
	if inv.Status != StatusSent {
		t.Fatalf("Status = %v, want %v", inv.Status, StatusSent)
	}
	if len(inv.Roles) != 1 || inv.Roles[0] != member.RoleMember {
		t.Fatalf("Roles = %v, want deduplicated member role", inv.Roles)
	}
	if !inv.CreatedAt.Equal(now) || !inv.UpdatedAt.Equal(now) {
		t.Fatal("expected timestamps from injected clock")
	}
}

func TestStatusLabelRoundTrip(t *testing.T) {
	statuses := []Status{StatusSent, StatusAccepted, StatusRejected, StatusWithdrawn, StatusExpired}
	for _, status := range statuses {
		if got := StatusFromLabel(StatusLabel(status)); got != status {
			t.Fatalf("round trip for %v = %v", status, got)
		}
	}
	if StatusFromLabel("bogus") != StatusUnspecified {
		t.Fatal("expected unknown label to map to unspecified")
	}
	if StatusLabel(StatusUnspecified) != "UNSPECIFIED" {
		t.Fatal("expected unspecified label")
	}
}
