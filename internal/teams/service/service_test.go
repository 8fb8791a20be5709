package service

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/squadhq/squadron/internal/platform/errors"
	"github.com/squadhq/squadron/internal/teams/domain/invite"
	"github.com/squadhq/squadron/internal/teams/domain/member"
	"github.com/squadhq/squadron/internal/teams/storage"
	"github.com/squadhq/squadron/internal/teams/storage/memory"
)

// clock is a mutable test clock injected as the service's time source.
type clock struct {
	t time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) now() time.Time {
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestService(t *testing.T) (*Service, *memory.Store, *clock) {
	t.Helper()
	store := memory.New()
	clk := newClock()
	svc, err := New(Config{
		Store: store,
		Grant: invite.GrantConfig{Secret: []byte("test-secret"), Now: clk.now},
		Now:   clk.now,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return svc, store, clk
}

func seedUser(t *testing.T, store *memory.Store, userID string) {
	t.Helper()
	err := store.PutUser(context.Background(), storage.UserRecord{ID: userID})
	if err != nil {
		t.Fatalf("PutUser(%q) error = %v", userID, err)
	}
}

// seedTeam creates a team owned by ownerID through the service and returns it.
func seedTeam(t *testing.T, svc *Service, store *memory.Store, name, ownerID string) TeamResult {
	t.Helper()
	seedUser(t, store, ownerID)
	res, err := svc.CreateTeam(context.Background(), CreateTeamInput{
		Name:        name,
		Game:        "league",
		Description: "scrim squad",
		OwnerID:     ownerID,
	})
	if err != nil {
		t.Fatalf("CreateTeam(%q) error = %v", name, err)
	}
	if !res.Success {
		t.Fatalf("CreateTeam(%q) codes = %v, want success", name, res.Codes)
	}
	return res
}

// joinTeam adds a user to a team directly through the store.
func joinTeam(t *testing.T, store *memory.Store, teamID, userID string, roles ...member.Role) string {
	t.Helper()
	ctx := context.Background()
	m, err := member.CreateMember(member.CreateMemberInput{
		TeamID: teamID,
		UserID: userID,
		Roles:  roles,
	}, nil, nil)
	if err != nil {
		t.Fatalf("CreateMember(%q) error = %v", userID, err)
	}
	memberID, err := store.UpsertMember(ctx, storage.MemberRecord{
		ID:        m.ID,
		TeamID:    m.TeamID,
		UserID:    m.UserID,
		Roles:     m.Roles,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	})
	if err != nil {
		t.Fatalf("UpsertMember(%q) error = %v", userID, err)
	}
	if err := store.AddTeamMember(ctx, teamID, memberID, m.CreatedAt); err != nil {
		t.Fatalf("AddTeamMember(%q) error = %v", memberID, err)
	}
	return memberID
}

func hasMemberID(members []string, memberID string) bool {
	for _, id := range members {
		if id == memberID {
			return true
		}
	}
	return false
}

func hasCode(codes []apperrors.Code, want apperrors.Code) bool {
	for _, code := range codes {
		if code == want {
			return true
		}
	}
	return false
}

func TestNewRequiresStore(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("New() error = nil, want store requirement error")
	}
}

func TestKeyedLocksSerializeAndDrain(t *testing.T) {
	locks := newKeyedLocks()

	release := locks.acquire("team:a")
	done := make(chan struct{})
	go func() {
		inner := locks.acquire("team:a")
		inner()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("second acquire completed while lock was held")
	case <-time.After(20 * time.Millisecond):
	}

	release()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second acquire never completed after release")
	}

	locks.mu.Lock()
	held := len(locks.held)
	locks.mu.Unlock()
	if held != 0 {
		t.Fatalf("held locks = %d, want 0 after release", held)
	}
}
