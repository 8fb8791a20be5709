// Package memory provides an in-memory Store used by tests and local runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/squadhq/squadron/internal/teams/domain/invite"
	"github.com/squadhq/squadron/internal/teams/domain/member"
	"github.com/squadhq/squadron/internal/teams/storage"
)

// Store is a mutex-guarded in-memory implementation of storage.Store.
type Store struct {
	mu          sync.RWMutex
	teams       map[string]storage.TeamRecord
	members     map[string]storage.MemberRecord
	byTeamUser  map[string]string // teamID:userID -> memberID
	invitations map[string]storage.InvitationRecord
	users       map[string]storage.UserRecord
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{
		teams:       make(map[string]storage.TeamRecord),
		members:     make(map[string]storage.MemberRecord),
		byTeamUser:  make(map[string]string),
		invitations: make(map[string]storage.InvitationRecord),
		users:       make(map[string]storage.UserRecord),
	}
}

func teamUserKey(teamID, userID string) string {
	return teamID + ":" + userID
}

func (s *Store) PutTeam(_ context.Context, t storage.TeamRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.Members = append([]string(nil), t.Members...)
	s.teams[t.ID] = t
	return nil
}

func (s *Store) GetTeam(_ context.Context, id string) (storage.TeamRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	if !ok {
		return storage.TeamRecord{}, storage.ErrNotFound
	}
	return copyTeam(t), nil
}

func (s *Store) GetTeamByName(_ context.Context, name string) (storage.TeamRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.teams {
		if t.Name == name {
			return copyTeam(t), nil
		}
	}
	return storage.TeamRecord{}, storage.ErrNotFound
}

func (s *Store) UpdateTeam(_ context.Context, id string, update storage.TeamUpdate, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	if !ok {
		return storage.ErrNotFound
	}
	if update.Name != nil {
		t.Name = *update.Name
	}
	if update.Game != nil {
		t.Game = *update.Game
	}
	if update.Description != nil {
		t.Description = *update.Description
	}
	if update.OwnerID != nil {
		t.OwnerID = *update.OwnerID
	}
	if update.ProfilePictureURL != nil {
		t.ProfilePictureURL = *update.ProfilePictureURL
	}
	if update.BannerPictureURL != nil {
		t.BannerPictureURL = *update.BannerPictureURL
	}
	if update.Status != nil {
		t.Status = *update.Status
	}
	t.UpdatedAt = updatedAt
	s.teams[id] = t
	return nil
}

func (s *Store) AddTeamMember(_ context.Context, teamID, memberID string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[teamID]
	if !ok {
		return storage.ErrNotFound
	}
	for _, id := range t.Members {
		if id == memberID {
			return nil
		}
	}
	t.Members = append(append([]string(nil), t.Members...), memberID)
	t.UpdatedAt = updatedAt
	s.teams[teamID] = t
	return nil
}

func (s *Store) RemoveTeamMember(_ context.Context, teamID, memberID string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[teamID]
	if !ok {
		return storage.ErrNotFound
	}
	remaining := make([]string, 0, len(t.Members))
	removed := false
	for _, id := range t.Members {
		if id == memberID {
			removed = true
			continue
		}
		remaining = append(remaining, id)
	}
	if !removed {
		return nil
	}
	t.Members = remaining
	t.UpdatedAt = updatedAt
	s.teams[teamID] = t
	return nil
}

func (s *Store) DeleteTeam(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.teams, id)
	return nil
}

func (s *Store) UpsertMember(_ context.Context, m storage.MemberRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := teamUserKey(m.TeamID, m.UserID)
	if existingID, ok := s.byTeamUser[key]; ok {
		existing := s.members[existingID]
		existing.Roles = member.MergeRoles(existing.Roles, m.Roles)
		existing.UpdatedAt = m.UpdatedAt
		s.members[existingID] = existing
		return existingID, nil
	}
	m.Roles = member.MergeRoles(nil, m.Roles)
	s.members[m.ID] = m
	s.byTeamUser[key] = m.ID
	return m.ID, nil
}

func (s *Store) GetMember(_ context.Context, memberID string) (storage.MemberRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[memberID]
	if !ok {
		return storage.MemberRecord{}, storage.ErrNotFound
	}
	return copyMember(m), nil
}

func (s *Store) GetMemberByTeamUser(_ context.Context, teamID, userID string) (storage.MemberRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	memberID, ok := s.byTeamUser[teamUserKey(teamID, userID)]
	if !ok {
		return storage.MemberRecord{}, storage.ErrNotFound
	}
	return copyMember(s.members[memberID]), nil
}

func (s *Store) SetMemberRoles(_ context.Context, memberID string, roles []member.Role, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[memberID]
	if !ok {
		return storage.ErrNotFound
	}
	m.Roles = append([]member.Role(nil), roles...)
	m.UpdatedAt = updatedAt
	s.members[memberID] = m
	return nil
}

func (s *Store) RemoveOwnerRole(_ context.Context, memberID string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[memberID]
	if !ok {
		return storage.ErrNotFound
	}
	m.Roles = member.StripOwner(m.Roles)
	m.UpdatedAt = updatedAt
	s.members[memberID] = m
	return nil
}

func (s *Store) DeleteMember(_ context.Context, memberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[memberID]
	if !ok {
		return storage.ErrNotFound
	}
	delete(s.members, memberID)
	delete(s.byTeamUser, teamUserKey(m.TeamID, m.UserID))
	return nil
}

func (s *Store) ListMembersByTeam(_ context.Context, teamID string) ([]storage.MemberRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []storage.MemberRecord
	for _, m := range s.members {
		if m.TeamID == teamID {
			out = append(out, copyMember(m))
		}
	}
	return out, nil
}

func (s *Store) PutInvitation(_ context.Context, inv storage.InvitationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv.Roles = append([]member.Role(nil), inv.Roles...)
	s.invitations[inv.ID] = inv
	return nil
}

func (s *Store) GetInvitation(_ context.Context, id string) (storage.InvitationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invitations[id]
	if !ok {
		return storage.InvitationRecord{}, storage.ErrNotFound
	}
	return copyInvitation(inv), nil
}

func (s *Store) GetLatestSentInvitation(_ context.Context, teamID, sendTo string, roles []member.Role) (storage.InvitationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		latest storage.InvitationRecord
		found  bool
	)
	for _, inv := range s.invitations {
		if inv.TeamID != teamID || inv.SendTo != sendTo || inv.Status != invite.StatusSent {
			continue
		}
		if !rolesContainAll(inv.Roles, roles) {
			continue
		}
		if !found || inv.CreatedAt.After(latest.CreatedAt) {
			latest = inv
			found = true
		}
	}
	if !found {
		return storage.InvitationRecord{}, storage.ErrNotFound
	}
	return copyInvitation(latest), nil
}

func (s *Store) UpdateInvitationStatus(_ context.Context, id string, status invite.Status, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invitations[id]
	if !ok {
		return storage.ErrNotFound
	}
	inv.Status = status
	inv.UpdatedAt = updatedAt
	s.invitations[id] = inv
	return nil
}

func (s *Store) ListInvitationsForUser(_ context.Context, sendTo string) ([]storage.InvitationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []storage.InvitationRecord
	for _, inv := range s.invitations {
		if inv.SendTo == sendTo {
			out = append(out, copyInvitation(inv))
		}
	}
	return out, nil
}

func (s *Store) DeleteInvitationsByTeam(_ context.Context, teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, inv := range s.invitations {
		if inv.TeamID == teamID {
			delete(s.invitations, id)
		}
	}
	return nil
}

func (s *Store) PutUser(_ context.Context, u storage.UserRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	return nil
}

func (s *Store) GetUser(_ context.Context, id string) (storage.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return storage.UserRecord{}, storage.ErrNotFound
	}
	return u, nil
}

// Close satisfies storage.Store; there is nothing to release.
func (s *Store) Close() error {
	return nil
}

func copyTeam(t storage.TeamRecord) storage.TeamRecord {
	t.Members = append([]string(nil), t.Members...)
	return t
}

func copyMember(m storage.MemberRecord) storage.MemberRecord {
	m.Roles = append([]member.Role(nil), m.Roles...)
	return m
}

func copyInvitation(inv storage.InvitationRecord) storage.InvitationRecord {
	inv.Roles = append([]member.Role(nil), inv.Roles...)
	return inv
}

func rolesContainAll(have, want []member.Role) bool {
	for _, role := range want {
		if !member.HasRole(have, role) {
			return false
		}
	}
	return true
}
