// Package member provides team membership records and role rules.
package member

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/squadhq/squadron/internal/platform/errors"
	"github.com/squadhq/squadron/internal/platform/id"
)

// Role represents a member's role within a team.
type Role int

const (
	// RoleUnspecified represents an invalid role.
	RoleUnspecified Role = iota
	// RoleOwner is held by exactly one member per team.
	RoleOwner
	// RoleManager can send and withdraw invitations and remove members.
	RoleManager
	// RoleMember is a regular team member.
	RoleMember
	// RoleNotMentioned marks a member whose roles were all stripped.
	RoleNotMentioned
)

// Member links a user to a team with one or more roles.
type Member struct {
	ID        string
	TeamID    string
	UserID    string
	Roles     []Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateMemberInput describes the metadata needed to create a member.
type CreateMemberInput struct {
	TeamID string
	UserID string
	Roles  []Role
}

// CreateMember creates a new membership with a generated ID and timestamps.
func CreateMember(input CreateMemberInput, now func() time.Time, idGenerator func() (string, error)) (Member, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	input.TeamID = strings.TrimSpace(input.TeamID)
	if input.TeamID == "" {
		return Member{}, apperrors.New(apperrors.CodeTeamIDMissing, "team id is required")
	}
	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return Member{}, apperrors.New(apperrors.CodeOwnerIDInvalid, "user id is required")
	}
	if err := ValidateRoles(input.Roles); err != nil {
		return Member{}, err
	}

	memberID, err := idGenerator()
	if err != nil {
		return Member{}, fmt.Errorf("generate member id: %w", err)
	}

	createdAt := now().UTC()
	return Member{
		ID:        memberID,
		TeamID:    input.TeamID,
		UserID:    input.UserID,
		Roles:     MergeRoles(nil, input.Roles),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// ValidateRoles checks that at least one valid role was provided.
func ValidateRoles(roles []Role) error {
	if len(roles) == 0 {
		return apperrors.New(apperrors.CodeRoleInvalid, "at least one role is required")
	}
	for _, role := range roles {
		switch role {
		case RoleOwner, RoleManager, RoleMember, RoleNotMentioned:
		default:
			return apperrors.New(apperrors.CodeRoleInvalid, "invalid role specified")
		}
	}
	return nil
}

// HasRole reports whether the role list contains the given role.
func HasRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanManage reports whether the role list grants management rights.
// Owners and managers can send invitations, withdraw them, and remove members.
func CanManage(roles []Role) bool {
	return HasRole(roles, RoleOwner) || HasRole(roles, RoleManager)
}

// MergeRoles unions incoming roles into existing ones, preserving order
// and dropping duplicates. RoleNotMentioned is only a placeholder for a
// stripped member, so it survives the merge only when no real role does.
func MergeRoles(existing, incoming []Role) []Role {
	merged := make([]Role, 0, len(existing)+len(incoming))
	for _, role := range existing {
		if !HasRole(merged, role) {
			merged = append(merged, role)
		}
	}
	for _, role := range incoming {
		if !HasRole(merged, role) {
			merged = append(merged, role)
		}
	}
	if len(merged) > 1 && HasRole(merged, RoleNotMentioned) {
		real := make([]Role, 0, len(merged)-1)
		for _, role := range merged {
			if role != RoleNotMentioned {
				real = append(real, role)
			}
		}
		merged = real
	}
	return merged
}

// StripOwner removes the owner role from the list. A member left with no
// roles is downgraded to RoleNotMentioned so the record never goes empty.
func StripOwner(roles []Role) []Role {
	remaining := make([]Role, 0, len(roles))
	for _, role := range roles {
		if role != RoleOwner {
			remaining = append(remaining, role)
		}
	}
	if len(remaining) == 0 {
		remaining = append(remaining, RoleNotMentioned)
	}
	return remaining
}

// RoleLabel returns the string label for a role.
func RoleLabel(role Role) string {
	switch role {
	case RoleOwner:
		return "OWNER"
	case RoleManager:
		return "MANAGER"
	case RoleMember:
		return "MEMBER"
	case RoleNotMentioned:
		return "NOT_MENTIONED"
	default:
		return "UNSPECIFIED"
	}
}

// RoleFromLabel converts a role label to a Role value.
func RoleFromLabel(label string) Role {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "OWNER":
		return RoleOwner
	case "MANAGER":
		return RoleManager
	case "MEMBER":
		return RoleMember
	case "NOT_MENTIONED":
		return RoleNotMentioned
	default:
		return RoleUnspecified
	}
}

// RoleLabels converts a role list to its string labels.
func RoleLabels(roles []Role) []string {
	labels := make([]string, 0, len(roles))
	for _, role := range roles {
		labels = append(labels, RoleLabel(role))
	}
	return labels
}

// RolesFromLabels converts string labels to a role list.
func RolesFromLabels(labels []string) []Role {
	roles := make([]Role, 0, len(labels))
	for _, label := range labels {
		roles = append(roles, RoleFromLabel(label))
	}
	return roles
}
