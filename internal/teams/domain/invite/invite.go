// Package invite provides team invitation management.
package invite

import (
	"fmt"
	"strings"
	"time"

	"github.com/squadhq/squadron/internal/platform/id"
	"github.com/squadhq/squadron/internal/teams/domain/member"
)

// Status represents the lifecycle status of an invitation.
type Status int

const (
	// StatusUnspecified represents an invalid invitation status.
	StatusUnspecified Status = iota
	// StatusSent indicates an invitation is awaiting a response.
	StatusSent
	// StatusAccepted indicates the invited user joined the team.
	StatusAccepted
	// StatusRejected indicates the invited user declined.
	StatusRejected
	// StatusWithdrawn indicates the team retracted the invitation.
	StatusWithdrawn
	// StatusExpired indicates the invitation grant lapsed before a response.
	StatusExpired
)

// Invitation represents an offer for a user to join a team with given roles.
type Invitation struct {
	ID        string
	TeamID    string
	SendBy    string
	SendTo    string
	Roles     []member.Role
	Status    Status
	Grant     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateInvitationInput describes the metadata needed to create an invitation.
type CreateInvitationInput struct {
	TeamID string
	SendBy string
	SendTo string
	Roles  []member.Role
	Grant  string
}

// CreateInvitation creates a new invitation with a generated ID and timestamps.
func CreateInvitation(input CreateInvitationInput, now func() time.Time, idGenerator func() (string, error)) (Invitation, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	inviteID, err := idGenerator()
	if err != nil {
		return Invitation{}, fmt.Errorf("generate invitation id: %w", err)
	}

	createdAt := now().UTC()
	return Invitation{
		ID:        inviteID,
		TeamID:    strings.TrimSpace(input.TeamID),
		SendBy:    strings.TrimSpace(input.SendBy),
		SendTo:    strings.TrimSpace(input.SendTo),
		Roles:     member.MergeRoles(nil, input.Roles),
		Status:    StatusSent,
		Grant:     input.Grant,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// StatusLabel returns the string label for an invitation status.
func StatusLabel(status Status) string {
	switch status {
	case StatusSent:
		return "SENT"
	case StatusAccepted:
		return "ACCEPTED"
	case StatusRejected:
		return "REJECTED"
	case StatusWithdrawn:
		return "WITHDRAWN"
	case StatusExpired:
		return "EXPIRED"
	default:
		return "UNSPECIFIED"
	}
}

// StatusFromLabel converts a status label to a Status value.
func StatusFromLabel(label string) Status {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "SENT":
		return StatusSent
	case "ACCEPTED":
		return StatusAccepted
	case "REJECTED":
		return StatusRejected
	case "WITHDRAWN":
		return StatusWithdrawn
	case "EXPIRED":
		return StatusExpired
	default:
		return StatusUnspecified
	}
}
