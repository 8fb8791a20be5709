// Package team provides the team entity and its validation rules.
// An organization is the same entity stored in a separate collection.
package team

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/squadhq/squadron/internal/platform/errors"
	"github.com/squadhq/squadron/internal/platform/id"
)

const (
	// MinNameLength is the minimum number of characters in a team name.
	MinNameLength = 4
	// MinGameLength is the minimum number of characters in a game name.
	MinGameLength = 2
)

// Status represents the visibility of a team.
type Status int

const (
	// StatusUnspecified represents an invalid team status.
	StatusUnspecified Status = iota
	// StatusPublic indicates a team visible to everyone.
	StatusPublic
	// StatusPrivate indicates a team visible to its members only.
	StatusPrivate
)

// Team represents a group of users playing together.
type Team struct {
	ID                string
	Name              string
	Game              string
	Description       string
	OwnerID           string
	Status            Status
	ProfilePictureURL string
	BannerPictureURL  string
	Members           []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CreateTeamInput describes the metadata needed to create a team.
type CreateTeamInput struct {
	Name              string
	Game              string
	Description       string
	OwnerID           string
	ProfilePictureURL string
	BannerPictureURL  string
}

// ValidateName checks the team name length requirement.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" || len(strings.TrimSpace(name)) < MinNameLength {
		return apperrors.WithMetadata(
			apperrors.CodeTeamNameInvalid,
			"team name must be at least 4 characters",
			map[string]string{"MinLength": strconv.Itoa(MinNameLength)},
		)
	}
	return nil
}

// ValidateGame checks the game name length requirement.
func ValidateGame(game string) error {
	if strings.TrimSpace(game) == "" || len(strings.TrimSpace(game)) < MinGameLength {
		return apperrors.WithMetadata(
			apperrors.CodeGameNameInvalid,
			"game name must be at least 2 characters",
			map[string]string{"MinLength": strconv.Itoa(MinGameLength)},
		)
	}
	return nil
}

// ValidateDescription checks that a description is present.
func ValidateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return apperrors.New(apperrors.CodeTeamDescriptionInvalid, "team description is required")
	}
	return nil
}

// CreateTeam creates a new team with a generated ID and timestamps.
// New teams start private until the owner publishes them.
func CreateTeam(input CreateTeamInput, now func() time.Time, idGenerator func() (string, error)) (Team, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeCreateTeamInput(input)
	if err != nil {
		return Team{}, err
	}

	teamID, err := idGenerator()
	if err != nil {
		return Team{}, fmt.Errorf("generate team id: %w", err)
	}

	createdAt := now().UTC()
	return Team{
		ID:                teamID,
		Name:              normalized.Name,
		Game:              normalized.Game,
		Description:       normalized.Description,
		OwnerID:           normalized.OwnerID,
		Status:            StatusPrivate,
		ProfilePictureURL: normalized.ProfilePictureURL,
		BannerPictureURL:  normalized.BannerPictureURL,
		CreatedAt:         createdAt,
		UpdatedAt:         createdAt,
	}, nil
}

// NormalizeCreateTeamInput trims and validates team input metadata.
func NormalizeCreateTeamInput(input CreateTeamInput) (CreateTeamInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := ValidateName(input.Name); err != nil {
		return CreateTeamInput{}, err
	}
	input.Game = strings.TrimSpace(input.Game)
	if err := ValidateGame(input.Game); err != nil {
		return CreateTeamInput{}, err
	}
	input.Description = strings.TrimSpace(input.Description)
	if err := ValidateDescription(input.Description); err != nil {
		return CreateTeamInput{}, err
	}
	input.OwnerID = strings.TrimSpace(input.OwnerID)
	if input.OwnerID == "" {
		return CreateTeamInput{}, apperrors.New(apperrors.CodeOwnerIDInvalid, "owner id is required")
	}
	input.ProfilePictureURL = strings.TrimSpace(input.ProfilePictureURL)
	input.BannerPictureURL = strings.TrimSpace(input.BannerPictureURL)
	return input, nil
}

// StatusLabel returns the string label for a team status.
func StatusLabel(status Status) string {
	switch status {
	case StatusPublic:
		return "PUBLIC"
	case StatusPrivate:
		return "PRIVATE"
	default:
		return "UNSPECIFIED"
	}
}

// StatusFromLabel converts a status label to a Status value.
func StatusFromLabel(label string) Status {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "PUBLIC":
		return StatusPublic
	case "PRIVATE":
		return StatusPrivate
	default:
		return StatusUnspecified
	}
}
