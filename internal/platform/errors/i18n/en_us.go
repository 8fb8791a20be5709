package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeTeamNameInvalid          = "INVALID_TEAM_NAME"
	CodeTeamNameTooShort         = "INVALID_TEAM_NAME_LENGTH"
	CodeTeamNameBadFormat        = "INVALID_TEAM_NAME_FORMAT"
	CodeTeamNameDuplicate        = "DUPLICATE_TEAM_NAME"
	CodeGameNameInvalid          = "INVALID_GAME_NAME"
	CodeGameNameTooShort         = "INVALID_GAME_NAME_LENGTH"
	CodeOwnerIDInvalid           = "INVALID_OWNER_ID"
	CodeTeamDescriptionInvalid   = "INVALID_TEAM_DESCRIPTION"
	CodeTeamCreationFailed       = "TEAM_CREATION_FAILED"
	CodeTeamCreationSuccess      = "TEAM_CREATION_SUCCESS"
	CodeTeamUpdateFailed         = "TEAM_UPDATING_FAILED"
	CodeTeamUpdateSuccess        = "TEAM_UPDATING_SUCCESS"
	CodeNoFieldsToUpdate         = "NO_FIELDS_TO_UPDATE"
	CodeTeamDeletionSuccess      = "TEAM_DELETION_SUCCESS"
	CodeTeamDeletionFailed       = "TEAM_DELETION_FAILED"
	CodeTeamDeleteAccessDenied   = "TEAM_DELETE_ACCESS_DENIED"
	CodeTeamIDMissing            = "TEAM_ID_MISSING"
	CodeDeleterIDMissing         = "DELETER_ID_MISSING"
	CodeDeleterIDInvalid         = "DELETER_ID_INVALID"
	CodeDeletionReasonMissing    = "REASON_MISSING"
	CodeTeamIDInvalid            = "INVALID_TEAM_ID"
	CodeSenderIDInvalid          = "INVALID_SENDER_ID"
	CodeReceiverIDInvalid        = "INVALID_RECEIVER_ID"
	CodeRoleInvalid              = "INVALID_ROLE"
	CodeExpirationInvalid        = "INVALID_EXPIRATION"
	CodeInvitationSent           = "INVITATION_SENT"
	CodeInvitationFailed         = "INVITATION_FAILED"
	CodeInvitationDuplicate      = "DUPLICATE_INVITATION"
	CodeInvitationsFetched       = "INVITATIONS_FETCHED"
	CodeInvitationsFetchFailed   = "INVITATIONS_FETCHING_FAILED"
	CodeInvitedUserIDMissing     = "INVITED_USER_ID_MISSING"
	CodeInvitationIDMissing      = "INVITATION_ID_MISSING"
	CodeInvitationNotFound       = "INVITATION_NOT_FOUND"
	CodeInvitationExpired        = "INVITATION_EXPIRED"
	CodeInvitationAccepted       = "INVITATION_ACCEPTED"
	CodeInvitationWithdrawn      = "INVITATION_WITHDRAWN"
	CodeInvitationRejected       = "INVITATION_REJECTED"
	CodeInvitationRejectFailed   = "INVITATION_FAILED_TO_REJECT"
	CodeInvitationAcceptFailed   = "INVITATION_FAILED_TO_ACCEPT"
	CodeInvitationWithdrawFailed = "INVITATION_FAILED_TO_WITHDRAW"
	CodeRejectorIDMissing        = "REJECTOR_ID_MISSING"
	CodeRejectorMismatch         = "OTHER_USER_TRYING_TO_REJECT"
	CodeAccepterMismatch         = "OTHER_USER_TRYING_TO_ACCEPT"
	CodeWithdrawAccessDenied     = "INVITATION_WITHDRAW_ACCESS_DENIED"
	CodeRemoverIDMissing         = "REMOVER_ID_MISSING"
	CodeRemoveTargetIDMissing    = "USER_TO_REMOVE_ID_MISSING"
	CodeRemoveTargetNotInTeam    = "USER_TO_REMOVE_NOT_IN_TEAM"
	CodeUserRemovedSuccess       = "USER_REMOVED_SUCCESS"
	CodeUserRemovedFailed        = "USER_REMOVED_FAILED"
	CodeCannotRemoveTeamOwner    = "CANT_REMOVE_TEAM_OWNER"
	CodeRemoveUserAccessDenied   = "REMOVE_USER_ACCESS_DENIED"
	CodeCurrentOwnerIDMissing    = "CURRENT_OWNER_ID_MISSING"
	CodeNewOwnerIDMissing        = "NEW_OWNER_ID_MISSING"
	CodeCurrentOwnerIDInvalid    = "CURRENT_OWNER_ID_INVALID"
	CodeNewOwnerIDInvalid        = "NEW_OWNER_ID_INVALID"
	CodeNewOwnerNotInTeam        = "NEW_OWNER_SHOULD_BE_IN_TEAM"
	CodeTransferRequiresOwner    = "USER_SHOULD_BE_OWNER_TO_TRANSFER_OWNERSHIP"
	CodeOwnershipTransferSuccess = "OWNERSHIP_TRANSFER_SUCCESS"
	CodeOwnershipTransferFailed  = "OWNERSHIP_TRANSFER_FAILED"
	CodeNotFound                 = "NOT_FOUND"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Team name validation
		CodeTeamNameInvalid:   "Invalid team name provided",
		CodeTeamNameTooShort:  "Team name must be at least {{.MinLength}} characters long",
		CodeTeamNameBadFormat: "Team name format is incorrect",
		CodeTeamNameDuplicate: "Team name is already taken",

		// Game name validation
		CodeGameNameInvalid:  "Invalid game name provided",
		CodeGameNameTooShort: "Game name must be at least {{.MinLength}} characters long",

		// Owner and description validation
		CodeOwnerIDInvalid:         "Invalid owner ID provided",
		CodeTeamDescriptionInvalid: "Invalid team description provided",

		// Team creation
		CodeTeamCreationFailed:  "Team creation failed",
		CodeTeamCreationSuccess: "Team has been created successfully",

		// Team updating
		CodeTeamUpdateFailed:  "Team updating failed",
		CodeTeamUpdateSuccess: "Team has been updated successfully",
		CodeNoFieldsToUpdate:  "No fields to update",

		// Team deletion
		CodeTeamDeletionSuccess:    "Team has been deleted successfully",
		CodeTeamDeletionFailed:     "Team deletion failed",
		CodeTeamDeleteAccessDenied: "Access denied to delete the team",
		CodeTeamIDMissing:          "Team ID is missing",
		CodeDeleterIDMissing:       "Deleter ID is missing",
		CodeDeleterIDInvalid:       "Invalid deleter ID provided",
		CodeDeletionReasonMissing:  "Reason for deletion is missing",

		// Invitation validation
		CodeTeamIDInvalid:     "Invalid team ID provided",
		CodeSenderIDInvalid:   "Invalid sender ID provided",
		CodeReceiverIDInvalid: "Invalid receiver ID provided",
		CodeRoleInvalid:       "Invalid role specified",
		CodeExpirationInvalid: "Invalid expiration date provided",

		// Invitation lifecycle
		CodeInvitationSent:           "Invitation sent successfully",
		CodeInvitationFailed:         "Invitation failed",
		CodeInvitationDuplicate:      "Duplicate invitation exists",
		CodeInvitationsFetched:       "Invitations fetched successfully",
		CodeInvitationsFetchFailed:   "Failed to fetch invitations",
		CodeInvitedUserIDMissing:     "Invited user ID is missing",
		CodeInvitationIDMissing:      "Invitation ID is missing",
		CodeInvitationNotFound:       "Invitation not found",
		CodeInvitationExpired:        "Invitation has expired",
		CodeInvitationAccepted:       "Invitation accepted",
		CodeInvitationWithdrawn:      "Invitation withdrawn",
		CodeInvitationRejected:       "Invitation rejected",
		CodeInvitationRejectFailed:   "Failed to reject invitation",
		CodeInvitationAcceptFailed:   "Failed to accept invitation",
		CodeInvitationWithdrawFailed: "Failed to withdraw invitation",
		CodeRejectorIDMissing:        "Rejector ID is missing",
		CodeRejectorMismatch:         "Other user is trying to reject invitation",
		CodeAccepterMismatch:         "Other user is trying to accept invitation",
		CodeWithdrawAccessDenied:     "Access denied to withdraw invitation",

		// User removal
		CodeRemoverIDMissing:       "Remover ID is missing",
		CodeRemoveTargetIDMissing:  "User to remove ID is missing",
		CodeRemoveTargetNotInTeam:  "User to remove is not in the team",
		CodeUserRemovedSuccess:     "User was successfully removed",
		CodeUserRemovedFailed:      "Failed to remove user from the team",
		CodeCannotRemoveTeamOwner:  "Cannot remove team owner",
		CodeRemoveUserAccessDenied: "Access denied to remove user",

		// Ownership transfer
		CodeCurrentOwnerIDMissing:    "Current owner ID is missing",
		CodeNewOwnerIDMissing:        "New owner ID is missing",
		CodeCurrentOwnerIDInvalid:    "Invalid current owner ID provided",
		CodeNewOwnerIDInvalid:        "Invalid new owner ID provided",
		CodeNewOwnerNotInTeam:        "New owner should be in the team",
		CodeTransferRequiresOwner:    "User should be the owner to transfer ownership",
		CodeOwnershipTransferSuccess: "Ownership transferred successfully",
		CodeOwnershipTransferFailed:  "Failed to transfer ownership",

		// Storage errors
		CodeNotFound: "The requested resource was not found",
	},
}
