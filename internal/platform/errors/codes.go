// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Team name validation
	CodeTeamNameInvalid   Code = "INVALID_TEAM_NAME"
	CodeTeamNameTooShort  Code = "INVALID_TEAM_NAME_LENGTH"
	CodeTeamNameBadFormat Code = "INVALID_TEAM_NAME_FORMAT"
	CodeTeamNameDuplicate Code = "DUPLICATE_TEAM_NAME"

	// Game name validation
	CodeGameNameInvalid  Code = "INVALID_GAME_NAME"
	CodeGameNameTooShort Code = "INVALID_GAME_NAME_LENGTH"

	// Owner and description validation
	CodeOwnerIDInvalid         Code = "INVALID_OWNER_ID"
	CodeTeamDescriptionInvalid Code = "INVALID_TEAM_DESCRIPTION"

	// Team creation
	CodeTeamCreationFailed  Code = "TEAM_CREATION_FAILED"
	CodeTeamCreationSuccess Code = "TEAM_CREATION_SUCCESS"

	// Team updating
	CodeTeamUpdateFailed  Code = "TEAM_UPDATING_FAILED"
	CodeTeamUpdateSuccess Code = "TEAM_UPDATING_SUCCESS"
	CodeNoFieldsToUpdate  Code = "NO_FIELDS_TO_UPDATE"

	// Team deletion
	CodeTeamDeletionSuccess    Code = "TEAM_DELETION_SUCCESS"
	CodeTeamDeletionFailed     Code = "TEAM_DELETION_FAILED"
	CodeTeamDeleteAccessDenied Code = "TEAM_DELETE_ACCESS_DENIED"
	CodeTeamIDMissing          Code = "TEAM_ID_MISSING"
	CodeDeleterIDMissing       Code = "DELETER_ID_MISSING"
	CodeDeleterIDInvalid       Code = "DELETER_ID_INVALID"
	CodeDeletionReasonMissing  Code = "REASON_MISSING"

	// Invitation validation
	CodeTeamIDInvalid     Code = "INVALID_TEAM_ID"
	CodeSenderIDInvalid   Code = "INVALID_SENDER_ID"
	CodeReceiverIDInvalid Code = "INVALID_RECEIVER_ID"
	CodeRoleInvalid       Code = "INVALID_ROLE"
	CodeExpirationInvalid Code = "INVALID_EXPIRATION"

	// Invitation lifecycle
	CodeInvitationSent           Code = "INVITATION_SENT"
	CodeInvitationFailed         Code = "INVITATION_FAILED"
	CodeInvitationDuplicate      Code = "DUPLICATE_INVITATION"
	CodeInvitationsFetched       Code = "INVITATIONS_FETCHED"
	CodeInvitationsFetchFailed   Code = "INVITATIONS_FETCHING_FAILED"
	CodeInvitedUserIDMissing     Code = "INVITED_USER_ID_MISSING"
	CodeInvitationIDMissing      Code = "INVITATION_ID_MISSING"
	CodeInvitationNotFound       Code = "INVITATION_NOT_FOUND"
	CodeInvitationExpired        Code = "INVITATION_EXPIRED"
	CodeInvitationAccepted       Code = "INVITATION_ACCEPTED"
	CodeInvitationWithdrawn      Code = "INVITATION_WITHDRAWN"
	CodeInvitationRejected       Code = "INVITATION_REJECTED"
	CodeInvitationRejectFailed   Code = "INVITATION_FAILED_TO_REJECT"
	CodeInvitationAcceptFailed   Code = "INVITATION_FAILED_TO_ACCEPT"
	CodeInvitationWithdrawFailed Code = "INVITATION_FAILED_TO_WITHDRAW"

	CodeRejectorIDMissing    Code = "REJECTOR_ID_MISSING"
	CodeRejectorMismatch     Code = "OTHER_USER_TRYING_TO_REJECT"
	CodeAccepterMismatch     Code = "OTHER_USER_TRYING_TO_ACCEPT"
	CodeWithdrawAccessDenied Code = "INVITATION_WITHDRAW_ACCESS_DENIED"

	// User removal
	CodeRemoverIDMissing       Code = "REMOVER_ID_MISSING"
	CodeRemoveTargetIDMissing  Code = "USER_TO_REMOVE_ID_MISSING"
	CodeRemoveTargetNotInTeam  Code = "USER_TO_REMOVE_NOT_IN_TEAM"
	CodeUserRemovedSuccess     Code = "USER_REMOVED_SUCCESS"
	CodeUserRemovedFailed      Code = "USER_REMOVED_FAILED"
	CodeCannotRemoveTeamOwner  Code = "CANT_REMOVE_TEAM_OWNER"
	CodeRemoveUserAccessDenied Code = "REMOVE_USER_ACCESS_DENIED"

	// Ownership transfer
	CodeCurrentOwnerIDMissing    Code = "CURRENT_OWNER_ID_MISSING"
	CodeNewOwnerIDMissing        Code = "NEW_OWNER_ID_MISSING"
	CodeCurrentOwnerIDInvalid    Code = "CURRENT_OWNER_ID_INVALID"
	CodeNewOwnerIDInvalid        Code = "NEW_OWNER_ID_INVALID"
	CodeNewOwnerNotInTeam        Code = "NEW_OWNER_SHOULD_BE_IN_TEAM"
	CodeTransferRequiresOwner    Code = "USER_SHOULD_BE_OWNER_TO_TRANSFER_OWNERSHIP"
	CodeOwnershipTransferSuccess Code = "OWNERSHIP_TRANSFER_SUCCESS"
	CodeOwnershipTransferFailed  Code = "OWNERSHIP_TRANSFER_FAILED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeTeamNameInvalid,
		CodeTeamNameTooShort,
		CodeTeamNameBadFormat,
		CodeGameNameInvalid,
		CodeGameNameTooShort,
		CodeOwnerIDInvalid,
		CodeTeamDescriptionInvalid,
		CodeNoFieldsToUpdate,
		CodeTeamIDMissing,
		CodeDeleterIDMissing,
		CodeDeleterIDInvalid,
		CodeDeletionReasonMissing,
		CodeTeamIDInvalid,
		CodeSenderIDInvalid,
		CodeReceiverIDInvalid,
		CodeRoleInvalid,
		CodeExpirationInvalid,
		CodeInvitationIDMissing,
		CodeInvitedUserIDMissing,
		CodeRejectorIDMissing,
		CodeRemoverIDMissing,
		CodeRemoveTargetIDMissing,
		CodeCurrentOwnerIDMissing,
		CodeNewOwnerIDMissing,
		CodeCurrentOwnerIDInvalid,
		CodeNewOwnerIDInvalid:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeInvitationExpired,
		CodeRemoveTargetNotInTeam,
		CodeNewOwnerNotInTeam:
		return codes.FailedPrecondition

	// PermissionDenied - caller lacks the required role
	case CodeRejectorMismatch,
		CodeAccepterMismatch,
		CodeWithdrawAccessDenied,
		CodeCannotRemoveTeamOwner,
		CodeRemoveUserAccessDenied,
		CodeTransferRequiresOwner,
		CodeTeamDeleteAccessDenied:
		return codes.PermissionDenied

	// NotFound - resource doesn't exist
	case CodeNotFound,
		CodeInvitationNotFound:
		return codes.NotFound

	// AlreadyExists - unique resource constraint
	case CodeTeamNameDuplicate,
		CodeInvitationDuplicate:
		return codes.AlreadyExists

	default:
		return codes.Internal
	}
}
