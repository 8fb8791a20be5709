package errors

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIsMatchesByCode(t *testing.T) {
	err := New(CodeInvitationNotFound, "invite missing")
	target := New(CodeInvitationNotFound, "other message")
	if !errors.Is(err, target) {
		t.Fatal("expected errors with the same code to match")
	}
	if errors.Is(err, New(CodeInvitationExpired, "expired")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := Wrap(CodeTeamCreationFailed, "create team", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause in chain")
	}
	if got := GetCode(err); got != CodeTeamCreationFailed {
		t.Fatalf("GetCode = %q, want %q", got, CodeTeamCreationFailed)
	}
}

func TestGetCodeUnknownForPlainErrors(t *testing.T) {
	if got := GetCode(fmt.Errorf("boom")); got != CodeUnknown {
		t.Fatalf("GetCode = %q, want %q", got, CodeUnknown)
	}
	if IsCode(fmt.Errorf("boom"), CodeNotFound) {
		t.Fatal("IsCode should not match plain errors")
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeTeamNameTooShort, codes.InvalidArgument},
		{CodeReceiverIDInvalid, codes.InvalidArgument},
		{CodeInvitationExpired, codes.FailedPrecondition},
		{CodeNewOwnerNotInTeam, codes.FailedPrecondition},
		{CodeTransferRequiresOwner, codes.PermissionDenied},
		{CodeCannotRemoveTeamOwner, codes.PermissionDenied},
		{CodeInvitationNotFound, codes.NotFound},
		{CodeTeamNameDuplicate, codes.AlreadyExists},
		{CodeInvitationDuplicate, codes.AlreadyExists},
		{CodeTeamCreationFailed, codes.Internal},
		{CodeUnknown, codes.Internal},
	}
	for _, tc := range tests {
		if got := tc.code.GRPCCode(); got != tc.want {
			t.Fatalf("%s GRPCCode = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestHandleErrorTranslatesDomainErrors(t *testing.T) {
	err := HandleError(New(CodeInvitationExpired, "invite expired"), "")
	st, ok := status.FromError(err)
	if !ok {
		t.Fatal("expected gRPC status error")
	}
	if st.Code() != codes.FailedPrecondition {
		t.Fatalf("status code = %v, want %v", st.Code(), codes.FailedPrecondition)
	}
	if st.Message() != "invite expired" {
		t.Fatalf("status message = %q, want %q", st.Message(), "invite expired")
	}
}

func TestHandleErrorHidesUnknownErrors(t *testing.T) {
	err := HandleError(fmt.Errorf("sql: connection refused"), "en-US")
	st, ok := status.FromError(err)
	if !ok {
		t.Fatal("expected gRPC status error")
	}
	if st.Code() != codes.Internal {
		t.Fatalf("status code = %v, want %v", st.Code(), codes.Internal)
	}
	if st.Message() == "sql: connection refused" {
		t.Fatal("internal error detail should not leak to clients")
	}
}

func TestHandleErrorNil(t *testing.T) {
	if HandleError(nil, "en-US") != nil {
		t.Fatal("expected nil for nil error")
	}
}
