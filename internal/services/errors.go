package services

import (
	"net/http"

	apperrors "github.com/uniworkhq/uniwork/pkg/errors"
)

// Structured domain errors returned by the services in this package. Handlers
// render them verbatim, so messages stay short and specific.
var (
	// ErrWorkspaceNotFound indicates the requested workspace does not exist.
	ErrWorkspaceNotFound = apperrors.New("WORKSPACE_NOT_FOUND", "Workspace not found", http.StatusNotFound)
	// ErrNotAMember indicates the acting user does not belong to the workspace.
	ErrNotAMember = apperrors.New("NOT_A_MEMBER", "You are not a member of this workspace", http.StatusForbidden)
	// ErrInsufficientPermission indicates the acting member's role is not granted the action.
	ErrInsufficientPermission = apperrors.New("INSUFFICIENT_PERMISSIONS", "Insufficient permissions", http.StatusForbidden)

	// ErrInvitationInvalid covers unknown tokens and invitations already in a terminal state.
	ErrInvitationInvalid = apperrors.New("INVITATION_INVALID", "Invitation is invalid or expired", http.StatusBadRequest)
	// ErrInvitationExpired indicates the invitation lapsed before it was redeemed.
	ErrInvitationExpired = apperrors.New("INVITATION_EXPIRED", "Invitation expired", http.StatusBadRequest)
	// ErrAlreadyMember indicates the invited email already belongs to a workspace member.
	ErrAlreadyMember = apperrors.New("ALREADY_A_MEMBER", "User is already a member of this workspace", http.StatusBadRequest)
	// ErrInvalidRole indicates a role outside the fixed hierarchy was supplied.
	ErrInvalidRole = apperrors.New("INVALID_ROLE", "Unknown workspace role", http.StatusBadRequest)

	// ErrOwnerImmutable guards the workspace owner from removal and demotion.
	ErrOwnerImmutable = apperrors.New("OWNER_IMMUTABLE", "The workspace owner cannot be removed or demoted", http.StatusBadRequest)
	// ErrMemberNotFound indicates the target user is not a member of the workspace.
	ErrMemberNotFound = apperrors.New("MEMBER_NOT_FOUND", "Member not found in this workspace", http.StatusNotFound)

	// ErrNoDriveCredential indicates no usable external credential exists for the
	// user/provider pair; the caller should prompt the user to (re)link the drive.
	ErrNoDriveCredential = apperrors.New("NO_DRIVE_CREDENTIAL", "No usable drive credential; please reconnect the provider", http.StatusBadRequest)
	// ErrUnknownProvider indicates a drive provider outside the supported set.
	ErrUnknownProvider = apperrors.New("UNKNOWN_PROVIDER", "Unsupported drive provider", http.StatusBadRequest)

	// ErrEmailTaken indicates a registration attempt with an email already in use.
	ErrEmailTaken = apperrors.New("EMAIL_TAKEN", "An account with this email already exists", http.StatusBadRequest)
)
