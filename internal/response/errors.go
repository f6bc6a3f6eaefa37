package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"
	ErrForbidden     ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Quiz session ──────────────────────────────────────────────────
	ErrSessionConflict   ErrCode = "SESSION_CONFLICT"
	ErrSessionNotActive  ErrCode = "SESSION_NOT_ACTIVE"
	ErrSessionTerminated ErrCode = "SESSION_TERMINATED"
	ErrSnapshotNotFound  ErrCode = "SNAPSHOT_NOT_FOUND"
	ErrInvalidSelection  ErrCode = "INVALID_SELECTION"
	ErrEmptyPool         ErrCode = "EMPTY_POOL"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── AI chat ───────────────────────────────────────────────────────
	ErrChatUnavailable ErrCode = "CHAT_UNAVAILABLE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."
	case ErrForbidden:
		return "You do not have permission to access this resource."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Quiz session ──────────────────────────────────────────────────
	case ErrSessionConflict:
		return "You already have a saved test. Resume it or submit it before starting a new one."
	case ErrSessionNotActive:
		return "No active test session. Start or resume a test first."
	case ErrSessionTerminated:
		return "This test has already been submitted."
	case ErrSnapshotNotFound:
		return "No saved test was found to resume."
	case ErrInvalidSelection:
		return "The selected option is not valid for this question."
	case ErrEmptyPool:
		return "No questions match the selected filters."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The requested resource was not found."
	case ErrConflict:
		return "The resource already exists."

	// ─── AI chat ───────────────────────────────────────────────────────
	case ErrChatUnavailable:
		return "The study assistant is temporarily unavailable. Please try again."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
