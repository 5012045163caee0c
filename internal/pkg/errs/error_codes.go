/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
and in responses sent to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON is malformed.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained trailing content after valid JSON.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate exceeded the configured limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Channel and Message Business Logic Errors
const (
	// ErrChannelNameInvalid indicates that the supplied channel name is not acceptable.
	ErrChannelNameInvalid = 2101

	// ErrChannelExists indicates that a channel with the requested name already exists.
	ErrChannelExists = 2102

	// ErrChannelNotFound indicates that the referenced channel does not exist.
	ErrChannelNotFound = 2103

	// ErrMessageNotFound indicates that the referenced message does not exist.
	ErrMessageNotFound = 2201

	// ErrMessageContentInvalid indicates empty or over-long message content.
	ErrMessageContentInvalid = 2202

	// ErrNotMessageSender indicates a delete attempt by someone who is neither
	// the sender nor an admin.
	ErrNotMessageSender = 2203
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrUnauthorized indicates a missing or invalid bearer token.
	ErrUnauthorized = 3001

	// ErrAdminRequired indicates that the operation requires the admin role.
	ErrAdminRequired = 3002

	// ErrInvalidCredentials indicates an incorrect username or password at login.
	ErrInvalidCredentials = 3003

	// ErrInvalidUsername indicates that the username failed format validation.
	ErrInvalidUsername = 3004

	// ErrInvalidPassword indicates that the password failed length validation.
	ErrInvalidPassword = 3005

	// ErrUserAlreadyExists indicates that the requested username is taken.
	ErrUserAlreadyExists = 3006

	// ErrUserNotFound indicates that the referenced user does not exist.
	ErrUserNotFound = 3007

	// ErrRoleInvalid indicates an unrecognized role value in a role assignment.
	ErrRoleInvalid = 3008

	// ErrSelfDirectMessage indicates an attempt to open a DM conversation with oneself.
	ErrSelfDirectMessage = 3009
)

// 4xxx: Summarization Errors
const (
	// ErrSummaryFailed indicates that the upstream completion call failed.
	ErrSummaryFailed = 4001
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified internal server error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates a failure talking to the object storage service.
	ErrFileStorageFailed = 5001

	// ErrFileSizeTooLarge indicates an avatar upload above the size limit.
	ErrFileSizeTooLarge = 5002

	// ErrFileTypeInvalid indicates an avatar upload with a disallowed file type.
	ErrFileTypeInvalid = 5003
)
