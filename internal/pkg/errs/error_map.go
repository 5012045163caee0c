/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to CustomError templates, used to
standardize HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
// A zero Status defaults to HTTP 200 with a non-zero business code, which the
// web client inspects instead of the transport status.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Channel and Message Business Logic Errors
	ErrChannelNameInvalid:    {Code: ErrChannelNameInvalid, Message: "Invalid channel name."},
	ErrChannelExists:         {Code: ErrChannelExists, Message: "A channel with this name already exists."},
	ErrChannelNotFound:       {Code: ErrChannelNotFound, Message: "Channel not found."},
	ErrMessageNotFound:       {Code: ErrMessageNotFound, Message: "Message not found."},
	ErrMessageContentInvalid: {Code: ErrMessageContentInvalid, Message: "Message content is empty or too long."},
	ErrNotMessageSender:      {Code: ErrNotMessageSender, Message: "You can only delete your own messages.", Status: http.StatusForbidden},

	// 3xxx: User, Session, and Security Errors
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrAdminRequired:      {Code: ErrAdminRequired, Message: "This action requires administrator privileges.", Status: http.StatusForbidden},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Incorrect username or password."},
	ErrInvalidUsername:    {Code: ErrInvalidUsername, Message: "Invalid username."},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Invalid password."},
	ErrUserAlreadyExists:  {Code: ErrUserAlreadyExists, Message: "Username is already taken."},
	ErrUserNotFound:       {Code: ErrUserNotFound, Message: "Account not found."},
	ErrRoleInvalid:        {Code: ErrRoleInvalid, Message: "Unknown role."},
	ErrSelfDirectMessage:  {Code: ErrSelfDirectMessage, Message: "You cannot open a conversation with yourself."},

	// 4xxx: Summarization Errors
	ErrSummaryFailed: {Code: ErrSummaryFailed, Message: "Could not generate summary."},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again."},
	ErrFileSizeTooLarge:  {Code: ErrFileSizeTooLarge, Message: "File is too large."},
	ErrFileTypeInvalid:   {Code: ErrFileTypeInvalid, Message: "This file type is not allowed."},
}
