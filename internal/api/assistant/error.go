package assistant

import "ZeroConfigAssistant/pkg/response"

var (
	ErrUnauthorized   = response.NewError(401, "Unauthorized")
	ErrAuthentication = response.NewError(401, "Authentication Error")
	ErrForbidden      = response.NewError(403, "Forbidden")

	ErrMissingCommand = response.NewError(400, "Missing command parameter")
	ErrMissingPrompt  = response.NewError(400, "Missing prompt parameter")
	ErrBadContentType = response.NewError(400, "Content-Type must be application/json")
	ErrEmptyBody      = response.NewError(400, "Empty request body")
	ErrInvalidJSON    = response.NewError(400, "Invalid JSON")

	ErrNotFound        = response.NewError(404, "Not Found")
	ErrTooManyRequests = response.NewError(429, "Too many requests")
)
