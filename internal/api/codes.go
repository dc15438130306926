package api

//go:generate go tool oapi-codegen -config config.yaml openapi.yaml

// Stable values of ErrorResponse.Code.
const (
	CodeValidation    = "validation_error"
	CodeSignupFailed  = "signup_failed"
	CodeNotFound      = "not_found"
	CodeAlreadyActive = "already_active"
	CodeCodeExpired   = "code_expired"
	CodeCodeMismatch  = "code_mismatch"
	CodeUnauthorized  = "unauthorized"
	CodeInternal      = "internal_error"
)
