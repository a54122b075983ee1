package app

import "errors"

var (
	// ErrInvalidCredentials is shown to end users and must not enable
	// account enumeration.
	ErrInvalidCredentials = errors.New("incorrect email/name or password")

	ErrFieldsRequired     = errors.New("fullName, email and password are required")
	ErrEmailAlreadyExists = errors.New("an account with this email already exists")
	ErrEmailRequired      = errors.New("email required")

	ErrNotFound = errors.New("not found")

	ErrMessageRequired = errors.New("message required")
	ErrAIUnavailable   = errors.New("AI service unavailable")

	ErrAlreadyVerified = errors.New("account already verified")

	ErrUploadTooLarge       = errors.New("file exceeds the upload size limit")
	ErrStorageNotConfigured = errors.New("file storage is not configured")
)
