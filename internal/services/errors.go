package services

import "errors"

var (
	ErrMissingFields      = errors.New("required fields are missing")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token is invalid")
	ErrUserNotFound       = errors.New("user not found")

	ErrInvoiceNotFound   = errors.New("invoice not found")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrInvalidInvoice    = errors.New("invalid invoice")
	ErrTextRequired      = errors.New("text is required")
	ErrInvoiceIDRequired = errors.New("invoice id is required")

	ErrStorageDisabled = errors.New("object storage is not configured")
)
