package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidCredentials  = errors.New("INVALID_CREDENTIALS")
	ErrAccountInactive     = errors.New("ACCOUNT_INACTIVE")
	ErrEmailTaken          = errors.New("EMAIL_TAKEN")
	ErrInvalidToken        = errors.New("INVALID_TOKEN")
	ErrForbidden           = errors.New("FORBIDDEN")
	ErrRequestNotFound     = errors.New("REQUEST_NOT_FOUND")
	ErrProductNotFound     = errors.New("PRODUCT_NOT_FOUND")
	ErrInvalidAction       = errors.New("INVALID_ACTION")
	ErrAlreadyReviewed     = errors.New("ALREADY_REVIEWED")
	ErrInvalidImageCount   = errors.New("INVALID_IMAGE_COUNT")
	ErrInvalidPrice        = errors.New("INVALID_PRICE")
	ErrContactDetailNeeded = errors.New("CONTACT_DETAIL_REQUIRED")
	ErrInvalidContact      = errors.New("INVALID_CONTACT_METHOD")
	ErrInvalidGrade        = errors.New("INVALID_GRADE")
	ErrInvalidType         = errors.New("INVALID_TYPE")
)
