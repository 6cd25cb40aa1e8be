package service

import "errors"

var (
	ErrMissingFields      = errors.New("required fields are missing")
	ErrDuplicateAffiliate = errors.New("national id already registered")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnknownCredential  = errors.New("credential no longer exists")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrFileWrite          = errors.New("photo could not be stored")
)
