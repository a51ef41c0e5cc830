package services

import (
	"errors"

	"github.com/rohits-web03/zipdrop/internal/archive"
	"github.com/rohits-web03/zipdrop/internal/auth"
)

// Client-facing failures. Anything not matching one of these is an internal fault.
var (
	ErrDuplicateUsername    = errors.New("username is already taken")
	ErrAuthenticationFailed = errors.New("incorrect username or password")
	ErrInvalidToken         = auth.ErrInvalidToken
	ErrAuthorizationDenied  = errors.New("not allowed to access another user's records")
	ErrNotFound             = errors.New("not found")
	ErrMalformedUpload      = archive.ErrMalformed
	ErrInvalidInput         = errors.New("invalid input")
)
