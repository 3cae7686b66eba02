package services

import "errors"

// Sentinels shared across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed      = errors.New("generated output failed validation")
	ErrNotEnoughParticipants = errors.New("not enough participants")
	ErrRosterEmpty           = errors.New("division has no participants")
	ErrNoVenueConfigured     = errors.New("division has no venue settings")
	ErrPoolsNotComplete      = errors.New("pool play is not complete")
	ErrMatchAlreadyComplete  = errors.New("match already has a recorded result")
	ErrMatchSidesNotSet      = errors.New("match sides are not resolved yet")
	ErrWinnerNotInMatch      = errors.New("winner is not a side of this match")
	ErrPasswordTooShort      = errors.New("password is too short")

	// Concurrency
	ErrGenerationInProgress = errors.New("generation already in progress for this division")

	// Authentication
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email address is already in use")

	// Entity-specific lookups
	ErrDivisionNotFound    = errors.New("division not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrUserNotFound        = errors.New("user not found")
)
