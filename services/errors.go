package services

import "errors"

// Shared errors used across services and the HTTP mapping layer.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business-rule errors
	ErrValidationFailed                = errors.New("validation failed")
	ErrTournamentGameNameRequired      = errors.New("gameName is required")
	ErrTournamentDateTimeRequired      = errors.New("dateTime is required")
	ErrTournamentPrizeRequired         = errors.New("prize is required")
	ErrTournamentInvalidCapacity       = errors.New("numberOfPlayers must be a positive integer")
	ErrTournamentCapacityBelowRoster   = errors.New("numberOfPlayers cannot be lower than the current roster size")
	ErrTournamentInvalidStatus         = errors.New("invalid tournament status")
	ErrTournamentInvalidFee            = errors.New("registrationFee must not be negative")
	ErrParticipantFullNameRequired     = errors.New("fullName is required")
	ErrParticipantEmailRequired        = errors.New("email is required")
	ErrParticipantGamerTagRequired     = errors.New("gamerTag or teamName is required")
	ErrParticipantIDRequired           = errors.New("participantId is required")
	ErrParticipantStatusRequired       = errors.New("status is required")
	ErrParticipantInvalidStatus        = errors.New("invalid participant status")

	// Registration outcomes
	ErrTournamentFull        = errors.New("tournament is already full")
	ErrDuplicateRegistration = errors.New("this email is already registered for the tournament")

	// Entity-specific not-found errors
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrUserNotFound        = errors.New("user not found")

	// Authentication
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
)
