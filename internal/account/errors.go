package account

import "errors"

var (
	// ErrEmailTaken is returned by Register when the email already
	// identifies an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and password
	// mismatch on Authenticate; callers cannot tell which occurred.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrInvalidToken covers both unknown and expired verification or
	// reset tokens; callers cannot tell which occurred.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrNotFound is returned when an account lookup by email or ID
	// resolves to nothing.
	ErrNotFound = errors.New("account not found")

	// ErrUnauthorized is returned by ResolveSession for a missing,
	// malformed, or expired credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDelivery wraps a notification send failure on the paths where
	// delivery is fatal to the operation.
	ErrDelivery = errors.New("notification delivery failed")
)
