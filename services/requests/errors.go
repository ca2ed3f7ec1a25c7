package requests

import "errors"

var (
	// ErrInvalidTransition is returned when an action is not permitted
	// from the request's current status
	ErrInvalidTransition = errors.New("action not permitted from current request status")

	// ErrNotAuthorized is returned when the caller is not the party
	// permitted to perform the action
	ErrNotAuthorized = errors.New("caller is not authorized to perform this action")

	// ErrAlreadyAccepted is returned when a helper loses the race to
	// accept a pending request
	ErrAlreadyAccepted = errors.New("request was already accepted by another helper")

	// ErrAlreadyRated is returned when a rating already exists on the request
	ErrAlreadyRated = errors.New("request has already been rated")

	// ErrMissingPrice is returned when acceptance is attempted without a
	// positive price
	ErrMissingPrice = errors.New("a positive price is required to accept a request")

	// ErrRequestNotFound is returned when the request does not exist
	ErrRequestNotFound = errors.New("request not found")

	// ErrUnknownService is returned when the requested service type is not
	// one of the offered services
	ErrUnknownService = errors.New("unknown service type")

	// ErrInvalidScore is returned when a rating score falls outside 1 to 5
	ErrInvalidScore = errors.New("rating score must be between 1 and 5")

	// ErrStorageUnavailable is returned on transient storage failures;
	// the operation is safe to retry
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)
