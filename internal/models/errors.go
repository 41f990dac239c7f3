package models

import (
	"errors"
)

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrUserNotFound       = errors.New("models: user not found")
	ErrWorkerNotFound     = errors.New("worker not found")
)

var (
	ErrRepairRequestNotFound = errors.New("repair request not found")
	ErrResponseNotFound      = errors.New("response not found")
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrListNotFound          = errors.New("list not found")

	ErrForbidden        = errors.New("forbidden")
	ErrAlreadyResponded = errors.New("already responded to this request")
	ErrAlreadyInList    = errors.New("request already in this list")
	ErrItemNotInList    = errors.New("item not found in list")

	ErrMissingFields      = errors.New("required fields are missing")
	ErrUnknownDeviceType  = errors.New("unknown device type")
	ErrUnknownListName    = errors.New("unknown list name")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrOwnRequestResponse = errors.New("cannot respond to own request")

	ErrRequestNotCompleted = errors.New("repair request is not completed")
	ErrNoAcceptedResponse  = errors.New("no accepted response for this request")
	ErrInvalidTransition   = errors.New("invalid status transition")

	// ErrRequestConflict is returned to the loser of a concurrent accept
	// race; the request is no longer eligible for the transition.
	ErrRequestConflict = errors.New("repair request status changed concurrently")
)
