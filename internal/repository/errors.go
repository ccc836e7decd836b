// Package repository holds the user/order store and the sentinel errors
// it reports.  Handlers translate these into HTTP status codes:
// ErrEmailExists and ErrDuplicateOrder become 409, ErrInvalidCredentials
// and ErrNoActiveSession 401, ErrOrderNotFound 404 and the validation
// errors (ErrInvalidEmail among them) 422.
package repository

import "errors"

var (
	// ErrEmailExists is returned when an email is already taken by
	// another user.
	ErrEmailExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned by Login when no user matches
	// both email and password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoActiveSession is returned by operations that act on the
	// active user when nobody is logged in, or when the active key no
	// longer matches any user.
	ErrNoActiveSession = errors.New("no active session")

	// ErrOrderNotFound is returned when the active user has no order
	// with the requested id.
	ErrOrderNotFound = errors.New("order not found")

	// ErrDuplicateOrder is returned when an order id is already present
	// in the active user's orders.
	ErrDuplicateOrder = errors.New("duplicate order id")

	// ErrInvalidStatus is returned for unknown order statuses.
	ErrInvalidStatus = errors.New("invalid order status")

	// ErrInvalidTransition is returned when trying to move a canceled
	// order back to ordered.
	ErrInvalidTransition = errors.New("order status transition not allowed")

	// ErrInvalidRating is returned for ratings outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrInvalidEmail is returned when a user record would be left
	// without an email, which the active session key depends on.
	ErrInvalidEmail = errors.New("email must not be empty")

	// ErrUnknownField is returned by ChangeField for fields that cannot
	// be edited.
	ErrUnknownField = errors.New("unknown user field")
)
