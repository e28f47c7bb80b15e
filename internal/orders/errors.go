package orders

import "errors"

var (
	// ErrUserNotFound means the user service answered 404 for the order's
	// user; the order was not persisted.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserServiceUnavailable means the existence check never got an
	// answer: the user service was unreachable, errored, or timed out. The
	// order was not persisted either.
	ErrUserServiceUnavailable = errors.New("user service unavailable")
)
