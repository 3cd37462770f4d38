package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned by membership adds when the relation
	// is already present (favorite, cart entry, subscription).
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotInList is returned by membership removes when the relation
	// is absent.
	ErrNotInList = errors.New("not in list")
	// ErrSelfSubscription is returned on any attempt to subscribe to
	// oneself, regardless of prior state.
	ErrSelfSubscription = errors.New("cannot subscribe to yourself")
	// ErrNotOwner is returned when a user mutates a recipe they do not own.
	ErrNotOwner = errors.New("not the recipe owner")
	// ErrEmptyCart is returned by the shopping list export when the cart
	// has no entries.
	ErrEmptyCart = errors.New("shopping cart is empty")
	// ErrNoSubscriptions is returned when listing subscriptions for a
	// user who follows nobody.
	ErrNoSubscriptions = errors.New("no subscriptions")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user with this email or username already exists")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSamePassword       = errors.New("new password must differ from the current one")
)

// ValidationError is a field-level recipe validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
