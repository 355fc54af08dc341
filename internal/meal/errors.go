package meal

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for a bad price, difficulty, outcome or sort key.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrNotFound is returned when no record with the requested id or name exists.
var ErrNotFound = errors.New("meal not found")

// ErrAlreadyDeleted is returned when the requested record exists but is soft-deleted.
var ErrAlreadyDeleted = errors.New("meal has been deleted")

// ErrAlreadyExists is returned when an active meal already uses the requested name.
var ErrAlreadyExists = errors.New("meal already exists")

// NotFoundID reports a missing meal id.
func NotFoundID(id int64) error {
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// NotFoundName reports a missing meal name.
func NotFoundName(name string) error {
	return fmt.Errorf("%w: name %q", ErrNotFound, name)
}

// DeletedID reports a soft-deleted meal id.
func DeletedID(id int64) error {
	return fmt.Errorf("%w: id %d", ErrAlreadyDeleted, id)
}

// DeletedName reports a soft-deleted meal name.
func DeletedName(name string) error {
	return fmt.Errorf("%w: name %q", ErrAlreadyDeleted, name)
}

// Exists reports a duplicate active meal name.
func Exists(name string) error {
	return fmt.Errorf("%w: name %q", ErrAlreadyExists, name)
}
