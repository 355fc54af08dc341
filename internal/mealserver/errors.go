package mealserver

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cory-johannsen/mealmax/internal/battle"
	"github.com/cory-johannsen/mealmax/internal/meal"
	"github.com/cory-johannsen/mealmax/internal/random"
)

// Code maps a domain error to its gRPC status code.
//
// Postcondition: Returns codes.OK for nil and codes.Internal for anything unrecognised.
func Code(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, meal.ErrInvalidArgument):
		return codes.InvalidArgument
	case errors.Is(err, meal.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, meal.ErrAlreadyExists):
		return codes.AlreadyExists
	case errors.Is(err, meal.ErrAlreadyDeleted),
		errors.Is(err, battle.ErrFull),
		errors.Is(err, battle.ErrInsufficientCombatants):
		return codes.FailedPrecondition
	case errors.Is(err, random.ErrUnavailable):
		return codes.Unavailable
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	}
	return codes.Internal
}

// toStatus converts err into a gRPC status error carrying the domain message.
// Internal errors keep their message out of the response.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	code := Code(err)
	if code == codes.Internal {
		return status.Error(code, "internal error")
	}
	return status.Error(code, err.Error())
}
