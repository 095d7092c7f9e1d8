package booking

import (
	"errors"

	bookingRepo "petmily/database/repository/booking"
	"petmily/services/walk"
)

// The booking lifecycle shares the walk engine's error vocabulary so the API
// layer maps both halves of the state machine the same way.

func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrNotFound):
		return walk.NewNotFound("booking not found")
	case errors.Is(err, bookingRepo.ErrConflict):
		return walk.NewConflict("booking was changed concurrently, retry")
	}
	return err
}
