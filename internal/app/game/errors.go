package game

import (
	"errors"
	"fmt"

	"farmtycoon/internal/domain/grid"
)

var (
	ErrInvalidRequest    = errors.New("invalid farm request")
	ErrInvalidPlacement  = errors.New("invalid placement")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnknownEntity     = errors.New("unknown entity")
)

type PlacementError struct {
	Cell   grid.Cell
	Reason string
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("%s at (%d,%d): %s", ErrInvalidPlacement, e.Cell.X, e.Cell.Y, e.Reason)
}

func (e *PlacementError) Unwrap() error {
	return ErrInvalidPlacement
}
