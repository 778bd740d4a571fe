package rental

import (
	"errors"
	"fmt"
)

var (
	// ErrRentalCompleted rejects a return against an already-completed rental.
	ErrRentalCompleted = errors.New("rental is already completed")
	// ErrUnknownReturnType is returned for a return type outside COMPLETE/PARTIAL.
	ErrUnknownReturnType = errors.New("unknown return type")
)

// NextStatus maps a return's declared type to the rental's new lifecycle
// status. COMPLETED is terminal; PARTIAL_RETURN is not — a further return can
// still complete the rental. A partial return on a late rental keeps the late
// marker via LATE_PARTIAL_RETURN.
func NextStatus(current RentalStatus, returnType ReturnType) (RentalStatus, error) {
	if current == StatusCompleted {
		return "", ErrRentalCompleted
	}
	switch returnType {
	case ReturnComplete:
		return StatusCompleted, nil
	case ReturnPartial:
		if current == StatusLate || current == StatusLatePartialReturn {
			return StatusLatePartialReturn, nil
		}
		return StatusPartialReturn, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownReturnType, returnType)
}
