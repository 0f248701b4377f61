package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRequired is returned when submission is attempted while the
	// user is not authenticated. The draft is preserved so the flow can
	// resume after the caller completes authentication.
	ErrAuthRequired = errors.New("authentication required")

	// ErrSubmitInFlight rejects a second submission while one is pending.
	ErrSubmitInFlight = errors.New("submission already in flight")

	// ErrWizardFinished rejects operations after submit or cancel.
	ErrWizardFinished = errors.New("booking flow already finished")

	// ErrSlotUnavailable rejects selecting a slot the oracle reports booked.
	ErrSlotUnavailable = errors.New("time slot is already booked")
)

// ValidationError signals a rejected step transition or field update. The
// wizard stays on its current step; callers re-render and retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a rejected-transition result.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
