package create_booking

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.Actor.SubjectID <= 0 {
		return fmt.Errorf("%w: actor subject id must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.BranchID == "" {
		return fmt.Errorf("%w: branchID is required", ErrInvalidInput)
	}

	if req.AppointmentAt.IsZero() {
		return fmt.Errorf("%w: appointmentAt is required", ErrInvalidInput)
	}

	if req.AppointmentAt.Before(now) {
		return ErrAppointmentInPast
	}

	return nil
}
