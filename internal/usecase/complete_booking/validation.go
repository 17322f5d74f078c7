package complete_booking

import (
	"fmt"

	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
)

func validateRequest(req *Request) error {
	if !req.Actor.Role.IsStaff() {
		return ErrForbidden
	}
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: booking id must be positive", ErrInvalidInput)
	}
	if req.FinalPrice < 0 {
		return fmt.Errorf("%w: final price must not be negative", ErrInvalidInput)
	}
	if req.PerformedByEmployeeID <= 0 {
		return fmt.Errorf("%w: performed by employee id must be positive", ErrInvalidInput)
	}
	if req.InternalNote != nil && len(*req.InternalNote) > domain.MaxReasonLength {
		return fmt.Errorf("%w: internal note is too long", ErrInvalidInput)
	}
	return nil
}
