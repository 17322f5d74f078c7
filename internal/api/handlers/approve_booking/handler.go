package approve_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ServiceCenter/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceCenter/internal/api/middleware"
	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	"github.com/m04kA/SMC-ServiceCenter/internal/service/bookings"
)

const (
	msgInvalidBookingID  = "некорректный ID бронирования"
	msgMissingActor      = "отсутствует аутентифицированный пользователь"
	msgNotFound          = "бронирование не найдено"
	msgForbidden         = "доступ запрещен"
	msgInvalidTransition = "переход статуса недопустим"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/approve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/approve - Invalid booking ID: %v", err)
		handlers.RespondValidationError(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/approve - Missing actor in context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	booking, err := h.service.Approve(r.Context(), actor, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/approve - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, handlers.CodeBookingNotFound, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/approve - Access denied: booking_id=%d, actor=%d",
				bookingID, actor.SubjectID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, domain.ErrInvalidStatusTransition):
			h.logger.Warn("POST /bookings/{id}/approve - Invalid transition: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondBadRequest(w, handlers.CodeInvalidStatusTransition, msgInvalidTransition)

		default:
			h.logger.Error("POST /bookings/{id}/approve - Failed to approve: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/approve - Booking approved: booking_id=%d, actor=%d",
		bookingID, actor.SubjectID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
