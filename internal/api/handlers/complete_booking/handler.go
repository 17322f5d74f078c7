package complete_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ServiceCenter/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceCenter/internal/api/middleware"
	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	completeBooking "github.com/m04kA/SMC-ServiceCenter/internal/usecase/complete_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingActor       = "отсутствует аутентифицированный пользователь"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgInvalidEmployee    = "сотрудник не найден или работает в другом филиале"
	msgInvalidTransition  = "переход статуса недопустим"
	msgInvalidInput       = "некорректные данные завершения"
)

type Handler struct {
	useCase CompleteBookingUseCase
	logger  Logger
}

func NewHandler(useCase CompleteBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/complete - Invalid booking ID: %v", err)
		handlers.RespondValidationError(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/complete - Missing actor in context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req CompleteBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/complete - Invalid request body: %v", err)
		handlers.RespondValidationError(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actor, bookingID))
	if err != nil {
		switch {
		case errors.Is(err, completeBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/complete - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, handlers.CodeBookingNotFound, msgNotFound)

		case errors.Is(err, completeBooking.ErrForbidden):
			h.logger.Warn("POST /bookings/{id}/complete - Access denied: booking_id=%d, actor=%d",
				bookingID, actor.SubjectID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, completeBooking.ErrInvalidEmployee):
			h.logger.Warn("POST /bookings/{id}/complete - Invalid employee: booking_id=%d, employee_id=%d",
				bookingID, req.PerformedByEmployeeID)
			handlers.RespondBadRequest(w, handlers.CodeInvalidEmployee, msgInvalidEmployee)

		case errors.Is(err, domain.ErrInvalidStatusTransition):
			h.logger.Warn("POST /bookings/{id}/complete - Invalid transition: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondBadRequest(w, handlers.CodeInvalidStatusTransition, msgInvalidTransition)

		case errors.Is(err, completeBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/complete - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondValidationError(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings/{id}/complete - Failed to complete: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/complete - Booking completed: booking_id=%d, actor=%d, transaction_id=%d",
		bookingID, actor.SubjectID, result.Transaction.ID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
