package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ServiceCenter/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceCenter/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-ServiceCenter/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidAppointment  = "некорректный формат времени записи, ожидается RFC3339"
	msgMissingActor        = "отсутствует аутентифицированный пользователь"
	msgServiceNotFound     = "услуга не найдена"
	msgCustomerNotFound    = "клиент не найден"
	msgCustomerIDRequired  = "для walk-in бронирования нужен ID клиента"
	msgSlotAlreadyBooked   = "выбранный слот уже занят"
	msgSlotLocked          = "выбранный слот удерживается другим запросом, повторите попытку"
	msgAppointmentInPast   = "время записи уже прошло"
	msgInvalidBookingInput = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing actor in context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondValidationError(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse appointment time: %v", err)
		handlers.RespondValidationError(w, msgInvalidAppointment)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, handlers.CodeServiceNotFound, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrCustomerNotFound):
			h.logger.Warn("POST /bookings - Customer not found: actor=%d", actor.SubjectID)
			handlers.RespondNotFound(w, handlers.CodeCustomerNotFound, msgCustomerNotFound)

		case errors.Is(err, createBooking.ErrCustomerIDRequired):
			h.logger.Warn("POST /bookings - Walk-in without customer id: actor=%d", actor.SubjectID)
			handlers.RespondBadRequest(w, handlers.CodeCustomerIDRequired, msgCustomerIDRequired)

		case errors.Is(err, createBooking.ErrSlotAlreadyBooked):
			h.logger.Warn("POST /bookings - Slot already booked: branch=%s, at=%s", req.BranchID, req.AppointmentAt)
			handlers.RespondConflict(w, handlers.CodeSlotAlreadyBooked, msgSlotAlreadyBooked)

		case errors.Is(err, createBooking.ErrSlotLocked):
			h.logger.Warn("POST /bookings - Slot locked: branch=%s, at=%s", req.BranchID, req.AppointmentAt)
			handlers.RespondConflict(w, handlers.CodeSlotLocked, msgSlotLocked)

		case errors.Is(err, createBooking.ErrAppointmentInPast):
			h.logger.Warn("POST /bookings - Appointment in past: at=%s", req.AppointmentAt)
			handlers.RespondValidationError(w, msgAppointmentInPast)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondValidationError(w, msgInvalidBookingInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: actor=%d, error=%v", actor.SubjectID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, actor=%d, status=%s",
		result.ID, actor.SubjectID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
