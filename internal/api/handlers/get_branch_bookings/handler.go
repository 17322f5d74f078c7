package get_branch_bookings

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ServiceCenter/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceCenter/internal/api/middleware"
	"github.com/m04kA/SMC-ServiceCenter/internal/domain"
	"github.com/m04kA/SMC-ServiceCenter/internal/service/bookings"
	"github.com/m04kA/SMC-ServiceCenter/internal/service/bookings/models"
)

const (
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidStatus = "некорректный статус бронирования"
	msgMissingActor  = "отсутствует аутентифицированный пользователь"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/branches/{branchId}/bookings?status=&dateFrom=&dateTo=&includeInactive=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	branchID := vars["branchId"]

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /branches/{id}/bookings - Missing actor in context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	filter, err := h.parseFilter(branchID, r)
	if err != nil {
		h.logger.Warn("GET /branches/{id}/bookings - Invalid filter: %v", err)
		handlers.RespondValidationError(w, err.Error())
		return
	}

	result, err := h.service.ListByBranch(r.Context(), actor, filter)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /branches/{id}/bookings - Access denied: branch=%s, actor=%d",
				branchID, actor.SubjectID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /branches/{id}/bookings - Failed to list bookings: branch=%s, error=%v",
				branchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /branches/{id}/bookings - Retrieved %d bookings: branch=%s, actor=%d",
		result.Total, branchID, actor.SubjectID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) parseFilter(branchID string, r *http.Request) (domain.BranchBookingsFilter, error) {
	filter := domain.BranchBookingsFilter{BranchID: branchID}
	query := r.URL.Query()

	if s := query.Get("status"); s != "" {
		status, err := models.ToDomainBookingStatus(s)
		if err != nil {
			return filter, errors.New(msgInvalidStatus)
		}
		filter.Status = &status
	}

	if from := query.Get("dateFrom"); from != "" {
		parsed, err := time.Parse(domain.DateFormat, from)
		if err != nil {
			return filter, errors.New(msgInvalidDate)
		}
		filter.StartDate = &parsed
	}

	if to := query.Get("dateTo"); to != "" {
		parsed, err := time.Parse(domain.DateFormat, to)
		if err != nil {
			return filter, errors.New(msgInvalidDate)
		}
		filter.EndDate = &parsed
	}

	filter.IncludeInactive = query.Get("includeInactive") == "true"

	return filter, nil
}
