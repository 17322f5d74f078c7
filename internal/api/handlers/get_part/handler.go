package get_part

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ServiceCenter/internal/api/handlers"
	"github.com/m04kA/SMC-ServiceCenter/internal/api/middleware"
	partRepo "github.com/m04kA/SMC-ServiceCenter/internal/infra/storage/part"
)

const (
	msgInvalidPartID = "некорректный ID запчасти"
	msgMissingActor  = "отсутствует аутентифицированный пользователь"
	msgPartNotFound  = "запчасть не найдена"
	msgForbidden     = "доступ запрещен"
)

type Handler struct {
	parts  PartRepository
	logger Logger
}

func NewHandler(parts PartRepository, logger Logger) *Handler {
	return &Handler{
		parts:  parts,
		logger: logger,
	}
}

// Handle GET /api/v1/parts/{partId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	partID, err := strconv.ParseInt(vars["partId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /parts/{id} - Invalid part ID: %v", err)
		handlers.RespondValidationError(w, msgInvalidPartID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /parts/{id} - Missing actor in context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	// Склад видит только персонал
	if !actor.Role.IsStaff() {
		h.logger.Warn("GET /parts/{id} - Access denied: part_id=%d, actor=%d", partID, actor.SubjectID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	part, err := h.parts.GetByID(r.Context(), partID)
	if err != nil {
		switch {
		case errors.Is(err, partRepo.ErrPartNotFound):
			h.logger.Warn("GET /parts/{id} - Part not found: part_id=%d", partID)
			handlers.RespondNotFound(w, handlers.CodePartNotFound, msgPartNotFound)

		default:
			h.logger.Error("GET /parts/{id} - Failed to get part: part_id=%d, error=%v", partID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /parts/{id} - Part retrieved: part_id=%d, stock=%d", partID, part.StockQty)
	handlers.RespondJSON(w, http.StatusOK, FromDomainPart(part))
}
